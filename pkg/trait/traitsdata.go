// SPDX-License-Identifier: Apache-2.0
// Package trait provides the trait-property container used to describe the
// shape of an entity or the intent of a query. A trait is a named facet of
// data; a trait set is an unordered collection of trait identifiers.
package trait

import (
	"fmt"
	"sort"
)

// ID names a single trait, e.g. "openassetio-mediacreation:content.LocatableContent".
type ID = string

// Set is an unordered collection of trait identifiers.
type Set map[ID]struct{}

// NewSet builds a Set from the given identifiers.
func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether the set contains id.
func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the members sorted lexicographically, for stable iteration.
func (s Set) IDs() []ID {
	ids := make([]ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// properties maps a property key to its value. Values are restricted to
// bool, int64, float64 and string.
type properties map[string]any

// TraitsData holds a set of traits and their property values. It is mutable
// and not safe for concurrent use; callers that share one across goroutines
// must copy it first. Compared by value via Equal.
type TraitsData struct {
	traits map[ID]properties
}

// NewTraitsData creates an empty TraitsData.
func NewTraitsData() *TraitsData {
	return &TraitsData{traits: make(map[ID]properties)}
}

// FromSet creates a TraitsData with the given traits imbued and no properties.
func FromSet(s Set) *TraitsData {
	d := NewTraitsData()
	for id := range s {
		d.AddTrait(id)
	}
	return d
}

// AddTrait imbues a trait. Adding an existing trait keeps its properties.
func (d *TraitsData) AddTrait(id ID) {
	if _, ok := d.traits[id]; !ok {
		d.traits[id] = make(properties)
	}
}

// HasTrait reports whether the trait is imbued.
func (d *TraitsData) HasTrait(id ID) bool {
	_, ok := d.traits[id]
	return ok
}

// TraitSet returns the imbued traits.
func (d *TraitsData) TraitSet() Set {
	s := make(Set, len(d.traits))
	for id := range d.traits {
		s[id] = struct{}{}
	}
	return s
}

// SetProperty sets a property on a trait, imbuing the trait if needed.
// Only bool, int64, float64 and string values are accepted.
func (d *TraitsData) SetProperty(id ID, key string, value any) error {
	switch value.(type) {
	case bool, int64, float64, string:
	default:
		return fmt.Errorf("trait property %q of %q: unsupported type %T", key, id, value)
	}
	d.AddTrait(id)
	d.traits[id][key] = value
	return nil
}

// Property returns the value of a trait property, if set.
func (d *TraitsData) Property(id ID, key string) (any, bool) {
	props, ok := d.traits[id]
	if !ok {
		return nil, false
	}
	v, ok := props[key]
	return v, ok
}

// PropertyKeys returns the sorted property keys of a trait.
func (d *TraitsData) PropertyKeys(id ID) []string {
	props, ok := d.traits[id]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Copy returns a deep copy, so mutating one side never affects the other.
func (d *TraitsData) Copy() *TraitsData {
	out := NewTraitsData()
	for id, props := range d.traits {
		out.traits[id] = make(properties, len(props))
		for k, v := range props {
			out.traits[id][k] = v
		}
	}
	return out
}

// Equal compares by value: same traits, same properties.
func (d *TraitsData) Equal(other *TraitsData) bool {
	if other == nil {
		return false
	}
	if len(d.traits) != len(other.traits) {
		return false
	}
	for id, props := range d.traits {
		otherProps, ok := other.traits[id]
		if !ok || len(props) != len(otherProps) {
			return false
		}
		for k, v := range props {
			if ov, ok := otherProps[k]; !ok || ov != v {
				return false
			}
		}
	}
	return true
}

// String renders the traits and properties in sorted order, for logs.
func (d *TraitsData) String() string {
	out := "TraitsData{"
	for i, id := range d.TraitSet().IDs() {
		if i > 0 {
			out += ", "
		}
		out += id
		if keys := d.PropertyKeys(id); len(keys) > 0 {
			out += "("
			for j, k := range keys {
				if j > 0 {
					out += ", "
				}
				v, _ := d.Property(id, k)
				out += fmt.Sprintf("%s=%v", k, v)
			}
			out += ")"
		}
	}
	return out + "}"
}
