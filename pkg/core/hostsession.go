// SPDX-License-Identifier: Apache-2.0
package core

import (
	"log/slog"

	"github.com/google/uuid"
)

// HostInterface identifies the host application to managers. Host authors
// implement this once per embedding application.
type HostInterface interface {
	// Identifier returns the reverse-DNS identifier of the host tool.
	Identifier() string

	// DisplayName returns a human-readable host name for manager UIs.
	DisplayName() string

	// Info returns optional descriptive key/value pairs about the host.
	Info() map[string]any
}

// Host wraps a HostInterface for presentation to manager implementations.
// Managers receive a Host (via the HostSession) rather than the raw
// HostInterface so the middleware keeps a stable seam between the two.
type Host struct {
	impl HostInterface
}

// NewHost wraps a host implementation.
func NewHost(impl HostInterface) *Host {
	return &Host{impl: impl}
}

// Identifier returns the host tool's identifier.
func (h *Host) Identifier() string { return h.impl.Identifier() }

// DisplayName returns the host tool's display name.
func (h *Host) DisplayName() string { return h.impl.DisplayName() }

// Info returns the host tool's descriptive info.
func (h *Host) Info() map[string]any { return h.impl.Info() }

// HostSession couples the host identity with a logger, and is threaded
// through every manager call so the manager can identify its caller and emit
// diagnostics. Immutable after creation; shared by reference for the life of
// a session.
type HostSession struct {
	id     string
	host   *Host
	logger *slog.Logger
}

// NewHostSession creates a session for the given host. A nil logger falls
// back to slog.Default.
func NewHostSession(host *Host, logger *slog.Logger) *HostSession {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &HostSession{
		id:     id,
		host:   host,
		logger: logger.With("session_id", id),
	}
}

// ID returns the unique id of this session.
func (s *HostSession) ID() string { return s.id }

// Host returns the host identity for this session.
func (s *HostSession) Host() *Host { return s.host }

// Logger returns the session logger managers should emit diagnostics to.
func (s *HostSession) Logger() *slog.Logger { return s.logger }
