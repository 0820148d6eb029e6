package app

import (
	"github.com/zhubert/parley/internal/logger"
)

// SyncState is the selection synchronizer's mode.
type SyncState int

const (
	SyncIdle    SyncState = iota // selection handlers propagate changes
	SyncSyncing                  // selection handlers are inert
)

// String returns a human-readable name for the state
func (s SyncState) String() string {
	switch s {
	case SyncIdle:
		return "Idle"
	case SyncSyncing:
		return "Syncing"
	default:
		return "Unknown"
	}
}

// Synchronizer guards programmatic selection changes so the tree's
// selection handler does not feed them back into the tab strip.
type Synchronizer struct {
	state SyncState
}

// State returns the current mode.
func (s *Synchronizer) State() SyncState {
	return s.state
}

// Syncing reports whether a programmatic change is in progress.
func (s *Synchronizer) Syncing() bool {
	return s.state == SyncSyncing
}

// Programmatic runs fn in the Syncing state. The previous state is restored
// when fn returns or panics, so nested calls leave the outer region intact.
// fn must not block on anything delivered by the event loop.
func (s *Synchronizer) Programmatic(fn func()) {
	prev := s.state
	s.state = SyncSyncing
	defer func() {
		s.state = prev
		logger.WithComponent("sync").Debug("programmatic selection done", "state", prev.String())
	}()
	fn()
}
