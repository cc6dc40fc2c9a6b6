// Package undo holds the single pending-delete slot. A deleted task sits
// here, detached from the day store, until the user restores it or the
// deadline finalizes the deletion.
package undo

import (
	"time"

	"xpdash/internal/model"
)

// Pending is a task awaiting permanent deletion. TimerID names the scheduler
// timer armed for the deadline so it can be cancelled on restore.
type Pending struct {
	Task     model.Task
	Deadline time.Time
	TimerID  string
}

// Manager owns at most one pending deletion system-wide.
type Manager struct {
	pending *Pending
}

// Stage records a new pending deletion. If a deletion was already pending it
// is evicted and returned: the caller must finalize it immediately, since
// only one undo slot exists.
func (m *Manager) Stage(task model.Task, deadline time.Time, timerID string) (Pending, bool) {
	evicted := m.pending
	m.pending = &Pending{Task: task, Deadline: deadline, TimerID: timerID}
	if evicted == nil {
		return Pending{}, false
	}
	return *evicted, true
}

// Take removes and returns the pending deletion for restoration. Returns
// false when nothing is pending, which callers report as a harmless no-op.
func (m *Manager) Take() (Pending, bool) {
	if m.pending == nil {
		return Pending{}, false
	}
	p := *m.pending
	m.pending = nil
	return p, true
}

// Expire finalizes the pending deletion identified by timerID. A stale timer
// (slot already restored or replaced) is ignored.
func (m *Manager) Expire(timerID string) (Pending, bool) {
	if m.pending == nil || m.pending.TimerID != timerID {
		return Pending{}, false
	}
	p := *m.pending
	m.pending = nil
	return p, true
}

// Clear unconditionally drops the slot, finalizing whatever is pending.
// Used at shutdown.
func (m *Manager) Clear() (Pending, bool) {
	return m.Take()
}

// Pending returns the current slot without clearing it.
func (m *Manager) Pending() (Pending, bool) {
	if m.pending == nil {
		return Pending{}, false
	}
	return *m.pending, true
}
