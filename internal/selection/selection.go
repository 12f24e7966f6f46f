// Package selection is the caller-side command state of an editing
// screen: which entity is selected and which commands are available.
// The engine never holds this state. It is meant for interactive front
// ends of the HTTP API, which keep one Editor per entity list and feed it
// the outcome of each save or delete.
package selection

import (
	"sportcenter/internal/facility"
)

// State of an Editor.
type State int

const (
	NoSelection State = iota
	EditingNew
	EditingExisting
)

func (s State) String() string {
	switch s {
	case EditingNew:
		return "editing_new"
	case EditingExisting:
		return "editing_existing"
	default:
		return "no_selection"
	}
}

// Entity is anything that knows whether it has been persisted.
type Entity interface {
	IsNew() bool
}

// Editor tracks the entity being edited.
type Editor[T Entity] struct {
	state   State
	current T
}

// New starts editing a draft.
func (e *Editor[T]) New(draft T) {
	e.current = draft
	e.state = EditingNew
}

// Select starts editing item. Selecting an unpersisted item is the same
// as New.
func (e *Editor[T]) Select(item T) {
	e.current = item
	if item.IsNew() {
		e.state = EditingNew
		return
	}
	e.state = EditingExisting
}

// Clear drops the selection.
func (e *Editor[T]) Clear() {
	var zero T
	e.current = zero
	e.state = NoSelection
}

func (e *Editor[T]) State() State { return e.state }

// Current returns the entity being edited and whether there is one.
func (e *Editor[T]) Current() (T, bool) {
	return e.current, e.state != NoSelection
}

// Edit replaces the working copy without changing the state.
func (e *Editor[T]) Edit(fn func(*T)) {
	if e.state == NoSelection {
		return
	}
	fn(&e.current)
}

// CanSave is true while anything is being edited.
func (e *Editor[T]) CanSave() bool { return e.state != NoSelection }

// CanDelete is true only while editing a persisted entity.
func (e *Editor[T]) CanDelete() bool { return e.state == EditingExisting }

// Apply moves the editor after an operation finished with outcome. Saved
// and deleted clear the selection; every rejection keeps editing so the
// caller can correct the candidate.
func (e *Editor[T]) Apply(outcome facility.Outcome) {
	switch outcome.Kind {
	case facility.OutcomeSaved, facility.OutcomeDeleted:
		e.Clear()
	}
}
