// Package wizard models the upload-extract-review flow as a finite state machine.
package wizard

import (
	"errors"
	"fmt"
)

// State is a step of the extraction wizard.
type State string

const (
	StateIdle       State = "idle"
	StatePreview    State = "preview"
	StateProcessing State = "processing"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// Event drives a transition between states.
type Event string

const (
	EventSelect  Event = "select"
	EventSubmit  Event = "submit"
	EventSucceed Event = "succeed"
	EventFail    Event = "fail"
	EventReset   Event = "reset"
)

// ErrInvalidTransition is returned for an event the current state does not accept.
var ErrInvalidTransition = errors.New("invalid wizard transition")

type edge struct {
	from  State
	event Event
}

var transitions = map[edge]State{
	{StateIdle, EventSelect}:        StatePreview,
	{StateError, EventSelect}:       StatePreview,
	{StatePreview, EventSubmit}:     StateProcessing,
	{StateError, EventSubmit}:       StateProcessing,
	{StateProcessing, EventSucceed}: StateSuccess,
	{StateProcessing, EventFail}:    StateError,
	{StatePreview, EventReset}:      StateIdle,
	{StateError, EventReset}:        StateIdle,
	{StateSuccess, EventReset}:      StateIdle,
}

// Transition returns the state reached from s on event e.
func Transition(s State, e Event) (State, error) {
	next, ok := transitions[edge{s, e}]
	if !ok {
		return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s)
	}
	return next, nil
}

// CanSubmit reports whether an extraction may start from s.
func CanSubmit(s State) bool {
	_, ok := transitions[edge{s, EventSubmit}]
	return ok
}
