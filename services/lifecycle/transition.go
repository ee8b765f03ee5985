package lifecycle

import (
	"errors"
	"fmt"

	"helpexchange/model"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Event is something a participant does to a task.
type Event string

const (
	EventAccept     Event = "accept"
	EventComplete   Event = "complete"
	EventVerify     Event = "verify"
	EventDisapprove Event = "disapprove"
	EventAbandon    Event = "abandon"
)

type transition struct {
	from []model.Status
	to   model.Status
}

var transitions = map[Event]transition{
	EventAccept: {
		from: []model.Status{model.StatusOpen},
		to:   model.StatusInProgress,
	},
	EventComplete: {
		from: []model.Status{model.StatusInProgress},
		to:   model.StatusCompleteAwaitVerification,
	},
	EventVerify: {
		from: []model.Status{model.StatusCompleteAwaitVerification},
		to:   model.StatusComplete,
	},
	EventDisapprove: {
		from: []model.Status{model.StatusCompleteAwaitVerification},
		to:   model.StatusInProgress,
	},
	EventAbandon: {
		from: []model.Status{model.StatusInProgress, model.StatusCompleteAwaitVerification},
		to:   model.StatusOpen,
	},
}

// Next returns the status a task moves to when ev happens in status current.
func Next(current model.Status, ev Event) (model.Status, error) {
	tr, ok := transitions[ev]
	if !ok {
		return "", fmt.Errorf("%w: unknown event %q", ErrInvalidTransition, ev)
	}
	for _, s := range tr.from {
		if s == current {
			return tr.to, nil
		}
	}
	return "", fmt.Errorf("%w: cannot %s a task that is %s", ErrInvalidTransition, ev, current)
}
