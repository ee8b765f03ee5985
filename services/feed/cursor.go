package feed

import (
	"context"
	"errors"
	"fmt"

	"helpexchange/store"
)

var ErrInvalidCursorAction = errors.New("invalid cursor action")

// Action is the navigation token a client sends with a list request.
type Action string

const (
	ActionNone  Action = ""
	ActionClear Action = "clear"
	ActionStart Action = "start"
	ActionEnd   Action = "end"
)

func (a Action) Valid() bool {
	switch a {
	case ActionNone, ActionClear, ActionStart, ActionEnd:
		return true
	}
	return false
}

// List names a paginated list. Every list keeps its own cursor slot.
type List string

const (
	ListFeed   List = "feed"
	ListOwned  List = "owned"
	ListHelped List = "helped"
)

const (
	fieldStart = "start"
	fieldEnd   = "end"
)

// CursorState is the continuation state remembered for one list of one
// session. Empty strings mean absent.
type CursorState struct {
	Start string
	End   string
}

// ResolveStart picks the cursor the next fetch starts from. fromEnd reports
// whether it was taken from the end slot.
func ResolveStart(action Action, state CursorState) (start string, fromEnd bool, next CursorState, err error) {
	switch action {
	case ActionNone, ActionClear:
		return "", false, CursorState{}, nil
	case ActionStart:
		return state.Start, false, state, nil
	case ActionEnd:
		return state.End, true, state, nil
	}
	return "", false, state, fmt.Errorf("%w: %q", ErrInvalidCursorAction, action)
}

// Commit records the outcome of a fetch. A page reached through the end slot
// becomes the new start so it can be replayed.
func Commit(continuation, start string, fromEnd bool, state CursorState) CursorState {
	if fromEnd {
		state.Start = start
	}
	state.End = continuation
	return state
}

// CursorManager persists CursorState through the session store.
type CursorManager struct {
	sessions store.SessionStore
}

func NewCursorManager(sessions store.SessionStore) *CursorManager {
	return &CursorManager{sessions: sessions}
}

func (m *CursorManager) Load(ctx context.Context, session string, list List) (CursorState, error) {
	var state CursorState
	start, _, err := m.sessions.GetSessionField(ctx, session, string(list), fieldStart)
	if err != nil {
		return state, err
	}
	end, _, err := m.sessions.GetSessionField(ctx, session, string(list), fieldEnd)
	if err != nil {
		return state, err
	}
	state.Start, state.End = start, end
	return state, nil
}

func (m *CursorManager) Save(ctx context.Context, session string, list List, state CursorState) error {
	if state == (CursorState{}) {
		return m.sessions.ClearSession(ctx, session, string(list))
	}
	if err := m.sessions.SetSessionField(ctx, session, string(list), fieldStart, state.Start); err != nil {
		return err
	}
	return m.sessions.SetSessionField(ctx, session, string(list), fieldEnd, state.End)
}

// Resolve loads the list's state, applies the action and persists the cleared
// state when the action resets pagination.
func (m *CursorManager) Resolve(ctx context.Context, session string, list List, action Action) (start string, fromEnd bool, state CursorState, err error) {
	if !action.Valid() {
		return "", false, state, fmt.Errorf("%w: %q", ErrInvalidCursorAction, action)
	}
	current, err := m.Load(ctx, session, list)
	if err != nil {
		return "", false, state, err
	}
	start, fromEnd, state, err = ResolveStart(action, current)
	if err != nil {
		return "", false, current, err
	}
	if state != current {
		if err := m.Save(ctx, session, list, state); err != nil {
			return "", false, state, err
		}
	}
	return start, fromEnd, state, nil
}

func (m *CursorManager) Commit(ctx context.Context, session string, list List, continuation, start string, fromEnd bool, state CursorState) (CursorState, error) {
	next := Commit(continuation, start, fromEnd, state)
	return next, m.Save(ctx, session, list, next)
}
