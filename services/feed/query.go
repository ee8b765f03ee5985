// Package feed serves filtered, forward-only paginated task lists with owner
// nicknames attached. Continuation tokens live in per-session slots so that
// independent stateless requests can resume where the last page stopped.
package feed

import (
	"errors"
	"fmt"
	"strings"

	"helpexchange/model"
	"helpexchange/store"
)

var ErrInvalidCriteria = errors.New("invalid criteria")

type StatusGroup string

const (
	GroupNone      StatusGroup = ""
	GroupOpen      StatusGroup = "OPEN"
	GroupActive    StatusGroup = "ACTIVE"
	GroupCompleted StatusGroup = "COMPLETED"
)

func (g StatusGroup) statuses() ([]model.Status, error) {
	switch g {
	case GroupNone:
		return nil, nil
	case GroupOpen:
		return []model.Status{model.StatusOpen}, nil
	case GroupActive:
		return []model.Status{model.StatusOpen, model.StatusInProgress}, nil
	case GroupCompleted:
		return []model.Status{model.StatusComplete, model.StatusCompleteAwaitVerification}, nil
	}
	return nil, fmt.Errorf("%w: unknown status group %q", ErrInvalidCriteria, g)
}

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleHelper Role = "HELPER"
)

// ParseRole accepts the role keywords used on the wire, in any case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleHelper:
		return RoleHelper, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidCriteria, s)
}

func (r Role) field() (string, error) {
	switch r {
	case RoleOwner:
		return model.TaskFieldOwner, nil
	case RoleHelper:
		return model.TaskFieldHelper, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidCriteria, r)
}

type Location struct {
	Zipcode string
	Country string
}

type RoleFilter struct {
	Role Role
	ID   string
}

type Criteria struct {
	Location    *Location
	StatusGroup StatusGroup
	Role        *RoleFilter
	Category    string
}

// BuildQuery turns criteria into a task query sorted newest first. It does
// not set a cursor or limit.
func BuildQuery(c Criteria) (store.TaskQuery, error) {
	var and store.And

	if c.Role != nil {
		field, err := c.Role.Role.field()
		if err != nil {
			return store.TaskQuery{}, err
		}
		if c.Role.ID == "" {
			return store.TaskQuery{}, fmt.Errorf("%w: %s filter needs an identifier", ErrInvalidCriteria, c.Role.Role)
		}
		and = append(and, store.Eq{Field: field, Value: c.Role.ID})
	}

	statuses, err := c.StatusGroup.statuses()
	if err != nil {
		return store.TaskQuery{}, err
	}
	switch len(statuses) {
	case 0:
	case 1:
		and = append(and, store.Eq{Field: model.TaskFieldStatus, Value: string(statuses[0])})
	default:
		or := make(store.Or, 0, len(statuses))
		for _, s := range statuses {
			or = append(or, store.Eq{Field: model.TaskFieldStatus, Value: string(s)})
		}
		and = append(and, or)
	}

	if c.Category != "" {
		and = append(and, store.Eq{Field: model.TaskFieldCategory, Value: c.Category})
	}

	if c.Location != nil {
		if c.Location.Zipcode == "" || c.Location.Country == "" {
			return store.TaskQuery{}, fmt.Errorf("%w: location needs both zipcode and country", ErrInvalidCriteria)
		}
		and = append(and,
			store.Eq{Field: model.TaskFieldZipcode, Value: c.Location.Zipcode},
			store.Eq{Field: model.TaskFieldCountry, Value: c.Location.Country},
		)
	}

	q := store.TaskQuery{
		Sort: store.Sort{Field: model.TaskFieldTimestamp, Desc: true},
	}
	if len(and) > 0 {
		q.Filter = and
	}
	return q, nil
}
