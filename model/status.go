package model

import "fmt"

type Status string

const (
	StatusOpen                      Status = "OPEN"
	StatusInProgress                Status = "IN_PROGRESS"
	StatusCompleteAwaitVerification Status = "COMPLETE_AWAIT_VERIFICATION"
	StatusComplete                  Status = "COMPLETE"
)

var statuses = []Status{
	StatusOpen,
	StatusInProgress,
	StatusCompleteAwaitVerification,
	StatusComplete,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown task status %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusComplete
}
