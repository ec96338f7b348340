package applications

import "slices"

// Status is the review state of a campaign application.
type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

var transitions = map[Status][]Status{
	StatusSubmitted:   {StatusUnderReview},
	StatusUnderReview: {StatusApproved, StatusRejected},
	StatusApproved:    {},
	StatusRejected:    {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether to is reachable from s.
// A patch that restates the current status is a no-op and is allowed.
func (s Status) CanTransition(to Status) bool {
	if s == to {
		return true
	}
	return slices.Contains(transitions[s], to)
}
