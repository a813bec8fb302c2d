package models

import "strings"

// Status is the review state of an onboarding or offboarding submission.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusActive   Status = "Active"
	StatusRejected Status = "Rejected"
)

// Statuses lists every accepted status value.
var Statuses = []Status{StatusPending, StatusActive, StatusRejected}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected:
		return true
	default:
		return false
	}
}

// ParseStatus accepts an exact status value after trimming spaces.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.TrimSpace(raw))
	return s, s.Valid()
}

// StatusNames joins the accepted values for error messages.
func StatusNames() string {
	names := make([]string, len(Statuses))
	for i, s := range Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
