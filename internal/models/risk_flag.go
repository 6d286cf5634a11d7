package models

import (
	"time"

	"github.com/lib/pq"
)

// FlagStatus is the review state of a risk flag.
type FlagStatus string

const (
	FlagOpen     FlagStatus = "open"
	FlagInReview FlagStatus = "in_review"
	FlagResolved FlagStatus = "resolved"
)

func (s FlagStatus) Valid() bool {
	switch s {
	case FlagOpen, FlagInReview, FlagResolved:
		return true
	}
	return false
}

// CanTransitionTo reports whether a counselor may move a flag from s to target.
// Reopening and direct resolution are always allowed; in_review is only
// reachable from open.
func (s FlagStatus) CanTransitionTo(target FlagStatus) bool {
	switch target {
	case FlagOpen, FlagResolved:
		return true
	case FlagInReview:
		return s == FlagOpen
	}
	return false
}

// RiskFlag links a flagged user message to the user for counselor review.
// Severity is frozen at creation time from the triggering message and is
// never re-derived.
type RiskFlag struct {
	ID         int64          `db:"id" json:"id"`
	UserID     int64          `db:"user_id" json:"user_id"`
	MessageID  int64          `db:"message_id" json:"message_id"`
	Tags       pq.StringArray `db:"tags" json:"tags"`
	Severity   Severity       `db:"severity" json:"severity"`
	Status     FlagStatus     `db:"status" json:"status"`
	ReviewedBy *string        `db:"reviewed_by" json:"reviewed_by,omitempty"`
	Notes      *string        `db:"notes" json:"notes,omitempty"`
	ResolvedAt *time.Time     `db:"resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}
