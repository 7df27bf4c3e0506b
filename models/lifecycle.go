package models

import (
	"time"
)

// Stage is the lifecycle position of a (subject, consumer) pair. It replaces
// separate submitted/computed/permission flags, so combinations such as
// "computed but never submitted" cannot be stored.
type Stage string

// Lifecycle stages
const (
	StageUnsubmitted Stage = "UNSUBMITTED"
	StageSubmitted   Stage = "SUBMITTED"
	StageComputed    Stage = "COMPUTED"
	StageGranted     Stage = "GRANTED"
	StageRevoked     Stage = "REVOKED"
)

// Action is a state-changing operation on a pair.
type Action string

// Lifecycle actions
const (
	ActionSubmit  Action = "submit"
	ActionCompute Action = "compute"
	ActionGrant   Action = "grant"
	ActionRevoke  Action = "revoke"
)

// Submitted reports whether health data exists for the pair.
func (s Stage) Submitted() bool {
	switch s {
	case StageSubmitted, StageComputed, StageGranted, StageRevoked:
		return true
	}
	return false
}

// Computed reports whether a score exists for the pair.
func (s Stage) Computed() bool {
	switch s {
	case StageComputed, StageGranted, StageRevoked:
		return true
	}
	return false
}

// Permitted reports whether the consumer may currently read the score.
func (s Stage) Permitted() bool {
	return s == StageGranted
}

// Next returns the stage reached by applying a to s. The second result is
// false when a is not allowed from s.
func (s Stage) Next(a Action) (Stage, bool) {
	switch a {
	case ActionSubmit:
		if s == StageUnsubmitted {
			return StageSubmitted, true
		}
	case ActionCompute:
		if s == StageSubmitted {
			return StageComputed, true
		}
	case ActionGrant:
		if s.Computed() {
			return StageGranted, true
		}
	case ActionRevoke:
		if s == StageGranted {
			return StageRevoked, true
		}
		// revoking a permission that was never granted leaves the stage alone
		return s, true
	}
	return s, false
}

// Lifecycle tracks the stage of one (subject, consumer) pair.
type Lifecycle struct {
	SubjectID           string     `json:"subjectId"`
	ConsumerID          string     `json:"consumerId"`
	Stage               Stage      `json:"stage"`
	SubmittedAt         *time.Time `json:"submittedAt,omitempty"`
	ComputedAt          *time.Time `json:"computedAt,omitempty"`
	PermissionUpdatedAt *time.Time `json:"permissionUpdatedAt,omitempty"`
	LastTxID            string     `json:"lastTxId,omitempty"`
	ObjectType          string     `json:"objectType"`
}

// NewLifecycle returns the initial lifecycle of a pair
func NewLifecycle(subjectID, consumerID string) *Lifecycle {
	return &Lifecycle{
		SubjectID:  subjectID,
		ConsumerID: consumerID,
		Stage:      StageUnsubmitted,
		ObjectType: ObjectTypeLifecycle,
	}
}

// Apply moves the lifecycle along a and stamps the matching timestamp. It
// reports false, leaving l untouched, when a is not allowed.
func (l *Lifecycle) Apply(a Action, at time.Time, txID string) bool {
	next, ok := l.Stage.Next(a)
	if !ok {
		return false
	}

	l.Stage = next
	l.LastTxID = txID
	switch a {
	case ActionSubmit:
		l.SubmittedAt = &at
	case ActionCompute:
		l.ComputedAt = &at
	case ActionGrant, ActionRevoke:
		l.PermissionUpdatedAt = &at
	}
	return true
}
