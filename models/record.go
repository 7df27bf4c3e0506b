package models

import (
	"time"
)

// HealthRecord holds the encrypted metrics a subject submitted to one
// consumer. It is written once and never updated.
type HealthRecord struct {
	SubjectID   string        `json:"subjectId"`
	ConsumerID  string        `json:"consumerId"`
	Metrics     MetricHandles `json:"metrics"`
	SubmittedAt time.Time     `json:"submittedAt"`
	TxID        string        `json:"txId"`
	ObjectType  string        `json:"objectType"`
}

// ScoreRecord holds the encrypted risk score computed from a HealthRecord.
type ScoreRecord struct {
	SubjectID    string    `json:"subjectId"`
	ConsumerID   string    `json:"consumerId"`
	Score        Handle    `json:"score"`
	ModelVersion string    `json:"modelVersion"`
	ComputedAt   time.Time `json:"computedAt"`
	ComputedBy   string    `json:"computedBy"`
	TxID         string    `json:"txId"`
	ObjectType   string    `json:"objectType"`
}

// NewHealthRecord creates a health record for the (subject, consumer) pair
func NewHealthRecord(subjectID, consumerID string, metrics MetricHandles, submittedAt time.Time) *HealthRecord {
	return &HealthRecord{
		SubjectID:   subjectID,
		ConsumerID:  consumerID,
		Metrics:     metrics,
		SubmittedAt: submittedAt,
		ObjectType:  ObjectTypeHealthRecord,
	}
}

// NewScoreRecord creates a score record for the (subject, consumer) pair
func NewScoreRecord(subjectID, consumerID string, score Handle, computedAt time.Time) *ScoreRecord {
	return &ScoreRecord{
		SubjectID:  subjectID,
		ConsumerID: consumerID,
		Score:      score,
		ComputedAt: computedAt,
		ObjectType: ObjectTypeScoreRecord,
	}
}
