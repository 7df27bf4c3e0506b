package store

import (
	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/utils"
)

// HealthRecords stores submitted metric handles per (subject, consumer).
type HealthRecords struct {
	state State
}

// NewHealthRecords returns the health record store over state
func NewHealthRecords(state State) *HealthRecords {
	return &HealthRecords{state: state}
}

// Get returns the record, or nil when nothing was submitted.
func (s *HealthRecords) Get(subjectID, consumerID string) (*models.HealthRecord, error) {
	key, err := utils.CreateHealthRecordKey(s.state, subjectID, consumerID)
	if err != nil {
		return nil, err
	}
	return getJSON[models.HealthRecord](s.state, key, "health record")
}

// Put stores the record.
func (s *HealthRecords) Put(record *models.HealthRecord) error {
	key, err := utils.CreateHealthRecordKey(s.state, record.SubjectID, record.ConsumerID)
	if err != nil {
		return err
	}
	return putJSON(s.state, key, "health record", record)
}

// Scores stores computed score handles per (subject, consumer).
type Scores struct {
	state State
}

// NewScores returns the score store over state
func NewScores(state State) *Scores {
	return &Scores{state: state}
}

// Get returns the score record, or nil when no score was computed.
func (s *Scores) Get(subjectID, consumerID string) (*models.ScoreRecord, error) {
	key, err := utils.CreateScoreKey(s.state, subjectID, consumerID)
	if err != nil {
		return nil, err
	}
	return getJSON[models.ScoreRecord](s.state, key, "score record")
}

// Put stores the score record.
func (s *Scores) Put(record *models.ScoreRecord) error {
	key, err := utils.CreateScoreKey(s.state, record.SubjectID, record.ConsumerID)
	if err != nil {
		return err
	}
	return putJSON(s.state, key, "score record", record)
}

// Lifecycles stores the stage of every (subject, consumer) pair.
type Lifecycles struct {
	state State
}

// NewLifecycles returns the lifecycle store over state
func NewLifecycles(state State) *Lifecycles {
	return &Lifecycles{state: state}
}

// Get returns the pair lifecycle. Pairs never written are Unsubmitted.
func (s *Lifecycles) Get(subjectID, consumerID string) (*models.Lifecycle, error) {
	key, err := utils.CreateLifecycleKey(s.state, subjectID, consumerID)
	if err != nil {
		return nil, err
	}
	lifecycle, err := getJSON[models.Lifecycle](s.state, key, "lifecycle")
	if err != nil {
		return nil, err
	}
	if lifecycle == nil {
		return models.NewLifecycle(subjectID, consumerID), nil
	}
	return lifecycle, nil
}

// Put stores the lifecycle.
func (s *Lifecycles) Put(lifecycle *models.Lifecycle) error {
	key, err := utils.CreateLifecycleKey(s.state, lifecycle.SubjectID, lifecycle.ConsumerID)
	if err != nil {
		return err
	}
	return putJSON(s.state, key, "lifecycle", lifecycle)
}
