package ledger

import (
	"fmt"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/store"
)

// Scoring orchestrates the one-time risk score computation of a pair.
type Scoring struct {
	records    *store.HealthRecords
	scores     *store.Scores
	lifecycles *store.Lifecycles
	subsystem  fhe.Subsystem
	events     *Emitter
	tx         txInfo
}

// Compute derives the encrypted risk score for the pair. Any caller may
// trigger it once data exists; the caller is recorded on the score.
func (s *Scoring) Compute(callerID, subjectID, consumerID string) (*models.ScoreRecord, error) {
	if err := validatePair(subjectID, consumerID); err != nil {
		return nil, err
	}

	lifecycle, err := s.lifecycles.Get(subjectID, consumerID)
	if err != nil {
		return nil, err
	}
	if !lifecycle.Stage.Submitted() {
		return nil, fmt.Errorf("%w: subject %s to consumer %s", ErrNoHealthData, subjectID, consumerID)
	}
	if lifecycle.Stage.Computed() {
		return nil, fmt.Errorf("%w: subject %s to consumer %s", ErrAlreadyComputed, subjectID, consumerID)
	}

	record, err := s.records.Get(subjectID, consumerID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: subject %s to consumer %s", ErrNoHealthData, subjectID, consumerID)
	}

	handle, err := s.subsystem.ComputeRiskScore(record.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to compute risk score: %w", err)
	}

	// the chaincode keeps a right on the score so it can re-authorize it on grant
	for _, principal := range []string{fhe.SelfPrincipal, subjectID} {
		if err := s.subsystem.AuthorizeDecryption(handle, principal); err != nil {
			return nil, fmt.Errorf("failed to authorize %s on score handle: %w", principal, err)
		}
	}

	score := models.NewScoreRecord(subjectID, consumerID, handle, s.tx.at)
	score.ModelVersion = s.subsystem.ModelVersion()
	score.ComputedBy = callerID
	score.TxID = s.tx.id
	if err := s.scores.Put(score); err != nil {
		return nil, err
	}

	lifecycle.Apply(models.ActionCompute, s.tx.at, s.tx.id)
	if err := s.lifecycles.Put(lifecycle); err != nil {
		return nil, err
	}

	if err := s.events.RiskScoreComputed(subjectID, consumerID); err != nil {
		return nil, err
	}
	return score, nil
}

// IsComputed reports whether the pair has a score.
func (s *Scoring) IsComputed(subjectID, consumerID string) (bool, error) {
	if err := validatePair(subjectID, consumerID); err != nil {
		return false, err
	}
	lifecycle, err := s.lifecycles.Get(subjectID, consumerID)
	if err != nil {
		return false, err
	}
	return lifecycle.Stage.Computed(), nil
}
