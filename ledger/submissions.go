package ledger

import (
	"fmt"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/store"
)

// Submissions records the encrypted health data subjects submit to
// consumers. A pair accepts exactly one submission.
type Submissions struct {
	registry   *Registry
	records    *store.HealthRecords
	lifecycles *store.Lifecycles
	subsystem  fhe.Subsystem
	events     *Emitter
	tx         txInfo
}

// Submit ingests the twelve ciphertexts of subjectID for consumerID. Only the
// subject may submit their own data.
func (s *Submissions) Submit(
	callerID string,
	subjectID string,
	consumerID string,
	ciphertexts [models.MetricCount][]byte,
	proof []byte,
) (*models.HealthRecord, error) {
	if err := validatePair(subjectID, consumerID); err != nil {
		return nil, err
	}
	if callerID != subjectID {
		return nil, fmt.Errorf("%w: only the subject may submit health data", ErrUnauthorized)
	}

	registered, err := s.registry.IsRegistered(consumerID)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConsumer, consumerID)
	}

	lifecycle, err := s.lifecycles.Get(subjectID, consumerID)
	if err != nil {
		return nil, err
	}
	existing, err := s.records.Get(subjectID, consumerID)
	if err != nil {
		return nil, err
	}
	if lifecycle.Stage.Submitted() || existing != nil {
		return nil, fmt.Errorf("%w: subject %s to consumer %s", ErrAlreadySubmitted, subjectID, consumerID)
	}

	handles, err := s.subsystem.ValidateAndIngest(subjectID, ciphertexts, proof)
	if err != nil {
		return nil, err
	}
	if !handles.Complete() {
		return nil, fmt.Errorf("%w: subsystem returned incomplete handles", ErrInvalidCiphertext)
	}

	for _, h := range handles {
		for _, principal := range []string{subjectID, consumerID} {
			if err := s.subsystem.AuthorizeDecryption(h, principal); err != nil {
				return nil, fmt.Errorf("failed to authorize %s on metric handle: %w", principal, err)
			}
		}
	}

	record := models.NewHealthRecord(subjectID, consumerID, handles, s.tx.at)
	record.TxID = s.tx.id
	if err := s.records.Put(record); err != nil {
		return nil, err
	}

	lifecycle.Apply(models.ActionSubmit, s.tx.at, s.tx.id)
	if err := s.lifecycles.Put(lifecycle); err != nil {
		return nil, err
	}

	if err := s.events.HealthDataSubmitted(subjectID, consumerID); err != nil {
		return nil, err
	}
	return record, nil
}

// IsSubmitted reports whether subjectID submitted data to consumerID.
func (s *Submissions) IsSubmitted(subjectID, consumerID string) (bool, error) {
	if err := validatePair(subjectID, consumerID); err != nil {
		return false, err
	}
	lifecycle, err := s.lifecycles.Get(subjectID, consumerID)
	if err != nil {
		return false, err
	}
	return lifecycle.Stage.Submitted(), nil
}
