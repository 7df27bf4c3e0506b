package ledger

import (
	"fmt"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/store"
)

// Gateway is the only read path for score handles.
type Gateway struct {
	scores     *store.Scores
	lifecycles *store.Lifecycles
	subsystem  fhe.Subsystem
}

// GetScore returns the encrypted score handle of the pair. The subject may
// always read it; the consumer only while permission is granted. Callers
// that are neither are refused before the score is looked up, so they learn
// nothing about whether one exists.
func (g *Gateway) GetScore(callerID, subjectID, consumerID string) (models.Handle, error) {
	if err := validatePair(subjectID, consumerID); err != nil {
		return "", err
	}

	switch callerID {
	case subjectID:
	case consumerID:
		lifecycle, err := g.lifecycles.Get(subjectID, consumerID)
		if err != nil {
			return "", err
		}
		if !lifecycle.Stage.Permitted() {
			return "", fmt.Errorf("%w: consumer has no permission to read this score", ErrUnauthorized)
		}
	default:
		return "", fmt.Errorf("%w: caller is neither subject nor permitted consumer", ErrUnauthorized)
	}

	score, err := g.scores.Get(subjectID, consumerID)
	if err != nil {
		return "", err
	}
	if score == nil {
		return "", fmt.Errorf("%w: subject %s to consumer %s", ErrNoScore, subjectID, consumerID)
	}
	return score.Score, nil
}

// GetStatus returns the lifecycle of the pair to its subject or consumer.
func (g *Gateway) GetStatus(callerID, subjectID, consumerID string) (*models.Lifecycle, error) {
	if err := validatePair(subjectID, consumerID); err != nil {
		return nil, err
	}
	if callerID != subjectID && callerID != consumerID {
		return nil, fmt.Errorf("%w: caller is neither subject nor consumer", ErrUnauthorized)
	}
	return g.lifecycles.Get(subjectID, consumerID)
}

// IsDecryptionAllowed tells a decryption oracle whether principal holds a
// decryption right on h.
func (g *Gateway) IsDecryptionAllowed(h models.Handle, principal string) (bool, error) {
	if err := h.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if principal == "" {
		return false, fmt.Errorf("%w: principal is required", ErrInvalidArgument)
	}
	return g.subsystem.IsAuthorized(h, principal)
}
