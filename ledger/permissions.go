package ledger

import (
	"fmt"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/store"
)

// Permissions is the subject-controlled ledger of which consumer may read
// the score of a pair.
type Permissions struct {
	scores     *store.Scores
	lifecycles *store.Lifecycles
	subsystem  fhe.Subsystem
	events     *Emitter
	tx         txInfo
}

// Grant lets consumerID read the score of subjectID and authorizes the
// consumer on the score handle.
func (p *Permissions) Grant(callerID, subjectID, consumerID string) error {
	if err := validatePair(subjectID, consumerID); err != nil {
		return err
	}
	if callerID != subjectID {
		return fmt.Errorf("%w: only the subject may grant permission", ErrUnauthorized)
	}

	lifecycle, err := p.lifecycles.Get(subjectID, consumerID)
	if err != nil {
		return err
	}
	if !lifecycle.Stage.Computed() {
		return fmt.Errorf("%w: subject %s to consumer %s", ErrScoreNotComputed, subjectID, consumerID)
	}
	score, err := p.scores.Get(subjectID, consumerID)
	if err != nil {
		return err
	}
	if score == nil {
		return fmt.Errorf("%w: subject %s to consumer %s", ErrScoreNotComputed, subjectID, consumerID)
	}

	if err := p.subsystem.AuthorizeDecryption(score.Score, consumerID); err != nil {
		return fmt.Errorf("failed to authorize consumer on score handle: %w", err)
	}

	lifecycle.Apply(models.ActionGrant, p.tx.at, p.tx.id)
	if err := p.lifecycles.Put(lifecycle); err != nil {
		return err
	}
	return p.events.PermissionGranted(subjectID, consumerID)
}

// Revoke withdraws consumerID's permission. Revoking a permission that was
// never granted succeeds without changing state.
//
// Revocation is logical: the gateway stops serving the handle and the
// subsystem drops the consumer's decryption right, but plaintext the consumer
// decrypted earlier cannot be recalled.
func (p *Permissions) Revoke(callerID, subjectID, consumerID string) error {
	if err := validatePair(subjectID, consumerID); err != nil {
		return err
	}
	if callerID != subjectID {
		return fmt.Errorf("%w: only the subject may revoke permission", ErrUnauthorized)
	}

	lifecycle, err := p.lifecycles.Get(subjectID, consumerID)
	if err != nil {
		return err
	}

	if lifecycle.Stage.Computed() {
		score, err := p.scores.Get(subjectID, consumerID)
		if err != nil {
			return err
		}
		if score != nil {
			if err := p.subsystem.RevokeDecryption(score.Score, consumerID); err != nil {
				return fmt.Errorf("failed to revoke consumer on score handle: %w", err)
			}
		}

		lifecycle.Apply(models.ActionRevoke, p.tx.at, p.tx.id)
		if err := p.lifecycles.Put(lifecycle); err != nil {
			return err
		}
	}

	return p.events.PermissionRevoked(subjectID, consumerID)
}

// HasPermission reports whether consumerID may currently read the score.
func (p *Permissions) HasPermission(subjectID, consumerID string) (bool, error) {
	if err := validatePair(subjectID, consumerID); err != nil {
		return false, err
	}
	lifecycle, err := p.lifecycles.Get(subjectID, consumerID)
	if err != nil {
		return false, err
	}
	return lifecycle.Stage.Permitted(), nil
}
