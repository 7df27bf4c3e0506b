package contracts

import (
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/sirupsen/logrus"
)

// ScoringContract provides functions for computing encrypted risk scores
type ScoringContract struct {
	contractapi.Contract
	rt *runtime
}

// ComputeRiskScore computes the risk score of a submitted pair. Any caller
// may trigger it; the caller is recorded on the score.
func (sc *ScoringContract) ComputeRiskScore(ctx contractapi.TransactionContextInterface, subjectID string, consumerID string) error {
	tx, err := sc.rt.open(ctx, "ComputeRiskScore")
	if err != nil {
		return err
	}

	score, err := tx.ledger.Scoring.Compute(tx.callerID, subjectID, consumerID)
	fields := pairFields(subjectID, consumerID)
	if score != nil {
		fields["modelVersion"] = score.ModelVersion
		fields["triggeredBySubject"] = tx.callerID == subjectID
	}
	return tx.done(err, fields)
}

// IsComputed returns true when the pair has a risk score
func (sc *ScoringContract) IsComputed(ctx contractapi.TransactionContextInterface, subjectID string, consumerID string) (bool, error) {
	tx, err := sc.rt.open(ctx, "IsComputed")
	if err != nil {
		return false, err
	}

	computed, err := tx.ledger.Scoring.IsComputed(subjectID, consumerID)
	return computed, tx.query(err, logrus.Fields{"subject": subjectID, "consumer": consumerID})
}
