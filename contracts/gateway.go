package contracts

import (
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/sirupsen/logrus"

	"github.com/haven-health-passport/chaincode/risk-scores/models"
)

// GatewayContract serves encrypted scores to authorized callers
type GatewayContract struct {
	contractapi.Contract
	rt *runtime
}

// GetScore returns the encrypted score handle to the subject or a
// permitted consumer
func (gc *GatewayContract) GetScore(ctx contractapi.TransactionContextInterface, subjectID string, consumerID string) (string, error) {
	tx, err := gc.rt.open(ctx, "GetScore")
	if err != nil {
		return "", err
	}

	handle, err := tx.ledger.Gateway.GetScore(tx.callerID, subjectID, consumerID)
	fields := pairFields(subjectID, consumerID)
	fields["callerRole"] = callerRole(tx.callerID, subjectID, consumerID)
	if err = tx.query(err, fields); err != nil {
		return "", err
	}
	return handle.String(), nil
}

// GetStatus returns the lifecycle of the pair as JSON
func (gc *GatewayContract) GetStatus(ctx contractapi.TransactionContextInterface, subjectID string, consumerID string) (string, error) {
	tx, err := gc.rt.open(ctx, "GetStatus")
	if err != nil {
		return "", err
	}

	lifecycle, err := tx.ledger.Gateway.GetStatus(tx.callerID, subjectID, consumerID)
	if err = tx.query(err, pairFields(subjectID, consumerID)); err != nil {
		return "", err
	}
	return marshalResult(lifecycle)
}

// IsDecryptionAllowed returns true when principal may decrypt handle
func (gc *GatewayContract) IsDecryptionAllowed(ctx contractapi.TransactionContextInterface, handle string, principal string) (bool, error) {
	tx, err := gc.rt.open(ctx, "IsDecryptionAllowed")
	if err != nil {
		return false, err
	}

	allowed, err := tx.ledger.Gateway.IsDecryptionAllowed(models.Handle(handle), principal)
	return allowed, tx.query(err, logrus.Fields{"handle": handle})
}

func callerRole(callerID, subjectID, consumerID string) string {
	switch callerID {
	case subjectID:
		return "subject"
	case consumerID:
		return "consumer"
	}
	return "other"
}
