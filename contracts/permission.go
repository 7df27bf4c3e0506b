package contracts

import (
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// PermissionContract provides functions for subjects to control who may
// read their risk score
type PermissionContract struct {
	contractapi.Contract
	rt *runtime
}

// GrantPermission lets the consumer read the subject's score
func (pc *PermissionContract) GrantPermission(ctx contractapi.TransactionContextInterface, subjectID string, consumerID string) error {
	tx, err := pc.rt.open(ctx, "GrantPermission")
	if err != nil {
		return err
	}

	err = tx.ledger.Permissions.Grant(tx.callerID, subjectID, consumerID)
	return tx.done(err, pairFields(subjectID, consumerID))
}

// RevokePermission withdraws the consumer's permission to read the score
func (pc *PermissionContract) RevokePermission(ctx contractapi.TransactionContextInterface, subjectID string, consumerID string) error {
	tx, err := pc.rt.open(ctx, "RevokePermission")
	if err != nil {
		return err
	}

	err = tx.ledger.Permissions.Revoke(tx.callerID, subjectID, consumerID)
	return tx.done(err, pairFields(subjectID, consumerID))
}

// HasPermission returns true when the consumer may currently read the score
func (pc *PermissionContract) HasPermission(ctx contractapi.TransactionContextInterface, subjectID string, consumerID string) (bool, error) {
	tx, err := pc.rt.open(ctx, "HasPermission")
	if err != nil {
		return false, err
	}

	permitted, err := tx.ledger.Permissions.HasPermission(subjectID, consumerID)
	return permitted, tx.query(err, pairFields(subjectID, consumerID))
}
