package contracts

import (
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/sirupsen/logrus"
)

// RegistryContract provides functions for registering data consumers
type RegistryContract struct {
	contractapi.Contract
	rt *runtime
}

// RegisterConsumer registers the calling identity as a consumer under name
func (rc *RegistryContract) RegisterConsumer(ctx contractapi.TransactionContextInterface, name string) error {
	tx, err := rc.rt.open(ctx, "RegisterConsumer")
	if err != nil {
		return err
	}

	_, err = tx.ledger.Registry.Register(tx.callerID, name, tx.mspID)
	return tx.done(err, logrus.Fields{"consumer": tx.callerID})
}

// IsRegistered returns true when consumerID is a registered consumer
func (rc *RegistryContract) IsRegistered(ctx contractapi.TransactionContextInterface, consumerID string) (bool, error) {
	tx, err := rc.rt.open(ctx, "IsRegistered")
	if err != nil {
		return false, err
	}

	registered, err := tx.ledger.Registry.IsRegistered(consumerID)
	return registered, tx.query(err, logrus.Fields{"consumer": consumerID})
}

// GetConsumer returns the consumer record as JSON
func (rc *RegistryContract) GetConsumer(ctx contractapi.TransactionContextInterface, consumerID string) (string, error) {
	tx, err := rc.rt.open(ctx, "GetConsumer")
	if err != nil {
		return "", err
	}

	consumer, err := tx.ledger.Registry.Get(consumerID)
	if err = tx.query(err, logrus.Fields{"consumer": consumerID}); err != nil {
		return "", err
	}
	return marshalResult(consumer)
}

// ListConsumers returns all registered consumers as a JSON array
func (rc *RegistryContract) ListConsumers(ctx contractapi.TransactionContextInterface) (string, error) {
	tx, err := rc.rt.open(ctx, "ListConsumers")
	if err != nil {
		return "", err
	}

	consumers, err := tx.ledger.Registry.List()
	if err = tx.query(err, nil); err != nil {
		return "", err
	}
	return marshalResult(consumers)
}
