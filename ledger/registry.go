package ledger

import (
	"fmt"

	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/store"
	"github.com/haven-health-passport/chaincode/risk-scores/utils"
)

// Registry tracks the consumers known to the system.
type Registry struct {
	consumers *store.Consumers
	events    *Emitter
	tx        txInfo
}

// Register creates the consumer record for consumerID. Names are trimmed and
// immutable once stored.
func (r *Registry) Register(consumerID, name, mspID string) (*models.Consumer, error) {
	if err := utils.ValidateIdentity("consumer", consumerID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := utils.ValidateConsumerName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	existing, err := r.consumers.Get(consumerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, consumerID)
	}

	consumer := models.NewConsumer(consumerID, utils.SanitizeString(name), mspID, r.tx.at)
	consumer.TxID = r.tx.id
	if err := r.consumers.Put(consumer); err != nil {
		return nil, err
	}
	if err := r.events.ConsumerRegistered(consumer.ConsumerID, consumer.Name); err != nil {
		return nil, err
	}

	return consumer, nil
}

// IsRegistered reports whether consumerID has a registered consumer record.
func (r *Registry) IsRegistered(consumerID string) (bool, error) {
	if consumerID == "" {
		return false, nil
	}
	consumer, err := r.consumers.Get(consumerID)
	if err != nil {
		return false, err
	}
	return consumer != nil && consumer.Registered, nil
}

// Get returns the consumer record.
func (r *Registry) Get(consumerID string) (*models.Consumer, error) {
	if err := utils.ValidateIdentity("consumer", consumerID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	consumer, err := r.consumers.Get(consumerID)
	if err != nil {
		return nil, err
	}
	if consumer == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConsumer, consumerID)
	}
	return consumer, nil
}

// List returns all registered consumers.
func (r *Registry) List() ([]*models.Consumer, error) {
	return r.consumers.List()
}
