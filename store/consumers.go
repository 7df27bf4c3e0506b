package store

import (
	"encoding/json"
	"fmt"

	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/utils"
)

// Consumers is the registry store, keyed by consumer identity.
type Consumers struct {
	state State
}

// NewConsumers returns the consumer store over state
func NewConsumers(state State) *Consumers {
	return &Consumers{state: state}
}

// Get returns the consumer, or nil when none is registered under consumerID.
func (s *Consumers) Get(consumerID string) (*models.Consumer, error) {
	key, err := utils.CreateConsumerKey(s.state, consumerID)
	if err != nil {
		return nil, err
	}
	return getJSON[models.Consumer](s.state, key, "consumer")
}

// Put stores the consumer.
func (s *Consumers) Put(consumer *models.Consumer) error {
	key, err := utils.CreateConsumerKey(s.state, consumer.ConsumerID)
	if err != nil {
		return err
	}
	return putJSON(s.state, key, "consumer", consumer)
}

// List returns every registered consumer in key order.
func (s *Consumers) List() ([]*models.Consumer, error) {
	resultsIterator, err := s.state.GetStateByPartialCompositeKey(utils.PrefixConsumer, []string{})
	if err != nil {
		return nil, fmt.Errorf("failed to get consumers: %w", err)
	}
	defer resultsIterator.Close()

	consumers := []*models.Consumer{}
	for resultsIterator.HasNext() {
		queryResponse, err := resultsIterator.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to iterate consumers: %w", err)
		}

		var consumer models.Consumer
		if err := json.Unmarshal(queryResponse.Value, &consumer); err != nil {
			return nil, fmt.Errorf("failed to unmarshal consumer: %v", err)
		}
		consumers = append(consumers, &consumer)
	}

	return consumers, nil
}
