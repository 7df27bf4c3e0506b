// Package store holds the keyed world-state stores the ledger components
// operate on. Each store owns one composite-key namespace.
package store

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// State is the part of the chaincode stub the stores read and write.
type State interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
	CreateCompositeKey(objectType string, attributes []string) (string, error)
	GetStateByPartialCompositeKey(objectType string, keys []string) (shim.StateQueryIteratorInterface, error)
}

func getJSON[T any](state State, key, what string) (*T, error) {
	raw, err := state.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from world state: %w", what, err)
	}
	if raw == nil {
		return nil, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %v", what, err)
	}
	return &v, nil
}

func putJSON(state State, key, what string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %v", what, err)
	}
	if err := state.PutState(key, raw); err != nil {
		return fmt.Errorf("failed to put %s to world state: %w", what, err)
	}
	return nil
}
