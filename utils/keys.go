package utils

import (
	"fmt"
)

// Composite key object types for the different ledger namespaces
const (
	PrefixConsumer     = "CONSUMER"
	PrefixHealthRecord = "HEALTH~RECORD"
	PrefixScore        = "RISK~SCORE"
	PrefixLifecycle    = "PAIR~LIFECYCLE"
	PrefixCiphertext   = "FHE~CIPHERTEXT"
	PrefixComputation  = "FHE~COMPUTATION"
	PrefixACL          = "FHE~ACL"
)

// KeyBuilder is the part of the chaincode stub that builds composite keys.
type KeyBuilder interface {
	CreateCompositeKey(objectType string, attributes []string) (string, error)
}

// CreateConsumerKey creates the composite key of a consumer record
func CreateConsumerKey(kb KeyBuilder, consumerID string) (string, error) {
	return createKey(kb, PrefixConsumer, consumerID)
}

// CreateHealthRecordKey creates the composite key of a health record
func CreateHealthRecordKey(kb KeyBuilder, subjectID, consumerID string) (string, error) {
	return createKey(kb, PrefixHealthRecord, subjectID, consumerID)
}

// CreateScoreKey creates the composite key of a score record
func CreateScoreKey(kb KeyBuilder, subjectID, consumerID string) (string, error) {
	return createKey(kb, PrefixScore, subjectID, consumerID)
}

// CreateLifecycleKey creates the composite key of a pair lifecycle
func CreateLifecycleKey(kb KeyBuilder, subjectID, consumerID string) (string, error) {
	return createKey(kb, PrefixLifecycle, subjectID, consumerID)
}

// CreateCiphertextKey creates the composite key of an ingested ciphertext
func CreateCiphertextKey(kb KeyBuilder, handle string) (string, error) {
	return createKey(kb, PrefixCiphertext, handle)
}

// CreateComputationKey creates the composite key of a symbolic computation
func CreateComputationKey(kb KeyBuilder, handle string) (string, error) {
	return createKey(kb, PrefixComputation, handle)
}

// CreateACLKey creates the composite key of a decryption grant
func CreateACLKey(kb KeyBuilder, handle, principal string) (string, error) {
	return createKey(kb, PrefixACL, handle, principal)
}

func createKey(kb KeyBuilder, objectType string, attributes ...string) (string, error) {
	key, err := kb.CreateCompositeKey(objectType, attributes)
	if err != nil {
		return "", fmt.Errorf("failed to create %s key: %w", objectType, err)
	}
	return key, nil
}
