// Package fhe is the boundary to the encrypted-computation subsystem. The
// chaincode only ever handles opaque handles; ciphertext validation, scoring
// and decryption rights live behind the Subsystem interface.
package fhe

import (
	"errors"

	"github.com/haven-health-passport/chaincode/risk-scores/models"
)

var (
	// ErrInvalidCiphertext is returned when submitted ciphertexts or their
	// input proof do not validate.
	ErrInvalidCiphertext = errors.New("INVALID_CIPHERTEXT: encrypted input rejected")
	// ErrUnknownHandle is returned for handles the subsystem never produced.
	ErrUnknownHandle = errors.New("UNKNOWN_HANDLE: handle not known to the subsystem")
)

// SelfPrincipal is the principal under which the chaincode itself holds
// rights over handles it needs to re-authorize later.
const SelfPrincipal = "chaincode:risk-scores"

// Subsystem is the encrypted-computation service consumed by the ledger.
type Subsystem interface {
	// ValidateAndIngest checks the input proof binding ciphertexts to the
	// submitter and turns every ciphertext into a handle. Nothing is stored
	// unless all twelve ciphertexts validate.
	ValidateAndIngest(submitter string, ciphertexts [models.MetricCount][]byte, proof []byte) (models.MetricHandles, error)

	// AuthorizeDecryption grants principal future decryption rights on h.
	// Granting twice is a no-op.
	AuthorizeDecryption(h models.Handle, principal string) error

	// RevokeDecryption removes principal's decryption right on h. It cannot
	// claw back plaintext the principal already obtained.
	RevokeDecryption(h models.Handle, principal string) error

	// IsAuthorized reports whether principal may decrypt h.
	IsAuthorized(h models.Handle, principal string) (bool, error)

	// ComputeRiskScore derives the encrypted score from the metric handles.
	// Identical inputs yield the identical handle under one model version.
	ComputeRiskScore(inputs models.MetricHandles) (models.Handle, error)

	// ModelVersion names the scoring model ComputeRiskScore evaluates.
	ModelVersion() string
}
