package fhe

import (
	"crypto/subtle"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/utils"
)

// Domain separation tags for the digests below
const (
	tagInput     = "fhe/input/v1"
	tagProof     = "fhe/proof/v1"
	tagRiskScore = "fhe/op/riskScore/v1"
)

// OpRiskScore is the operation recorded for score computations.
const OpRiskScore = "riskScore"

// State is the slice of the chaincode stub the coprocessor writes through.
type State interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
	DelState(key string) error
	CreateCompositeKey(objectType string, attributes []string) (string, error)
	GetTxID() string
}

// Ciphertext is an ingested encrypted input.
type Ciphertext struct {
	Handle     models.Handle `json:"handle"`
	Metric     string        `json:"metric"`
	Submitter  string        `json:"submitter"`
	Ciphertext []byte        `json:"ciphertext"`
	TxID       string        `json:"txId"`
}

// Computation is a symbolic operation whose result is evaluated off-chain by
// the coprocessor. The handle is fixed by the inputs and the model, so every
// endorser derives the same one.
type Computation struct {
	Handle       models.Handle             `json:"handle"`
	Op           string                    `json:"op"`
	ModelVersion string                    `json:"modelVersion"`
	Intercept    int64                     `json:"intercept"`
	Coefficients [models.MetricCount]int64 `json:"coefficients"`
	Inputs       models.MetricHandles      `json:"inputs"`
	TxID         string                    `json:"txId"`
}

// Coprocessor is a Subsystem that keeps ciphertexts, symbolic computations
// and decryption rights in world state next to the ledger it serves.
type Coprocessor struct {
	state State
	model *ScoringModel
}

var _ Subsystem = (*Coprocessor)(nil)

// NewCoprocessor binds a coprocessor to the state of one transaction.
func NewCoprocessor(state State, model *ScoringModel) *Coprocessor {
	return &Coprocessor{state: state, model: model}
}

// InputProof computes the proof a client attaches to a submission: a BLAKE2b
// commitment over the submitter and every ciphertext in metric order.
func InputProof(submitter string, ciphertexts [models.MetricCount][]byte) []byte {
	parts := make([][]byte, 0, models.MetricCount+2)
	parts = append(parts, []byte(tagProof), []byte(submitter))
	for _, ct := range ciphertexts {
		parts = append(parts, ct)
	}
	return digest(parts...)
}

// ModelVersion implements Subsystem.
func (c *Coprocessor) ModelVersion() string {
	return c.model.Version
}

// ValidateAndIngest implements Subsystem.
func (c *Coprocessor) ValidateAndIngest(
	submitter string,
	ciphertexts [models.MetricCount][]byte,
	proof []byte,
) (models.MetricHandles, error) {
	var handles models.MetricHandles

	// Validate everything before the first write
	for _, metric := range models.AllMetrics() {
		ct := ciphertexts[metric]
		if len(ct) == 0 {
			return handles, fmt.Errorf("%w: %s ciphertext is empty", ErrInvalidCiphertext, metric)
		}
		if len(ct) > utils.MaxCiphertextSize {
			return handles, fmt.Errorf("%w: %s ciphertext exceeds %d bytes", ErrInvalidCiphertext, metric, utils.MaxCiphertextSize)
		}
	}
	expected := InputProof(submitter, ciphertexts)
	if subtle.ConstantTimeCompare(expected, proof) != 1 {
		return handles, fmt.Errorf("%w: input proof does not match ciphertexts", ErrInvalidCiphertext)
	}

	txID := c.state.GetTxID()
	for _, metric := range models.AllMetrics() {
		ct := ciphertexts[metric]
		handle := models.HandleFromBytes(digest(
			[]byte(tagInput),
			[]byte(txID),
			[]byte(submitter),
			[]byte{byte(metric)},
			ct,
		))

		record := Ciphertext{
			Handle:     handle,
			Metric:     metric.String(),
			Submitter:  submitter,
			Ciphertext: ct,
			TxID:       txID,
		}
		if err := c.putJSON(utils.CreateCiphertextKey, handle, record); err != nil {
			return handles, err
		}
		handles[metric] = handle
	}

	return handles, nil
}

// ComputeRiskScore implements Subsystem.
func (c *Coprocessor) ComputeRiskScore(inputs models.MetricHandles) (models.Handle, error) {
	for _, metric := range models.AllMetrics() {
		exists, err := c.exists(inputs[metric])
		if err != nil {
			return "", err
		}
		if !exists {
			return "", fmt.Errorf("%w: %s input %s", ErrUnknownHandle, metric, inputs[metric])
		}
	}

	parts := make([][]byte, 0, models.MetricCount+2)
	parts = append(parts, []byte(tagRiskScore), []byte(c.model.Version))
	for _, h := range inputs {
		parts = append(parts, []byte(h))
	}
	handle := models.HandleFromBytes(digest(parts...))

	computation := Computation{
		Handle:       handle,
		Op:           OpRiskScore,
		ModelVersion: c.model.Version,
		Intercept:    c.model.Intercept,
		Coefficients: c.model.Coefficients(),
		Inputs:       inputs,
		TxID:         c.state.GetTxID(),
	}
	if err := c.putJSON(utils.CreateComputationKey, handle, computation); err != nil {
		return "", err
	}

	return handle, nil
}

// AuthorizeDecryption implements Subsystem.
func (c *Coprocessor) AuthorizeDecryption(h models.Handle, principal string) error {
	if principal == "" {
		return fmt.Errorf("principal is required")
	}
	exists, err := c.exists(h)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}

	aclKey, err := utils.CreateACLKey(c.state, h.String(), principal)
	if err != nil {
		return err
	}
	if err := c.state.PutState(aclKey, []byte{0x01}); err != nil {
		return fmt.Errorf("failed to store decryption grant: %w", err)
	}
	return nil
}

// RevokeDecryption implements Subsystem.
func (c *Coprocessor) RevokeDecryption(h models.Handle, principal string) error {
	aclKey, err := utils.CreateACLKey(c.state, h.String(), principal)
	if err != nil {
		return err
	}
	if err := c.state.DelState(aclKey); err != nil {
		return fmt.Errorf("failed to delete decryption grant: %w", err)
	}
	return nil
}

// IsAuthorized implements Subsystem.
func (c *Coprocessor) IsAuthorized(h models.Handle, principal string) (bool, error) {
	aclKey, err := utils.CreateACLKey(c.state, h.String(), principal)
	if err != nil {
		return false, err
	}
	value, err := c.state.GetState(aclKey)
	if err != nil {
		return false, fmt.Errorf("failed to read decryption grant: %w", err)
	}
	return value != nil, nil
}

// GetComputation returns the symbolic computation behind a score handle.
func (c *Coprocessor) GetComputation(h models.Handle) (*Computation, error) {
	key, err := utils.CreateComputationKey(c.state, h.String())
	if err != nil {
		return nil, err
	}
	raw, err := c.state.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read computation: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}

	var computation Computation
	if err := json.Unmarshal(raw, &computation); err != nil {
		return nil, fmt.Errorf("failed to unmarshal computation: %v", err)
	}
	return &computation, nil
}

func (c *Coprocessor) exists(h models.Handle) (bool, error) {
	if h.Validate() != nil {
		return false, nil
	}
	for _, keyFn := range []func(utils.KeyBuilder, string) (string, error){
		utils.CreateCiphertextKey,
		utils.CreateComputationKey,
	} {
		key, err := keyFn(c.state, h.String())
		if err != nil {
			return false, err
		}
		raw, err := c.state.GetState(key)
		if err != nil {
			return false, fmt.Errorf("failed to read handle %s: %w", h, err)
		}
		if raw != nil {
			return true, nil
		}
	}
	return false, nil
}

func (c *Coprocessor) putJSON(keyFn func(utils.KeyBuilder, string) (string, error), h models.Handle, v interface{}) error {
	key, err := keyFn(c.state, h.String())
	if err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %v", h, err)
	}
	if err := c.state.PutState(key, raw); err != nil {
		return fmt.Errorf("failed to put %s to world state: %w", h, err)
	}
	return nil
}

// digest hashes length-prefixed parts so that no two part lists collide.
func digest(parts ...[]byte) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only fails for oversized keys
		panic(err)
	}
	var length [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(length[:], uint64(len(p)))
		h.Write(length[:])
		h.Write(p)
	}
	return h.Sum(nil)
}
