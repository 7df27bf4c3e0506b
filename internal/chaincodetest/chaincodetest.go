// Package chaincodetest provides an in-memory world state, caller identities
// and fixtures for exercising the chaincode without a peer.
package chaincodetest

import (
	"crypto/x509"
	"fmt"
	"sync/atomic"

	"github.com/hyperledger/fabric-chaincode-go/pkg/cid"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric-protos-go/peer"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
	"github.com/haven-health-passport/chaincode/risk-scores/models"
)

var txCounter uint64

// NewStub returns an empty mock world state.
func NewStub() *shimtest.MockStub {
	return shimtest.NewMockStub("risk-scores", nil)
}

// Begin starts a transaction with a fresh id and returns the id.
func Begin(stub *shimtest.MockStub) string {
	txID := fmt.Sprintf("tx-%d", atomic.AddUint64(&txCounter, 1))
	stub.MockTransactionStart(txID)
	return txID
}

// Run executes fn inside a transaction.
func Run(stub *shimtest.MockStub, fn func() error) error {
	txID := Begin(stub)
	defer stub.MockTransactionEnd(txID)
	return fn()
}

// Identity is a fixed client identity.
type Identity struct {
	ID    string
	MSPID string
}

var _ cid.ClientIdentity = Identity{}

// GetID implements cid.ClientIdentity.
func (i Identity) GetID() (string, error) {
	return i.ID, nil
}

// GetMSPID implements cid.ClientIdentity.
func (i Identity) GetMSPID() (string, error) {
	return i.MSPID, nil
}

// GetAttributeValue implements cid.ClientIdentity.
func (i Identity) GetAttributeValue(string) (string, bool, error) {
	return "", false, nil
}

// AssertAttributeValue implements cid.ClientIdentity.
func (i Identity) AssertAttributeValue(attrName, attrValue string) error {
	return fmt.Errorf("attribute %s is not set", attrName)
}

// GetX509Certificate implements cid.ClientIdentity.
func (i Identity) GetX509Certificate() (*x509.Certificate, error) {
	return nil, nil
}

// Context builds a transaction context for caller over stub.
func Context(stub *shimtest.MockStub, caller Identity) *contractapi.TransactionContext {
	ctx := new(contractapi.TransactionContext)
	ctx.SetStub(stub)
	ctx.SetClientIdentity(caller)
	return ctx
}

// Events drains and returns the events emitted so far.
func Events(stub *shimtest.MockStub) []*peer.ChaincodeEvent {
	var events []*peer.ChaincodeEvent
	for {
		select {
		case ev := <-stub.ChaincodeEventsChannel:
			events = append(events, ev)
		default:
			return events
		}
	}
}

// Ciphertexts returns twelve distinct fake ciphertexts derived from seed.
func Ciphertexts(seed string) [models.MetricCount][]byte {
	var cts [models.MetricCount][]byte
	for _, metric := range models.AllMetrics() {
		cts[metric] = []byte(fmt.Sprintf("ct:%s:%s", seed, metric))
	}
	return cts
}

// Submission returns ciphertexts and a valid input proof for submitter.
func Submission(submitter, seed string) ([models.MetricCount][]byte, []byte) {
	cts := Ciphertexts(seed)
	return cts, fhe.InputProof(submitter, cts)
}

// Model loads the default scoring model or panics.
func Model() *fhe.ScoringModel {
	model, err := fhe.LoadModel(fhe.DefaultModelVersion)
	if err != nil {
		panic(err)
	}
	return model
}
