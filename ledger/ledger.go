// Package ledger implements the access-control state machine: consumer
// registration, per-(subject, consumer) submission and scoring, the
// permission ledger and the single read path for encrypted scores.
//
// Every operation validates all of its preconditions before the first write.
// The host (a Fabric peer) commits the writes of a successful transaction
// atomically and discards them when an operation returns an error.
package ledger

import (
	"fmt"
	"time"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
	"github.com/haven-health-passport/chaincode/risk-scores/store"
	"github.com/haven-health-passport/chaincode/risk-scores/utils"
)

// Ledger wires the components for one transaction.
type Ledger struct {
	Registry    *Registry
	Submissions *Submissions
	Scoring     *Scoring
	Permissions *Permissions
	Gateway     *Gateway
}

// txInfo identifies the transaction the components run in.
type txInfo struct {
	id string
	at time.Time
}

// New builds the components over the stub of the current transaction.
func New(stub shim.ChaincodeStubInterface, subsystem fhe.Subsystem) (*Ledger, error) {
	ts, err := stub.GetTxTimestamp()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction timestamp: %w", err)
	}
	tx := txInfo{id: stub.GetTxID(), at: ts.AsTime().UTC()}

	consumers := store.NewConsumers(stub)
	healthRecords := store.NewHealthRecords(stub)
	scores := store.NewScores(stub)
	lifecycles := store.NewLifecycles(stub)
	events := NewEmitter(stub, tx.id, tx.at)

	registry := &Registry{consumers: consumers, events: events, tx: tx}
	return &Ledger{
		Registry: registry,
		Submissions: &Submissions{
			registry:   registry,
			records:    healthRecords,
			lifecycles: lifecycles,
			subsystem:  subsystem,
			events:     events,
			tx:         tx,
		},
		Scoring: &Scoring{
			records:    healthRecords,
			scores:     scores,
			lifecycles: lifecycles,
			subsystem:  subsystem,
			events:     events,
			tx:         tx,
		},
		Permissions: &Permissions{
			scores:     scores,
			lifecycles: lifecycles,
			subsystem:  subsystem,
			events:     events,
			tx:         tx,
		},
		Gateway: &Gateway{
			scores:     scores,
			lifecycles: lifecycles,
			subsystem:  subsystem,
		},
	}, nil
}

// validatePair checks the identities of a (subject, consumer) pair.
func validatePair(subjectID, consumerID string) error {
	if err := utils.ValidateIdentity("subject", subjectID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if err := utils.ValidateIdentity("consumer", consumerID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}
