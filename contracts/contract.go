package contracts

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/sirupsen/logrus"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
	"github.com/haven-health-passport/chaincode/risk-scores/ledger"
)

// SubsystemFactory binds the encrypted-computation subsystem to the stub of
// one transaction.
type SubsystemFactory func(stub shim.ChaincodeStubInterface) fhe.Subsystem

// CoprocessorFactory returns a factory for the in-ledger reference coprocessor.
func CoprocessorFactory(model *fhe.ScoringModel) SubsystemFactory {
	return func(stub shim.ChaincodeStubInterface) fhe.Subsystem {
		return fhe.NewCoprocessor(stub, model)
	}
}

// runtime carries what every contract needs to open a transaction.
type runtime struct {
	log       *logrus.Logger
	subsystem SubsystemFactory
}

// txScope is an opened transaction: the ledger components, the calling
// identity and a logger tagged with both.
type txScope struct {
	ledger   *ledger.Ledger
	callerID string
	mspID    string
	log      *logrus.Entry
}

func (rt *runtime) open(ctx contractapi.TransactionContextInterface, function string) (*txScope, error) {
	callerID, err := ctx.GetClientIdentity().GetID()
	if err != nil {
		return nil, fmt.Errorf("failed to get caller identity: %v", err)
	}
	mspID, err := ctx.GetClientIdentity().GetMSPID()
	if err != nil {
		return nil, fmt.Errorf("failed to get caller MSP ID: %v", err)
	}

	stub := ctx.GetStub()
	l, err := ledger.New(stub, rt.subsystem(stub))
	if err != nil {
		return nil, err
	}

	return &txScope{
		ledger:   l,
		callerID: callerID,
		mspID:    mspID,
		log: rt.log.WithFields(logrus.Fields{
			"txId":     stub.GetTxID(),
			"function": function,
			"mspId":    mspID,
		}),
	}, nil
}

// done logs the outcome of a state-changing transaction and passes err on.
func (tx *txScope) done(err error, fields logrus.Fields) error {
	entry := tx.log.WithFields(fields)
	if err != nil {
		entry.WithField("code", ledger.Code(err)).WithError(err).Warn("transaction rejected")
		return err
	}
	entry.Info("transaction committed")
	return nil
}

// query logs a read at debug level and passes err on.
func (tx *txScope) query(err error, fields logrus.Fields) error {
	entry := tx.log.WithFields(fields)
	if err != nil {
		entry.WithField("code", ledger.Code(err)).WithError(err).Debug("query failed")
		return err
	}
	entry.Debug("query served")
	return nil
}

func marshalResult(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %v", err)
	}
	return string(raw), nil
}

func pairFields(subjectID, consumerID string) logrus.Fields {
	return logrus.Fields{"subject": subjectID, "consumer": consumerID}
}
