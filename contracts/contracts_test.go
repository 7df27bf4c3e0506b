package contracts_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haven-health-passport/chaincode/risk-scores/contracts"
	"github.com/haven-health-passport/chaincode/risk-scores/internal/chaincodetest"
	"github.com/haven-health-passport/chaincode/risk-scores/ledger"
	"github.com/haven-health-passport/chaincode/risk-scores/models"
)

var (
	alice  = chaincodetest.Identity{ID: "subject-alice", MSPID: "PatientsMSP"}
	acme   = chaincodetest.Identity{ID: "consumer-acme", MSPID: "InsurersMSP"}
	globex = chaincodetest.Identity{ID: "consumer-globex", MSPID: "InsurersMSP"}
)

type harness struct {
	t    *testing.T
	stub *shimtest.MockStub
	cs   *contracts.Contracts
	logs *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	logs := new(bytes.Buffer)
	logger := logrus.New()
	logger.SetOutput(logs)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	return &harness{
		t:    t,
		stub: chaincodetest.NewStub(),
		cs: contracts.New(contracts.Options{
			Logger:    logger,
			Subsystem: contracts.CoprocessorFactory(chaincodetest.Model()),
		}),
		logs: logs,
	}
}

// as runs fn in its own transaction on behalf of caller.
func (h *harness) as(caller chaincodetest.Identity, fn func(ctx contractapi.TransactionContextInterface) error) error {
	return chaincodetest.Run(h.stub, func() error {
		return fn(chaincodetest.Context(h.stub, caller))
	})
}

func (h *harness) register(caller chaincodetest.Identity, name string) {
	h.t.Helper()
	require.NoError(h.t, h.as(caller, func(ctx contractapi.TransactionContextInterface) error {
		return h.cs.Registry.RegisterConsumer(ctx, name)
	}))
}

func (h *harness) submit(subject, consumer chaincodetest.Identity) {
	h.t.Helper()
	cts, proof := chaincodetest.Submission(subject.ID, "contracts")
	encoded, encodedProof, err := contracts.EncodeSubmission(cts, proof)
	require.NoError(h.t, err)
	require.NoError(h.t, h.as(subject, func(ctx contractapi.TransactionContextInterface) error {
		return h.cs.HealthData.SubmitHealthData(ctx, subject.ID, consumer.ID, encoded, encodedProof)
	}))
}

func (h *harness) compute(caller, subject, consumer chaincodetest.Identity) {
	h.t.Helper()
	require.NoError(h.t, h.as(caller, func(ctx contractapi.TransactionContextInterface) error {
		return h.cs.Scoring.ComputeRiskScore(ctx, subject.ID, consumer.ID)
	}))
}

func (h *harness) getScore(caller chaincodetest.Identity, subject, consumer string) (string, error) {
	var handle string
	err := h.as(caller, func(ctx contractapi.TransactionContextInterface) error {
		var err error
		handle, err = h.cs.Gateway.GetScore(ctx, subject, consumer)
		return err
	})
	return handle, err
}

func TestContractsRegisterWithChaincode(t *testing.T) {
	cs := contracts.New(contracts.Options{Subsystem: contracts.CoprocessorFactory(chaincodetest.Model())})

	chaincode, err := contractapi.NewChaincode(cs.List()...)
	require.NoError(t, err)
	require.NotNil(t, chaincode)

	names := make([]string, 0, len(cs.List()))
	for _, c := range cs.List() {
		names = append(names, c.(interface{ GetName() string }).GetName())
	}
	assert.Equal(t, []string{
		contracts.RegistryContractName,
		contracts.HealthDataContractName,
		contracts.ScoringContractName,
		contracts.PermissionContractName,
		contracts.GatewayContractName,
	}, names)
}

func TestRegistryContract(t *testing.T) {
	h := newHarness(t)
	h.register(acme, "Acme Insurance")
	h.register(globex, "Globex")

	err := h.as(acme, func(ctx contractapi.TransactionContextInterface) error {
		return h.cs.Registry.RegisterConsumer(ctx, "Acme Again")
	})
	assert.True(t, errors.Is(err, ledger.ErrAlreadyRegistered))

	require.NoError(t, h.as(alice, func(ctx contractapi.TransactionContextInterface) error {
		registered, err := h.cs.Registry.IsRegistered(ctx, acme.ID)
		require.NoError(t, err)
		assert.True(t, registered)

		registered, err = h.cs.Registry.IsRegistered(ctx, alice.ID)
		require.NoError(t, err)
		assert.False(t, registered)

		raw, err := h.cs.Registry.GetConsumer(ctx, acme.ID)
		require.NoError(t, err)
		var consumer models.Consumer
		require.NoError(t, json.Unmarshal([]byte(raw), &consumer))
		assert.Equal(t, "Acme Insurance", consumer.Name)
		assert.Equal(t, acme.MSPID, consumer.MSPID)

		_, err = h.cs.Registry.GetConsumer(ctx, alice.ID)
		assert.True(t, errors.Is(err, ledger.ErrUnknownConsumer))

		raw, err = h.cs.Registry.ListConsumers(ctx)
		require.NoError(t, err)
		var consumers []models.Consumer
		require.NoError(t, json.Unmarshal([]byte(raw), &consumers))
		assert.Len(t, consumers, 2)
		return nil
	}))
}

func TestSubmitHealthDataRejectsMalformedInput(t *testing.T) {
	h := newHarness(t)
	h.register(acme, "Acme Insurance")

	cts, proof := chaincodetest.Submission(alice.ID, "contracts")
	encoded, encodedProof, err := contracts.EncodeSubmission(cts, proof)
	require.NoError(t, err)

	var partial map[string]string
	require.NoError(t, json.Unmarshal([]byte(encoded), &partial))
	delete(partial, models.MetricAge.String())
	missing, err := json.Marshal(partial)
	require.NoError(t, err)

	partial[models.MetricAge.String()+"Typo"] = "AA=="
	unknown, err := json.Marshal(partial)
	require.NoError(t, err)

	tests := []struct {
		name        string
		ciphertexts string
		proof       string
	}{
		{"not json", "{", encodedProof},
		{"missing metric", string(missing), encodedProof},
		{"unknown metric", string(unknown), encodedProof},
		{"bad base64", strings.Replace(encoded, `"height":"`, `"height":"!`, 1), encodedProof},
		{"bad proof", encoded, "!!!"},
		{"oversized proof", encoded, strings.Repeat("A", 4096)},
		{"wrong proof", encoded, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.as(alice, func(ctx contractapi.TransactionContextInterface) error {
				return h.cs.HealthData.SubmitHealthData(ctx, alice.ID, acme.ID, tt.ciphertexts, tt.proof)
			})
			assert.True(t, errors.Is(err, ledger.ErrInvalidCiphertext), "got %v", err)
			assert.Equal(t, "INVALID_CIPHERTEXT", ledger.Code(err))
		})
	}

	require.NoError(t, h.as(alice, func(ctx contractapi.TransactionContextInterface) error {
		submitted, err := h.cs.HealthData.IsSubmitted(ctx, alice.ID, acme.ID)
		require.NoError(t, err)
		assert.False(t, submitted)
		return nil
	}))
}

func TestContractsEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.register(acme, "Acme Insurance")
	h.submit(alice, acme)
	h.compute(acme, alice, acme)

	subjectView, err := h.getScore(alice, alice.ID, acme.ID)
	require.NoError(t, err)
	require.NoError(t, models.Handle(subjectView).Validate())

	_, err = h.getScore(acme, alice.ID, acme.ID)
	assert.True(t, errors.Is(err, ledger.ErrUnauthorized))

	require.NoError(t, h.as(alice, func(ctx contractapi.TransactionContextInterface) error {
		return h.cs.Permission.GrantPermission(ctx, alice.ID, acme.ID)
	}))

	consumerView, err := h.getScore(acme, alice.ID, acme.ID)
	require.NoError(t, err)
	assert.Equal(t, subjectView, consumerView)

	require.NoError(t, h.as(acme, func(ctx contractapi.TransactionContextInterface) error {
		allowed, err := h.cs.Gateway.IsDecryptionAllowed(ctx, consumerView, acme.ID)
		require.NoError(t, err)
		assert.True(t, allowed)

		permitted, err := h.cs.Permission.HasPermission(ctx, alice.ID, acme.ID)
		require.NoError(t, err)
		assert.True(t, permitted)

		computed, err := h.cs.Scoring.IsComputed(ctx, alice.ID, acme.ID)
		require.NoError(t, err)
		assert.True(t, computed)

		raw, err := h.cs.Gateway.GetStatus(ctx, alice.ID, acme.ID)
		require.NoError(t, err)
		var status models.Lifecycle
		require.NoError(t, json.Unmarshal([]byte(raw), &status))
		assert.Equal(t, models.StageGranted, status.Stage)
		return nil
	}))

	err = h.as(globex, func(ctx contractapi.TransactionContextInterface) error {
		_, err := h.cs.Gateway.GetStatus(ctx, alice.ID, acme.ID)
		return err
	})
	assert.True(t, errors.Is(err, ledger.ErrUnauthorized))

	require.NoError(t, h.as(alice, func(ctx contractapi.TransactionContextInterface) error {
		return h.cs.Permission.RevokePermission(ctx, alice.ID, acme.ID)
	}))
	_, err = h.getScore(acme, alice.ID, acme.ID)
	assert.True(t, errors.Is(err, ledger.ErrUnauthorized))

	var eventNames []string
	for _, ev := range chaincodetest.Events(h.stub) {
		eventNames = append(eventNames, ev.EventName)
	}
	assert.Equal(t, []string{
		ledger.EventConsumerRegistered,
		ledger.EventHealthDataSubmitted,
		ledger.EventRiskScoreComputed,
		ledger.EventPermissionGranted,
		ledger.EventPermissionRevoked,
	}, eventNames)
}

func TestTransactionsAreLogged(t *testing.T) {
	h := newHarness(t)
	h.register(acme, "Acme Insurance")

	err := h.as(acme, func(ctx contractapi.TransactionContextInterface) error {
		return h.cs.Registry.RegisterConsumer(ctx, "Acme Again")
	})
	require.Error(t, err)

	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(h.logs.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 2)

	assert.Equal(t, "transaction committed", entries[0]["msg"])
	assert.Equal(t, "RegisterConsumer", entries[0]["function"])
	assert.Equal(t, acme.MSPID, entries[0]["mspId"])

	assert.Equal(t, "transaction rejected", entries[1]["msg"])
	assert.Equal(t, "warning", entries[1]["level"])
	assert.Equal(t, "ALREADY_REGISTERED", entries[1]["code"])
}
