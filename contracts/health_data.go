package contracts

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"

	"github.com/haven-health-passport/chaincode/risk-scores/ledger"
	"github.com/haven-health-passport/chaincode/risk-scores/models"
	"github.com/haven-health-passport/chaincode/risk-scores/utils"
)

// HealthDataContract provides functions for submitting encrypted health data
type HealthDataContract struct {
	contractapi.Contract
	rt *runtime
}

// SubmitHealthData submits the subject's encrypted metrics to a consumer.
// ciphertexts is a JSON object mapping every metric name to its base64
// ciphertext; proof is the base64 input proof over them.
func (hc *HealthDataContract) SubmitHealthData(
	ctx contractapi.TransactionContextInterface,
	subjectID string,
	consumerID string,
	ciphertexts string,
	proof string,
) error {
	tx, err := hc.rt.open(ctx, "SubmitHealthData")
	if err != nil {
		return err
	}

	decoded, rawProof, err := decodeSubmission(ciphertexts, proof)
	if err == nil {
		_, err = tx.ledger.Submissions.Submit(tx.callerID, subjectID, consumerID, decoded, rawProof)
	}
	return tx.done(err, pairFields(subjectID, consumerID))
}

// IsSubmitted returns true when the subject submitted data to the consumer
func (hc *HealthDataContract) IsSubmitted(ctx contractapi.TransactionContextInterface, subjectID string, consumerID string) (bool, error) {
	tx, err := hc.rt.open(ctx, "IsSubmitted")
	if err != nil {
		return false, err
	}

	submitted, err := tx.ledger.Submissions.IsSubmitted(subjectID, consumerID)
	return submitted, tx.query(err, pairFields(subjectID, consumerID))
}

// decodeSubmission parses the wire form of a submission. Malformed input is
// reported as an invalid ciphertext, like a proof the subsystem rejects.
func decodeSubmission(ciphertexts, proof string) ([models.MetricCount][]byte, []byte, error) {
	var decoded [models.MetricCount][]byte

	var byName map[string]string
	if err := json.Unmarshal([]byte(ciphertexts), &byName); err != nil {
		return decoded, nil, fmt.Errorf("%w: failed to parse ciphertexts: %v", ledger.ErrInvalidCiphertext, err)
	}
	if len(byName) != models.MetricCount {
		return decoded, nil, fmt.Errorf("%w: expected %d metrics, got %d", ledger.ErrInvalidCiphertext, models.MetricCount, len(byName))
	}

	for name, encoded := range byName {
		metric, err := models.ParseMetric(name)
		if err != nil {
			return decoded, nil, fmt.Errorf("%w: %v", ledger.ErrInvalidCiphertext, err)
		}
		ct, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return decoded, nil, fmt.Errorf("%w: %s is not base64: %v", ledger.ErrInvalidCiphertext, name, err)
		}
		decoded[metric] = ct
	}

	if base64.StdEncoding.DecodedLen(len(proof)) > utils.MaxProofSize {
		return decoded, nil, fmt.Errorf("%w: proof exceeds %d bytes", ledger.ErrInvalidCiphertext, utils.MaxProofSize)
	}
	rawProof, err := base64.StdEncoding.DecodeString(proof)
	if err != nil {
		return decoded, nil, fmt.Errorf("%w: proof is not base64: %v", ledger.ErrInvalidCiphertext, err)
	}

	return decoded, rawProof, nil
}

// EncodeSubmission is the client-side counterpart of decodeSubmission.
func EncodeSubmission(ciphertexts [models.MetricCount][]byte, proof []byte) (string, string, error) {
	byName := make(map[string]string, models.MetricCount)
	for _, metric := range models.AllMetrics() {
		byName[metric.String()] = base64.StdEncoding.EncodeToString(ciphertexts[metric])
	}
	raw, err := json.Marshal(byName)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal ciphertexts: %v", err)
	}
	return string(raw), base64.StdEncoding.EncodeToString(proof), nil
}
