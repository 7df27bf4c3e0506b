package ledger

import (
	"errors"
	"strings"

	"github.com/haven-health-passport/chaincode/risk-scores/fhe"
)

// Failure conditions. Each message starts with a stable code because
// contractapi only hands the error string back to the client.
var (
	ErrAlreadyRegistered = errors.New("ALREADY_REGISTERED: consumer is already registered")
	ErrInvalidArgument   = errors.New("INVALID_ARGUMENT: invalid argument")
	ErrUnknownConsumer   = errors.New("UNKNOWN_CONSUMER: consumer is not registered")
	ErrAlreadySubmitted  = errors.New("ALREADY_SUBMITTED: health data already submitted")
	ErrNoHealthData      = errors.New("NO_HEALTH_DATA: no health data submitted")
	ErrAlreadyComputed   = errors.New("ALREADY_COMPUTED: risk score already computed")
	ErrScoreNotComputed  = errors.New("SCORE_NOT_COMPUTED: risk score not computed")
	ErrNoScore           = errors.New("NO_SCORE: no risk score")
	ErrUnauthorized      = errors.New("UNAUTHORIZED: caller is not allowed to perform this operation")

	// ErrInvalidCiphertext is surfaced verbatim from the subsystem.
	ErrInvalidCiphertext = fhe.ErrInvalidCiphertext
)

var coded = []error{
	ErrAlreadyRegistered,
	ErrInvalidArgument,
	ErrUnknownConsumer,
	ErrAlreadySubmitted,
	ErrNoHealthData,
	ErrAlreadyComputed,
	ErrScoreNotComputed,
	ErrNoScore,
	ErrUnauthorized,
	ErrInvalidCiphertext,
	fhe.ErrUnknownHandle,
}

// Code returns the condition code carried by err, such as "NO_SCORE", or
// "" when err is not one of the named failure conditions.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, sentinel := range coded {
		if errors.Is(err, sentinel) {
			code, _, _ := strings.Cut(sentinel.Error(), ":")
			return code
		}
	}
	return ""
}
