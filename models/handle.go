package models

import (
	"encoding/hex"
	"fmt"
)

// HandleSize is the byte length of a decoded handle.
const HandleSize = 32

// Handle is an opaque reference to a value that stays encrypted at rest.
// The chaincode never sees the plaintext behind it; all arithmetic and
// decryption happen in the encrypted-computation subsystem.
type Handle string

// HandleFromBytes hex-encodes a digest into a Handle.
func HandleFromBytes(b []byte) Handle {
	return Handle(hex.EncodeToString(b))
}

// IsZero reports whether the handle is unset.
func (h Handle) IsZero() bool {
	return h == ""
}

// Validate checks that the handle is a well-formed hex digest.
func (h Handle) Validate() error {
	b, err := hex.DecodeString(string(h))
	if err != nil {
		return fmt.Errorf("handle is not hex encoded: %v", err)
	}
	if len(b) != HandleSize {
		return fmt.Errorf("handle must be %d bytes, got %d", HandleSize, len(b))
	}
	return nil
}

func (h Handle) String() string {
	return string(h)
}
