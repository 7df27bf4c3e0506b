package models

import (
	"time"
)

// Consumer is a data-consuming organisation, typically an insurance company,
// that subjects can submit health data to.
type Consumer struct {
	ConsumerID   string    `json:"consumerId"`
	Name         string    `json:"name"`
	MSPID        string    `json:"mspId,omitempty"`
	Registered   bool      `json:"registered"`
	RegisteredAt time.Time `json:"registeredAt"`
	TxID         string    `json:"txId"`
	ObjectType   string    `json:"objectType"`
}

// ObjectType values stored alongside each ledger record
const (
	ObjectTypeConsumer     = "consumer"
	ObjectTypeHealthRecord = "healthRecord"
	ObjectTypeScoreRecord  = "scoreRecord"
	ObjectTypeLifecycle    = "lifecycle"
)

// NewConsumer creates a registered consumer
func NewConsumer(consumerID, name, mspID string, registeredAt time.Time) *Consumer {
	return &Consumer{
		ConsumerID:   consumerID,
		Name:         name,
		MSPID:        mspID,
		Registered:   true,
		RegisteredAt: registeredAt,
		ObjectType:   ObjectTypeConsumer,
	}
}
