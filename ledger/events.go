package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event names as they appear on the chaincode event stream
const (
	EventConsumerRegistered  = "ConsumerRegistered"
	EventHealthDataSubmitted = "HealthDataSubmitted"
	EventRiskScoreComputed   = "RiskScoreComputed"
	EventPermissionGranted   = "PermissionGranted"
	EventPermissionRevoked   = "PermissionRevoked"
)

// eventNamespace seeds the name-based UUIDs of emitted events.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:haven-health-passport:risk-scores:events"))

// Event is the JSON payload of every chaincode event.
type Event struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Subject   string `json:"subject,omitempty"`
	Consumer  string `json:"consumer"`
	Name      string `json:"name,omitempty"`
	Timestamp string `json:"timestamp"`
	TxID      string `json:"txId"`
}

// EventSink receives chaincode events. Fabric keeps only the last event set
// in a transaction, and every operation sets exactly one.
type EventSink interface {
	SetEvent(name string, payload []byte) error
}

// Emitter builds and publishes events for one transaction.
type Emitter struct {
	sink EventSink
	txID string
	at   time.Time
}

// NewEmitter returns an emitter stamping events with the transaction id and time
func NewEmitter(sink EventSink, txID string, at time.Time) *Emitter {
	return &Emitter{sink: sink, txID: txID, at: at}
}

func (e *Emitter) emit(eventType string, ev Event) error {
	ev.EventType = eventType
	ev.EventID = uuid.NewSHA1(eventNamespace, []byte(e.txID+"/"+eventType)).String()
	ev.Timestamp = e.at.Format(time.RFC3339)
	ev.TxID = e.txID

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %v", eventType, err)
	}
	if err := e.sink.SetEvent(eventType, payload); err != nil {
		return fmt.Errorf("failed to emit %s event: %w", eventType, err)
	}
	return nil
}

// ConsumerRegistered publishes a registration.
func (e *Emitter) ConsumerRegistered(consumerID, name string) error {
	return e.emit(EventConsumerRegistered, Event{Consumer: consumerID, Name: name})
}

// HealthDataSubmitted publishes a submission.
func (e *Emitter) HealthDataSubmitted(subjectID, consumerID string) error {
	return e.emit(EventHealthDataSubmitted, Event{Subject: subjectID, Consumer: consumerID})
}

// RiskScoreComputed publishes a score computation.
func (e *Emitter) RiskScoreComputed(subjectID, consumerID string) error {
	return e.emit(EventRiskScoreComputed, Event{Subject: subjectID, Consumer: consumerID})
}

// PermissionGranted publishes a grant.
func (e *Emitter) PermissionGranted(subjectID, consumerID string) error {
	return e.emit(EventPermissionGranted, Event{Subject: subjectID, Consumer: consumerID})
}

// PermissionRevoked publishes a revocation.
func (e *Emitter) PermissionRevoked(subjectID, consumerID string) error {
	return e.emit(EventPermissionRevoked, Event{Subject: subjectID, Consumer: consumerID})
}
