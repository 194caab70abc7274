package amqp

import (
	"encoding/json"
	"time"

	"finboard/internal/invalidation"
)

// InvalidationMessage announces that a user's cached views went stale.
// Origin identifies the publishing instance so it can skip its own messages.
type InvalidationMessage struct {
	Entity    string    `json:"entity"`
	Signals   []string  `json:"signals"`
	UserID    string    `json:"user_id"`
	Origin    string    `json:"origin"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInvalidationMessage builds the message for ev.
func NewInvalidationMessage(ev invalidation.Event, origin string) *InvalidationMessage {
	return &InvalidationMessage{
		Entity:    string(ev.Entity),
		Signals:   invalidation.Strings(ev.Signals),
		UserID:    ev.UserID,
		Origin:    origin,
		Timestamp: time.Now().UTC(),
	}
}

// Event converts the message back to an invalidation event.
func (m *InvalidationMessage) Event() invalidation.Event {
	signals := make([]invalidation.Signal, len(m.Signals))
	for i, s := range m.Signals {
		signals[i] = invalidation.Signal(s)
	}
	return invalidation.Event{Entity: invalidation.Entity(m.Entity), Signals: signals, UserID: m.UserID}
}

// Touches reports whether the message carries signal.
func (m *InvalidationMessage) Touches(signal invalidation.Signal) bool {
	for _, s := range m.Signals {
		if s == string(signal) {
			return true
		}
	}
	return false
}

// ToJSON converts the message to JSON bytes
func (m *InvalidationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func InvalidationMessageFromJSON(data []byte) (*InvalidationMessage, error) {
	var msg InvalidationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
