package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChangeMessage announces that a stored collection was rewritten. It carries
// no record data; consumers reload from storage.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Operation  string    `json:"operation,omitempty"`
	RecordID   string    `json:"id,omitempty"`
	Version    uint64    `json:"version"`
	Count      int       `json:"count"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(collection, operation, recordID string, version uint64, count int) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		Operation:  operation,
		RecordID:   recordID,
		Version:    version,
		Count:      count,
		Timestamp:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes a message and rejects ones without a
// collection.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Collection == "" {
		return nil, fmt.Errorf("change message without collection")
	}
	return &msg, nil
}
