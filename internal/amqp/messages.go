package amqp

import (
	"encoding/json"
	"time"
)

// CollectionSavedMessage announces that the expense collection stored under
// Key was rewritten. It carries no records; consumers read the collection
// from storage themselves.
type CollectionSavedMessage struct {
	Key       string    `json:"key"`
	Revision  int64     `json:"revision"`
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewCollectionSavedMessage(key string, revision int64, count int) *CollectionSavedMessage {
	return &CollectionSavedMessage{
		Key:       key,
		Revision:  revision,
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *CollectionSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func CollectionSavedMessageFromJSON(data []byte) (*CollectionSavedMessage, error) {
	var msg CollectionSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
