package amqp

import (
	"encoding/json"
	"time"
)

// TransactionRecordedMessage announces that a transaction landed in the
// remote store. Carries only the id; consumers refresh their own view
// rather than trusting the payload.
type TransactionRecordedMessage struct {
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionRecordedMessage(id string) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		TransactionID: id,
		Timestamp:     time.Now(),
	}
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
