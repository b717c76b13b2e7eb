package amqp

import (
	"encoding/json"
	"time"
)

// AlertMessage carries one budget deviation alert to the recording
// worker. It is self-contained so the worker can persist it without
// fetching anything back from the API process.
type AlertMessage struct {
	RunID        string    `json:"run_id"`
	Category     string    `json:"category"`
	Severity     string    `json:"severity"`
	DeviationPct float64   `json:"deviation_pct"`
	MessageFR    string    `json:"message_fr"`
	MessageEN    string    `json:"message_en"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewAlertMessage builds a timestamped alert message.
func NewAlertMessage(runID, category, severity string, deviationPct float64, messageFR, messageEN string) *AlertMessage {
	return &AlertMessage{
		RunID:        runID,
		Category:     category,
		Severity:     severity,
		DeviationPct: deviationPct,
		MessageFR:    messageFR,
		MessageEN:    messageEN,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// AlertMessageFromJSON creates a message from JSON bytes
func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
