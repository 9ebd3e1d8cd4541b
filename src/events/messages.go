package events

import (
	"encoding/json"
	"time"
)

const (
	ReasonExpenseCreated = "expense_created"
	ReasonExpenseUpdated = "expense_updated"
	ReasonExpenseDeleted = "expense_deleted"
)

// TransactionsChangedMessage tells consumers that a user's transaction set
// changed. It carries only the user id; consumers reload what they need.
type TransactionsChangedMessage struct {
	UserID    int64     `json:"user_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionsChangedMessage(userID int64, reason string) *TransactionsChangedMessage {
	return &TransactionsChangedMessage{
		UserID:    userID,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	}
}

func (m *TransactionsChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionsChangedMessageFromJSON(data []byte) (*TransactionsChangedMessage, error) {
	var msg TransactionsChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
