package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// SettingsChangedMessage tells consumers that display strings rendered
// under an older version are stale.
type SettingsChangedMessage struct {
	Locale       string    `json:"locale"`
	CurrencyCode string    `json:"currencyCode"`
	Version      int64     `json:"version"`
	Timestamp    time.Time `json:"timestamp"`
}

func NewSettingsChangedMessage(locale, currencyCode string, version int64) *SettingsChangedMessage {
	return &SettingsChangedMessage{
		Locale:       locale,
		CurrencyCode: currencyCode,
		Version:      version,
		Timestamp:    time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SettingsChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SettingsChangedMessageFromJSON decodes a message; locale and version are
// mandatory.
func SettingsChangedMessageFromJSON(data []byte) (*SettingsChangedMessage, error) {
	var msg SettingsChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Locale == "" {
		return nil, fmt.Errorf("settings changed message: missing locale")
	}
	if msg.Version <= 0 {
		return nil, fmt.Errorf("settings changed message: invalid version %d", msg.Version)
	}
	return &msg, nil
}
