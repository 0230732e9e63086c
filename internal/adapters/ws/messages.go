package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"gigflow-marketplace-service/internal/domain/shared"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypePing MessageType = "ping"

	// Server to Client message types
	MessageTypeConnected MessageType = "connected"
	MessageTypeHired     MessageType = "hired"
	MessageTypeError     MessageType = "error"
	MessageTypePong      MessageType = "pong"
)

// ClientMessage represents a message sent from client to server. The session
// surface is intentionally small: sessions exist to receive notifications,
// all mutations go through the HTTP API.
type ClientMessage struct {
	Type      MessageType            `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType            `json:"type"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]interface{}),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypePing:
		return nil
	default:
		return shared.ErrUnknownMessageType
	}
}
