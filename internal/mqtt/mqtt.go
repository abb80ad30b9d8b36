// Package mqtt publishes press status and receives remote commands, with
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/atouliatos/press-controller/internal/press"
)

// TopicStatus is the topic press status records are published on.
const TopicStatus = "alphabase/presses/status"

// TopicCommands is the topic remote commands are received on.
const TopicCommands = "alphabase/presses/commands"

// Status is a press status record, published on every transition and on
// the periodic heartbeat.
type Status struct {
	DeviceID string
	State    press.State
	// Timestamp is the device-local clock in milliseconds since start.
	Timestamp int64
	IP        string
}

// statusPayload is the wire format of a status record.
type statusPayload struct {
	DeviceID  string `json:"device_id"`
	Press1    string `json:"press1"`
	Timestamp int64  `json:"timestamp"`
	IP        string `json:"ip"`
}

// FormatStatus creates the JSON payload for a status record.
func FormatStatus(s Status) ([]byte, error) {
	return json.Marshal(statusPayload{
		DeviceID:  s.DeviceID,
		Press1:    string(s.State),
		Timestamp: s.Timestamp,
		IP:        s.IP,
	})
}

// Command is a parsed inbound command message.
type Command struct {
	Command   string `json:"command"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

// CommandSelectReason is the only command the press understands.
const CommandSelectReason = "select_reason"

// ParseCommand decodes an inbound command payload.
func ParseCommand(payload []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(payload, &c); err != nil {
		return Command{}, fmt.Errorf("parse command: %w", err)
	}
	return c, nil
}

// Publisher publishes status records to the broker.
type Publisher interface {
	// PublishStatus sends a status record to the broker.
	// Returns error if publishing fails (must not crash the process).
	PublishStatus(s Status) error

	// Close disconnects from the broker.
	Close() error
}

// Subscriber delivers raw inbound command payloads. The channel is fed
// from the broker client's own goroutine; the control loop drains it so
// only one goroutine ever acts on a command.
type Subscriber interface {
	Commands() <-chan []byte
}

// ConnectionStatus reports whether the broker connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}
