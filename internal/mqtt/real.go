package mqtt

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/atouliatos/press-controller/internal/log"
)

// commandBacklog bounds inbound commands waiting for the control loop.
const commandBacklog = 16

// RealClient talks to an actual MQTT broker.
type RealClient struct {
	client   paho.Client
	commands chan []byte
}

// NewRealClient connects to the broker and subscribes to the command
// topic. The client ID carries a random suffix so a crashed instance's
// half-open session never kicks the new one off the broker.
func NewRealClient(broker, deviceID string) (*RealClient, error) {
	c := &RealClient{commands: make(chan []byte, commandBacklog)}
	logger := log.WithComponent("mqtt")

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("%s-%s", deviceID, uuid.NewString()[:8])).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(client paho.Client) {
			token := client.Subscribe(TopicCommands, 1, c.onCommand)
			if token.WaitTimeout(5*time.Second) && token.Error() == nil {
				logger.Info().Str("topic", TopicCommands).Msg("subscribed to commands")
				return
			}
			logger.Error().Err(token.Error()).Str("topic", TopicCommands).Msg("subscribe failed")
		}).
		SetConnectionLostHandler(func(client paho.Client, err error) {
			logger.Warn().Err(err).Msg("connection lost")
		})

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return c, nil
}

func (c *RealClient) onCommand(_ paho.Client, msg paho.Message) {
	payload := make([]byte, len(msg.Payload()))
	copy(payload, msg.Payload())
	select {
	case c.commands <- payload:
	default:
		logger := log.WithComponent("mqtt")
		logger.Warn().
			Str("topic", msg.Topic()).
			Msg("command backlog full, dropping message")
	}
}

// PublishStatus sends a status record to the broker. QoS 0: status is
// latest-state-wins and republished on the heartbeat, so a lost message
// heals itself.
func (c *RealClient) PublishStatus(s Status) error {
	payload, err := FormatStatus(s)
	if err != nil {
		return fmt.Errorf("format status: %w", err)
	}

	token := c.client.Publish(TopicStatus, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish status: %w", err)
	}
	return nil
}

// Commands returns the inbound command channel.
func (c *RealClient) Commands() <-chan []byte {
	return c.commands
}

// IsConnected reports whether the broker connection is active.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
