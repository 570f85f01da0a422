package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/motomaint/internal/config"
)

// ErrPublishTimeout is returned when the broker does not acknowledge a
// publish within the wait bound.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

const (
	publishWait = 5 * time.Second
	maxRetries  = 2
	backoff     = 100 * time.Millisecond
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// MQTTPublisher sends reminders to <prefix>/<motorcycleID>/due.
type MQTTPublisher struct {
	cli    pahoClient
	prefix string
	qos    byte
	logger *log.Entry
}

// NewClientOptions builds paho client options from the MQTT config.
func NewClientOptions(cfg config.MQTTConfig) *paho.ClientOptions {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	return opts
}

// NewMQTTPublisher connects to the configured broker.
func NewMQTTPublisher(cfg config.MQTTConfig) (*MQTTPublisher, error) {
	logger := log.WithField("component", "mqtt")
	opts := NewClientOptions(cfg)
	opts.OnConnect = func(paho.Client) {
		logger.WithField("broker", cfg.Broker).Info("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		logger.WithError(err).Error("MQTT connection lost")
	}

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &MQTTPublisher{
		cli:    c,
		prefix: strings.TrimSuffix(cfg.TopicPrefix, "/"),
		qos:    cfg.QoS,
		logger: logger,
	}, nil
}

// Topic returns the topic reminders for a motorcycle are published on.
func (p *MQTTPublisher) Topic(motorcycleID string) string {
	return fmt.Sprintf("%s/%s/due", p.prefix, motorcycleID)
}

// PublishReminder publishes one reminder, retrying a bounded number of times.
func (p *MQTTPublisher) PublishReminder(ctx context.Context, reminder Reminder) error {
	if reminder.Timestamp == 0 {
		reminder.Timestamp = time.Now().UnixMilli()
	}
	payload, err := json.Marshal(reminder)
	if err != nil {
		return err
	}
	topic := p.Topic(reminder.MotorcycleID)

	var publishErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		token := p.cli.Publish(topic, p.qos, false, payload)
		if !token.WaitTimeout(publishWait) {
			publishErr = ErrPublishTimeout
		} else {
			publishErr = token.Error()
		}
		if publishErr == nil {
			p.logger.WithFields(log.Fields{
				"topic":  topic,
				"record": reminder.Type,
			}).Debug("Published due reminder")
			return nil
		}
		p.logger.WithError(publishErr).Warnf("publish attempt %d failed", attempt+1)
		if attempt == maxRetries {
			break
		}
		timer := time.NewTimer(backoff * time.Duration(1<<attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return publishErr
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}
