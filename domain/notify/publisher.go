// Package notify publishes session events to an MQTT broker.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/soocke/surface-sketch-go/domain/surface"
)

const (
	publishTimeout  = 2 * time.Second
	disconnectQuiet = 250 // ms
)

// ErrNotConnected is returned when the broker connection is down.
var ErrNotConnected = errors.New("mqtt client not connected")

// Message is the JSON payload published for each session event.
type Message struct {
	Kind     string  `json:"kind"`
	State    string  `json:"state"`
	Surface  string  `json:"surface,omitempty"`
	Opacity  float64 `json:"opacity"`
	Rotation int     `json:"rotation"`
	At       int64   `json:"at"`
}

// Options controls topics and delivery.
type Options struct {
	Prefix string
	QoS    byte
	Retain bool
}

// Publisher turns session events into MQTT messages. A nil client disables
// publishing.
type Publisher struct {
	client    mqtt.Client
	opts      Options
	logger    *slog.Logger
	published atomic.Uint64
	failed    atomic.Uint64
}

// NewPublisher returns a publisher over client.
func NewPublisher(client mqtt.Client, opts Options, logger *slog.Logger) *Publisher {
	if opts.Prefix == "" {
		opts.Prefix = "surface-sketch"
	}
	return &Publisher{client: client, opts: opts, logger: logger}
}

// Enabled reports whether a client is configured.
func (p *Publisher) Enabled() bool { return p != nil && p.client != nil }

// Handle is a session listener. Errors are logged, not returned.
func (p *Publisher) Handle(ev surface.Event) {
	if !p.Enabled() {
		return
	}
	if err := p.Publish(ev); err != nil && p.logger != nil {
		p.logger.Debug("mqtt publish skipped", "kind", string(ev.Kind), "error", err)
	}
}

// Publish sends ev to <prefix>/<kind> and refreshes the retained
// <prefix>/state message.
func (p *Publisher) Publish(ev surface.Event) error {
	if !p.Enabled() {
		return nil
	}
	if !p.client.IsConnected() {
		return ErrNotConnected
	}
	msg := Message{
		Kind:     string(ev.Kind),
		State:    ev.State.String(),
		Surface:  string(ev.Surface),
		Opacity:  ev.Opacity,
		Rotation: ev.Rotation,
		At:       ev.At.Unix(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	if ev.Kind != surface.EventState {
		p.send(p.Topic(string(ev.Kind)), false, payload)
	}
	p.send(p.Topic("state"), p.opts.Retain, payload)
	return nil
}

// Close replaces the retained state with an offline marker and disconnects.
func (p *Publisher) Close() error {
	if !p.Enabled() {
		return nil
	}
	defer p.client.Disconnect(disconnectQuiet)
	if !p.client.IsConnected() {
		return nil
	}
	payload, err := json.Marshal(Message{Kind: "offline", State: "offline", At: time.Now().Unix()})
	if err != nil {
		return errors.Wrap(err, "marshal offline state")
	}
	topic := p.Topic("state")
	token := p.client.Publish(topic, p.opts.QoS, p.opts.Retain, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.Errorf("publish %s: timeout", topic)
	}
	return errors.Wrapf(token.Error(), "publish %s", topic)
}

// Topic returns the full topic for suffix.
func (p *Publisher) Topic(suffix string) string {
	return fmt.Sprintf("%s/%s", p.opts.Prefix, suffix)
}

// Stats returns the number of completed and failed publishes.
func (p *Publisher) Stats() (published, failed uint64) {
	if p == nil {
		return 0, 0
	}
	return p.published.Load(), p.failed.Load()
}

func (p *Publisher) send(topic string, retain bool, payload []byte) {
	token := p.client.Publish(topic, p.opts.QoS, retain, payload)
	go p.await(topic, token)
}

// await waits for the broker acknowledgement off the UI thread.
func (p *Publisher) await(topic string, token mqtt.Token) {
	if !token.WaitTimeout(publishTimeout) {
		p.failed.Add(1)
		if p.logger != nil {
			p.logger.Warn("mqtt publish timeout", "topic", topic)
		}
		return
	}
	if err := token.Error(); err != nil {
		p.failed.Add(1)
		if p.logger != nil {
			p.logger.Warn("mqtt publish failed", "topic", topic, "error", err)
		}
		return
	}
	p.published.Add(1)
}
