package display

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Publisher renders screens by publishing them to an MQTT broker.
type Publisher struct {
	client paho.Client
}

// NewPublisher connects to the broker. Connection failures are not fatal:
// the client auto-reconnects, and Ready reports false until it does.
func NewPublisher(broker string) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("line-counter").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		// Still connecting in the background; usable once it lands.
		return &Publisher{client: client}, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return &Publisher{client: client}, nil
}

// Show publishes the screen payload at QoS 0 without waiting for delivery.
func (p *Publisher) Show(s Screen, d Data) {
	payload, err := FormatScreen(s, d)
	if err != nil {
		log.Printf("display: format screen: %v", err)
		return
	}
	// Fire-and-forget: paho queues the publish; the main loop never waits.
	p.client.Publish(Topic, 0, false, payload)
}

// PublishSystem sends a lifecycle event at QoS 1 and waits briefly for
// delivery. Unlike Show, callers invoke this off the hot path (startup and
// shutdown) and want the message to land.
func (p *Publisher) PublishSystem(ev SystemEvent) error {
	payload, err := FormatSystem(ev)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	token := p.client.Publish(TopicSystem, 1, true, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}
	return nil
}

// Ready reports whether the broker connection is up.
func (p *Publisher) Ready() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.client.Disconnect(1000)
	return nil
}
