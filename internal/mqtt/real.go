package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/tank-monitor/internal/logic"
)

// backlogCapacity bounds how many level messages are held while the broker
// is unreachable. At one change per second this covers several minutes of
// outage, which is far more than tank levels realistically produce.
const backlogCapacity = 256

// RealPublisher publishes to an actual MQTT broker. Level snapshots that
// cannot be delivered while disconnected are buffered and replayed once the
// connection returns.
type RealPublisher struct {
	client paho.Client

	mu  sync.Mutex
	buf *backlog
}

// NewRealPublisher creates a publisher for the given broker. The client
// connects in the background and keeps retrying, so a broker that is down
// at startup does not block the polling loop.
func NewRealPublisher(broker string) *RealPublisher {
	p := &RealPublisher{buf: newBacklog(backlogCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("tank-monitor").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(p.onConnect)

	p.client = paho.NewClient(opts)
	p.client.Connect()
	return p
}

// onConnect replays any messages buffered while disconnected.
func (p *RealPublisher) onConnect(client paho.Client) {
	p.mu.Lock()
	msgs := p.buf.drain()
	p.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: connected, replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", m.topic)
			continue
		}
		if err := token.Error(); err != nil {
			log.Printf("mqtt: replay on %s: %v", m.topic, err)
		}
	}
}

// Publish sends a tank level snapshot to the broker. While disconnected the
// message goes into the backlog instead of failing.
func (p *RealPublisher) Publish(snap logic.Snapshot) error {
	payload, err := FormatPayload(snap)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	topic := LevelTopic(snap.Tank)
	if !p.client.IsConnected() {
		p.mu.Lock()
		p.buf.push(pending{topic: topic, payload: payload, qos: 0})
		n := p.buf.len()
		p.mu.Unlock()
		log.Printf("mqtt: disconnected, buffered %s (%d pending)", topic, n)
		return nil
	}

	// QoS 0 (at-most-once), not retained: the next change supersedes.
	token := p.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	return nil
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery.
	token := p.client.Publish(TopicSystem, 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnected()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
