package mqtt

import "log"

// pending is a serialized message held for replay after reconnection.
type pending struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// backlog is a fixed-capacity FIFO holding messages while the broker is
// unreachable. When full, the oldest message is dropped. Not safe for
// concurrent use; the publisher synchronizes around it.
type backlog struct {
	msgs    []pending
	cap     int
	next    int // next write position
	count   int
	dropped bool // a message was dropped since the last drain
}

func newBacklog(capacity int) *backlog {
	return &backlog{
		msgs: make([]pending, capacity),
		cap:  capacity,
	}
}

func (b *backlog) push(msg pending) {
	if b.count == b.cap {
		if !b.dropped {
			log.Printf("mqtt: backlog full (%d messages), dropping oldest", b.cap)
			b.dropped = true
		}
		// next already points at the oldest entry; overwrite it.
		b.msgs[b.next] = msg
		b.next = (b.next + 1) % b.cap
		return
	}
	b.msgs[b.next] = msg
	b.next = (b.next + 1) % b.cap
	b.count++
}

// drain returns the held messages oldest-first and empties the backlog.
func (b *backlog) drain() []pending {
	if b.count == 0 {
		return nil
	}

	out := make([]pending, b.count)
	start := (b.next - b.count + b.cap) % b.cap
	for i := 0; i < b.count; i++ {
		out[i] = b.msgs[(start+i)%b.cap]
	}

	b.count = 0
	b.next = 0
	b.dropped = false
	return out
}

func (b *backlog) len() int {
	return b.count
}
