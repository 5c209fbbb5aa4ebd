package server

import (
	"sync"

	"github.com/google/uuid"
)

// client is one connected renderer, independent of its transport.
type client struct {
	id        string
	transport string
	send      chan []byte
	done      chan struct{}

	mu       sync.Mutex
	closer   func() error
	stopOnce sync.Once
}

func newClient(transport string, buffer int) *client {
	return &client{
		id:        uuid.NewString(),
		transport: transport,
		send:      make(chan []byte, buffer),
		done:      make(chan struct{}),
	}
}

// setCloser attaches the transport close function. A client stopped before
// its connection was attached closes the connection immediately.
func (c *client) setCloser(fn func() error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closer = fn
	select {
	case <-c.done:
		_ = fn()
	default:
	}
}

// enqueue queues msg without blocking. A full queue drops the message.
func (c *client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) stop() {
	c.stopOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closer != nil {
			_ = c.closer()
		}
	})
}
