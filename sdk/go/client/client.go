// Package client is a Go renderer SDK for the polycollide QUIC endpoint.
package client

import (
	"bufio"
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/quic-go/quic-go"

	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/scene"
	"github.com/zeusync/polycollide/internal/server"
	"github.com/zeusync/polycollide/pkg/generic"
)

const maxFrameSize = 1 << 20

var linePool = generic.NewPool(func() *bytes.Buffer { return new(bytes.Buffer) }, (*bytes.Buffer).Reset)

// Client represents a renderer connection
type Client struct {
	// Connection management
	conn    *quic.Conn
	stream  *quic.Stream
	writeMu sync.Mutex

	// Frame handlers
	handlers     []FrameHandler
	handlerMutex sync.RWMutex
	last         atomic.Pointer[scene.Frame]

	// Lifecycle
	connected int32 // atomic bool
	closed    int32 // atomic bool

	// Configuration and logging
	config Config
	logger log.Log

	// Background workers
	workerGroup sync.WaitGroup
}

// Config holds configuration for the client
type Config struct {
	ServerAddr     string
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration

	// InsecureSkipVerify accepts the server's self-signed certificate.
	InsecureSkipVerify bool
}

// DefaultClientConfig returns default client configuration
func DefaultClientConfig() Config {
	return Config{
		ServerAddr:         "localhost:4242",
		ConnectTimeout:     10 * time.Second,
		WriteTimeout:       5 * time.Second,
		InsecureSkipVerify: true,
	}
}

// FrameHandler is called, in the reader goroutine, for every received frame.
type FrameHandler func(frame scene.Frame)

func NewClient(config Config, logger log.Log) *Client {
	if logger == nil {
		logger = log.Provide()
	}
	return &Client{
		config: config,
		logger: logger.With(log.String("component", "client")),
	}
}

// Connect dials the server and opens the frame stream. The server starts
// streaming frames once the stream is open.
func (c *Client) Connect(ctx context.Context) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClientClosed
	}
	if c.config.ServerAddr == "" {
		return ErrInvalidConfig
	}
	if !atomic.CompareAndSwapInt32(&c.connected, 0, 1) {
		return ErrAlreadyConnected
	}

	c.logger.Info("Connecting to server", log.String("addr", c.config.ServerAddr))

	connectCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	conn, err := quic.DialAddr(connectCtx, c.config.ServerAddr, &tls.Config{
		InsecureSkipVerify: c.config.InsecureSkipVerify,
		NextProtos:         []string{server.ALPN},
		MinVersion:         tls.VersionTLS13,
	}, nil)
	if err != nil {
		atomic.StoreInt32(&c.connected, 0)
		return errors.Wrapf(err, "dial %s", c.config.ServerAddr)
	}

	stream, err := conn.OpenStreamSync(connectCtx)
	if err != nil {
		atomic.StoreInt32(&c.connected, 0)
		_ = conn.CloseWithError(0, "")
		return errors.Wrap(err, "open stream")
	}

	c.conn, c.stream = conn, stream
	// The server only sees the stream once bytes arrive. A blank line opens
	// it without replacing the input another renderer is holding.
	if err = c.writeLine(nil); err != nil {
		_ = c.Disconnect()
		return errors.Wrap(err, "open stream")
	}

	c.workerGroup.Add(1)
	go func() {
		defer c.workerGroup.Done()
		c.readFrames()
	}()

	c.logger.Info("Connected to server", log.String("remote_addr", conn.RemoteAddr().String()))
	return nil
}

// SendInput sends the held control state.
func (c *Client) SendInput(msg server.InputMessage) error {
	if atomic.LoadInt32(&c.connected) == 0 {
		return ErrNotConnected
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "encode input")
	}

	if err = c.writeLine(payload); err != nil {
		return errors.Wrap(err, "send input")
	}
	return nil
}

// writeLine writes payload and a newline in a single stream write.
func (c *Client) writeLine(payload []byte) error {
	buf := linePool.Get()
	defer linePool.Put(buf)
	buf.Write(payload)
	buf.WriteByte('\n')

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.stream.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	_, err := c.stream.Write(buf.Bytes())
	return err
}

// OnFrame registers a frame handler.
func (c *Client) OnFrame(handler FrameHandler) {
	c.handlerMutex.Lock()
	defer c.handlerMutex.Unlock()
	c.handlers = append(c.handlers, handler)
}

// LastFrame returns the latest received frame.
func (c *Client) LastFrame() (scene.Frame, bool) {
	f := c.last.Load()
	if f == nil {
		return scene.Frame{}, false
	}
	return *f, true
}

func (c *Client) IsConnected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// Disconnect closes the connection and waits for the reader to stop.
func (c *Client) Disconnect() error {
	if !atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		return ErrNotConnected
	}

	c.logger.Info("Disconnecting from server")
	err := c.conn.CloseWithError(0, "bye")
	c.workerGroup.Wait()
	return err
}

// Close disconnects if needed and makes the client unusable.
func (c *Client) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.IsConnected() {
		return c.Disconnect()
	}
	return nil
}

func (c *Client) readFrames() {
	scanner := bufio.NewScanner(c.stream)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		var frame scene.Frame
		if err := json.Unmarshal(scanner.Bytes(), &frame); err != nil {
			c.logger.Warn("Dropping malformed frame", log.Error(err))
			continue
		}
		c.last.Store(&frame)

		c.handlerMutex.RLock()
		for _, h := range c.handlers {
			h(frame)
		}
		c.handlerMutex.RUnlock()
	}

	if err := scanner.Err(); err != nil && c.IsConnected() {
		c.logger.Debug("Frame stream ended", log.Error(err))
	}
}
