package client

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/scene"
	"github.com/zeusync/polycollide/internal/server"
)

type controller struct {
	mu     sync.Mutex
	inputs []scene.Input
}

func (c *controller) SetInput(in scene.Input) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = append(c.inputs, in)
}

func (c *controller) LastFrame() (scene.Frame, bool) {
	return scene.Frame{Seq: 1}, true
}

func (c *controller) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inputs)
}

func startServer(t *testing.T, ctrl server.Controller) *server.Server {
	t.Helper()
	s := server.New(config.Server{
		WebSocketAddr: "127.0.0.1:0",
		QUICAddr:      "127.0.0.1:0",
		MaxClients:    2,
		WriteTimeout:  time.Second,
		SendBuffer:    8,
	}, ctrl, log.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	return s
}

func TestClient_ReceivesFramesAndSendsInput(t *testing.T) {
	ctrl := &controller{}
	s := startServer(t, ctrl)

	cfg := DefaultClientConfig()
	cfg.ServerAddr = s.QUICAddr().String()
	c := NewClient(cfg, log.NewNop())

	frames := make(chan scene.Frame, 4)
	c.OnFrame(func(f scene.Frame) { frames <- f })

	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	assert.ErrorIs(t, c.Connect(context.Background()), ErrAlreadyConnected)

	select {
	case f := <-frames:
		assert.Equal(t, int64(1), f.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("no greeting frame")
	}

	s.Broadcast(scene.Frame{Seq: 2, Report: []string{"Coalition: Triangle with Square"}})
	select {
	case f := <-frames:
		assert.Equal(t, []string{"Coalition: Triangle with Square"}, f.Report)
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast frame")
	}
	last, ok := c.LastFrame()
	require.True(t, ok)
	assert.Equal(t, int64(2), last.Seq)

	// connecting alone leaves the held input untouched
	assert.Zero(t, ctrl.count())

	require.NoError(t, c.SendInput(server.InputMessage{Left: true}))
	require.Eventually(t, func() bool { return ctrl.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, ctrl.inputs[0].Left)

	require.NoError(t, c.Disconnect())
	assert.False(t, c.IsConnected())
	assert.ErrorIs(t, c.SendInput(server.InputMessage{}), ErrNotConnected)
}

func TestClient_Config(t *testing.T) {
	c := NewClient(Config{}, nil)
	assert.ErrorIs(t, c.Connect(context.Background()), ErrInvalidConfig)
	_, ok := c.LastFrame()
	assert.False(t, ok)

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Connect(context.Background()), ErrClientClosed)
	assert.ErrorIs(t, c.Disconnect(), ErrNotConnected)
}
