package server

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"testing"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/scene"
)

func TestQUIC_GreetingBroadcastAndInput(t *testing.T) {
	cfg := testConfig()
	cfg.QUICAddr = "127.0.0.1:0"
	ctrl := &fakeController{frame: scene.Frame{Seq: 3}, ok: true}

	s := New(cfg, ctrl, log.NewNop())
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop(context.Background()) })
	require.NotNil(t, s.QUICAddr())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, err := quic.DialAddr(ctx, s.QUICAddr().String(), &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{ALPN},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseWithError(0, "") })

	stream, err := conn.OpenStreamSync(ctx)
	require.NoError(t, err)

	line, err := json.Marshal(InputMessage{Down: true, SpinLeft: true})
	require.NoError(t, err)
	_, err = stream.Write(append(line, '\n'))
	require.NoError(t, err)

	reader := bufio.NewReader(stream)
	var frame scene.Frame
	data, err := reader.ReadBytes('\n')
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, int64(3), frame.Seq)

	require.Eventually(t, func() bool {
		in, ok := ctrl.last()
		return ok && in.Down && in.SpinLeft
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, s.GetStats().QUICCount)

	s.Broadcast(scene.Frame{Seq: 4})
	data, err = reader.ReadBytes('\n')
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &frame))
	assert.Equal(t, int64(4), frame.Seq)
}
