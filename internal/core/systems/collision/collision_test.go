package collision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/polycollide/internal/core/events/bus"
	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
)

type fakeWorld struct {
	polys  []*physics.Polygon
	frame  int64
	events []bus.Event
}

func (w *fakeWorld) Polygons() []*physics.Polygon { return w.polys }
func (w *fakeWorld) DeltaTime() float64           { return 1.0 / 60 }
func (w *fakeWorld) FrameCount() int64            { return w.frame }
func (w *fakeWorld) PublishEvents(events ...bus.Event) error {
	w.events = append(w.events, events...)
	return nil
}

func square(t *testing.T, name string, x, y float64) *physics.Polygon {
	t.Helper()
	p, err := physics.NewPolygon(name, x, y, []physics.Vec{
		physics.V(-1, -1), physics.V(1, -1), physics.V(1, 1), physics.V(-1, 1),
	}, 1, 1)
	require.NoError(t, err)
	return p
}

func eventTypes(events []bus.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type())
	}
	return out
}

func TestSystem_PublishesOnlyOnChange(t *testing.T) {
	a := square(t, "A", 0, 0)
	b := square(t, "B", 1, 0)
	w := &fakeWorld{polys: []*physics.Polygon{a, b}}

	s := New(1, log.NewNop())
	require.NoError(t, s.Initialize(context.Background(), w))

	w.frame = 1
	require.NoError(t, s.Update(0, w))
	require.Len(t, s.Pairs(), 1)
	assert.Equal(t, "Coalition: A with B", s.Pairs()[0].Report())
	require.Equal(t, []string{bus.EventCollisionBegan}, eventTypes(w.events))

	payload, ok := w.events[0].Data().(bus.CollisionPayload)
	require.True(t, ok)
	assert.Equal(t, "A", payload.AName)
	assert.Equal(t, "B", payload.BName)
	assert.Equal(t, int64(1), payload.Frame)
	assert.Equal(t, physics.PairKey(a.ID(), b.ID()), payload.Key)

	// unchanged set publishes nothing
	w.frame = 2
	require.NoError(t, s.Update(0, w))
	assert.Len(t, w.events, 1)

	b.MoveBy(physics.V(10, 0))
	w.frame = 3
	require.NoError(t, s.Update(0, w))
	assert.Empty(t, s.Pairs())
	assert.Equal(t, []string{bus.EventCollisionBegan, bus.EventCollisionEnded}, eventTypes(w.events))
}

func TestSystem_EndedBeforeBegan(t *testing.T) {
	a := square(t, "A", 0, 0)
	b := square(t, "B", 1, 0)
	c := square(t, "C", 10, 0)
	w := &fakeWorld{polys: []*physics.Polygon{a, b, c}}

	s := New(1, log.NewNop())
	require.NoError(t, s.Update(0, w))
	w.events = nil

	// B leaves A and joins C in one tick
	b.MoveBy(physics.V(8, 0))
	require.NoError(t, s.Update(0, w))

	require.Equal(t, []string{bus.EventCollisionEnded, bus.EventCollisionBegan}, eventTypes(w.events))
	ended := w.events[0].Data().(bus.CollisionPayload)
	began := w.events[1].Data().(bus.CollisionPayload)
	assert.Equal(t, []string{"A", "B"}, []string{ended.AName, ended.BName})
	assert.Equal(t, []string{"B", "C"}, []string{began.AName, began.BName})
}

func TestSystem_ParallelMatchesSequential(t *testing.T) {
	var polys []*physics.Polygon
	for i := 0; i < 8; i++ {
		polys = append(polys, square(t, string(rune('A'+i)), float64(i)*1.5, 0))
	}
	w := &fakeWorld{polys: polys}

	seq := New(1, log.NewNop())
	par := New(4, log.NewNop())
	require.NoError(t, par.Initialize(context.Background(), w))

	require.NoError(t, seq.Update(0, w))
	require.NoError(t, par.Update(0, w))

	assert.Equal(t, physics.Fingerprint(seq.Pairs()), physics.Fingerprint(par.Pairs()))
	assert.Len(t, par.Pairs(), 7)
}

func TestSystem_CancelledContext(t *testing.T) {
	w := &fakeWorld{polys: []*physics.Polygon{square(t, "A", 0, 0), square(t, "B", 1, 0)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(2, log.NewNop())
	require.NoError(t, s.Initialize(ctx, w))
	err := s.Update(0, w)
	require.ErrorIs(t, err, context.Canceled)

	m := s.GetMetrics()
	assert.Equal(t, uint64(1), m.ErrorCount)
	assert.Empty(t, w.events)
}

func TestSystem_Metrics(t *testing.T) {
	w := &fakeWorld{polys: []*physics.Polygon{
		square(t, "A", 0, 0), square(t, "B", 5, 0), square(t, "C", 10, 0),
	}}
	s := New(1, log.NewNop())
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Update(0, w))
	}
	m := s.GetMetrics()
	assert.Equal(t, uint64(3), m.ExecutionCount)
	assert.Equal(t, uint64(9), m.EntitiesProcessed)
	assert.Zero(t, m.ErrorCount)
	assert.Equal(t, "collision", s.Name())
}
