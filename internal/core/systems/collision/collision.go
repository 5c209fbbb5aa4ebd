package collision

import (
	"context"
	"time"

	"github.com/zeusync/polycollide/internal/core/events/bus"
	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/systems"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
	"github.com/zeusync/polycollide/pkg/sequence"
)

var _ systems.System = (*System)(nil)

const source = "collision"

// System scans every polygon pair once per tick and publishes
// collision.began / collision.ended whenever the colliding set changes.
type System struct {
	workers int
	logger  log.Log
	ctx     context.Context

	pairs       []physics.Pair
	fingerprint uint64
	metrics     systems.Metrics
}

// New creates the system. With workers > 1 the pair tests are spread over
// that many goroutines.
func New(workers int, logger log.Log) *System {
	if logger == nil {
		logger = log.Provide()
	}
	return &System{
		workers:     workers,
		logger:      logger.With(log.String("system", source)),
		ctx:         context.Background(),
		fingerprint: physics.Fingerprint(nil),
	}
}

func (s *System) Name() string { return source }

func (s *System) Initialize(ctx context.Context, world systems.World) error {
	s.ctx = ctx
	s.logger.Debug("Collision system initialized",
		log.Int("polygons", len(world.Polygons())),
		log.Int("workers", s.workers))
	return nil
}

func (s *System) Shutdown(_ context.Context) error {
	s.pairs = nil
	return nil
}

// Update recomputes the colliding pairs of the world.
func (s *System) Update(_ float64, world systems.World) error {
	start := time.Now()
	polys := world.Polygons()
	tested := uint64(len(polys) * (len(polys) - 1) / 2)

	pairs, err := s.scan(polys)
	if err != nil {
		s.metrics.Observe(time.Since(start), 0, err)
		return err
	}

	fingerprint := physics.Fingerprint(pairs)
	var publishErr error
	if fingerprint != s.fingerprint {
		publishErr = s.publishChanges(world, s.pairs, pairs)
		s.fingerprint = fingerprint
	}
	s.pairs = pairs

	s.metrics.Observe(time.Since(start), tested, publishErr)
	if publishErr != nil {
		s.logger.Warn("Collision event handlers failed", log.Error(publishErr))
	}
	return nil
}

// Pairs returns the colliding pairs found by the latest Update.
func (s *System) Pairs() []physics.Pair {
	return s.pairs
}

func (s *System) GetMetrics() systems.Metrics {
	return s.metrics
}

func (s *System) scan(polys []*physics.Polygon) ([]physics.Pair, error) {
	if s.workers > 1 {
		return physics.FindOverlappingPairsParallel(s.ctx, polys, s.workers)
	}
	return physics.FindOverlappingPairs(polys), nil
}

// publishChanges emits ended events for vanished pairs, then began events for
// new ones, each in scan order.
func (s *System) publishChanges(world systems.World, prev, next []physics.Pair) error {
	current := sequence.ToKeySet(sequence.From(next), physics.Pair.Key)
	previous := sequence.ToKeySet(sequence.From(prev), physics.Pair.Key)

	var events []bus.Event
	for _, p := range missingFrom(prev, current).Collect() {
		s.logger.Debug("Collision ended", log.String("a", p.A.Name()), log.String("b", p.B.Name()))
		events = append(events, bus.NewEvent(bus.EventCollisionEnded, source, payload(p, world)))
	}
	for _, p := range missingFrom(next, previous).Collect() {
		s.logger.Debug("Collision began", log.String("a", p.A.Name()), log.String("b", p.B.Name()))
		events = append(events, bus.NewEvent(bus.EventCollisionBegan, source, payload(p, world)))
	}
	return world.PublishEvents(events...)
}

func missingFrom(pairs []physics.Pair, keys map[uint64]struct{}) *sequence.Iterator[physics.Pair] {
	return sequence.From(pairs).Filter(func(p physics.Pair) bool {
		_, ok := keys[p.Key()]
		return !ok
	})
}

func payload(p physics.Pair, world systems.World) bus.CollisionPayload {
	return bus.CollisionPayload{
		Key:   p.Key(),
		AID:   p.A.ID(),
		BID:   p.B.ID(),
		AName: p.A.Name(),
		BName: p.B.Name(),
		Frame: world.FrameCount(),
	}
}
