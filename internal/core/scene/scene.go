// Package scene owns the polygons, the selection and the per-tick systems.
// A Scene is not safe for concurrent use; the Runner serializes access.
package scene

import (
	"context"
	"errors"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/events/bus"
	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/systems"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
)

var _ systems.World = (*Scene)(nil)

// PairSource is implemented by systems that report colliding pairs.
type PairSource interface {
	Pairs() []physics.Pair
}

type Scene struct {
	polygons []*physics.Polygon
	controls config.Controls
	bus      bus.EventBus
	logger   log.Log
	systems  []systems.System
	pairs    PairSource

	selected  Selection
	frame     int64
	deltaTime float64
}

// New creates a scene over polys. Systems run in the given order on every
// Step; the last one implementing PairSource feeds Frame.Pairs.
func New(polys []*physics.Polygon, controls config.Controls, eventBus bus.EventBus, logger log.Log, sys ...systems.System) *Scene {
	if logger == nil {
		logger = log.Provide()
	}
	if eventBus == nil {
		eventBus = bus.New()
	}
	s := &Scene{
		polygons: polys,
		controls: controls,
		bus:      eventBus,
		logger:   logger.With(log.String("component", "scene")),
		systems:  sys,
	}
	for _, system := range sys {
		if src, ok := system.(PairSource); ok {
			s.pairs = src
		}
	}
	return s
}

// Initialize initializes every system in order.
func (s *Scene) Initialize(ctx context.Context) error {
	for _, system := range s.systems {
		if err := system.Initialize(ctx, s); err != nil {
			return err
		}
		s.logger.Debug("System initialized", log.String("system", system.Name()))
	}
	return nil
}

// Shutdown shuts every system down in reverse order.
func (s *Scene) Shutdown(ctx context.Context) error {
	var all error
	for i := len(s.systems) - 1; i >= 0; i-- {
		all = errors.Join(all, s.systems[i].Shutdown(ctx))
	}
	return all
}

// Step applies in for dt seconds, runs the systems and returns the new frame.
// System errors are logged and do not stop the step.
func (s *Scene) Step(in Input, dt float64) Frame {
	s.frame++
	s.deltaTime = dt

	prev := s.selected
	s.selected = ApplyInput(s.polygons, s.selected, in, dt, s.controls)
	if s.selected != prev {
		s.publishSelection(prev)
	}

	for _, system := range s.systems {
		if err := system.Update(dt, s); err != nil {
			s.logger.Warn("System update failed",
				log.String("system", system.Name()),
				log.Int64("frame", s.frame),
				log.Error(err))
		}
	}

	return s.Snapshot()
}

// Snapshot builds a frame of the current state without stepping.
func (s *Scene) Snapshot() Frame {
	var pairs []physics.Pair
	if s.pairs != nil {
		pairs = s.pairs.Pairs()
	}
	return buildFrame(s.frame, s.polygons, pairs, s.selected)
}

func (s *Scene) Polygons() []*physics.Polygon { return s.polygons }
func (s *Scene) Selected() Selection           { return s.selected }
func (s *Scene) FrameCount() int64             { return s.frame }
func (s *Scene) DeltaTime() float64            { return s.deltaTime }

func (s *Scene) PublishEvents(events ...bus.Event) error {
	return s.bus.PublishBatch(events...)
}

func (s *Scene) publishSelection(prev Selection) {
	payload := bus.SelectionPayload{
		PreviousID: string(prev),
		CurrentID:  string(s.selected),
		Frame:      s.frame,
	}
	if p := find(s.polygons, s.selected); p != nil {
		payload.Name = p.Name()
	}
	if err := s.bus.Publish(bus.NewEvent(bus.EventSelectionChanged, "scene", payload)); err != nil {
		s.logger.Warn("Selection handlers failed", log.Error(err))
	}
}
