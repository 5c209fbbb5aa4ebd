package systems

import (
	"context"
	"time"

	"github.com/zeusync/polycollide/internal/core/events/bus"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
)

// System is a per-tick processor run by the scene after input is applied.
type System interface {
	Name() string

	// Lifecycle

	Initialize(ctx context.Context, world World) error
	Shutdown(ctx context.Context) error

	// Execution

	Update(deltaTime float64, world World) error

	GetMetrics() Metrics
}

// World is the view of the scene handed to systems. Polygons must only be
// read during Update.
type World interface {
	Polygons() []*physics.Polygon
	DeltaTime() float64
	FrameCount() int64
	// PublishEvents delivers events in order and joins handler errors.
	PublishEvents(events ...bus.Event) error
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	EntitiesProcessed    uint64
}

// Observe records one execution.
func (m *Metrics) Observe(d time.Duration, processed uint64, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += d
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if d > m.MaxExecutionTime {
		m.MaxExecutionTime = d
	}
	m.EntitiesProcessed += processed
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}
