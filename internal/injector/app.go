package injector

import (
	"context"
	"time"

	"github.com/zeusync/polycollide/internal/core/events/bus"
	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/scene"
	"github.com/zeusync/polycollide/internal/server"
)

const shutdownTimeout = 5 * time.Second

// App is the assembled server process.
type App struct {
	Logger *log.Logger
	Bus    bus.EventBus
	Scene  *scene.Scene
	Runner *scene.Runner
	Server *server.Server
}

func NewApp(logger *log.Logger, eventBus bus.EventBus, sc *scene.Scene, runner *scene.Runner, srv *server.Server) *App {
	runner.Subscribe(srv.Broadcast)
	return &App{
		Logger: logger,
		Bus:    eventBus,
		Scene:  sc,
		Runner: runner,
		Server: srv,
	}
}

// Run starts the server and ticks the scene until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Scene.Initialize(ctx); err != nil {
		return err
	}
	if err := a.Server.Start(ctx); err != nil {
		return err
	}

	deliveries := NewDeliveryLogger(a.Logger)
	a.Bus.AddObserver(deliveries)
	defer a.Bus.RemoveObserver(deliveries)

	runErr := a.Runner.Run(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Stop(stopCtx); err != nil {
		a.Logger.Warn("Server stop failed", log.Error(err))
	}
	if err := a.Scene.Shutdown(stopCtx); err != nil {
		a.Logger.Warn("Scene shutdown failed", log.Error(err))
	}
	return runErr
}

// LogCollisions reports every collision change on logger and returns the
// subscriptions.
func LogCollisions(eventBus bus.EventBus, logger log.Log) ([]bus.Subscription, error) {
	logger = logger.With(log.String("component", "coalitions"))

	began, err := eventBus.Subscribe(bus.EventCollisionBegan, func(e bus.Event) error {
		p, ok := e.Data().(bus.CollisionPayload)
		if ok {
			logger.Info("Coalition: "+p.AName+" with "+p.BName, log.Int64("frame", p.Frame))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ended, err := eventBus.Subscribe(bus.EventCollisionEnded, func(e bus.Event) error {
		p, ok := e.Data().(bus.CollisionPayload)
		if ok {
			logger.Info("Coalition ended: "+p.AName+" with "+p.BName, log.Int64("frame", p.Frame))
		}
		return nil
	})
	if err != nil {
		_ = began.Cancel()
		return nil, err
	}

	return []bus.Subscription{began, ended}, nil
}

// DeliveryLogger traces bus deliveries at debug level and reports failing
// handlers as warnings.
type DeliveryLogger struct {
	logger log.Log
}

var _ bus.EventBusObserver = (*DeliveryLogger)(nil)

func NewDeliveryLogger(logger log.Log) *DeliveryLogger {
	return &DeliveryLogger{logger: logger.With(log.String("component", "bus"))}
}

func (d *DeliveryLogger) OnPublish(eventType string, event bus.Event) {
	d.logger.Debug("Event published",
		log.String("type", eventType),
		log.String("source", event.Source()))
}

func (d *DeliveryLogger) OnDelivered(eventType string, handlers int, err error, duration time.Duration) {
	if err != nil {
		d.logger.Warn("Event handlers failed",
			log.String("type", eventType),
			log.Int("handlers", handlers),
			log.Error(err))
		return
	}
	d.logger.Debug("Event delivered",
		log.String("type", eventType),
		log.Int("handlers", handlers),
		log.Duration("took", duration))
}
