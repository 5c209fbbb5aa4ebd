package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/events/bus"
	"github.com/zeusync/polycollide/internal/core/observability/log"
	"github.com/zeusync/polycollide/internal/core/scene"
	"github.com/zeusync/polycollide/internal/core/systems/collision"
	"github.com/zeusync/polycollide/internal/core/systems/physics"
	"github.com/zeusync/polycollide/internal/server"
)

// CoreSet builds everything needed to step a scene headlessly.
var CoreSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	ProvidePolygons,
	ProvideCollisionSystem,
	ProvideScene,
)

// ServerSet adds the tick loop and the renderer transports.
var ServerSet = wire.NewSet(
	CoreSet,
	ProvideRunner,
	wire.Bind(new(server.Controller), new(*scene.Runner)),
	ProvideServer,
	NewApp,
)

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(cfg.LogOptions())
}

func ProvidePolygons(cfg *config.Config) ([]*physics.Polygon, error) {
	return scene.Layout(cfg.Shapes, cfg.Window)
}

func ProvideCollisionSystem(cfg *config.Config, logger log.Log) *collision.System {
	return collision.New(cfg.Collision.Workers, logger)
}

func ProvideScene(cfg *config.Config, polys []*physics.Polygon, eventBus bus.EventBus, logger log.Log, coll *collision.System) *scene.Scene {
	return scene.New(polys, cfg.Controls, eventBus, logger, coll)
}

func ProvideRunner(cfg *config.Config, sc *scene.Scene, logger log.Log) *scene.Runner {
	return scene.NewRunner(sc, cfg.Loop, logger)
}

func ProvideServer(cfg *config.Config, controller server.Controller, logger log.Log) *server.Server {
	return server.New(cfg.Server, controller, logger)
}
