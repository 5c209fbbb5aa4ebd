//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/polycollide/internal/config"
	"github.com/zeusync/polycollide/internal/core/scene"
)

func InitializeApp(cfg *config.Config) (*App, error) {
	wire.Build(ServerSet)
	return nil, nil
}

func InitializeScene(cfg *config.Config) (*scene.Scene, error) {
	wire.Build(CoreSet)
	return nil, nil
}
