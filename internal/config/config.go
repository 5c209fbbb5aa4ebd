// Package config loads the YAML document that describes the polygon layout,
// the controls, the tick loop and the renderer transports.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/polycollide/internal/core/observability/log"
)

type Config struct {
	Log       Log       `yaml:"log"`
	Window    Window    `yaml:"window"`
	Shapes    Shapes    `yaml:"shapes"`
	Controls  Controls  `yaml:"controls"`
	Loop      Loop      `yaml:"loop"`
	Collision Collision `yaml:"collision"`
	Server    Server    `yaml:"server"`
}

type Log struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

// Window is the plane the renderer draws; the layout is centered in it.
type Window struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Center returns the middle of the window.
func (w Window) Center() (x, y float64) {
	return w.Width / 2, w.Height / 2
}

// Shapes describes the startup layout. Polygon i is named Names[i] and has
// 3+i sides.
type Shapes struct {
	Names        []string `yaml:"names"`
	LayoutRadius float64  `yaml:"layout_radius"`
	Scale        float64  `yaml:"scale"`
	StrokeWidth  float64  `yaml:"stroke_width"`
}

// Controls are per-second rates applied to the selected polygon.
type Controls struct {
	MoveSpeed     float64 `yaml:"move_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"` // degrees per second
}

type Loop struct {
	TickRate int `yaml:"tick_rate"`
}

// Interval is the duration of one tick.
func (l Loop) Interval() time.Duration {
	return time.Second / time.Duration(l.TickRate)
}

// Collision tunes the per-tick pair scan. Workers <= 1 scans sequentially.
type Collision struct {
	Workers int `yaml:"workers"`
}

type Server struct {
	WebSocketAddr string        `yaml:"websocket_addr"`
	QUICAddr      string        `yaml:"quic_addr"`
	MaxClients    int           `yaml:"max_clients"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	SendBuffer    int           `yaml:"send_buffer"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info", Encoding: "json"},
		Window: Window{
			Width:  800,
			Height: 600,
		},
		Shapes: Shapes{
			Names:        []string{"Square", "Triangle", "Pentagon", "Hexagon", "Heptagon", "Octagon", "Nonagon", "Decagon"},
			LayoutRadius: 200,
			Scale:        40,
			StrokeWidth:  3,
		},
		Controls: Controls{
			MoveSpeed:     50,
			RotationSpeed: 90,
		},
		Loop:      Loop{TickRate: 60},
		Collision: Collision{Workers: 1},
		Server: Server{
			WebSocketAddr: "127.0.0.1:8080",
			MaxClients:    64,
			WriteTimeout:  5 * time.Second,
			SendBuffer:    16,
		},
	}
}

// Load decodes YAML on top of Default and validates the result.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads path with Load. An empty path yields Default.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	return Load(f)
}

// Validate checks every section. The returned error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log: %v", ErrInvalidConfig, err)
	}
	if c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return fmt.Errorf("%w: log.encoding must be json or console, got %q", ErrInvalidConfig, c.Log.Encoding)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	}
	if len(c.Shapes.Names) == 0 {
		return fmt.Errorf("%w: shapes.names is empty", ErrInvalidConfig)
	}
	if c.Shapes.Scale <= 0 {
		return fmt.Errorf("%w: shapes.scale must be positive", ErrInvalidConfig)
	}
	if c.Shapes.LayoutRadius < 0 {
		return fmt.Errorf("%w: shapes.layout_radius must not be negative", ErrInvalidConfig)
	}
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("%w: loop.tick_rate must be positive", ErrInvalidConfig)
	}
	if c.Collision.Workers < 0 {
		return fmt.Errorf("%w: collision.workers must not be negative", ErrInvalidConfig)
	}
	if c.Server.MaxClients <= 0 {
		return fmt.Errorf("%w: server.max_clients must be positive", ErrInvalidConfig)
	}
	if c.Server.SendBuffer <= 0 {
		return fmt.Errorf("%w: server.send_buffer must be positive", ErrInvalidConfig)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("%w: server.write_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// LogOptions converts the log section for log.New.
func (c *Config) LogOptions() log.Options {
	level, _ := log.ParseLevel(c.Log.Level)
	return log.Options{Level: level, Encoding: c.Log.Encoding}
}
