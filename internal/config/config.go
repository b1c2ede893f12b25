// Package config provides YAML-based configuration loading for leakscan.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/leakscan/internal/leak"
	"github.com/vovakirdan/leakscan/internal/overlay"
)

// Config is the full leakscan configuration.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	ShipsDir string        `yaml:"ships_dir"`
	Database string        `yaml:"database"`
	Scan     ScanConfig    `yaml:"scan"`
	Overlay  OverlayConfig `yaml:"overlay"`
	Viewer   ViewerConfig  `yaml:"viewer"`
	Server   ServerConfig  `yaml:"server"`
}

// ScanConfig tunes the scanner.
type ScanConfig struct {
	Pressurization      bool          `yaml:"pressurization"`
	MinView             time.Duration `yaml:"min_view"`
	MaxView             time.Duration `yaml:"max_view"`
	ViewSecondsPerMeter float64       `yaml:"view_seconds_per_meter"`
	Timeout             time.Duration `yaml:"timeout"` // Headless scans only; 0 waits forever
	History             bool          `yaml:"history"` // Record finished scans in the database
}

// OverlayConfig tunes the leak path animation.
type OverlayConfig struct {
	SpawnInterval time.Duration `yaml:"spawn_interval"`
	Speed         float64       `yaml:"speed"` // Cells per second
	TrailLife     time.Duration `yaml:"trail_life"`
	Fade          time.Duration `yaml:"fade"`
	Particles     bool          `yaml:"particles"`
}

// ViewerConfig tunes the terminal viewer.
type ViewerConfig struct {
	FPS        int  `yaml:"fps"`
	ShowLegend bool `yaml:"show_legend"`
}

// ServerConfig tunes the SSH server.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate clamps out-of-range values and rejects ones that cannot be fixed.
func (c *Config) Validate() error {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: invalid log_level %q", c.LogLevel)
	}

	def := Default()
	if c.Scan.MinView <= 0 {
		c.Scan.MinView = def.Scan.MinView
	}
	if c.Scan.MaxView < c.Scan.MinView {
		c.Scan.MaxView = c.Scan.MinView
	}
	if c.Scan.ViewSecondsPerMeter <= 0 {
		c.Scan.ViewSecondsPerMeter = def.Scan.ViewSecondsPerMeter
	}
	if c.Scan.Timeout < 0 {
		c.Scan.Timeout = 0
	}

	if c.Overlay.SpawnInterval <= 0 {
		c.Overlay.SpawnInterval = def.Overlay.SpawnInterval
	}
	if c.Overlay.Speed <= 0 {
		c.Overlay.Speed = def.Overlay.Speed
	}
	if c.Overlay.TrailLife < 0 {
		c.Overlay.TrailLife = 0
	}
	if c.Overlay.Fade < 0 {
		c.Overlay.Fade = 0
	}

	if c.Viewer.FPS <= 0 {
		c.Viewer.FPS = def.Viewer.FPS
	}
	if c.Viewer.FPS > 120 {
		c.Viewer.FPS = 120
	}

	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.IdleTimeout < 0 {
		c.Server.IdleTimeout = 0
	}
	return nil
}

// Level returns the parsed log level, info when unset or invalid.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ScanSettings converts the scan section for the scanner.
func (c Config) ScanSettings() leak.Settings {
	return leak.Settings{
		Pressurization:      c.Scan.Pressurization,
		MinView:             c.Scan.MinView,
		MaxView:             c.Scan.MaxView,
		ViewSecondsPerMeter: c.Scan.ViewSecondsPerMeter,
	}
}

// OverlaySettings converts the overlay section for the path animation.
func (c Config) OverlaySettings() overlay.Settings {
	return overlay.Settings{
		SpawnInterval: c.Overlay.SpawnInterval,
		Speed:         c.Overlay.Speed,
		TrailLife:     c.Overlay.TrailLife,
		Fade:          c.Overlay.Fade,
	}
}

// DatabasePath returns the database path with ~ expanded.
func (c Config) DatabasePath() string {
	return expandHome(c.Database)
}

// ShipsPath returns the ships directory with ~ expanded.
func (c Config) ShipsPath() string {
	return expandHome(c.ShipsDir)
}

func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
