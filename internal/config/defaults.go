package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/leakscan.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the hard-coded default configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		ShipsDir: "~/.leakscan/ships",
		Database: "~/.leakscan/history.db",
		Scan: ScanConfig{
			Pressurization:      true,
			MinView:             30 * time.Second,
			MaxView:             5 * time.Minute,
			ViewSecondsPerMeter: 1.0,
			History:             true,
		},
		Overlay: OverlayConfig{
			SpawnInterval: 400 * time.Millisecond,
			Speed:         6,
			TrailLife:     600 * time.Millisecond,
			Fade:          250 * time.Millisecond,
			Particles:     true,
		},
		Viewer: ViewerConfig{
			FPS:        30,
			ShowLegend: true,
		},
		Server: ServerConfig{
			Addr:        ":23235",
			HostKey:     "~/.leakscan/ssh_host_key",
			IdleTimeout: 30 * time.Minute,
		},
	}
}
