// Package config handles viewer configuration loading and management.
package config

import "time"

// Config holds all viewer settings.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Transition TransitionConfig `yaml:"transition"`
	Media      MediaConfig      `yaml:"media"`
	Player     PlayerConfig     `yaml:"player"`
	Runner     RunnerConfig     `yaml:"runner"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
	Debug      DebugConfig      `yaml:"debug"`
}

// WorldConfig points at the world description.
type WorldConfig struct {
	Path string `yaml:"path"`
	// Start overrides the world file's start location.
	Start string `yaml:"start"`
	// Watch re-applies the world file to the active view on change.
	Watch         bool   `yaml:"watch"`
	StreamingRoot string `yaml:"streaming_root"`
	// AssetDirs are searched for images after the world file's directory.
	AssetDirs []string `yaml:"asset_dirs"`
}

// TransitionConfig holds blink and teleport timing.
type TransitionConfig struct {
	FadeDuration   time.Duration `yaml:"fade_duration"`
	SettleDelay    time.Duration `yaml:"settle_delay"`
	WaitUntilReady bool          `yaml:"wait_until_ready"`
	// ReadyTimeout of zero waits for readiness forever.
	ReadyTimeout time.Duration `yaml:"ready_timeout"`
}

// MediaConfig holds view and simulated decoder settings.
type MediaConfig struct {
	DefaultSize    float32       `yaml:"default_size"`
	LoadingTexture string        `yaml:"loading_texture"`
	LocalLatency   time.Duration `yaml:"local_latency"`
	RemoteLatency  time.Duration `yaml:"remote_latency"`
}

// PlayerConfig holds camera rig settings.
type PlayerConfig struct {
	CenterCamera     bool    `yaml:"center_camera"`
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	EyeHeight        float32 `yaml:"eye_height"`
	FOV              float32 `yaml:"fov"`
	SurfaceDistance  float32 `yaml:"surface_distance"`
}

// RunnerConfig drives the headless tour.
type RunnerConfig struct {
	TickRate    int           `yaml:"tick_rate"`
	MaxDuration time.Duration `yaml:"max_duration"`
	// Tour lists edge names to take in order.
	Tour []string `yaml:"tour"`
	// Dwell is how long the runner stays at each stop.
	Dwell time.Duration `yaml:"dwell"`
}

// MetricsConfig holds the Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DebugConfig holds development switches.
type DebugConfig struct {
	// Strict panics when the active view and location disagree.
	Strict bool `yaml:"strict"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Path:          "world.yaml",
			StreamingRoot: "streaming",
		},
		Transition: TransitionConfig{
			FadeDuration:   100 * time.Millisecond,
			SettleDelay:    200 * time.Millisecond,
			WaitUntilReady: true,
			ReadyTimeout:   10 * time.Second,
		},
		Media: MediaConfig{
			DefaultSize:   4,
			LocalLatency:  50 * time.Millisecond,
			RemoteLatency: 500 * time.Millisecond,
		},
		Player: PlayerConfig{
			CenterCamera:     true,
			MouseSensitivity: 50,
			EyeHeight:        1.7,
			FOV:              60,
			SurfaceDistance:  5,
		},
		Runner: RunnerConfig{
			TickRate:    60,
			MaxDuration: 2 * time.Minute,
			Dwell:       2 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
