package config

import (
	"flag"
	"strings"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging and strict invariants")
	flagWorld   = flag.String("world", "", "Path to world file")
	flagStart   = flag.String("start", "", "Start location override")
	flagWatch   = flag.Bool("watch", false, "Re-apply the world file when it changes")
	flagTour    = flag.String("tour", "", "Comma-separated edge names to take")
	flagMetrics = flag.String("metrics", "", "Metrics listen address")
	flagNoWait  = flag.Bool("no-wait", false, "Use the fixed settle delay instead of waiting for readiness")
	flagWrite   = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config target, if any.
func WriteConfigPath() string {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.Strict = true
	}
	if *flagWorld != "" {
		cfg.World.Path = *flagWorld
	}
	if *flagStart != "" {
		cfg.World.Start = *flagStart
	}
	if *flagWatch {
		cfg.World.Watch = true
	}
	if *flagTour != "" {
		cfg.Runner.Tour = splitList(*flagTour)
	}
	if *flagMetrics != "" {
		cfg.Metrics.Listen = *flagMetrics
	}
	if *flagNoWait {
		cfg.Transition.WaitUntilReady = false
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
