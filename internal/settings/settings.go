// Package settings loads the monitor's tunables from a YAML file for host
// runs. The device build uses the compiled-in defaults.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"deskmon/app"
	"deskmon/monitor/session"

	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up by DefaultPath.
const FileName = "deskmon.yaml"

type yamlSettings struct {
	SitThresholdCM float64 `yaml:"sit_threshold_cm"`
	TargetSeconds  int     `yaml:"target_seconds"`
	Window         int     `yaml:"window"`
	DebounceMS     int     `yaml:"debounce_ms"`
	TickMS         int     `yaml:"tick_ms"`
	EchoTimeoutMS  int     `yaml:"echo_timeout_ms"`
	Accrual        string  `yaml:"accrual"`
}

// Load reads path and overlays it on app.DefaultConfig. A missing file
// yields the defaults. Zero or absent fields keep their default.
func Load(path string) (app.Config, error) {
	cfg := app.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read settings file: %w", err)
	}

	var file yamlSettings
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse settings yaml: %w", err)
	}
	if err := apply(&cfg, file); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("settings %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg app.Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	file := yamlSettings{
		SitThresholdCM: cfg.SitThresholdCM,
		TargetSeconds:  int(cfg.Target / time.Second),
		Window:         cfg.Window,
		DebounceMS:     int(cfg.Debounce / time.Millisecond),
		TickMS:         int(cfg.TickInterval / time.Millisecond),
		EchoTimeoutMS:  int(cfg.EchoTimeout / time.Millisecond),
		Accrual:        cfg.Accrual.String(),
	}
	out, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// DefaultPath returns deskmon.yaml under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "deskmon", FileName), nil
}

func apply(cfg *app.Config, file yamlSettings) error {
	if file.SitThresholdCM > 0 {
		cfg.SitThresholdCM = file.SitThresholdCM
	}
	if file.TargetSeconds > 0 {
		cfg.Target = time.Duration(file.TargetSeconds) * time.Second
	}
	if file.Window > 0 {
		cfg.Window = file.Window
	}
	if file.DebounceMS > 0 {
		cfg.Debounce = time.Duration(file.DebounceMS) * time.Millisecond
	}
	if file.TickMS > 0 {
		cfg.TickInterval = time.Duration(file.TickMS) * time.Millisecond
	}
	if file.EchoTimeoutMS > 0 {
		cfg.EchoTimeout = time.Duration(file.EchoTimeoutMS) * time.Millisecond
	}
	if file.Accrual != "" {
		a, err := session.ParseAccrual(file.Accrual)
		if err != nil {
			return fmt.Errorf("parse settings yaml: %w", err)
		}
		cfg.Accrual = a
	}
	return nil
}
