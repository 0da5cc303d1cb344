package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings represents the hazel.yaml runtime configuration.
type Settings struct {
	// DiagLevel is the minimum diagnostic severity that gets reported.
	// One of "notice", "warning", "error", "silent". Defaults to "warning".
	DiagLevel string `yaml:"diag_level,omitempty"`

	// Color controls ANSI coloring of diagnostics: "auto" (color when the
	// output is a terminal), "always", or "never". Defaults to "auto".
	Color string `yaml:"color,omitempty"`
}

// Default returns the settings used when no configuration file is present.
func Default() *Settings {
	return &Settings{
		DiagLevel: DefaultDiagLevel,
		Color:     "auto",
	}
}

// Load reads and validates a YAML settings file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks field values without touching the filesystem.
func (s *Settings) Validate() error {
	switch s.DiagLevel {
	case LevelNameNotice, LevelNameWarning, LevelNameError, LevelNameSilent:
	case "":
		s.DiagLevel = DefaultDiagLevel
	default:
		return fmt.Errorf("unknown diag_level %q", s.DiagLevel)
	}
	switch s.Color {
	case "auto", "always", "never":
	case "":
		s.Color = "auto"
	default:
		return fmt.Errorf("unknown color mode %q", s.Color)
	}
	return nil
}
