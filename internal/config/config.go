// Package config loads navpath settings from TOML.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/navpath/internal/logging"
	"github.com/BrandonKowalski/navpath/pkg/navpath"
)

// DefaultAnimationName is the preset used when none is configured.
const DefaultAnimationName = "standard"

// Duration wraps time.Duration so TOML values like "350ms" decode.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// AnimationConfig is one named animation preset.
type AnimationConfig struct {
	Curve    string   `toml:"curve"`
	Duration Duration `toml:"duration"`
	Delay    Duration `toml:"delay"`
}

// Config is the file format of navpath settings.
type Config struct {
	LogLevel         string                     `toml:"log_level"`         // debug, info, warn, error
	EmptyPop         string                     `toml:"empty_pop"`         // error or ignore
	Locale           string                     `toml:"locale"`            // BCP 47 tag for user-facing messages
	DefaultAnimation string                     `toml:"default_animation"` // Key into Animations
	Animations       map[string]AnimationConfig `toml:"animations"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:         "error",
		EmptyPop:         "error",
		Locale:           "en",
		DefaultAnimation: DefaultAnimationName,
		Animations: map[string]AnimationConfig{
			DefaultAnimationName: {
				Curve:    string(navpath.CurveEaseInOut),
				Duration: Duration{350 * time.Millisecond},
			},
		},
	}
}

// Load reads and validates a TOML file. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates TOML bytes on top of Default.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var curves = map[navpath.Curve]struct{}{
	navpath.CurveLinear:    {},
	navpath.CurveEaseIn:    {},
	navpath.CurveEaseOut:   {},
	navpath.CurveEaseInOut: {},
	navpath.CurveSpring:    {},
}

// Validate checks every field.
func (c Config) Validate() error {
	if _, ok := logging.ParseLevel(c.LogLevel); !ok && c.LogLevel != "" {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if _, err := navpath.ParseEmptyPolicy(c.EmptyPop); err != nil {
		return err
	}

	names := make([]string, 0, len(c.Animations))
	for name := range c.Animations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		a := c.Animations[name]
		if _, ok := curves[navpath.Curve(a.Curve)]; !ok {
			return fmt.Errorf("animation %q: unknown curve %q", name, a.Curve)
		}
		if a.Duration.Duration < 0 || a.Delay.Duration < 0 {
			return fmt.Errorf("animation %q: negative duration", name)
		}
	}

	if c.DefaultAnimation != "" {
		if _, ok := c.Animations[c.DefaultAnimation]; !ok {
			return fmt.Errorf("default_animation %q is not defined", c.DefaultAnimation)
		}
	}
	return nil
}

// Animation returns the named preset. An empty name selects the default.
func (c Config) Animation(name string) (navpath.Animation, bool) {
	if name == "" {
		name = c.DefaultAnimation
	}
	a, ok := c.Animations[name]
	if !ok {
		return navpath.Animation{}, false
	}
	return navpath.Animation{
		Curve:    navpath.Curve(a.Curve),
		Duration: a.Duration.Duration,
		Delay:    a.Delay.Duration,
	}, true
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// PathOptions converts the configuration into navpath options.
func (c Config) PathOptions(logger *slog.Logger) []navpath.Option {
	policy, _ := navpath.ParseEmptyPolicy(c.EmptyPop)
	return []navpath.Option{
		navpath.WithEmptyPolicy(policy),
		navpath.WithLogger(logger),
	}
}
