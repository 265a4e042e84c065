package planview

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables that override config keys,
// e.g. PLANVIEW_MAX_ZOOM=12.
const EnvPrefix = "PLANVIEW_"

// Config holds the plan dimensions and every tuning constant of the
// interaction engine. Velocities are in map units per millisecond.
type Config struct {
	// Plan
	BaseWidth   float64 `koanf:"base_width" yaml:"base_width"`
	BaseHeight  float64 `koanf:"base_height" yaml:"base_height"`
	MinZoom     float64 `koanf:"min_zoom" yaml:"min_zoom"`
	MaxZoom     float64 `koanf:"max_zoom" yaml:"max_zoom"`
	DefaultPanX float64 `koanf:"default_pan_x" yaml:"default_pan_x"`
	DefaultPanY float64 `koanf:"default_pan_y" yaml:"default_pan_y"`

	// Drag panning
	PanSpeedMin        float64       `koanf:"pan_speed_min" yaml:"pan_speed_min"`
	PanSpeedMax        float64       `koanf:"pan_speed_max" yaml:"pan_speed_max"`
	TouchPanMultiplier float64       `koanf:"touch_pan_multiplier" yaml:"touch_pan_multiplier"`
	VelocitySmoothing  float64       `koanf:"velocity_smoothing" yaml:"velocity_smoothing"`
	MaxVelocity        float64       `koanf:"max_velocity" yaml:"max_velocity"`
	FlickWindow        time.Duration `koanf:"flick_window" yaml:"flick_window"`
	FlickBoost         float64       `koanf:"flick_boost" yaml:"flick_boost"`
	FlickMaxVelocity   float64       `koanf:"flick_max_velocity" yaml:"flick_max_velocity"`
	StaleSampleWindow  time.Duration `koanf:"stale_sample_window" yaml:"stale_sample_window"`

	// Inertia
	InertiaDecay  float64       `koanf:"inertia_decay" yaml:"inertia_decay"`
	DecayInterval time.Duration `koanf:"decay_interval" yaml:"decay_interval"`
	MinVelocity   float64       `koanf:"min_velocity" yaml:"min_velocity"`
	MaxFrameDelta time.Duration `koanf:"max_frame_delta" yaml:"max_frame_delta"`

	// Wheel and pinch zoom
	LineHeight         float64 `koanf:"line_height" yaml:"line_height"`
	PageHeight         float64 `koanf:"page_height" yaml:"page_height"`
	WheelIntensity     float64 `koanf:"wheel_intensity" yaml:"wheel_intensity"`
	TrackpadIntensity  float64 `koanf:"trackpad_intensity" yaml:"trackpad_intensity"`
	TrackpadDeltaScale float64 `koanf:"trackpad_delta_scale" yaml:"trackpad_delta_scale"`
	TrackpadMaxDelta   float64 `koanf:"trackpad_max_delta" yaml:"trackpad_max_delta"`
	TrackpadZoomGain   float64 `koanf:"trackpad_zoom_gain" yaml:"trackpad_zoom_gain"`
	PinchGain          float64 `koanf:"pinch_gain" yaml:"pinch_gain"`
	ClampPinchPan      bool    `koanf:"clamp_pinch_pan" yaml:"clamp_pinch_pan"`

	// Taps and centering
	TapWindow       time.Duration `koanf:"tap_window" yaml:"tap_window"`
	TapSlop         float64       `koanf:"tap_slop" yaml:"tap_slop"`
	CenterDuration  time.Duration `koanf:"center_duration" yaml:"center_duration"`
	HoverHideDelay  time.Duration `koanf:"hover_hide_delay" yaml:"hover_hide_delay"`
	MarkerHitRadius float64       `koanf:"marker_hit_radius" yaml:"marker_hit_radius"`

	// Selection focus on narrow screens
	FocusZoom        float64 `koanf:"focus_zoom" yaml:"focus_zoom"`
	SmallScreenWidth float64 `koanf:"small_screen_width" yaml:"small_screen_width"`
}

// DefaultConfig returns the tuning used by the poster-mount floor plan.
func DefaultConfig() Config {
	return Config{
		BaseWidth:  1150,
		BaseHeight: 1360,
		MinZoom:    1,
		MaxZoom:    8,

		PanSpeedMin:        1,
		PanSpeedMax:        3,
		TouchPanMultiplier: 1.4,
		VelocitySmoothing:  0.22,
		MaxVelocity:        0.75,
		FlickWindow:        35 * time.Millisecond,
		FlickBoost:         1.6,
		FlickMaxVelocity:   1.0,
		StaleSampleWindow:  120 * time.Millisecond,

		InertiaDecay:  0.92,
		DecayInterval: 16 * time.Millisecond,
		MinVelocity:   0.02,
		MaxFrameDelta: 250 * time.Millisecond,

		LineHeight:         16,
		PageHeight:         800,
		WheelIntensity:     0.002,
		TrackpadIntensity:  0.01,
		TrackpadDeltaScale: 50,
		TrackpadMaxDelta:   3,
		TrackpadZoomGain:   0.25,
		PinchGain:          2,
		ClampPinchPan:      true,

		TapWindow:       350 * time.Millisecond,
		TapSlop:         10,
		CenterDuration:  600 * time.Millisecond,
		HoverHideDelay:  300 * time.Millisecond,
		MarkerHitRadius: 12,

		FocusZoom:        2.5,
		SmallScreenWidth: 600,
	}
}

// Validate checks that the configuration describes a usable viewport.
func (c *Config) Validate() error {
	if !finite(c.BaseWidth, c.BaseHeight, c.MinZoom, c.MaxZoom, c.DefaultPanX, c.DefaultPanY) {
		return fmt.Errorf("plan dimensions, zoom bounds and default pan must be finite")
	}
	if c.BaseWidth <= 0 || c.BaseHeight <= 0 {
		return fmt.Errorf("base size %vx%v must be positive", c.BaseWidth, c.BaseHeight)
	}
	if c.MinZoom <= 0 {
		return fmt.Errorf("min_zoom %v must be positive", c.MinZoom)
	}
	if c.MaxZoom < c.MinZoom {
		return fmt.Errorf("max_zoom %v is below min_zoom %v", c.MaxZoom, c.MinZoom)
	}
	if c.PanSpeedMin <= 0 || c.PanSpeedMax < c.PanSpeedMin {
		return fmt.Errorf("pan speed range [%v, %v] is invalid", c.PanSpeedMin, c.PanSpeedMax)
	}
	if c.VelocitySmoothing <= 0 || c.VelocitySmoothing > 1 {
		return fmt.Errorf("velocity_smoothing %v must be in (0, 1]", c.VelocitySmoothing)
	}
	if c.InertiaDecay <= 0 || c.InertiaDecay >= 1 {
		return fmt.Errorf("inertia_decay %v must be in (0, 1)", c.InertiaDecay)
	}
	if c.DecayInterval <= 0 {
		return fmt.Errorf("decay_interval must be positive")
	}
	if c.MinVelocity <= 0 {
		return fmt.Errorf("min_velocity %v must be positive", c.MinVelocity)
	}
	if c.MaxVelocity < c.MinVelocity || c.FlickMaxVelocity < c.MaxVelocity {
		return fmt.Errorf("velocity caps must satisfy min_velocity <= max_velocity <= flick_max_velocity")
	}
	if c.PinchGain <= 0 {
		return fmt.Errorf("pinch_gain %v must be positive", c.PinchGain)
	}
	if c.TapWindow < 0 || c.CenterDuration < 0 || c.HoverHideDelay < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// LoadConfig reads configuration from the given YAML file, then overlays
// environment variable overrides (PLANVIEW_*). Missing files are not an
// error; defaults apply.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}
