package config

import (
	"fmt"
	"time"

	"scrollkit/internal/domain"
)

// Probe granularity for scroll events
const (
	ProbeOff       = 0 // no scroll events
	ProbeThrottled = 1 // at most once per momentum window while dragging
	ProbeRealtime  = 2 // every pointer sample
	ProbeFrame     = 3 // every pointer sample and every animation frame
)

// Event passthrough values
const (
	PassthroughNone       = ""
	PassthroughHorizontal = "horizontal"
	PassthroughVertical   = "vertical"
)

// Options holds the engine tunables
type Options struct {
	StartX float64 `toml:"start_x"`
	StartY float64 `toml:"start_y"`

	ScrollX                bool    `toml:"scroll_x"`
	ScrollY                bool    `toml:"scroll_y"`
	FreeScroll             bool    `toml:"free_scroll"`
	DirectionLockThreshold float64 `toml:"direction_lock_threshold"`
	EventPassthrough       string  `toml:"event_passthrough"`

	Click bool   `toml:"click"`
	Tap   string `toml:"tap"` // name of the synthesized tap event, empty disables

	Bounce          bool `toml:"bounce"`
	BounceTimeMs    int  `toml:"bounce_time_ms"`
	Momentum        bool `toml:"momentum"`
	MomentumLimitMs int  `toml:"momentum_limit_time_ms"`
	// Minimum travel (px) before a drag counts as movement and before momentum applies
	MomentumLimitDistance float64 `toml:"momentum_limit_distance"`
	SwipeTimeMs           int     `toml:"swipe_time_ms"`
	SwipeBounceTimeMs     int     `toml:"swipe_bounce_time_ms"`
	Deceleration          float64 `toml:"deceleration"` // px/ms²
	BounceRate            float64 `toml:"bounce_rate"`

	FlickLimitMs       int     `toml:"flick_limit_time_ms"`
	FlickLimitDistance float64 `toml:"flick_limit_distance"`

	ProbeType     int  `toml:"probe_type"`
	UseTransition bool `toml:"use_transition"`
	DisableMouse  bool `toml:"disable_mouse"`
	DisableTouch  bool `toml:"disable_touch"`

	Snap            *SnapOptions     `toml:"snap,omitempty"`
	Wheel           *WheelOptions    `toml:"wheel,omitempty"`
	PullDownRefresh *PullDownOptions `toml:"pull_down_refresh,omitempty"`
	PullUpLoad      *PullUpOptions   `toml:"pull_up_load,omitempty"`
}

// SnapOptions configures paged scrolling
type SnapOptions struct {
	Loop  bool    `toml:"loop"`
	StepX float64 `toml:"step_x"` // zero means viewport width
	StepY float64 `toml:"step_y"` // zero means viewport height
	// Values below 1 are a fraction of the page size, otherwise pixels
	Threshold     float64 `toml:"threshold"`
	SpeedMs       int     `toml:"speed_ms"` // fixed page turn duration, zero derives it from distance
	MinDurationMs int     `toml:"min_duration_ms"`
	MaxDurationMs int     `toml:"max_duration_ms"`
	ListenFlick   bool    `toml:"listen_flick"`
}

// WheelOptions configures picker mode
type WheelOptions struct {
	SelectedIndex int `toml:"selected_index"`
	AdjustTimeMs  int `toml:"adjust_time_ms"`
}

// PullDownOptions configures pull-down refresh
type PullDownOptions struct {
	Threshold float64 `toml:"threshold"`
	Stop      float64 `toml:"stop"`
}

// PullUpOptions configures pull-up load
type PullUpOptions struct {
	Threshold float64 `toml:"threshold"`
}

// DefaultOptions returns the engine defaults
func DefaultOptions() Options {
	return Options{
		ScrollY:                true,
		DirectionLockThreshold: 5,
		Bounce:                 true,
		BounceTimeMs:           700,
		Momentum:               true,
		MomentumLimitMs:        300,
		MomentumLimitDistance:  15,
		SwipeTimeMs:            2500,
		SwipeBounceTimeMs:      500,
		Deceleration:           0.0015,
		BounceRate:             15,
		FlickLimitMs:           200,
		FlickLimitDistance:     100,
		UseTransition:          true,
	}
}

// DefaultSnapOptions returns snap defaults
func DefaultSnapOptions() *SnapOptions {
	return &SnapOptions{
		Threshold:     0.1,
		MinDurationMs: 300,
		MaxDurationMs: 1000,
		ListenFlick:   true,
	}
}

// Validate checks the options, returning a wrapped *domain.ConfigurationError
func (o Options) Validate() error {
	if err := o.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (o Options) validate() error {
	switch o.EventPassthrough {
	case PassthroughNone, PassthroughHorizontal, PassthroughVertical:
	default:
		return &domain.ConfigurationError{Field: "event_passthrough", Reason: fmt.Sprintf("unknown value %q", o.EventPassthrough)}
	}
	if o.Deceleration <= 0 {
		return &domain.ConfigurationError{Field: "deceleration", Reason: "must be positive"}
	}
	if o.DirectionLockThreshold < 0 {
		return &domain.ConfigurationError{Field: "direction_lock_threshold", Reason: "must not be negative"}
	}
	if o.ProbeType < ProbeOff || o.ProbeType > ProbeFrame {
		return &domain.ConfigurationError{Field: "probe_type", Reason: "must be between 0 and 3"}
	}
	if o.BounceRate <= 0 {
		return &domain.ConfigurationError{Field: "bounce_rate", Reason: "must be positive"}
	}
	for _, d := range []struct {
		field string
		ms    int
	}{
		{"bounce_time_ms", o.BounceTimeMs},
		{"momentum_limit_time_ms", o.MomentumLimitMs},
		{"swipe_time_ms", o.SwipeTimeMs},
		{"swipe_bounce_time_ms", o.SwipeBounceTimeMs},
		{"flick_limit_time_ms", o.FlickLimitMs},
	} {
		if d.ms < 0 {
			return &domain.ConfigurationError{Field: d.field, Reason: "must not be negative"}
		}
	}
	if s := o.Snap; s != nil {
		if s.StepX < 0 || s.StepY < 0 {
			return &domain.ConfigurationError{Field: "snap.step", Reason: "must not be negative"}
		}
		if s.Threshold < 0 {
			return &domain.ConfigurationError{Field: "snap.threshold", Reason: "must not be negative"}
		}
		if s.MinDurationMs < 0 || s.MaxDurationMs < s.MinDurationMs {
			return &domain.ConfigurationError{Field: "snap.duration", Reason: "need 0 <= min_duration_ms <= max_duration_ms"}
		}
	}
	if w := o.Wheel; w != nil && w.SelectedIndex < 0 {
		return &domain.ConfigurationError{Field: "wheel.selected_index", Reason: "must not be negative"}
	}
	if p := o.PullDownRefresh; p != nil && (p.Threshold <= 0 || p.Stop < 0) {
		return &domain.ConfigurationError{Field: "pull_down_refresh", Reason: "threshold must be positive and stop not negative"}
	}
	if p := o.PullUpLoad; p != nil && p.Threshold < 0 {
		return &domain.ConfigurationError{Field: "pull_up_load.threshold", Reason: "must not be negative"}
	}
	return nil
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func (o Options) BounceTime() time.Duration      { return ms(o.BounceTimeMs) }
func (o Options) MomentumLimit() time.Duration   { return ms(o.MomentumLimitMs) }
func (o Options) SwipeTime() time.Duration       { return ms(o.SwipeTimeMs) }
func (o Options) SwipeBounceTime() time.Duration { return ms(o.SwipeBounceTimeMs) }
func (o Options) FlickLimit() time.Duration      { return ms(o.FlickLimitMs) }

func (s SnapOptions) Speed() time.Duration       { return ms(s.SpeedMs) }
func (s SnapOptions) MinDuration() time.Duration { return ms(s.MinDurationMs) }
func (s SnapOptions) MaxDuration() time.Duration { return ms(s.MaxDurationMs) }

func (w WheelOptions) AdjustTime() time.Duration {
	if w.AdjustTimeMs == 0 {
		return 400 * time.Millisecond
	}
	return ms(w.AdjustTimeMs)
}
