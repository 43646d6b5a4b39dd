package settings

import (
	"image/color"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Keys interpreted by the scheduler and scroll engine. Style keys beyond
// these pass through to the render layer uninterpreted.
const (
	KeyUpdateInterval  = "update_interval"  // seconds between fetches, float > 0
	KeyScrollSpeed     = "scroll_speed"     // seconds per pixel advance, float > 0
	KeyTextColor       = "text_color"       // "#RRGGBB"
	KeyBackgroundColor = "background_color" // "#RRGGBB"
	KeyLoop            = "loop"             // bool
	KeyPlaceholder     = "placeholder"      // text shown before the first successful fetch
)

const (
	defaultUpdateInterval = 300 * time.Second
	defaultScrollSpeed    = 50 * time.Millisecond
)

// Store is the mutable keyed configuration consulted by the scheduler and
// scroll engine. The control server writes concurrently with the main loop
// reading, so access is guarded. Consumers must re-read on every use rather
// than caching values across Set calls.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewStore creates a store seeded with the given initial values.
func NewStore(initial map[string]any) *Store {
	values := make(map[string]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Store{values: values}
}

// Get returns the value for key, or def if the key is absent.
func (s *Store) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Set stores a value for key.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Snapshot returns a copy of all current settings.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// UpdateInterval returns the configured fetch interval. Invalid or
// non-positive stored values fall back to the default.
func (s *Store) UpdateInterval() time.Duration {
	secs := s.floatValue(KeyUpdateInterval)
	if secs <= 0 {
		return defaultUpdateInterval
	}
	return time.Duration(secs * float64(time.Second))
}

// ScrollSpeed returns the configured seconds-per-pixel advance as a duration.
// Invalid or non-positive stored values fall back to the default.
func (s *Store) ScrollSpeed() time.Duration {
	secs := s.floatValue(KeyScrollSpeed)
	if secs <= 0 {
		return defaultScrollSpeed
	}
	return time.Duration(secs * float64(time.Second))
}

// Loop reports whether the scroll wraps continuously. Defaults to true.
func (s *Store) Loop() bool {
	v := s.Get(KeyLoop, true)
	if b, ok := v.(bool); ok {
		return b
	}
	if str, ok := v.(string); ok {
		if b, err := strconv.ParseBool(str); err == nil {
			return b
		}
	}
	return true
}

// TextColor returns the scroll text color. Defaults to amber.
func (s *Store) TextColor() color.RGBA {
	return s.colorValue(KeyTextColor, color.RGBA{R: 0xFF, G: 0xB0, B: 0x00, A: 0xFF})
}

// BackgroundColor returns the frame background color. Defaults to black.
func (s *Store) BackgroundColor() color.RGBA {
	return s.colorValue(KeyBackgroundColor, color.RGBA{A: 0xFF})
}

// Placeholder returns the text shown before the first successful fetch.
func (s *Store) Placeholder() string {
	if v, ok := s.Get(KeyPlaceholder, "").(string); ok && v != "" {
		return v
	}
	return "..."
}

func (s *Store) floatValue(key string) float64 {
	switch v := s.Get(key, nil).(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}

func (s *Store) colorValue(key string, def color.RGBA) color.RGBA {
	v, ok := s.Get(key, nil).(string)
	if !ok {
		return def
	}
	c, err := ParseColor(v)
	if err != nil {
		return def
	}
	return c
}

// ParseColor parses a "#RRGGBB" hex color string.
func ParseColor(v string) (color.RGBA, error) {
	v = strings.TrimPrefix(v, "#")
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil || len(v) != 6 {
		return color.RGBA{}, &ColorError{Value: v}
	}
	return color.RGBA{
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
		A: 0xFF,
	}, nil
}

// ColorError reports an unparseable color value.
type ColorError struct {
	Value string
}

func (e *ColorError) Error() string {
	return "invalid color value: " + e.Value
}
