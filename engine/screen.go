package engine

import (
	"sync"
	"time"

	"github.com/Meulengracht/vioarr-sub000/region"
	"github.com/Meulengracht/vioarr-sub000/wire"
)

// Mode is one entry in a Screen's mode list, published in response to
// screen.get_modes. Exactly one Screen exists per Engine (multi-monitor
// hot-plug is a Non-goal), so there is exactly one mode: the screen's
// configured resolution and refresh rate, always both current and
// preferred.
type Mode struct {
	Width, Height int
	RefreshRate   int
	Current       bool
	Preferred     bool
}

// Screen holds the screen properties that dispatch publishes via
// screen.get_properties
// and screen.get_modes, grounded on vioarr_screen.c's region/transform/
// scale accessors.
type Screen struct {
	mu        sync.RWMutex
	region    region.Region
	transform wire.Transform
	scale     int
	modes     []Mode
}

func newScreen(r region.Region, refresh time.Duration) *Screen {
	hz := 0
	if refresh > 0 {
		hz = int(time.Second / refresh)
	}
	return &Screen{
		region:    r,
		transform: wire.TransformNormal,
		scale:     1,
		modes: []Mode{{
			Width:       r.Width,
			Height:      r.Height,
			RefreshRate: hz,
			Current:     true,
			Preferred:   true,
		}},
	}
}

// Region returns the screen's region.
func (s *Screen) Region() region.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.region
}

// Transform returns the screen's current rotation/mirroring state.
func (s *Screen) Transform() wire.Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transform
}

// SetTransform implements screen.set_transform.
func (s *Screen) SetTransform(t wire.Transform) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transform = t
}

// Scale returns the screen's current output scale factor.
func (s *Screen) Scale() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale
}

// SetScale implements screen.set_scale.
func (s *Screen) SetScale(scale int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = scale
}

// Modes returns a copy of the screen's mode list.
func (s *Screen) Modes() []Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Mode, len(s.modes))
	copy(out, s.modes)
	return out
}
