package engine

import (
	"testing"
	"time"

	"github.com/Meulengracht/vioarr-sub000/region"
	"github.com/Meulengracht/vioarr-sub000/wire"
)

func TestNewScreenSeedsOneCurrentPreferredMode(t *testing.T) {
	s := newScreen(region.New(0, 0, 1920, 1080), 16*time.Millisecond)
	modes := s.Modes()
	if len(modes) != 1 {
		t.Fatalf("expected exactly one mode, got %d", len(modes))
	}
	m := modes[0]
	if !m.Current || !m.Preferred {
		t.Fatalf("expected the sole mode to be current and preferred, got %+v", m)
	}
	if m.Width != 1920 || m.Height != 1080 {
		t.Fatalf("unexpected mode dimensions %+v", m)
	}
}

func TestScreenSetScaleAndTransform(t *testing.T) {
	s := newScreen(region.New(0, 0, 640, 480), time.Millisecond)
	if s.Scale() != 1 {
		t.Fatalf("expected default scale 1, got %d", s.Scale())
	}
	s.SetScale(2)
	if s.Scale() != 2 {
		t.Fatalf("expected scale 2 after SetScale, got %d", s.Scale())
	}

	if s.Transform() != wire.TransformNormal {
		t.Fatalf("expected default transform normal, got %v", s.Transform())
	}
	s.SetTransform(wire.TransformRotate90)
	if s.Transform() != wire.TransformRotate90 {
		t.Fatalf("expected transform rotate-90 after SetTransform, got %v", s.Transform())
	}
}
