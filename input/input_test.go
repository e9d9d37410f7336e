package input

import (
	"testing"

	"github.com/Meulengracht/vioarr-sub000/buffer"
	"github.com/Meulengracht/vioarr-sub000/pixfmt"
	"github.com/Meulengracht/vioarr-sub000/region"
	"github.com/Meulengracht/vioarr-sub000/shm"
	"github.com/Meulengracht/vioarr-sub000/surface"
	"github.com/Meulengracht/vioarr-sub000/wm"
)

type fakeSegment struct{ data []byte }

func (f *fakeSegment) Bytes() []byte { return f.data }
func (f *fakeSegment) Close() error  { return nil }

type fakeHost struct{ screen region.Region }

func (h *fakeHost) Region() region.Region                                { return h.screen }
func (h *fakeHost) CreateImage(buf *buffer.Buffer) (int, error)          { return 1, nil }
func (h *fakeHost) UpdateImage(resourceID int, buf *buffer.Buffer) error { return nil }
func (h *fakeHost) DestroyImage(resourceID int)                          {}
func (h *fakeHost) WaitFrame()                                          {}

func newVisibleSurface(t *testing.T, id uint32, client int32, host *fakeHost, x, y, w, hh int) *surface.Surface {
	t.Helper()
	s, err := surface.Create(id, client, host, nil, x, y, w, hh)
	if err != nil {
		t.Fatal(err)
	}
	prev := shm.Attach
	shm.Attach = func(handle int, size int) (shm.Segment, error) {
		return &fakeSegment{data: make([]byte, size)}, nil
	}
	t.Cleanup(func() { shm.Attach = prev })
	pool, err := shm.Create(0, 40000)
	if err != nil {
		t.Fatal(err)
	}
	b, err := buffer.Create(id+1000, pool, 0, 100, 100, 400, pixfmt.ARGB32, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SetBuffer(b); err != nil {
		t.Fatal(err)
	}
	s.Commit()
	return s
}

type recordingEvents struct {
	enters  int
	leaves  int
	moves   int
	clicks  int
	keys    int
	lastKey Key
}

func (e *recordingEvents) PointerEnter(client int32, sourceID, surfaceID uint32, x, y int) { e.enters++ }
func (e *recordingEvents) PointerLeave(client int32, sourceID, surfaceID uint32)           { e.leaves++ }
func (e *recordingEvents) PointerMove(client int32, sourceID, surfaceID uint32, x, y int)  { e.moves++ }
func (e *recordingEvents) PointerClick(client int32, sourceID, surfaceID uint32, button Button, pressed bool) {
	e.clicks++
}
func (e *recordingEvents) KeyboardKey(client int32, surfaceID uint32, key Key, modifiers Modifier) {
	e.keys++
	e.lastKey = key
}

func TestAxisEventEntersAndMovesOverSurface(t *testing.T) {
	manager := wm.New()
	host := &fakeHost{screen: region.New(0, 0, 1000, 1000)}
	s := newVisibleSurface(t, 1, 0, host, 100, 100, 200, 200)
	s.SetInputRegion(0, 0, 200, 200)
	s.Commit()
	manager.Register(s)

	events := &recordingEvents{}
	sys := New(manager, events, region.New(0, 0, 1000, 1000))
	src := sys.Register(10, 1, SourcePointer)
	// center of screen (500,500) is outside the surface; move pointer
	// onto the surface at (150,150). The device reports y positive-down
	// and AxisEvent negates dy into the positive-up pointer state, so
	// dy=+350 takes y from 500 to 150 and dx=-350 takes x to 150.
	sys.AxisEvent(src.DeviceID, -350, 350, 0)

	if events.enters != 1 {
		t.Fatalf("expected one enter event moving onto the surface, got %d", events.enters)
	}

	sys.AxisEvent(src.DeviceID, 5, 5, 0)
	if events.moves != 1 {
		t.Fatalf("expected one move event while still over the surface, got %d", events.moves)
	}
}

func TestAxisEventClampsToBounds(t *testing.T) {
	manager := wm.New()
	events := &recordingEvents{}
	bounds := region.New(0, 0, 1000, 1000)
	sys := New(manager, events, bounds)
	src := sys.Register(10, 1, SourcePointer)

	sys.AxisEvent(src.DeviceID, 10000, 0, 0)
	if src.x != bounds.Width {
		t.Fatalf("expected pointer x clamped to %d, got %d", bounds.Width, src.x)
	}
}

func TestGrabSendsRelativeDeltasWithoutHitTesting(t *testing.T) {
	manager := wm.New()
	host := &fakeHost{screen: region.New(0, 0, 1000, 1000)}
	s := newVisibleSurface(t, 1, 7, host, 400, 400, 100, 100)
	manager.Register(s)

	events := &recordingEvents{}
	sys := New(manager, events, region.New(0, 0, 1000, 1000))
	src := sys.Register(10, 1, SourcePointer)
	src.x, src.y = 450, 450

	sys.Grab(src, s)
	if src.mode != ModeGrabbed {
		t.Fatal("expected source to enter grabbed mode")
	}

	sys.AxisEvent(src.DeviceID, 5, 5, 0)
	if events.moves != 1 {
		t.Fatalf("expected grabbed motion to send exactly one move event, got %d", events.moves)
	}
	if events.enters != 0 || events.leaves != 0 {
		t.Fatal("grabbed mode must not hit-test or send enter/leave events")
	}
}

func TestRequestResizeRejectsMaximizedSurface(t *testing.T) {
	manager := wm.New()
	host := &fakeHost{screen: region.New(0, 0, 1000, 1000)}
	s := newVisibleSurface(t, 1, 0, host, 0, 0, 100, 100)
	manager.Register(s)
	s.Maximize()

	sys := New(manager, &recordingEvents{}, region.New(0, 0, 1000, 1000))
	src := sys.Register(10, 1, SourcePointer)
	src.x, src.y = 500, 500

	sys.RequestResize(src, s, EdgeBottomRight)
	if src.mode != ModeNormal {
		t.Fatal("expected resize request on a maximized surface to be rejected")
	}
}

func TestKeyboardKeyGoesToFocusedSurface(t *testing.T) {
	manager := wm.New()
	host := &fakeHost{screen: region.New(0, 0, 1000, 1000)}
	s := newVisibleSurface(t, 1, 3, host, 0, 0, 100, 100)
	manager.Register(s)
	manager.Focus(s)

	events := &recordingEvents{}
	sys := New(manager, events, region.New(0, 0, 1000, 1000))
	sys.KeyboardKey(KeyA, ModShift)

	if events.keys != 1 || events.lastKey != KeyA {
		t.Fatalf("expected key event delivered to focused surface, got %d events", events.keys)
	}
}

func TestUnregisterDemotesCursorSurface(t *testing.T) {
	manager := wm.New()
	host := &fakeHost{screen: region.New(0, 0, 1000, 1000)}
	cursorSurf := newVisibleSurface(t, 2, 0, host, 0, 0, 20, 20)

	sys := New(manager, &recordingEvents{}, region.New(0, 0, 1000, 1000))
	src := sys.Register(10, 1, SourcePointer)
	sys.SetCursorSurface(src, cursorSurf, 0, 0)
	if cursorSurf.Level() != wm.LevelCursor {
		t.Fatalf("expected cursor surface promoted to cursor level, got %d", cursorSurf.Level())
	}

	sys.Unregister(src.DeviceID)
	if cursorSurf.Level() != wm.LevelDefault {
		t.Fatalf("expected cursor surface demoted on unregister, got %d", cursorSurf.Level())
	}
}
