// Package input implements the compositor's input state machine: one
// Source per pointer or keyboard device, pointer motion routed
// through normal/resizing/moving/grabbed modes, and the surface
// enter/leave/move/click and key events that result.
package input

import (
	"sync"

	"github.com/Meulengracht/vioarr-sub000/region"
	"github.com/Meulengracht/vioarr-sub000/surface"
	"github.com/Meulengracht/vioarr-sub000/wm"
)

// SourceType distinguishes a pointer device from a keyboard device.
type SourceType int

const (
	SourceUnknown SourceType = iota
	SourcePointer
	SourceKeyboard
)

// Mode is a pointer source's current operating mode.
type Mode int

const (
	// ModeNormal is plain hover/click routing: motion updates
	// enter/leave/move events for whatever surface is under the
	// pointer.
	ModeNormal Mode = iota
	// ModeResizing means motion resizes opSurface along edge instead
	// of moving the pointer over the surface tree.
	ModeResizing
	// ModeMoving means motion repositions opSurface.
	ModeMoving
	// ModeGrabbed means motion is relayed to opSurface as relative
	// deltas with no hit-testing; the pointer's own position does not
	// change (used for camera-look style input).
	ModeGrabbed
)

// Source is one input device: a pointer with motion/button routing,
// or a keyboard that simply forwards key events to the focused
// surface.
type Source struct {
	ID       uint32
	DeviceID uint64
	Type     SourceType

	x, y, z   int
	cursor    *surface.Surface
	mode      Mode
	edge      Edge
	opSurface *surface.Surface
}

// Events delivers the wire events the input state machine produces.
type Events interface {
	PointerEnter(client int32, sourceID, surfaceID uint32, x, y int)
	PointerLeave(client int32, sourceID, surfaceID uint32)
	PointerMove(client int32, sourceID, surfaceID uint32, x, y int)
	PointerClick(client int32, sourceID, surfaceID uint32, button Button, pressed bool)
	KeyboardKey(client int32, surfaceID uint32, key Key, modifiers Modifier)
}

// System owns every registered input device and routes motion/button/
// key events through the pointer state machine described in the
// compositor's input model.
type System struct {
	mu      sync.Mutex
	wm      *wm.Manager
	events  Events
	bounds  region.Region
	sources map[uint64]*Source
}

// New returns a System that hit-tests and focuses surfaces through
// manager, clamping pointer motion to bounds (the screen's region),
// and delivering events through ev.
func New(manager *wm.Manager, ev Events, bounds region.Region) *System {
	return &System{
		wm:      manager,
		events:  ev,
		bounds:  bounds,
		sources: make(map[uint64]*Source),
	}
}

// Register adds a new input source identified by id (assigned by the
// object registry) for the physical device deviceID. A pointer source
// starts at the center of the screen.
func (s *System) Register(id uint32, deviceID uint64, typ SourceType) *Source {
	src := &Source{ID: id, DeviceID: deviceID, Type: typ}
	if typ == SourcePointer {
		src.x = s.bounds.X + s.bounds.Width/2
		src.y = s.bounds.Y + s.bounds.Height/2
	}
	s.mu.Lock()
	s.sources[deviceID] = src
	s.mu.Unlock()
	return src
}

// Unregister removes the source for deviceID, demoting its cursor
// surface (if any) back off the cursor stacking level.
func (s *System) Unregister(deviceID uint64) {
	s.mu.Lock()
	src := s.sources[deviceID]
	delete(s.sources, deviceID)
	s.mu.Unlock()

	if src != nil && src.cursor != nil {
		s.wm.DemoteCursor(src.cursor)
	}
}

func (s *System) source(deviceID uint64) *Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sources[deviceID]
}

// SetCursorSurface attaches surf as the visual cursor tracked by src,
// promoting it to the cursor stacking level and moving its origin to
// the pointer's current position plus (xOffset, yOffset), the
// cursor's hotspot offset. Passing nil clears the current cursor surface
// and hides it by detaching its content. Re-setting the same surface
// just repositions it (e.g. on a hotspot change), without a demote/
// promote cycle.
func (s *System) SetCursorSurface(src *Source, surf *surface.Surface, xOffset, yOffset int) {
	if surf != nil && src.cursor == surf {
		surf.MoveAbsolute(src.x+xOffset, src.y+yOffset)
		return
	}

	if src.cursor != nil {
		s.wm.DemoteCursor(src.cursor)
		src.cursor.SetBuffer(nil)
		src.cursor.Commit()
	}

	if surf != nil {
		s.wm.PromoteCursor(surf)
		surf.MoveAbsolute(src.x+xOffset, src.y+yOffset)
	}
	src.cursor = surf
}

// RequestResize begins a resize operation anchored at edge, if src is
// idle and its pointer currently sits over surf (and surf isn't
// maximized — a maximized surface can't be resized).
func (s *System) RequestResize(src *Source, surf *surface.Surface, edge Edge) {
	if src.mode != ModeNormal {
		return
	}
	if surf.Maximized() || !surf.Contains(src.x, src.y) {
		return
	}
	src.opSurface = surf
	src.mode = ModeResizing
	src.edge = edge
}

// RequestMove begins a move operation, under the same preconditions
// as RequestResize.
func (s *System) RequestMove(src *Source, surf *surface.Surface) {
	if src.mode != ModeNormal {
		return
	}
	if surf.Maximized() || !surf.Contains(src.x, src.y) {
		return
	}
	src.opSurface = surf
	src.mode = ModeMoving
}

// Grab switches src into grabbed mode, binding all subsequent motion
// to relative deltas sent to surf. The pointer is warped to surf's
// center, since grabbed mode never shows a cursor over the surface
// contents.
func (s *System) Grab(src *Source, surf *surface.Surface) {
	if src.mode != ModeNormal {
		return
	}
	if !surf.Contains(src.x, src.y) {
		return
	}
	r := surf.Region()
	src.opSurface = surf
	src.mode = ModeGrabbed
	src.x = r.X + r.Width/2
	src.y = r.Y + r.Height/2
}

// Ungrab releases a grab previously established with Grab, if surf is
// still the grabbed surface.
func (s *System) Ungrab(src *Source, surf *surface.Surface) {
	if src.mode != ModeGrabbed || src.opSurface != surf {
		return
	}
	s.clearState(src)
}

func (s *System) clearState(src *Source) {
	src.mode = ModeNormal
	src.opSurface = nil
}

// OnSurfaceDestroy clears any input source's operating surface that
// referenced surf, so a resize/move/grab never outlives the surface
// it targeted.
func (s *System) OnSurfaceDestroy(surf *surface.Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, src := range s.sources {
		if src.opSurface == surf {
			s.clearState(src)
		}
	}
}

// clampAxis bounds a relative motion delta so the pointer's resulting
// position stays within [lo, hi].
func clampAxis(pos, delta, lo, hi int) int {
	if pos+delta > hi {
		return hi - pos
	}
	if pos+delta < lo {
		return lo - pos
	}
	return delta
}

// AxisEvent applies relative pointer motion (dx, dy, dz) from the
// device identified by deviceID. dy follows the wire convention of
// positive-down; internally the compositor tracks positive-up, so it
// is negated here before clamping and dispatch.
func (s *System) AxisEvent(deviceID uint64, dx, dy, dz int) {
	src := s.source(deviceID)
	if src == nil {
		return
	}

	clampedX := clampAxis(src.x, dx, s.bounds.X, s.bounds.X+s.bounds.Width)
	clampedY := clampAxis(src.y, -dy, s.bounds.Y, s.bounds.Y+s.bounds.Height)

	switch src.mode {
	case ModeNormal:
		s.normalMotion(src, clampedX, clampedY, dz)
	case ModeResizing:
		s.resizeMotion(src, clampedX, clampedY)
	case ModeMoving:
		s.moveMotion(src, clampedX, clampedY)
	case ModeGrabbed:
		s.grabbedMotion(src, clampedX, clampedY, dz)
	}
}

func (s *System) normalMotion(src *Source, clampedX, clampedY, dz int) {
	current := src.opSurface
	after, localX, localY := s.wm.SurfaceAt(src.x+clampedX, src.y+clampedY)
	sendUpdates := after != nil && after.SupportsInput(localX, localY)

	src.x += clampedX
	src.y += clampedY
	src.z += dz
	if src.cursor != nil {
		src.cursor.Move(clampedX, clampedY)
	}

	if current != after {
		if current != nil {
			s.events.PointerLeave(current.Client, src.ID, current.ID)
		}
		if !sendUpdates {
			src.opSurface = nil
			return
		}
		src.opSurface = after
		s.events.PointerEnter(after.Client, src.ID, after.ID, localX, localY)
		return
	}

	if sendUpdates {
		s.events.PointerMove(after.Client, src.ID, after.ID, localX, localY)
	}
}

func (s *System) resizeMotion(src *Source, clampedX, clampedY int) {
	current := src.opSurface
	if clampedX == 0 && clampedY == 0 {
		return
	}
	r := current.Region()
	current.Resize(r.Width+clampedX, r.Height+clampedY, int(src.edge))

	src.x += clampedX
	src.y += clampedY
	if src.cursor != nil {
		src.cursor.Move(clampedX, clampedY)
	}
}

func (s *System) moveMotion(src *Source, clampedX, clampedY int) {
	current := src.opSurface
	if clampedX == 0 && clampedY == 0 {
		return
	}
	current.Move(clampedX, clampedY)

	src.x += clampedX
	src.y += clampedY
	if src.cursor != nil {
		src.cursor.Move(clampedX, clampedY)
	}
}

func (s *System) grabbedMotion(src *Source, clampedX, clampedY, dz int) {
	current := src.opSurface
	s.events.PointerMove(current.Client, src.ID, current.ID, clampedX, clampedY)
	src.z += dz
}

// PointerButton reports a button press/release from deviceID.
func (s *System) PointerButton(deviceID uint64, button Button, pressed bool) {
	src := s.source(deviceID)
	if src == nil {
		return
	}

	if src.mode == ModeNormal || src.mode == ModeGrabbed {
		s.normalClick(src, button, pressed)
		return
	}
	if button == ButtonLeft && !pressed {
		s.clearState(src)
	}
}

func (s *System) normalClick(src *Source, button Button, pressed bool) {
	clicked := src.opSurface
	sendClick := true

	if clicked == nil {
		var localX, localY int
		clicked, localX, localY = s.wm.SurfaceAt(src.x, src.y)
		sendClick = clicked != nil && clicked.SupportsInput(localX, localY)
		if sendClick {
			src.opSurface = clicked
			s.events.PointerEnter(clicked.Client, src.ID, clicked.ID, localX, localY)
		}
	}

	if clicked != nil {
		s.wm.Focus(clicked)
	}

	if sendClick {
		s.events.PointerClick(clicked.Client, src.ID, clicked.ID, button, pressed)
	}
}

// KeyboardKey reports a key press/release, delivered to the window
// manager's currently focused surface. Unlike pointer devices,
// keyboard routing has no per-source state: only one surface is ever
// focused at a time.
func (s *System) KeyboardKey(key Key, modifiers Modifier) {
	focused := s.wm.Focused()
	if focused == nil {
		return
	}
	s.events.KeyboardKey(focused.Client, focused.ID, key, modifiers)
}
