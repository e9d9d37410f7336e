// Package wire defines the compositor's protocol vocabulary: the
// decoded request and event values that cross the boundary between a
// wire codec (out of scope here; spec.md §6 calls it "a local stream
// socket... not part of the core contract") and the core packages,
// plus the Transport interface dispatch uses to emit events back to
// clients.
//
// Nothing here encodes or decodes bytes. A real codec sits in front of
// this package, turning socket frames into these structs and calling
// into dispatch.Dispatcher; dispatch calls back through Transport to
// emit events. This mirrors how original_source's `wm_*_invocation`
// callbacks receive already-decoded arguments from gracht and call
// `wm_*_event_*_single`/`_all` to emit.
package wire

import (
	"github.com/Meulengracht/vioarr-sub000/input"
	"github.com/Meulengracht/vioarr-sub000/registry"
)

// ClientID identifies a connected client across the wire boundary. It
// is kept as an alias of registry.ClientID so dispatch never converts
// between the two.
type ClientID = registry.ClientID

// Transport is the one interface the core exposes to the wire codec:
// already-decoded requests arrive as ordinary calls into
// dispatch.Dispatcher, and events leave through Send or Broadcast.
type Transport interface {
	Send(client ClientID, event any) error
	Close(client ClientID)

	// Broadcast delivers event to every currently connected client.
	// The registry uses this (through Dispatcher) to announce and
	// withdraw server-owned objects, since those are visible to every
	// client, not just the one that triggered the change.
	Broadcast(event any) error
}

// Transform mirrors the original's wm_transform enum: the screen's
// rotation and mirroring state, published in a properties event and
// set through screen.set_transform.
type Transform int

const (
	TransformNormal Transform = iota
	TransformRotate90
	TransformRotate180
	TransformRotate270
	TransformFlipped
	TransformFlippedRotate90
	TransformFlippedRotate180
	TransformFlippedRotate270
)

// FullscreenMode is the argument to surface.request_fullscreen_mode.
type FullscreenMode int

const (
	FullscreenExit FullscreenMode = iota
	FullscreenNormal
	FullscreenFull
)

// ErrorCode is the code carried in an error event. dispatch derives it
// from an internal/cerr.Kind at the point an operation fails.
type ErrorCode int

const (
	ErrCodeNotFound ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeResourceExhausted
	ErrCodeStateConflict
	ErrCodeDisconnect
)

// ---- Requests (spec.md §6's wire protocol table) ----

type CoreSync struct{ Serial uint32 }

type CoreGetObjects struct{}

type ScreenGetProperties struct{ ID uint32 }

type ScreenGetModes struct{ ID uint32 }

// ScreenSetScale and ScreenSetTransform supplement spec.md's wire
// table: the corresponding getters are named there, and the setters
// are named in original_source/core/vioarr_screen.c
// (wm_screen_set_scale_invocation, wm_screen_set_transform_invocation).
type ScreenSetScale struct {
	ID    uint32
	Scale int
}

type ScreenSetTransform struct {
	ID        uint32
	Transform Transform
}

// ScreenCreateSurface carries -1 in X or Y to request a spawn position
// from the rotating preset table; see ResolveSpawn.
type ScreenCreateSurface struct {
	ScreenID      uint32
	SurfaceID     uint32
	X, Y          int
	Width, Height int
}

type MemoryCreatePool struct {
	PoolID uint32
	Handle int
	Size   int
}

type MemoryPoolCreateBuffer struct {
	PoolID        uint32
	BufferID      uint32
	Offset        int
	Width, Height int
	Stride        int
	Format        int
	Flags         uint32
}

type MemoryPoolDestroy struct{ PoolID uint32 }

type BufferDestroy struct{ BufferID uint32 }

type SurfaceSetBuffer struct {
	SurfaceID uint32
	BufferID  uint32
}

type SurfaceSetInputRegion struct {
	SurfaceID           uint32
	X, Y, Width, Height int
}

type SurfaceSetDropShadow struct {
	SurfaceID           uint32
	X, Y, Width, Height int
}

// SurfaceSetCornerRadius supplements spec.md's wire table; see
// SPEC_FULL.md §4.2's set_corner_radius operation.
type SurfaceSetCornerRadius struct {
	SurfaceID uint32
	Radius    int
}

// SurfaceSetTransparency supplements spec.md's wire table; see
// SPEC_FULL.md §4.2's set_transparency operation.
type SurfaceSetTransparency struct {
	SurfaceID uint32
	Enable    bool
}

type SurfaceRequestFrame struct{ SurfaceID uint32 }

type SurfaceInvalidate struct {
	SurfaceID           uint32
	X, Y, Width, Height int
}

type SurfaceAddSubsurface struct {
	ParentID uint32
	ChildID  uint32
	X, Y     int
}

type SurfaceResizeSubsurface struct {
	SurfaceID     uint32
	Width, Height int
}

type SurfaceMoveSubsurface struct {
	SurfaceID uint32
	X, Y      int
}

type SurfaceCommit struct{ SurfaceID uint32 }

// SurfaceSetTitle supplements spec.md's wire table; see SPEC_FULL.md
// §3's note on surface.set_title.
type SurfaceSetTitle struct {
	SurfaceID uint32
	Title     string
}

type SurfaceRequestFullscreenMode struct {
	SurfaceID uint32
	Mode      FullscreenMode
}

type SurfaceRequestLevel struct {
	SurfaceID uint32
	Level     int
}

type SurfaceResize struct {
	SurfaceID uint32
	PointerID uint32
	Edges     input.Edge
}

type SurfaceMove struct {
	SurfaceID uint32
	PointerID uint32
}

type SurfaceDestroy struct{ SurfaceID uint32 }

type PointerSetSurface struct {
	PointerID        uint32
	SurfaceID        uint32
	XOffset, YOffset int
}

type PointerGrab struct {
	PointerID uint32
	SurfaceID uint32
}

type PointerUngrab struct {
	PointerID uint32
	SurfaceID uint32
}

type KeyboardHook struct {
	KeyboardID uint32
	SurfaceID  uint32
}

type KeyboardUnhook struct {
	KeyboardID uint32
	SurfaceID  uint32
}

// ---- Events (spec.md §6's emitted-events mirror) ----

type SyncEvent struct{ Serial uint32 }

type ErrorEvent struct {
	ID   uint32
	Code ErrorCode
	Text string
}

type ObjectEvent struct {
	LocalID  uint32
	GlobalID uint32
	Handle   int
	Type     registry.Type
}

type DestroyEvent struct{ ID uint32 }

type PropertiesEvent struct {
	ID        uint32
	X, Y      int
	Transform Transform
	Scale     int
}

type ModeEvent struct {
	ID                 uint32
	Width, Height      int
	RefreshRate        int
	Current, Preferred bool
}

type SurfaceFormatEvent struct {
	SurfaceID uint32
	Format    int
}

type SurfaceFrameEvent struct{ SurfaceID uint32 }

type SurfaceResizeEvent struct {
	SurfaceID     uint32
	Width, Height int
	Edges         int
}

type SurfaceFocusEvent struct {
	SurfaceID uint32
	Focused   bool
}

type BufferReleaseEvent struct{ BufferID uint32 }

type PointerEnterEvent struct {
	PointerID, SurfaceID uint32
	X, Y                 int
}

type PointerLeaveEvent struct{ PointerID, SurfaceID uint32 }

type PointerMoveEvent struct {
	PointerID, SurfaceID uint32
	X, Y                 int
}

type PointerClickEvent struct {
	PointerID, SurfaceID uint32
	Button               input.Button
	Pressed              bool
}

type PointerScrollEvent struct {
	PointerID, SurfaceID uint32
	DeltaZ               int
}

type KeyboardKeyEvent struct {
	SurfaceID uint32
	Key       input.Key
	Modifiers input.Modifier
}
