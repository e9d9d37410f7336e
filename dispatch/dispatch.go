// Package dispatch turns decoded wire requests into calls against the
// engine's registry, surface tree, window manager, input system and
// renderer, and turns their results into wire events sent back through
// a wire.Transport.
//
// Each exported method here is the Go analogue of one of
// original_source's `wm_*_invocation` callbacks: it resolves the
// request's object ids through the registry, calls the matching
// domain method, and on failure emits a wire error event instead of
// propagating the Go error further.
package dispatch

import (
	"log/slog"

	"github.com/Meulengracht/vioarr-sub000/buffer"
	"github.com/Meulengracht/vioarr-sub000/engine"
	"github.com/Meulengracht/vioarr-sub000/input"
	"github.com/Meulengracht/vioarr-sub000/internal/cerr"
	"github.com/Meulengracht/vioarr-sub000/pixfmt"
	"github.com/Meulengracht/vioarr-sub000/registry"
	"github.com/Meulengracht/vioarr-sub000/shm"
	"github.com/Meulengracht/vioarr-sub000/surface"
	"github.com/Meulengracht/vioarr-sub000/wire"
	"github.com/Meulengracht/vioarr-sub000/wm"
)

// Dispatcher is the compositor's single request-handling object. One
// Dispatcher is shared by every connected client.
type Dispatcher struct {
	eng       *engine.Engine
	transport wire.Transport
	log       *slog.Logger
}

// New returns a Dispatcher driving eng and emitting events through
// transport. logger may be nil, in which case slog.Default is used.
//
// New installs itself as eng.Registry's announcer, so that
// RegisterServer and Remove broadcast an object-announce or destroy
// event to every connected client whenever a server-owned object (the
// screen, a pointer, a keyboard) is published or withdrawn.
func New(eng *engine.Engine, transport wire.Transport, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{eng: eng, transport: transport, log: logger}
	eng.Registry.SetAnnouncer(d.broadcastObject, d.broadcastDestroy)
	return d
}

func (d *Dispatcher) send(client wire.ClientID, event any) {
	if d.transport == nil {
		return
	}
	if err := d.transport.Send(client, event); err != nil {
		d.log.Warn("dispatch: send failed", "client", client, "error", err)
	}
}

func (d *Dispatcher) broadcastObject(id uint32, typ registry.Type) {
	if d.transport == nil {
		return
	}
	if err := d.transport.Broadcast(wire.ObjectEvent{LocalID: id, GlobalID: id, Type: typ}); err != nil {
		d.log.Warn("dispatch: broadcast failed", "id", id, "error", err)
	}
}

func (d *Dispatcher) broadcastDestroy(id uint32) {
	if d.transport == nil {
		return
	}
	if err := d.transport.Broadcast(wire.DestroyEvent{ID: id}); err != nil {
		d.log.Warn("dispatch: broadcast failed", "id", id, "error", err)
	}
}

func wireErrorCode(kind cerr.Kind) wire.ErrorCode {
	switch kind {
	case cerr.NotFound:
		return wire.ErrCodeNotFound
	case cerr.ResourceExhausted:
		return wire.ErrCodeResourceExhausted
	case cerr.StateConflict:
		return wire.ErrCodeStateConflict
	case cerr.Disconnect:
		return wire.ErrCodeDisconnect
	default:
		return wire.ErrCodeInvalidArgument
	}
}

// fail turns err into a wire error event and emits it, except for
// state_conflict failures, which spec.md §7 says to drop silently
// rather than surface to the client.
func (d *Dispatcher) fail(client wire.ClientID, id uint32, err error) {
	ce, ok := err.(*cerr.Error)
	if !ok {
		d.send(client, wire.ErrorEvent{ID: id, Code: wire.ErrCodeInvalidArgument, Text: err.Error()})
		return
	}
	if ce.Kind == cerr.StateConflict {
		return
	}
	d.send(client, wire.ErrorEvent{ID: id, Code: wireErrorCode(ce.Kind), Text: ce.Error()})
}

func (d *Dispatcher) lookupSurface(client wire.ClientID, id uint32) (*surface.Surface, error) {
	obj, err := d.eng.Registry.Lookup(client, id)
	if err != nil {
		return nil, err
	}
	s, ok := obj.(*surface.Surface)
	if !ok {
		return nil, cerr.NotFoundf(id, "dispatch: object %d is not a surface", id)
	}
	return s, nil
}

func (d *Dispatcher) lookupPool(client wire.ClientID, id uint32) (*shm.Pool, error) {
	obj, err := d.eng.Registry.Lookup(client, id)
	if err != nil {
		return nil, err
	}
	p, ok := obj.(*shm.Pool)
	if !ok {
		return nil, cerr.NotFoundf(id, "dispatch: object %d is not a memory pool", id)
	}
	return p, nil
}

func (d *Dispatcher) lookupBuffer(client wire.ClientID, id uint32) (*buffer.Buffer, error) {
	obj, err := d.eng.Registry.Lookup(client, id)
	if err != nil {
		return nil, err
	}
	b, ok := obj.(*buffer.Buffer)
	if !ok {
		return nil, cerr.NotFoundf(id, "dispatch: object %d is not a buffer", id)
	}
	return b, nil
}

func (d *Dispatcher) lookupSource(client wire.ClientID, id uint32) (*input.Source, error) {
	obj, err := d.eng.Registry.Lookup(client, id)
	if err != nil {
		return nil, err
	}
	src, ok := obj.(*input.Source)
	if !ok {
		return nil, cerr.NotFoundf(id, "dispatch: object %d is not an input source", id)
	}
	return src, nil
}

// ---- core ----

// CoreSync implements core.sync: it mirrors the serial straight back.
func (d *Dispatcher) CoreSync(client wire.ClientID, req wire.CoreSync) {
	d.send(client, wire.SyncEvent{Serial: req.Serial})
}

// CoreGetObjects implements core.get_objects: every server-owned
// object (the screen, and any registered input source) is published
// to the requesting client.
func (d *Dispatcher) CoreGetObjects(client wire.ClientID, _ wire.CoreGetObjects) {
	d.eng.Registry.Publish(func(id uint32, typ registry.Type) {
		d.send(client, wire.ObjectEvent{LocalID: id, GlobalID: id, Type: typ})
	})
}

// ---- screen ----

func (d *Dispatcher) ScreenGetProperties(client wire.ClientID, req wire.ScreenGetProperties) {
	if _, err := d.eng.Registry.Lookup(client, req.ID); err != nil {
		d.fail(client, req.ID, err)
		return
	}
	r := d.eng.ScreenInfo.Region()
	d.send(client, wire.PropertiesEvent{
		ID:        req.ID,
		X:         r.X,
		Y:         r.Y,
		Transform: d.eng.ScreenInfo.Transform(),
		Scale:     d.eng.ScreenInfo.Scale(),
	})
}

func (d *Dispatcher) ScreenGetModes(client wire.ClientID, req wire.ScreenGetModes) {
	if _, err := d.eng.Registry.Lookup(client, req.ID); err != nil {
		d.fail(client, req.ID, err)
		return
	}
	for _, m := range d.eng.ScreenInfo.Modes() {
		d.send(client, wire.ModeEvent{
			ID:          req.ID,
			Width:       m.Width,
			Height:      m.Height,
			RefreshRate: m.RefreshRate,
			Current:     m.Current,
			Preferred:   m.Preferred,
		})
	}
}

func (d *Dispatcher) ScreenSetScale(client wire.ClientID, req wire.ScreenSetScale) {
	if _, err := d.eng.Registry.Lookup(client, req.ID); err != nil {
		d.fail(client, req.ID, err)
		return
	}
	d.eng.ScreenInfo.SetScale(req.Scale)
}

func (d *Dispatcher) ScreenSetTransform(client wire.ClientID, req wire.ScreenSetTransform) {
	if _, err := d.eng.Registry.Lookup(client, req.ID); err != nil {
		d.fail(client, req.ID, err)
		return
	}
	d.eng.ScreenInfo.SetTransform(req.Transform)
}

// ScreenCreateSurface implements screen.create_surface, substituting a
// preset spawn coordinate for any -1 in req.X/req.Y.
func (d *Dispatcher) ScreenCreateSurface(client wire.ClientID, req wire.ScreenCreateSurface) {
	if _, err := d.eng.Registry.Lookup(client, req.ScreenID); err != nil {
		d.fail(client, req.ScreenID, err)
		return
	}

	x, y := wire.ResolveSpawn(req.X, req.Y)
	s, err := surface.Create(req.SurfaceID, int32(client), d.eng.Renderer,
		&surfaceEvents{d: d, client: client}, x, y, req.Width, req.Height)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}

	d.eng.WM.Register(s)
	d.eng.Registry.RegisterClient(client, req.SurfaceID, s, registry.TypeSurface)
	d.send(client, wire.ObjectEvent{LocalID: req.SurfaceID, GlobalID: req.SurfaceID, Type: registry.TypeSurface})
}

// ---- memory ----

func (d *Dispatcher) MemoryCreatePool(client wire.ClientID, req wire.MemoryCreatePool) {
	pool, err := shm.Create(req.Handle, req.Size)
	if err != nil {
		d.fail(client, req.PoolID, err)
		return
	}
	d.eng.Registry.RegisterClient(client, req.PoolID, pool, registry.TypeMemoryPool)
	d.send(client, wire.ObjectEvent{LocalID: req.PoolID, GlobalID: req.PoolID, Handle: req.Handle, Type: registry.TypeMemoryPool})
}

func (d *Dispatcher) MemoryPoolCreateBuffer(client wire.ClientID, req wire.MemoryPoolCreateBuffer) {
	pool, err := d.lookupPool(client, req.PoolID)
	if err != nil {
		d.fail(client, req.PoolID, err)
		return
	}
	buf, err := buffer.Create(req.BufferID, pool, req.Offset, req.Width, req.Height, req.Stride,
		pixfmt.Format(req.Format), pixfmt.Flags(req.Flags))
	if err != nil {
		d.fail(client, req.BufferID, err)
		return
	}
	d.eng.Registry.RegisterClient(client, req.BufferID, buf, registry.TypeBuffer)
	d.send(client, wire.ObjectEvent{LocalID: req.BufferID, GlobalID: req.BufferID, Type: registry.TypeBuffer})
}

func (d *Dispatcher) MemoryPoolDestroy(client wire.ClientID, req wire.MemoryPoolDestroy) {
	pool, err := d.lookupPool(client, req.PoolID)
	if err != nil {
		d.fail(client, req.PoolID, err)
		return
	}
	pool.Destroy()
}

// BufferDestroy implements buffer.destroy. Per the zombie-buffer
// contract (buffer.Buffer.Destroy's doc comment), the reference isn't
// dropped here: the buffer is tagged zombie and handed to the
// renderer, which releases it on its next frame pass.
func (d *Dispatcher) BufferDestroy(client wire.ClientID, req wire.BufferDestroy) {
	buf, err := d.lookupBuffer(client, req.BufferID)
	if err != nil {
		d.fail(client, req.BufferID, err)
		return
	}
	buf.Destroy()
	d.eng.Renderer.TrackZombie(buf)
}

// ---- surface ----

// SurfaceSetBuffer implements surface.set_buffer. A buffer id that
// does not resolve is treated as "no buffer" (clearing the surface's
// content) rather than an error, matching the original's NULL
// passthrough for this request.
func (d *Dispatcher) SurfaceSetBuffer(client wire.ClientID, req wire.SurfaceSetBuffer) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	var buf *buffer.Buffer
	if obj, err := d.eng.Registry.Lookup(client, req.BufferID); err == nil {
		buf, _ = obj.(*buffer.Buffer)
	}
	if err := s.SetBuffer(buf); err != nil {
		d.fail(client, req.SurfaceID, err)
	}
}

func (d *Dispatcher) SurfaceSetInputRegion(client wire.ClientID, req wire.SurfaceSetInputRegion) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.SetInputRegion(req.X, req.Y, req.Width, req.Height)
}

func (d *Dispatcher) SurfaceSetDropShadow(client wire.ClientID, req wire.SurfaceSetDropShadow) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.SetDropShadow(req.X, req.Y, req.Width, req.Height)
}

func (d *Dispatcher) SurfaceSetCornerRadius(client wire.ClientID, req wire.SurfaceSetCornerRadius) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.SetCornerRadius(req.Radius)
}

func (d *Dispatcher) SurfaceSetTransparency(client wire.ClientID, req wire.SurfaceSetTransparency) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.SetTransparency(req.Enable)
}

func (d *Dispatcher) SurfaceRequestFrame(client wire.ClientID, req wire.SurfaceRequestFrame) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.RequestFrame()
}

func (d *Dispatcher) SurfaceInvalidate(client wire.ClientID, req wire.SurfaceInvalidate) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.Invalidate(req.X, req.Y, req.Width, req.Height)
}

// SurfaceAddSubsurface implements surface.add_subsurface. The child is
// unregistered from the window manager's top-level stack before being
// attached, since a subsurface is drawn through its parent's Render
// walk, not its own top-level stacking slot.
func (d *Dispatcher) SurfaceAddSubsurface(client wire.ClientID, req wire.SurfaceAddSubsurface) {
	parent, err := d.lookupSurface(client, req.ParentID)
	if err != nil {
		d.fail(client, req.ParentID, err)
		return
	}
	child, err := d.lookupSurface(client, req.ChildID)
	if err != nil {
		d.fail(client, req.ChildID, err)
		return
	}

	d.eng.WM.Unregister(child)
	if err := parent.AddChild(child, req.X, req.Y); err != nil {
		d.fail(client, req.ChildID, err)
	}
}

func (d *Dispatcher) SurfaceResizeSubsurface(client wire.ClientID, req wire.SurfaceResizeSubsurface) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.Resize(req.Width, req.Height, int(input.EdgeNone))
}

func (d *Dispatcher) SurfaceMoveSubsurface(client wire.ClientID, req wire.SurfaceMoveSubsurface) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.MoveAbsolute(req.X, req.Y)
}

func (d *Dispatcher) SurfaceCommit(client wire.ClientID, req wire.SurfaceCommit) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.Commit()
}

func (d *Dispatcher) SurfaceSetTitle(client wire.ClientID, req wire.SurfaceSetTitle) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	s.SetTitle(req.Title)
}

// SurfaceRequestFullscreenMode implements surface.request_fullscreen_mode,
// grounded on wm_surface_request_fullscreen_mode_invocation's exact
// level/size transitions for exit/normal/full.
func (d *Dispatcher) SurfaceRequestFullscreenMode(client wire.ClientID, req wire.SurfaceRequestFullscreenMode) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	switch req.Mode {
	case wire.FullscreenExit:
		d.eng.WM.ChangeLevel(s, wm.LevelDefault)
		s.RestoreSize()
	case wire.FullscreenNormal:
		s.Maximize()
	case wire.FullscreenFull:
		d.eng.WM.ChangeLevel(s, wm.LevelTop)
		s.Maximize()
	}
}

func (d *Dispatcher) SurfaceRequestLevel(client wire.ClientID, req wire.SurfaceRequestLevel) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	d.eng.WM.ChangeLevel(s, req.Level)
}

func (d *Dispatcher) SurfaceResize(client wire.ClientID, req wire.SurfaceResize) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	src, err := d.lookupSource(client, req.PointerID)
	if err != nil {
		d.fail(client, req.PointerID, err)
		return
	}
	d.eng.Input.RequestResize(src, s, req.Edges)
}

func (d *Dispatcher) SurfaceMove(client wire.ClientID, req wire.SurfaceMove) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	src, err := d.lookupSource(client, req.PointerID)
	if err != nil {
		d.fail(client, req.PointerID, err)
		return
	}
	d.eng.Input.RequestMove(src, s)
}

// SurfaceDestroy implements surface.destroy: a synchronous teardown
// that detaches the surface from the window manager and input system
// before calling Surface.Destroy, per the dependency-boundary contract
// documented on that method.
func (d *Dispatcher) SurfaceDestroy(client wire.ClientID, req wire.SurfaceDestroy) {
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	d.destroySurface(s)
	if err := d.eng.Registry.Remove(client, req.SurfaceID); err != nil {
		d.log.Warn("dispatch: registry remove after surface destroy", "error", err)
	}
	d.send(client, wire.DestroyEvent{ID: req.SurfaceID})
}

func (d *Dispatcher) destroySurface(s *surface.Surface) {
	d.eng.WM.Unregister(s)
	d.eng.Input.OnSurfaceDestroy(s)
	s.Destroy()
}

// ---- pointer / keyboard ----

func (d *Dispatcher) PointerSetSurface(client wire.ClientID, req wire.PointerSetSurface) {
	src, err := d.lookupSource(client, req.PointerID)
	if err != nil {
		d.fail(client, req.PointerID, err)
		return
	}
	var cursor *surface.Surface
	if req.SurfaceID != 0 {
		cursor, err = d.lookupSurface(client, req.SurfaceID)
		if err != nil {
			d.fail(client, req.SurfaceID, err)
			return
		}
	}
	d.eng.Input.SetCursorSurface(src, cursor, req.XOffset, req.YOffset)
}

func (d *Dispatcher) PointerGrab(client wire.ClientID, req wire.PointerGrab) {
	src, err := d.lookupSource(client, req.PointerID)
	if err != nil {
		d.fail(client, req.PointerID, err)
		return
	}
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	d.eng.Input.Grab(src, s)
}

func (d *Dispatcher) PointerUngrab(client wire.ClientID, req wire.PointerUngrab) {
	src, err := d.lookupSource(client, req.PointerID)
	if err != nil {
		d.fail(client, req.PointerID, err)
		return
	}
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	d.eng.Input.Ungrab(src, s)
}

// KeyboardHook and KeyboardUnhook implement keyboard.hook/unhook,
// treated as grab/ungrab of a keyboard input source exactly as
// wm_keyboard_hook_invocation/wm_keyboard_unhook_invocation do (they
// call the same vioarr_input_grab/vioarr_input_ungrab as the pointer
// requests).

func (d *Dispatcher) KeyboardHook(client wire.ClientID, req wire.KeyboardHook) {
	src, err := d.lookupSource(client, req.KeyboardID)
	if err != nil {
		d.fail(client, req.KeyboardID, err)
		return
	}
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	d.eng.Input.Grab(src, s)
}

func (d *Dispatcher) KeyboardUnhook(client wire.ClientID, req wire.KeyboardUnhook) {
	src, err := d.lookupSource(client, req.KeyboardID)
	if err != nil {
		d.fail(client, req.KeyboardID, err)
		return
	}
	s, err := d.lookupSurface(client, req.SurfaceID)
	if err != nil {
		d.fail(client, req.SurfaceID, err)
		return
	}
	d.eng.Input.Ungrab(src, s)
}

// ---- input devices (server-side, not client wire requests) ----

// RegisterInputDevice mints a server object for a newly connected
// pointer or keyboard device, grounded on
// ctt_input_event_properties_callback → vioarr_input_register.
func (d *Dispatcher) RegisterInputDevice(deviceID uint64, typ input.SourceType) *input.Source {
	rt := registry.TypePointer
	if typ == input.SourceKeyboard {
		rt = registry.TypeKeyboard
	}
	id := d.eng.Registry.RegisterServer(nil, rt)
	src := d.eng.Input.Register(id, deviceID, typ)
	d.eng.Registry.UpdateServer(id, src)
	return src
}

func (d *Dispatcher) UnregisterInputDevice(deviceID uint64) {
	d.eng.Input.Unregister(deviceID)
}

func (d *Dispatcher) PointerAxis(deviceID uint64, dx, dy, dz int) {
	d.eng.Input.AxisEvent(deviceID, dx, dy, dz)
}

func (d *Dispatcher) PointerButton(deviceID uint64, button input.Button, pressed bool) {
	d.eng.Input.PointerButton(deviceID, button, pressed)
}

func (d *Dispatcher) KeyboardKey(key input.Key, modifiers input.Modifier) {
	d.eng.Input.KeyboardKey(key, modifiers)
}

// ---- event adapters ----

// surfaceEvents implements surface.Events for one client's surface,
// translating it into a wire event sent through the owning
// Dispatcher's transport.
type surfaceEvents struct {
	d      *Dispatcher
	client wire.ClientID
}

func (e *surfaceEvents) Resize(surfaceID uint32, width, height int, edges int) {
	e.d.send(e.client, wire.SurfaceResizeEvent{SurfaceID: surfaceID, Width: width, Height: height, Edges: edges})
}

func (e *surfaceEvents) Focus(surfaceID uint32, focused bool) {
	e.d.send(e.client, wire.SurfaceFocusEvent{SurfaceID: surfaceID, Focused: focused})
}

func (e *surfaceEvents) Frame(surfaceID uint32) {
	e.d.send(e.client, wire.SurfaceFrameEvent{SurfaceID: surfaceID})
}

func (e *surfaceEvents) BufferReleased(bufferID uint32) {
	e.d.send(e.client, wire.BufferReleaseEvent{BufferID: bufferID})
}

// inputEvents implements input.Events, translating pointer/keyboard
// routing decisions into wire events. Unlike surfaceEvents it carries
// no fixed client: the input system addresses events by whichever
// surface's owning client they are routed to, so it is constructed
// once (before a Dispatcher necessarily exists, since engine.New needs
// an input.Events to build the System the Dispatcher will later wrap)
// and only needs a transport to emit through.
type inputEvents struct {
	transport wire.Transport
	log       *slog.Logger
}

// NewInputEvents returns the input.Events implementation to pass to
// engine.New. logger may be nil, in which case slog.Default is used.
func NewInputEvents(transport wire.Transport, logger *slog.Logger) input.Events {
	if logger == nil {
		logger = slog.Default()
	}
	return &inputEvents{transport: transport, log: logger}
}

func (e *inputEvents) send(client int32, event any) {
	if e.transport == nil {
		return
	}
	if err := e.transport.Send(wire.ClientID(client), event); err != nil {
		e.log.Warn("dispatch: send failed", "client", client, "error", err)
	}
}

func (e *inputEvents) PointerEnter(client int32, sourceID, surfaceID uint32, x, y int) {
	e.send(client, wire.PointerEnterEvent{PointerID: sourceID, SurfaceID: surfaceID, X: x, Y: y})
}

func (e *inputEvents) PointerLeave(client int32, sourceID, surfaceID uint32) {
	e.send(client, wire.PointerLeaveEvent{PointerID: sourceID, SurfaceID: surfaceID})
}

func (e *inputEvents) PointerMove(client int32, sourceID, surfaceID uint32, x, y int) {
	e.send(client, wire.PointerMoveEvent{PointerID: sourceID, SurfaceID: surfaceID, X: x, Y: y})
}

func (e *inputEvents) PointerClick(client int32, sourceID, surfaceID uint32, button input.Button, pressed bool) {
	e.send(client, wire.PointerClickEvent{PointerID: sourceID, SurfaceID: surfaceID, Button: button, Pressed: pressed})
}

func (e *inputEvents) KeyboardKey(client int32, surfaceID uint32, key input.Key, modifiers input.Modifier) {
	e.send(client, wire.KeyboardKeyEvent{SurfaceID: surfaceID, Key: key, Modifiers: modifiers})
}

// ---- client lifecycle ----

// RemoveClient tears down every resource client owns, in the order
// surface.destroy uses for a single surface (wm.Unregister →
// input.OnSurfaceDestroy → Surface.Destroy) before handing the rest of
// the cleanup (buffers, then pools) to the registry.
func (d *Dispatcher) RemoveClient(client wire.ClientID) {
	for _, obj := range d.eng.Registry.Entries(client, registry.TypeSurface) {
		if s, ok := obj.(*surface.Surface); ok {
			d.eng.WM.Unregister(s)
			d.eng.Input.OnSurfaceDestroy(s)
		}
	}
	d.eng.Registry.RemoveAllForClient(client)
	if d.transport != nil {
		d.transport.Close(client)
	}
}
