// Package surface implements the compositor's Surface: a rectangular,
// double-buffered node in the window tree that a client draws into by
// attaching a Buffer and calling Commit.
//
// A Surface carries two copies of its mutable properties, "pending"
// and "active". Requests write into pending; Commit atomically swaps
// pending into active, so the render pass (which only ever reads
// active state) never observes a half-updated surface.
package surface

import (
	"sync"
	"sync/atomic"

	"github.com/Meulengracht/vioarr-sub000/buffer"
	"github.com/Meulengracht/vioarr-sub000/internal/cerr"
	"github.com/Meulengracht/vioarr-sub000/region"
)

// Host is the set of screen-level services a Surface needs but does
// not own: the screen's own region (for Maximize), image upload for
// committed buffers, and a way to wait for the render thread to finish
// with a frame before a surface it referenced is torn down. Supplied
// by the engine/render packages; surface never imports them, so the
// dependency runs one way.
type Host interface {
	Region() region.Region
	CreateImage(buf *buffer.Buffer) (int, error)
	UpdateImage(resourceID int, buf *buffer.Buffer) error
	DestroyImage(resourceID int)
	WaitFrame()
}

// Events delivers the wire events a Surface's operations produce.
// Left nil, a Surface silently drops them; dispatch wires a real
// implementation backed by a wire.Transport.
type Events interface {
	Resize(surfaceID uint32, width, height int, edges int)
	Focus(surfaceID uint32, focused bool)
	Frame(surfaceID uint32)
	BufferReleased(bufferID uint32)
}

// Painter receives the visible content of a surface during a render
// pass, in back-to-front tree order. Coordinates are absolute (screen
// space), already translated by the surface's active region.
type Painter interface {
	DrawImage(resourceID int, bounds region.Region, transparent bool)
	DrawShadow(bounds region.Region, shadow region.Region, cornerRadius int, transparent bool)
}

// Surface is a node in the compositor's window tree.
type Surface struct {
	ID     uint32
	Client int32

	host   Host
	events Events

	mu             sync.RWMutex
	visible        bool
	frameRequested atomic.Bool
	level          int
	title          string

	dimensions         region.Region
	dimensionsOriginal *region.Region
	parent             *Surface
	childIndex         int
	dirt               region.Region

	active  properties
	pending properties

	swapBackbuffers bool
	backbufferIndex int
	backbuffers     [2]backbuffer
}

// Create builds a new root surface of the given size at (x, y) on
// host's screen. level defaults to 1 ("default"), matching the
// original compositor's initial window level.
func Create(id uint32, client int32, host Host, events Events, x, y, width, height int) (*Surface, error) {
	if host == nil {
		return nil, cerr.InvalidArgumentf(id, "surface.create_surface: no screen attached")
	}
	if width <= 0 || height <= 0 {
		return nil, cerr.InvalidArgumentf(id, "surface.create_surface: non-positive size (%dx%d)", width, height)
	}
	s := &Surface{
		ID:         id,
		Client:     client,
		host:       host,
		events:     events,
		level:      1,
		dimensions: region.New(x, y, width, height),
	}
	return s, nil
}

// SetEvents attaches (or replaces) the event sink. Dispatch passes
// the sink to Create instead; SetEvents replaces it afterwards.
func (s *Surface) SetEvents(events Events) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

func (s *Surface) emitResize(width, height, edges int) {
	if s.events != nil {
		s.events.Resize(s.ID, width, height, edges)
	}
}

// correctRegion returns dimensionsOriginal when the surface is
// maximized (so position/size requests operate on the size the client
// will be restored to) or the live region otherwise.
func (s *Surface) correctRegion() *region.Region {
	if s.dimensionsOriginal != nil {
		return s.dimensionsOriginal
	}
	return &s.dimensions
}

// AddChild attaches child under parent at local position (x, y).
// The child is appended to parent's pending child list; it only
// becomes visible in the tree once parent's next Commit swaps pending
// into active. Per the original's contract, a surface already holding
// a parent cannot be re-parented.
func (s *Surface) AddChild(child *Surface, x, y int) error {
	if child.parent != nil {
		return cerr.StateConflictf(child.ID, "surface.add_subsurface: surface already has a parent")
	}
	child.parent = s

	s.mu.Lock()
	s.pending.children = append(s.pending.children, child)
	s.mu.Unlock()

	child.SetPosition(x, y)
	return nil
}

// removeChild splices child out of s's active child list, called from
// Destroy while s still holds a reference to child as its parent.
func (s *Surface) removeChild(child *Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.active.children {
		if c == child {
			s.active.children = append(s.active.children[:i], s.active.children[i+1:]...)
			return
		}
	}
}

func (s *Surface) makeOrphan() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parent = nil
}

// SetBuffer adopts content as the surface's next-frame backing
// store. A nil content clears it. The previously pending (not yet
// committed) buffer, if any, is released and its upload torn down
// immediately: it was never shown, so there is nothing to preserve.
func (s *Surface) SetBuffer(content *buffer.Buffer) error {
	var resourceID int
	if content != nil {
		if !content.Acquire() {
			return cerr.StateConflictf(s.ID, "surface.set_buffer: buffer already destroyed")
		}
		id, err := s.host.CreateImage(content)
		if err != nil {
			content.Release()
			return err
		}
		resourceID = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pending := &s.backbuffers[s.backbufferIndex^1]
	pending.release(s.host)
	pending.content = content
	pending.resourceID = resourceID
	s.swapBackbuffers = true
	return nil
}

// SetPosition moves the surface to absolute position (x, y), taking
// effect immediately (position is not part of the pending/active
// split in the original compositor).
func (s *Surface) SetPosition(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.correctRegion()
	*r = r.WithPosition(x, y)
}

// SetDropShadow replaces the pending drop-shadow extension region.
func (s *Surface) SetDropShadow(x, y, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.dropShadow = region.New(x, y, width, height)
}

// SetInputRegion replaces the pending input-hit-test region.
func (s *Surface) SetInputRegion(x, y, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.inputRegion = region.New(x, y, width, height)
}

// SetCornerRadius replaces the pending corner-rounding radius applied
// when the surface is drawn.
func (s *Surface) SetCornerRadius(radius int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.cornerRadius = radius
}

// SetTransparency sets whether the surface blends over what's behind
// it (alpha-over) instead of replacing it outright (copy).
func (s *Surface) SetTransparency(enable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.transparent = enable
}

// SetLevel records the surface's z-order level. It does not touch the
// wm package's level lists; wm moves the surface between its lists
// and then calls SetLevel.
func (s *Surface) SetLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
}

// SetTitle records the surface's title, supplementing the original
// protocol with the window-title metadata most window managers expose
// to shells (e.g. for a taskbar), absent from the distilled protocol
// but present in practice on every surface a decorated client creates.
func (s *Surface) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
}

// Title returns the surface's title.
func (s *Surface) Title() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// RequestFrame arms the one-shot frame callback: the next render pass
// that finds this surface visible will deliver a Frame event before
// drawing it, regardless of whether that pass re-uploaded content.
func (s *Surface) RequestFrame() {
	s.frameRequested.Store(true)
}

// Level returns the surface's current z-order level.
func (s *Surface) Level() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// Maximize stretches the surface to fill its parent (or, for a root
// surface, the screen), remembering the pre-maximize region so
// RestoreSize can put it back.
func (s *Surface) Maximize() {
	s.mu.Lock()
	var target region.Region
	if s.parent != nil {
		target = s.parent.dimensions
	} else {
		target = s.host.Region()
	}
	saved := s.dimensions
	s.dimensionsOriginal = &saved
	s.dimensions = target
	s.mu.Unlock()

	s.emitResize(target.Width, target.Height, 0)
}

// RestoreSize undoes a prior Maximize, restoring the region the
// surface had before it was maximized. A no-op if not maximized.
func (s *Surface) RestoreSize() {
	s.mu.Lock()
	if s.dimensionsOriginal != nil {
		s.dimensions = *s.dimensionsOriginal
		s.dimensionsOriginal = nil
	}
	current := s.dimensions
	s.mu.Unlock()

	s.emitResize(current.Width, current.Height, 0)
}

// Maximized reports whether the surface is currently maximized.
func (s *Surface) Maximized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensionsOriginal != nil
}

// SupportsInput reports whether (x, y), in the surface's local
// coordinate space, falls within its active input region. A surface
// that is not visible never supports input.
func (s *Surface) SupportsInput(x, y int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.visible {
		return false
	}
	return s.active.inputRegion.Contains(x, y)
}

// Contains reports whether the absolute point (x, y) falls within the
// surface's active (screen-space) region. Invisible surfaces never
// contain a point.
func (s *Surface) Contains(x, y int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.visible {
		return false
	}
	return s.dimensions.Contains(x, y)
}

// At performs recursive hit-testing from this surface down through
// its active children, descending into the most recently added child
// that contains the point first (reverse child order), matching the
// original's linked-list insertion order walked front-to-back being
// equivalent to the newest child shadowing older siblings). It returns
// the innermost surface under (x, y) and that surface's local
// coordinates, or nil if the point misses entirely.
func (s *Surface) At(x, y int) (hit *Surface, localX, localY int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.dimensions.Contains(x, y) {
		return nil, 0, 0
	}

	xInSurface := x - s.dimensions.X
	yInSurface := y - s.dimensions.Y

	for i := len(s.active.children) - 1; i >= 0; i-- {
		if sub, lx, ly := s.active.children[i].At(xInSurface, yInSurface); sub != nil {
			return sub, lx, ly
		}
	}
	return s, xInSurface, yInSurface
}

// Parent returns s's parent, or the root of s's tree if upperMost is
// true. A surface with no parent is its own root.
func (s *Surface) Parent(upperMost bool) *Surface {
	if !upperMost {
		return s.parent
	}
	root := s
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// Invalidate marks (x, y, width, height), in local coordinates, dirty.
// The next render pass that finds dirty content re-uploads the active
// buffer and releases it back to the client.
func (s *Surface) Invalidate(x, y, width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirt = s.dirt.Add(x, y, width, height)
}

// Commit flips the surface's backbuffer (if SetBuffer armed a swap)
// and copies pending properties into active, making every request
// issued since the last Commit take visible effect atomically.
func (s *Surface) Commit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.swapBackbuffers {
		s.backbufferIndex ^= 1
		s.swapBackbuffers = false
	}
	s.swapProperties()
	s.visible = s.backbuffers[s.backbufferIndex].content != nil
}

// swapProperties copies pending into active, appending any new
// pending children onto the active child list rather than replacing
// it outright (children accumulate across commits until destroyed).
// Caller must hold mu.
func (s *Surface) swapProperties() {
	s.active.cornerRadius = s.pending.cornerRadius
	s.active.borderWidth = s.pending.borderWidth
	s.active.borderColor = s.pending.borderColor
	s.active.transparent = s.pending.transparent
	s.active.dropShadow = s.pending.dropShadow
	s.active.inputRegion = s.pending.inputRegion
	if len(s.pending.children) > 0 {
		s.active.children = append(s.active.children, s.pending.children...)
		s.pending.children = nil
	}
}

// Move shifts the surface by a relative delta (dx, dy).
func (s *Surface) Move(dx, dy int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.correctRegion()
	*r = r.WithPosition(r.X+dx, r.Y+dy)
}

// MoveAbsolute moves the surface to absolute position (x, y).
func (s *Surface) MoveAbsolute(x, y int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.correctRegion()
	*r = r.WithPosition(x, y)
}

// Resize sets the surface's size to (width, height) and emits a
// resize event carrying edges, the edge(s) the client's resize drag
// is anchored to (or 0/"no edges" for a programmatic resize).
func (s *Surface) Resize(width, height, edges int) {
	s.mu.Lock()
	r := s.correctRegion()
	*r = r.WithSize(width, height)
	s.mu.Unlock()

	s.emitResize(width, height, edges)
}

// Focus emits a focus-changed event for the surface; it carries no
// compositor-side state of its own (the window manager tracks which
// surface is focused).
func (s *Surface) Focus(focused bool) {
	if s.events != nil {
		s.events.Focus(s.ID, focused)
	}
}

// Region returns the surface's active (screen-space) region.
func (s *Surface) Region() region.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensions
}

// Visible reports whether the surface has committed content.
func (s *Surface) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

// Destroy tears the surface down: it restores any in-progress
// maximize, detaches from its parent (waiting for the render thread
// to finish the frame that may still reference it), orphans its own
// children rather than destroying them, and releases both
// backbuffers.
//
// Destroy does not unregister the surface from the window manager or
// the input system — those live in packages that depend on surface,
// not the other way around, so dispatch must call wm.Unregister and
// input.OnSurfaceDestroy before calling Destroy.
func (s *Surface) Destroy() {
	s.mu.Lock()
	if s.dimensionsOriginal != nil {
		s.dimensions = *s.dimensionsOriginal
		s.dimensionsOriginal = nil
	}
	parent := s.parent
	children := s.active.children
	s.active.children = nil
	s.mu.Unlock()

	if parent != nil {
		parent.removeChild(s)
		s.makeOrphan()
		s.host.WaitFrame()
	}

	for _, child := range children {
		child.makeOrphan()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.backbuffers[0].release(s.host)
	s.backbuffers[1].release(s.host)
}

// Render draws the surface's visible content and its active children,
// in back-to-front order, onto p. It is called once per frame by the
// single render goroutine; no other caller may invoke Render
// concurrently with itself on the same surface (the lock taken here
// only needs to exclude request-thread writers, since there is never
// more than one reader).
func (s *Surface) Render(p Painter) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.visible {
		return
	}

	s.refreshContent()
	if s.frameRequested.CompareAndSwap(true, false) {
		if s.events != nil {
			s.events.Frame(s.ID)
		}
	}

	active := &s.backbuffers[s.backbufferIndex]
	if active.content != nil {
		if !s.active.dropShadow.IsZero() {
			p.DrawShadow(s.dimensions, s.active.dropShadow, s.active.cornerRadius, s.active.transparent)
		}
		p.DrawImage(active.resourceID, s.dimensions, s.active.transparent)
	}

	for _, child := range s.active.children {
		child.Render(p)
	}
}

// refreshContent re-uploads the active buffer's pixels if any region
// was invalidated since the last frame, then releases the buffer back
// to the client (the client is free to reuse its memory once it sees
// the release event). Caller must hold at least a read lock.
func (s *Surface) refreshContent() {
	if s.dirt.IsZero() {
		return
	}
	active := &s.backbuffers[s.backbufferIndex]
	if active.content != nil {
		s.host.UpdateImage(active.resourceID, active.content)
		if s.events != nil {
			s.events.BufferReleased(active.content.ID)
		}
	}
	s.dirt = region.Region{}
}
