package surface

import (
	"testing"

	"github.com/Meulengracht/vioarr-sub000/buffer"
	"github.com/Meulengracht/vioarr-sub000/pixfmt"
	"github.com/Meulengracht/vioarr-sub000/region"
	"github.com/Meulengracht/vioarr-sub000/shm"
)

type fakeSegment struct{ data []byte }

func (f *fakeSegment) Bytes() []byte { return f.data }
func (f *fakeSegment) Close() error  { return nil }

func newTestBuffer(t *testing.T, id uint32) *buffer.Buffer {
	t.Helper()
	prev := shm.Attach
	shm.Attach = func(handle int, size int) (shm.Segment, error) {
		return &fakeSegment{data: make([]byte, size)}, nil
	}
	t.Cleanup(func() { shm.Attach = prev })
	pool, err := shm.Create(0, 40000)
	if err != nil {
		t.Fatal(err)
	}
	b, err := buffer.Create(id, pool, 0, 100, 100, 400, pixfmt.ARGB32, 0)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

type fakeHost struct {
	screen       region.Region
	nextID       int
	waitFrames   int
	destroyed    []int
	updateErr    error
	updateCalled int
}

func (h *fakeHost) Region() region.Region { return h.screen }

func (h *fakeHost) CreateImage(buf *buffer.Buffer) (int, error) {
	h.nextID++
	return h.nextID, nil
}

func (h *fakeHost) UpdateImage(resourceID int, buf *buffer.Buffer) error {
	h.updateCalled++
	return h.updateErr
}

func (h *fakeHost) DestroyImage(resourceID int) {
	h.destroyed = append(h.destroyed, resourceID)
}

func (h *fakeHost) WaitFrame() { h.waitFrames++ }

type fakeEvents struct {
	resizes []int
	focus   []bool
	frames  int
	release []uint32
}

func (e *fakeEvents) Resize(surfaceID uint32, width, height int, edges int) {
	e.resizes = append(e.resizes, width, height)
}
func (e *fakeEvents) Focus(surfaceID uint32, focused bool) { e.focus = append(e.focus, focused) }
func (e *fakeEvents) Frame(surfaceID uint32)               { e.frames++ }
func (e *fakeEvents) BufferReleased(bufferID uint32)       { e.release = append(e.release, bufferID) }

func newTestSurface(t *testing.T, host *fakeHost, events Events) *Surface {
	t.Helper()
	s, err := Create(1, 0, host, events, 0, 0, 200, 200)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

type nopPainter struct {
	drawn   int
	shadows int
}

func (p *nopPainter) DrawImage(resourceID int, bounds region.Region, transparent bool) { p.drawn++ }
func (p *nopPainter) DrawShadow(bounds, shadow region.Region, cornerRadius int, transparent bool) {
	p.shadows++
}

func TestCreateRejectsZeroSize(t *testing.T) {
	host := &fakeHost{}
	if _, err := Create(1, 0, host, nil, 0, 0, 0, 0); err == nil {
		t.Fatal("expected error creating a zero-size surface")
	}
}

func TestSetBufferThenCommitMakesVisible(t *testing.T) {
	host := &fakeHost{}
	s := newTestSurface(t, host, nil)
	if s.Visible() {
		t.Fatal("surface should not be visible before any commit")
	}

	b := newTestBuffer(t, 10)
	if err := s.SetBuffer(b); err != nil {
		t.Fatal(err)
	}
	if s.Visible() {
		t.Fatal("SetBuffer must not take effect before Commit")
	}

	s.Commit()
	if !s.Visible() {
		t.Fatal("expected surface visible after commit with a buffer")
	}
}

func TestMaximizeAndRestoreSize(t *testing.T) {
	host := &fakeHost{screen: region.New(0, 0, 1920, 1080)}
	events := &fakeEvents{}
	s := newTestSurface(t, host, events)

	original := s.Region()
	s.Maximize()
	if !s.Maximized() {
		t.Fatal("expected surface to report maximized")
	}
	if got := s.Region(); got.Width != 1920 || got.Height != 1080 {
		t.Fatalf("Region() after maximize = %+v, want full screen", got)
	}

	s.RestoreSize()
	if s.Maximized() {
		t.Fatal("expected surface to no longer be maximized")
	}
	if got := s.Region(); got != original {
		t.Fatalf("Region() after restore = %+v, want %+v", got, original)
	}
	if len(events.resizes) != 4 {
		t.Fatalf("expected two resize events (maximize + restore), got %d entries", len(events.resizes))
	}
}

func TestAddChildHitTestsInReverseOrder(t *testing.T) {
	host := &fakeHost{}
	parent := newTestSurface(t, host, nil)
	child1, err := Create(2, 0, host, nil, 0, 0, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	child2, err := Create(3, 0, host, nil, 0, 0, 50, 50)
	if err != nil {
		t.Fatal(err)
	}

	if err := parent.AddChild(child1, 10, 10); err != nil {
		t.Fatal(err)
	}
	if err := parent.AddChild(child2, 10, 10); err != nil {
		t.Fatal(err)
	}
	parent.Commit()

	b := newTestBuffer(t, 20)
	child1.SetBuffer(b)
	child1.Commit()
	b2 := newTestBuffer(t, 21)
	child2.SetBuffer(b2)
	child2.Commit()

	hit, lx, ly := parent.At(15, 15)
	if hit != child2 {
		t.Fatalf("expected the later-added, overlapping child2 to win hit-test, got %v", hit)
	}
	if lx != 5 || ly != 5 {
		t.Fatalf("local coords = (%d,%d), want (5,5)", lx, ly)
	}
}

func TestAddChildRejectsAlreadyParented(t *testing.T) {
	host := &fakeHost{}
	parent1 := newTestSurface(t, host, nil)
	parent2, err := Create(2, 0, host, nil, 0, 0, 100, 100)
	if err != nil {
		t.Fatal(err)
	}
	child, err := Create(3, 0, host, nil, 0, 0, 50, 50)
	if err != nil {
		t.Fatal(err)
	}

	if err := parent1.AddChild(child, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := parent2.AddChild(child, 0, 0); err == nil {
		t.Fatal("expected error re-parenting an already-parented surface")
	}
}

func TestDestroyOrphansChildrenAndWaitsFrameWhenParented(t *testing.T) {
	host := &fakeHost{}
	parent := newTestSurface(t, host, nil)
	child, err := Create(2, 0, host, nil, 0, 0, 50, 50)
	if err != nil {
		t.Fatal(err)
	}
	grandchild, err := Create(3, 0, host, nil, 0, 0, 20, 20)
	if err != nil {
		t.Fatal(err)
	}

	if err := parent.AddChild(child, 0, 0); err != nil {
		t.Fatal(err)
	}
	parent.Commit()
	if err := child.AddChild(grandchild, 0, 0); err != nil {
		t.Fatal(err)
	}
	child.Commit()

	child.Destroy()
	if host.waitFrames != 1 {
		t.Fatalf("expected WaitFrame called once destroying a parented surface, got %d", host.waitFrames)
	}
	if child.Parent(false) != nil {
		t.Fatal("expected destroyed child to be orphaned from its parent")
	}
	if grandchild.Parent(false) != nil {
		t.Fatal("expected grandchild to be orphaned rather than destroyed")
	}
}

func TestRenderUploadsDirtyContentAndFiresFrameEvent(t *testing.T) {
	host := &fakeHost{}
	events := &fakeEvents{}
	s := newTestSurface(t, host, events)
	b := newTestBuffer(t, 5)
	s.SetBuffer(b)
	s.Commit()
	s.RequestFrame()
	s.Invalidate(0, 0, 10, 10)

	p := &nopPainter{}
	s.Render(p)

	if p.drawn != 1 {
		t.Fatalf("expected one DrawImage call, got %d", p.drawn)
	}
	if events.frames != 1 {
		t.Fatalf("expected one Frame event, got %d", events.frames)
	}
	if host.updateCalled != 1 {
		t.Fatalf("expected dirty content to trigger one UpdateImage call, got %d", host.updateCalled)
	}
	if len(events.release) != 1 || events.release[0] != b.ID {
		t.Fatalf("expected a buffer-released event for %d, got %v", b.ID, events.release)
	}

	// A second render pass with no new invalidation should not re-upload.
	s.Render(p)
	if host.updateCalled != 1 {
		t.Fatalf("expected no re-upload without a new invalidation, got %d calls", host.updateCalled)
	}
}

func TestRenderSkipsInvisibleSurface(t *testing.T) {
	host := &fakeHost{}
	s := newTestSurface(t, host, nil)
	p := &nopPainter{}
	s.Render(p)
	if p.drawn != 0 {
		t.Fatal("expected no draw calls for a surface with no committed buffer")
	}
}
