package dispatch

import (
	"sync"
	"testing"

	"github.com/Meulengracht/vioarr-sub000/engine"
	"github.com/Meulengracht/vioarr-sub000/input"
	"github.com/Meulengracht/vioarr-sub000/pixfmt"
	"github.com/Meulengracht/vioarr-sub000/registry"
	"github.com/Meulengracht/vioarr-sub000/shm"
	"github.com/Meulengracht/vioarr-sub000/surface"
	"github.com/Meulengracht/vioarr-sub000/wire"
)

type fakeSegment struct{ data []byte }

func (f *fakeSegment) Bytes() []byte { return f.data }
func (f *fakeSegment) Close() error  { return nil }

// fakeTransport records every event sent to it, keyed by client, so
// tests can assert on what a request produced without a real wire
// codec in front of Dispatcher.
type fakeTransport struct {
	mu         sync.Mutex
	events     map[wire.ClientID][]any
	closed     []wire.ClientID
	broadcasts []any
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{events: make(map[wire.ClientID][]any)}
}

func (f *fakeTransport) Send(client wire.ClientID, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[client] = append(f.events[client], event)
	return nil
}

func (f *fakeTransport) Close(client wire.ClientID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, client)
}

func (f *fakeTransport) Broadcast(event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.broadcasts = append(f.broadcasts, event)
	return nil
}

func (f *fakeTransport) allBroadcasts() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.broadcasts...)
}

func (f *fakeTransport) last(client wire.ClientID) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	evs := f.events[client]
	if len(evs) == 0 {
		return nil
	}
	return evs[len(evs)-1]
}

func (f *fakeTransport) all(client wire.ClientID) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.events[client]...)
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *fakeTransport) {
	t.Helper()
	prev := shm.Attach
	shm.Attach = func(handle int, size int) (shm.Segment, error) {
		return &fakeSegment{data: make([]byte, size)}, nil
	}
	t.Cleanup(func() { shm.Attach = prev })

	transport := newFakeTransport()
	events := NewInputEvents(transport, nil)
	cfg := engine.DefaultConfig()
	cfg.ScreenWidth, cfg.ScreenHeight = 200, 200
	eng, err := engine.New(cfg, events, nil)
	if err != nil {
		t.Fatal(err)
	}
	return New(eng, transport, nil), transport
}

const client = wire.ClientID(1)

func TestCoreSyncEchoesSerial(t *testing.T) {
	d, transport := newTestDispatcher(t)
	d.CoreSync(client, wire.CoreSync{Serial: 42})

	ev, ok := transport.last(client).(wire.SyncEvent)
	if !ok || ev.Serial != 42 {
		t.Fatalf("expected SyncEvent{Serial: 42}, got %#v", transport.last(client))
	}
}

func TestScreenCreateSurfaceSubstitutesSpawnCoordinate(t *testing.T) {
	d, transport := newTestDispatcher(t)

	screenID := d.eng.Registry.RegisterServer(nil, registry.TypeScreen)
	d.ScreenCreateSurface(client, wire.ScreenCreateSurface{
		ScreenID: screenID, SurfaceID: 10, X: -1, Y: -1, Width: 100, Height: 100,
	})

	if _, err := d.eng.Registry.Lookup(client, 10); err != nil {
		t.Fatalf("expected surface 10 to be registered: %v", err)
	}

	ev, ok := transport.last(client).(wire.ObjectEvent)
	if !ok || ev.LocalID != 10 {
		t.Fatalf("expected ObjectEvent for local id 10, got %#v", transport.last(client))
	}
}

func TestScreenCreateSurfaceUnknownScreenFails(t *testing.T) {
	d, transport := newTestDispatcher(t)
	d.ScreenCreateSurface(client, wire.ScreenCreateSurface{
		ScreenID: 0xDEAD, SurfaceID: 1, X: 0, Y: 0, Width: 10, Height: 10,
	})

	ev, ok := transport.last(client).(wire.ErrorEvent)
	if !ok || ev.Code != wire.ErrCodeNotFound {
		t.Fatalf("expected not_found error, got %#v", transport.last(client))
	}
}

func TestRegisterServerBroadcastsObjectToAllClients(t *testing.T) {
	d, transport := newTestDispatcher(t)

	id := d.eng.Registry.RegisterServer(nil, registry.TypePointer)

	broadcasts := transport.allBroadcasts()
	if len(broadcasts) == 0 {
		t.Fatal("expected RegisterServer to broadcast an object event")
	}
	ev, ok := broadcasts[len(broadcasts)-1].(wire.ObjectEvent)
	if !ok || ev.LocalID != id || ev.Type != registry.TypePointer {
		t.Fatalf("expected ObjectEvent for id %d, got %#v", id, broadcasts[len(broadcasts)-1])
	}
}

func TestRemoveServerObjectBroadcastsDestroyToAllClients(t *testing.T) {
	d, transport := newTestDispatcher(t)

	id := d.eng.Registry.RegisterServer(nil, registry.TypePointer)
	if err := d.eng.Registry.Remove(registry.NoClient, id); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	broadcasts := transport.allBroadcasts()
	ev, ok := broadcasts[len(broadcasts)-1].(wire.DestroyEvent)
	if !ok || ev.ID != id {
		t.Fatalf("expected DestroyEvent for id %d, got %#v", id, broadcasts[len(broadcasts)-1])
	}
}

func TestRemoveClientObjectDoesNotBroadcast(t *testing.T) {
	d, transport := newTestDispatcher(t)
	createTestSurface(t, d, transport, client, 10)

	before := len(transport.allBroadcasts())
	if err := d.eng.Registry.Remove(client, 10); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := len(transport.allBroadcasts()); got != before {
		t.Fatalf("expected client-owned Remove to not broadcast, broadcasts went from %d to %d", before, got)
	}
}

func createTestSurface(t *testing.T, d *Dispatcher, transport *fakeTransport, c wire.ClientID, id uint32) {
	t.Helper()
	screenID := d.eng.Registry.RegisterServer(nil, registry.TypeScreen)
	d.ScreenCreateSurface(c, wire.ScreenCreateSurface{
		ScreenID: screenID, SurfaceID: id, X: 0, Y: 0, Width: 64, Height: 64,
	})
	if _, err := d.eng.Registry.Lookup(c, id); err != nil {
		t.Fatalf("surface %d was not registered: %v", id, err)
	}
}

func TestSurfaceSetBufferCommitRoundTrip(t *testing.T) {
	d, transport := newTestDispatcher(t)
	createTestSurface(t, d, transport, client, 1)

	d.MemoryCreatePool(client, wire.MemoryCreatePool{PoolID: 2, Handle: 0, Size: 40000})
	d.MemoryPoolCreateBuffer(client, wire.MemoryPoolCreateBuffer{
		PoolID: 2, BufferID: 3, Offset: 0, Width: 10, Height: 10, Stride: 40, Format: int(pixfmt.ARGB32),
	})

	d.SurfaceSetBuffer(client, wire.SurfaceSetBuffer{SurfaceID: 1, BufferID: 3})
	d.SurfaceCommit(client, wire.SurfaceCommit{SurfaceID: 1})

	obj, err := d.eng.Registry.Lookup(client, 1)
	if err != nil {
		t.Fatal(err)
	}
	s := obj.(*surface.Surface)
	if !s.Visible() {
		t.Fatal("expected surface to be visible after committing a buffer")
	}
}

func TestSurfaceSetBufferMissingBufferClearsContentWithoutError(t *testing.T) {
	d, transport := newTestDispatcher(t)
	createTestSurface(t, d, transport, client, 1)

	before := len(transport.all(client))
	d.SurfaceSetBuffer(client, wire.SurfaceSetBuffer{SurfaceID: 1, BufferID: 0xBEEF})
	after := transport.all(client)

	if len(after) != before {
		t.Fatalf("expected no error event for an unresolved buffer id, got %d new events", len(after)-before)
	}
}

func TestBufferDestroyTracksZombie(t *testing.T) {
	d, _ := newTestDispatcher(t)
	d.MemoryCreatePool(client, wire.MemoryCreatePool{PoolID: 1, Handle: 0, Size: 40000})
	d.MemoryPoolCreateBuffer(client, wire.MemoryPoolCreateBuffer{
		PoolID: 1, BufferID: 2, Offset: 0, Width: 10, Height: 10, Stride: 40, Format: int(pixfmt.ARGB32),
	})

	if got := d.eng.Renderer.PendingZombies(); got != 0 {
		t.Fatalf("expected no zombies before destroy, got %d", got)
	}
	d.BufferDestroy(client, wire.BufferDestroy{BufferID: 2})
	if got := d.eng.Renderer.PendingZombies(); got != 1 {
		t.Fatalf("expected one pending zombie after destroy, got %d", got)
	}
}

func TestSurfaceDestroyDetachesBeforeTeardown(t *testing.T) {
	d, transport := newTestDispatcher(t)
	createTestSurface(t, d, transport, client, 1)

	d.SurfaceDestroy(client, wire.SurfaceDestroy{SurfaceID: 1})

	if _, err := d.eng.Registry.Lookup(client, 1); err == nil {
		t.Fatal("expected surface to be removed from the registry after destroy")
	}
	ev, ok := transport.last(client).(wire.DestroyEvent)
	if !ok || ev.ID != 1 {
		t.Fatalf("expected DestroyEvent for id 1, got %#v", transport.last(client))
	}
}

func TestRemoveClientTearsDownOwnedSurfaces(t *testing.T) {
	d, transport := newTestDispatcher(t)
	createTestSurface(t, d, transport, client, 1)
	createTestSurface(t, d, transport, client, 2)

	d.RemoveClient(client)

	if _, err := d.eng.Registry.Lookup(client, 1); err == nil {
		t.Fatal("expected surface 1 to be removed")
	}
	if _, err := d.eng.Registry.Lookup(client, 2); err == nil {
		t.Fatal("expected surface 2 to be removed")
	}
	if transport.closed[len(transport.closed)-1] != client {
		t.Fatal("expected transport.Close to be called for the removed client")
	}
}

func TestStateConflictIsDroppedSilently(t *testing.T) {
	d, transport := newTestDispatcher(t)
	createTestSurface(t, d, transport, client, 1)
	createTestSurface(t, d, transport, client, 2)

	// Surface 2 already has no parent, so adding it under surface 1
	// succeeds once; re-parenting it again hits the "already has a
	// parent" state_conflict, which must never reach the wire.
	d.SurfaceAddSubsurface(client, wire.SurfaceAddSubsurface{ParentID: 1, ChildID: 2, X: 0, Y: 0})
	before := len(transport.all(client))
	d.SurfaceAddSubsurface(client, wire.SurfaceAddSubsurface{ParentID: 1, ChildID: 2, X: 0, Y: 0})
	after := transport.all(client)

	if len(after) != before {
		t.Fatalf("expected state_conflict to be dropped silently, got %d new events", len(after)-before)
	}
}

func TestNotFoundSurfacesAsErrorEvent(t *testing.T) {
	d, transport := newTestDispatcher(t)
	d.SurfaceCommit(client, wire.SurfaceCommit{SurfaceID: 0xDEAD})

	ev, ok := transport.last(client).(wire.ErrorEvent)
	if !ok || ev.Code != wire.ErrCodeNotFound {
		t.Fatalf("expected not_found error event, got %#v", transport.last(client))
	}
}

func TestCoreGetObjectsPublishesServerObjects(t *testing.T) {
	d, transport := newTestDispatcher(t)
	d.RegisterInputDevice(1, input.SourcePointer)

	d.CoreGetObjects(client, wire.CoreGetObjects{})

	var sawObject bool
	for _, ev := range transport.all(client) {
		if _, ok := ev.(wire.ObjectEvent); ok {
			sawObject = true
		}
	}
	if !sawObject {
		t.Fatal("expected CoreGetObjects to publish at least one server object")
	}
}
