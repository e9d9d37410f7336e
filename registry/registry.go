// Package registry implements the compositor's object table: every
// client-visible resource (memory pool, buffer, surface) and every
// server-published resource (screen, pointer, keyboard) is looked up
// by a (client, id) pair through a single ObjectRegistry.
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/Meulengracht/vioarr-sub000/internal/cerr"
	"github.com/Meulengracht/vioarr-sub000/internal/slotmap"
)

// ServerIDStart is the first id handed out to server-created objects.
// Client-assigned ids always fall below this value, so a lookup can
// tell which namespace an id belongs to without consulting the client
// field first.
const ServerIDStart uint32 = 0x8000_0000

// Type identifies what kind of resource an entry's Object wraps, for
// the disconnect-time cleanup ordering in RemoveAllForClient.
type Type int

const (
	TypeMemoryPool Type = iota
	TypeBuffer
	TypeSurface
	TypeScreen
	TypePointer
	TypeKeyboard
)

// Destroyer is implemented by objects that need to run teardown logic
// when the registry removes them on client disconnect.
type Destroyer interface {
	Destroy()
}

// ClientID identifies a connected client. A negative value (NoClient)
// marks a server-owned object, matching the C original's client == -1
// sentinel.
type ClientID int32

// NoClient is the client id server objects are registered under.
const NoClient ClientID = -1

type entry struct {
	client ClientID
	id     uint32
	typ    Type
	object any
}

// Registry is the central object table. One Registry is shared by the
// whole compositor; all methods are safe for concurrent use. Entries
// live in a slotmap.Map arena rather than a plain slice so that
// Remove frees its slot for reuse in O(1) instead of shifting every
// later entry down, the one place this table's access pattern departs
// from the original's intrusive linked list.
type Registry struct {
	mu      sync.RWMutex
	entries slotmap.Map[*entry]
	nextID  atomic.Uint32

	announce func(id uint32, typ Type)
	withdraw func(id uint32)
}

// SetAnnouncer installs the callbacks RegisterServer and Remove use to
// broadcast a server-owned object's publication or withdrawal to every
// connected client, not just whichever client's request triggered the
// change. Grounded on original_source/core/engine/vioarr_objects.c's
// wm_core_event_object_all (register_server) and
// wm_core_event_destroy_all (remove of a server object). Dispatcher
// wires this to wire.Transport.Broadcast.
func (r *Registry) SetAnnouncer(announce func(id uint32, typ Type), withdraw func(id uint32)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announce = announce
	r.withdraw = withdraw
}

// New returns an empty Registry with its server-id counter seeded at
// ServerIDStart.
func New() *Registry {
	r := &Registry{}
	r.nextID.Store(ServerIDStart)
	return r
}

// RegisterClient adds a client-created object under the id the client
// itself assigned it (client ids are scoped per-client and may repeat
// across different clients).
func (r *Registry) RegisterClient(client ClientID, id uint32, object any, typ Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries.Insert(&entry{client: client, id: id, typ: typ, object: object})
}

// RegisterServer adds a server-owned object and returns the globally
// unique id assigned to it. Server ids are never reused. If an
// announcer is installed, every connected client is told about the
// new object.
func (r *Registry) RegisterServer(object any, typ Type) uint32 {
	id := r.nextID.Add(1) - 1
	r.mu.Lock()
	r.entries.Insert(&entry{client: NoClient, id: id, typ: typ, object: object})
	announce := r.announce
	r.mu.Unlock()
	if announce != nil {
		announce(id, typ)
	}
	return id
}

// find returns the handle and entry matching (client, id). A
// server-range id (>= ServerIDStart) matches regardless of which
// client is asking, since server objects are visible to every client;
// otherwise the entry's own client must match the caller's.
func (r *Registry) find(client ClientID, id uint32) (slotmap.Handle, *entry, bool) {
	for h, e := range r.entries.All() {
		if (id >= ServerIDStart && e.id == id) || (e.client == client && e.id == id) {
			return h, e, true
		}
	}
	return 0, nil, false
}

// Lookup returns the object registered under (client, id), or an
// error if no such object exists.
func (r *Registry) Lookup(client ClientID, id uint32) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, e, ok := r.find(client, id)
	if !ok {
		return nil, cerr.NotFoundf(id, "object registry: %d => %d not found", client, id)
	}
	return e.object, nil
}

// Remove drops the object registered under (client, id). It is an
// error to remove an id that isn't registered. If the removed object
// was server-owned and an announcer is installed, every connected
// client is told the object is gone.
func (r *Registry) Remove(client ClientID, id uint32) error {
	r.mu.Lock()
	h, e, ok := r.find(client, id)
	if !ok {
		r.mu.Unlock()
		return cerr.NotFoundf(id, "object registry: %d => %d not found", client, id)
	}
	r.entries.Remove(h)
	serverOwned := e.client == NoClient
	withdraw := r.withdraw
	r.mu.Unlock()

	if serverOwned && withdraw != nil {
		withdraw(id)
	}
	return nil
}

// RemoveAllForClient tears down every object owned by client, in the
// order a disconnecting client's resources must be released: surfaces
// first (so no surface is left referencing a buffer or pool that is
// about to disappear), then buffers, then memory pools.
func (r *Registry) RemoveAllForClient(client ClientID) {
	r.removeByType(client, TypeSurface)
	r.removeByType(client, TypeBuffer)
	r.removeByType(client, TypeMemoryPool)
}

func (r *Registry) removeByType(client ClientID, typ Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var dead []slotmap.Handle
	for h, e := range r.entries.All() {
		if e.client == client && e.typ == typ {
			dead = append(dead, h)
		}
	}
	for _, h := range dead {
		e, _ := r.entries.Get(h)
		r.entries.Remove(h)
		if d, ok := e.object.(Destroyer); ok {
			d.Destroy()
		}
	}
}

// Entries returns every object of type typ registered to client. Used
// by dispatch to run cleanup in a specific order (e.g. detaching a
// surface from the window manager and input system) before handing
// off to RemoveAllForClient, which otherwise has no knowledge of those
// dependent packages.
func (r *Registry) Entries(client ClientID, typ Type) []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []any
	for _, e := range r.entries.All() {
		if e.client == client && e.typ == typ {
			out = append(out, e.object)
		}
	}
	return out
}

// UpdateServer replaces the object stored for a server-owned id
// previously returned by RegisterServer. Used when a resource's id
// must be minted before the object it labels can be constructed (an
// input source needs its own id as a field, so it cannot be built
// before the id exists).
func (r *Registry) UpdateServer(id uint32, object any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, e, ok := r.find(NoClient, id); ok {
		e.object = object
	}
}

// Publish sends every server-owned object to client. A freshly
// connected client needs to learn about the screen, pointer and
// keyboard objects that were created before it connected; publish is
// how it catches up. emit is called once per server object with its
// id and type.
func (r *Registry) Publish(emit func(id uint32, typ Type)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries.All() {
		if e.client == NoClient {
			emit(e.id, e.typ)
		}
	}
}
