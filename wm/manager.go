// Package wm implements the window manager: the z-ordered stack of
// root surfaces, hit-testing by screen coordinate, and focus tracking.
package wm

import (
	"sync"

	"github.com/Meulengracht/vioarr-sub000/region"
	"github.com/Meulengracht/vioarr-sub000/surface"
)

// Surface-stacking levels. A surface's level picks which of the four
// lists it lives in; within a level, later-registered (or later
// raised) surfaces draw on top of and receive hit-tests before
// earlier ones.
const (
	LevelBottom  = 0
	LevelDefault = 1
	LevelTop     = 2
	LevelCursor  = 3

	levelCount = 4
)

// Manager owns the window stack. One Manager is shared by the whole
// compositor.
type Manager struct {
	mu      sync.RWMutex
	levels  [levelCount][]*surface.Surface
	focused *surface.Surface
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{}
}

// Register adds surface to the stack at its current level.
func (m *Manager) Register(s *surface.Surface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	level := clampLevel(s.Level())
	m.levels[level] = append(m.levels[level], s)
}

// Unregister removes surface from the stack. If it was the focused
// surface, focus falls back to the topmost visible default-level
// surface (or to nothing, if none is visible).
func (m *Manager) Unregister(s *surface.Surface) {
	m.mu.Lock()
	defer m.mu.Unlock()
	level := clampLevel(s.Level())
	m.levels[level] = removeSurface(m.levels[level], s)
	if m.focused == s {
		m.focusTopSurfaceLocked()
	}
}

// focusTopSurfaceLocked picks the topmost visible default-level
// surface as the new focus target, without emitting any focus events
// (mirrors the original's silent reassignment on unregister). Caller
// must hold mu for writing.
func (m *Manager) focusTopSurfaceLocked() {
	level := m.levels[LevelDefault]
	for i := len(level) - 1; i >= 0; i-- {
		if level[i].Visible() {
			m.focused = level[i]
			return
		}
	}
	m.focused = nil
}

// ChangeLevel moves surface from its current level to newLevel.
// newLevel must be one of LevelBottom/LevelDefault/LevelTop; moving a
// surface onto the cursor level is only done through PromoteCursor.
func (m *Manager) ChangeLevel(s *surface.Surface, newLevel int) {
	if newLevel < LevelBottom || newLevel >= LevelCursor {
		return
	}
	old := clampLevel(s.Level())

	m.mu.Lock()
	m.moveSurfaceLocked(s, old, newLevel)
	m.mu.Unlock()

	s.SetLevel(newLevel)
}

// PromoteCursor moves surface to the cursor level, the topmost level
// reserved for pointer-cursor surfaces.
func (m *Manager) PromoteCursor(s *surface.Surface) {
	old := clampLevel(s.Level())

	m.mu.Lock()
	m.moveSurfaceLocked(s, old, LevelCursor)
	m.mu.Unlock()

	s.SetLevel(LevelCursor)
}

// DemoteCursor moves surface from the cursor level back to the
// default level.
func (m *Manager) DemoteCursor(s *surface.Surface) {
	m.mu.Lock()
	m.moveSurfaceLocked(s, LevelCursor, LevelDefault)
	m.mu.Unlock()

	s.SetLevel(LevelDefault)
}

// moveSurfaceLocked relocates s from level "from" to level "to", a
// no-op if s isn't found in "from". Caller must hold mu for writing.
func (m *Manager) moveSurfaceLocked(s *surface.Surface, from, to int) {
	before := len(m.levels[from])
	m.levels[from] = removeSurface(m.levels[from], s)
	if len(m.levels[from]) == before {
		return
	}
	m.levels[to] = append(m.levels[to], s)
}

// SurfaceAt performs top-down hit-testing across every stacking level
// except the cursor level (the cursor's own surface never receives
// pointer hits), returning the innermost surface under (x, y) and its
// local coordinates.
func (m *Manager) SurfaceAt(x, y int) (hit *surface.Surface, localX, localY int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for level := LevelCursor - 1; level >= LevelBottom; level-- {
		list := m.levels[level]
		for i := len(list) - 1; i >= 0; i-- {
			if s, lx, ly := list[i].At(x, y); s != nil {
				return s, lx, ly
			}
		}
	}
	return nil, 0, 0
}

// Focused returns the currently focused surface, or nil.
func (m *Manager) Focused() *surface.Surface {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.focused
}

// Focus makes s the focused surface. Per the original's subsurface
// rule, focusing any surface in a window's subsurface tree focuses
// the whole window: it is that window's root that is raised to the
// front of its level (so the next SurfaceAt/Render pass shows it on
// top), and the focus-changed events are delivered to the leaf
// surface the caller actually asked to focus.
func (m *Manager) Focus(s *surface.Surface) {
	var leaving, entering *surface.Surface

	m.mu.Lock()
	if s != m.focused {
		leaving = m.focused
		m.focused = s
		entering = s

		root := s.Parent(true)
		var leavingRoot *surface.Surface
		if leaving != nil {
			leavingRoot = leaving.Parent(true)
		}
		if root != leavingRoot {
			level := clampLevel(root.Level())
			if !raiseToFront(m.levels[level], root) {
				m.focused = nil
				entering = nil
			}
		}
	}
	m.mu.Unlock()

	if leaving != nil {
		leaving.Focus(false)
	}
	if entering != nil {
		entering.Focus(true)
	}
}

// RequestFocus grants surface focus only if the currently focused
// surface belongs to the same client as the requester (a client may
// move focus among its own windows, never steal it from another).
func (m *Manager) RequestFocus(client int32, s *surface.Surface) {
	current := m.Focused()
	if current == nil || current == s {
		return
	}
	if current.Client != client {
		return
	}
	m.Focus(s)
}

// OnVisibilityChange handles a root surface's visibility flip.
// Becoming visible grants focus; the focused window's root
// disappearing hands focus to the next topmost visible surface.
// Nothing in this module calls it: neither the render pass nor
// Register, Unregister or a level change reports visibility flips.
func (m *Manager) OnVisibilityChange(s *surface.Surface, visible bool) {
	if visible {
		m.Focus(s)
		return
	}

	m.mu.Lock()
	var focusedRoot *surface.Surface
	if m.focused != nil {
		focusedRoot = m.focused.Parent(true)
	}
	if focusedRoot == s {
		m.focusTopSurfaceLocked()
	}
	m.mu.Unlock()
}

// ForEachVisible walks every stacking level bottom to top, invoking fn
// for each root surface whose region intersects screen. The render
// package uses this to decide what to draw each frame without
// reaching into Manager's internals.
func (m *Manager) ForEachVisible(screen region.Region, fn func(*surface.Surface)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for level := 0; level < levelCount; level++ {
		for _, s := range m.levels[level] {
			if screen.Intersects(s.Region()) {
				fn(s)
			}
		}
	}
}

func clampLevel(level int) int {
	if level < LevelBottom {
		return LevelBottom
	}
	if level > LevelCursor {
		return LevelCursor
	}
	return level
}

func removeSurface(list []*surface.Surface, s *surface.Surface) []*surface.Surface {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func raiseToFront(list []*surface.Surface, s *surface.Surface) bool {
	for i, v := range list {
		if v == s {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = s
			return true
		}
	}
	return false
}
