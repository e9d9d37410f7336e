// Package render implements the compositor's per-frame traversal: it
// walks the window manager's surface tree once per frame, uploads
// dirty buffer content to the driver back-end, and composites every
// visible surface onto the screen framebuffer.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
	"sync/atomic"

	"github.com/Meulengracht/vioarr-sub000/buffer"
	"github.com/Meulengracht/vioarr-sub000/driver"
	"github.com/Meulengracht/vioarr-sub000/internal/cerr"
	"github.com/Meulengracht/vioarr-sub000/region"
	"github.com/Meulengracht/vioarr-sub000/surface"
	"github.com/Meulengracht/vioarr-sub000/wm"
)

// Renderer is the Surface.Host and Surface.Painter every Surface in
// the compositor is created against: it owns texture upload
// (create_image/destroy_image), the frame counter wait_frame blocks
// on, and the composite pass that draws the window manager's stacking
// order onto the screen framebuffer.
type Renderer struct {
	manager *wm.Manager
	backend driver.Backend
	screen  region.Region
	fb      driver.Framebuf

	frameMu    sync.Mutex
	cond       *sync.Cond
	frameCount atomic.Uint64

	texMu    sync.Mutex
	nextTex  int
	textures map[int]driver.Texture

	zombieMu sync.Mutex
	zombies  []*buffer.Buffer
}

// New creates a Renderer that composites manager's surfaces onto a
// framebuffer of screen's size, obtained from backend.
func New(manager *wm.Manager, backend driver.Backend, screen region.Region) (*Renderer, error) {
	fb, err := backend.NewFramebuf(screen.Width, screen.Height)
	if err != nil {
		return nil, err
	}
	r := &Renderer{
		manager:  manager,
		backend:  backend,
		screen:   screen,
		fb:       fb,
		textures: make(map[int]driver.Texture),
		nextTex:  1,
	}
	r.cond = sync.NewCond(&r.frameMu)
	return r, nil
}

// Region implements surface.Host.
func (r *Renderer) Region() region.Region { return r.screen }

// CreateImage implements surface.Host: it uploads buf's pixels into a
// freshly allocated texture and returns the opaque resource id the
// Surface references on subsequent commits and redraws.
func (r *Renderer) CreateImage(buf *buffer.Buffer) (int, error) {
	tex, err := r.backend.NewTexture(buf.Format, buf.Width, buf.Height)
	if err != nil {
		return 0, cerr.ResourceExhaustedf(buf.ID, "render.create_image: %v", err)
	}
	if err := tex.Upload(buf.Data(), buf.Flags); err != nil {
		tex.Destroy()
		return 0, cerr.ResourceExhaustedf(buf.ID, "render.create_image: %v", err)
	}

	r.texMu.Lock()
	id := r.nextTex
	r.nextTex++
	r.textures[id] = tex
	r.texMu.Unlock()
	return id, nil
}

// UpdateImage implements surface.Host: it re-uploads buf's pixels into
// the texture previously returned by CreateImage.
func (r *Renderer) UpdateImage(resourceID int, buf *buffer.Buffer) error {
	r.texMu.Lock()
	tex, ok := r.textures[resourceID]
	r.texMu.Unlock()
	if !ok {
		return cerr.NotFoundf(uint32(resourceID), "render.update_image: unknown resource")
	}
	return tex.Upload(buf.Data(), buf.Flags)
}

// DestroyImage implements surface.Host.
func (r *Renderer) DestroyImage(resourceID int) {
	r.texMu.Lock()
	tex, ok := r.textures[resourceID]
	delete(r.textures, resourceID)
	r.texMu.Unlock()
	if ok {
		tex.Destroy()
	}
}

// WaitFrame implements surface.Host: it blocks until RenderFrame
// completes at least once more, so a caller that just tore down a
// surface knows the render thread is no longer touching it.
func (r *Renderer) WaitFrame() {
	r.frameMu.Lock()
	defer r.frameMu.Unlock()
	target := r.frameCount.Load() + 1
	for r.frameCount.Load() < target {
		r.cond.Wait()
	}
}

// FrameCount returns the number of completed RenderFrame passes.
func (r *Renderer) FrameCount() uint64 { return r.frameCount.Load() }

// TrackZombie registers buf as pending release on this Renderer's next
// RenderFrame pass. A buffer's own Destroy only tags it zombie rather
// than dropping its reference immediately, since the render thread may
// still be mid-upload of its contents for the in-flight frame;
// TrackZombie is how dispatch hands that deferred release off.
func (r *Renderer) TrackZombie(buf *buffer.Buffer) {
	r.zombieMu.Lock()
	r.zombies = append(r.zombies, buf)
	r.zombieMu.Unlock()
}

// PendingZombies returns the number of tracked buffers still awaiting
// a RenderFrame pass to reap them.
func (r *Renderer) PendingZombies() int {
	r.zombieMu.Lock()
	defer r.zombieMu.Unlock()
	n := 0
	for _, b := range r.zombies {
		if b.IsZombie() {
			n++
		}
	}
	return n
}

func (r *Renderer) reapZombies() {
	r.zombieMu.Lock()
	defer r.zombieMu.Unlock()
	kept := r.zombies[:0]
	for _, b := range r.zombies {
		if b.IsZombie() {
			b.ReleaseZombie()
		} else {
			kept = append(kept, b)
		}
	}
	r.zombies = kept
}

var _ surface.Painter = (*Renderer)(nil)

// RenderFrame draws one frame: it reaps any buffers released since the
// previous pass, clears the framebuffer, walks the window manager's
// surfaces back-to-front calling Surface.Render(r), presents the
// result, and advances the frame counter, waking any WaitFrame
// callers.
func (r *Renderer) RenderFrame() error {
	r.reapZombies()

	img := r.fb.Image()
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	r.manager.ForEachVisible(r.screen, func(s *surface.Surface) {
		s.Render(r)
	})

	err := r.fb.Present()

	r.frameMu.Lock()
	r.frameCount.Add(1)
	r.cond.Broadcast()
	r.frameMu.Unlock()

	return err
}

// DrawImage implements surface.Painter by blitting the texture
// identified by resourceID onto the framebuffer at bounds.
func (r *Renderer) DrawImage(resourceID int, bounds region.Region, transparent bool) {
	r.texMu.Lock()
	tex, ok := r.textures[resourceID]
	r.texMu.Unlock()
	if !ok {
		return
	}
	dst := image.Rect(bounds.X, bounds.Y, bounds.X+bounds.Width, bounds.Y+bounds.Height)
	driver.DrawTexture(r.fb.Image(), dst, tex, transparent)
}

// DrawShadow implements surface.Painter. The software back-end has no
// blur kernel, so a drop shadow is approximated as a flat translucent
// fill of the shadow extension region behind the surface's corners;
// cornerRadius affects nothing further in this back-end.
func (r *Renderer) DrawShadow(bounds region.Region, shadow region.Region, cornerRadius int, transparent bool) {
	dst := image.Rect(shadow.X, shadow.Y, shadow.X+shadow.Width, shadow.Y+shadow.Height)
	shadowColor := image.NewUniform(color.RGBA{A: 0x60})
	draw.Draw(r.fb.Image(), dst, shadowColor, image.Point{}, draw.Over)
}
