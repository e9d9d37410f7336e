package driver

import (
	"image"

	"github.com/Meulengracht/vioarr-sub000/pixfmt"
)

// Destroyer is the interface that wraps the Destroy method. Types that
// implement this interface may hold external memory not managed by
// GC, so Destroy must be called explicitly to release it.
type Destroyer interface {
	Destroy()
}

// Backend is the interface a render back-end exposes to the render
// package: it turns committed buffer content into Textures and
// composites a Framebuf of them into a presentable frame.
type Backend interface {
	Destroyer

	// NewTexture allocates a Texture of the given format and
	// dimensions with no content uploaded yet.
	NewTexture(pf pixfmt.Format, width, height int) (Texture, error)

	// NewFramebuf creates the Framebuf representing the screen this
	// Backend was opened for.
	NewFramebuf(width, height int) (Framebuf, error)
}

// Texture is a GPU- or memory-resident image a surface's committed
// buffer content is uploaded into, ready to be drawn by a Painter.
type Texture interface {
	Destroyer

	// Upload copies pix (tightly packed, BytesPerPixel*width*height
	// bytes) into the texture, replacing its full contents.
	Upload(pix []byte, flags pixfmt.Flags) error

	// Bounds returns the texture's pixel rectangle.
	Bounds() image.Rectangle
}

// Framebuf is the render target the compositor draws a frame's worth
// of surfaces into before it is presented.
type Framebuf interface {
	Destroyer

	// Image exposes the framebuffer's backing image for blit-based
	// composition. The returned image is valid until the Framebuf is
	// destroyed.
	Image() *image.RGBA

	// Present makes the framebuffer's current contents visible,
	// e.g. by flushing it to the host window system.
	Present() error
}
