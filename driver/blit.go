package driver

import (
	"errors"
	"image"
	"image/color"
	"sync"

	ximage "golang.org/x/image/draw"

	"github.com/Meulengracht/vioarr-sub000/pixfmt"
)

func init() {
	Register(&blitDriver{})
}

// blitDriver is the software render back-end: it keeps every texture
// and framebuffer as a plain image.RGBA in host memory and composites
// with golang.org/x/image/draw instead of issuing GPU commands. It is
// always available, so it is the fallback/default driver when no
// hardware-accelerated one is registered.
type blitDriver struct {
	mu      sync.Mutex
	backend *blitBackend
}

func (d *blitDriver) Name() string { return "blit" }

func (d *blitDriver) Open(width, height int) (Backend, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.backend == nil {
		d.backend = &blitBackend{}
	}
	return d.backend, nil
}

func (d *blitDriver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.backend = nil
}

// blitBackend is the Backend implementation opened by blitDriver.
type blitBackend struct{}

func (b *blitBackend) Destroy() {}

func (b *blitBackend) NewTexture(pf pixfmt.Format, width, height int) (Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("driver: texture dimensions must be positive")
	}
	return &blitTexture{
		pf:  pf,
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}, nil
}

func (b *blitBackend) NewFramebuf(width, height int) (Framebuf, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("driver: framebuffer dimensions must be positive")
	}
	return &blitFramebuf{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

// blitTexture holds uploaded buffer content as an image.RGBA,
// converted from the client's wire pixel format on upload so that
// every downstream draw call uses Go's native image/color layout.
type blitTexture struct {
	pf  pixfmt.Format
	img *image.RGBA
}

func (t *blitTexture) Destroy() {}

func (t *blitTexture) Bounds() image.Rectangle { return t.img.Bounds() }

// Upload converts pix, packed BytesPerPixel*width*height bytes in t's
// pixel format, into the texture's RGBA backing store. Flags.FlipY
// reads rows back to front.
func (t *blitTexture) Upload(pix []byte, flags pixfmt.Flags) error {
	b := t.img.Bounds()
	w, h := b.Dx(), b.Dy()
	want := w * h * pixfmt.BytesPerPixel
	if len(pix) < want {
		return errors.New("driver: buffer shorter than texture dimensions require")
	}
	flip := flags.Has(pixfmt.FlipY)
	for y := 0; y < h; y++ {
		srcRow := y
		if flip {
			srcRow = h - 1 - y
		}
		rowOff := srcRow * w * pixfmt.BytesPerPixel
		for x := 0; x < w; x++ {
			px := pix[rowOff+x*pixfmt.BytesPerPixel : rowOff+x*pixfmt.BytesPerPixel+4]
			t.img.SetRGBA(x, y, convertPixel(t.pf, px))
		}
	}
	return nil
}

// convertPixel reorders a single 4-byte pixel from the client's wire
// format into color.RGBA, forcing full opacity for formats without a
// meaningful alpha channel.
func convertPixel(pf pixfmt.Format, px []byte) color.RGBA {
	var r, g, b, a byte
	switch pf {
	case pixfmt.ARGB32:
		a, r, g, b = px[3], px[2], px[1], px[0]
	case pixfmt.ABGR32:
		a, b, g, r = px[3], px[2], px[1], px[0]
	case pixfmt.XRGB32:
		r, g, b, a = px[2], px[1], px[0], 0xff
	case pixfmt.XBGR32:
		b, g, r, a = px[2], px[1], px[0], 0xff
	case pixfmt.RGBA32:
		r, g, b, a = px[0], px[1], px[2], px[3]
	case pixfmt.BGRA32:
		b, g, r, a = px[0], px[1], px[2], px[3]
	default:
		r, g, b, a = px[0], px[1], px[2], px[3]
	}
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// blitFramebuf is the Framebuf implementation opened by blitBackend.
// Present has nothing further to hand off to in this software-only
// back-end; a host window system integration would flush img to the
// screen here instead.
type blitFramebuf struct {
	img *image.RGBA
}

func (f *blitFramebuf) Destroy() {}

func (f *blitFramebuf) Image() *image.RGBA { return f.img }

func (f *blitFramebuf) Present() error { return nil }

// DrawTexture composites src onto dst at dstBounds, using draw.Over
// when transparent is set (alpha-blended) or draw.Src otherwise
// (straight replace), the same distinction gogpu-gg's Pixmap leaves to
// golang.org/x/image/draw rather than a hand-rolled blend loop.
func DrawTexture(dst *image.RGBA, dstBounds image.Rectangle, src Texture, transparent bool) {
	tex, ok := src.(*blitTexture)
	if !ok {
		return
	}
	op := ximage.Src
	if transparent {
		op = ximage.Over
	}
	ximage.ApproxBiLinear.Scale(dst, dstBounds, tex.img, tex.img.Bounds(), op, nil)
}
