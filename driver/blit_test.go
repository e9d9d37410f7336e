package driver

import (
	"image"
	"testing"

	"github.com/Meulengracht/vioarr-sub000/pixfmt"
)

func TestTextureUploadConvertsARGB32(t *testing.T) {
	b := &blitBackend{}
	tex, err := b.NewTexture(pixfmt.ARGB32, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	// ARGB32 byte order in this package is B, G, R, A.
	pix := []byte{0x10, 0x20, 0x30, 0x40}
	if err := tex.Upload(pix, 0); err != nil {
		t.Fatal(err)
	}
	bt := tex.(*blitTexture)
	c := bt.img.RGBAAt(0, 0)
	if c.R != 0x30 || c.G != 0x20 || c.B != 0x10 || c.A != 0x40 {
		t.Fatalf("unexpected converted pixel: %+v", c)
	}
}

func TestTextureUploadRejectsShortBuffer(t *testing.T) {
	b := &blitBackend{}
	tex, err := b.NewTexture(pixfmt.RGBA32, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if err := tex.Upload(make([]byte, 4), 0); err == nil {
		t.Fatal("expected error uploading undersized buffer")
	}
}

func TestTextureUploadFlipsY(t *testing.T) {
	b := &blitBackend{}
	tex, err := b.NewTexture(pixfmt.RGBA32, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	pix := []byte{
		0xAA, 0, 0, 0xff, // row 0 in buffer order
		0xBB, 0, 0, 0xff, // row 1 in buffer order
	}
	if err := tex.Upload(pix, pixfmt.FlipY); err != nil {
		t.Fatal(err)
	}
	bt := tex.(*blitTexture)
	if bt.img.RGBAAt(0, 0).R != 0xBB {
		t.Fatalf("expected flipped row 0 to come from buffer row 1, got %+v", bt.img.RGBAAt(0, 0))
	}
	if bt.img.RGBAAt(0, 1).R != 0xAA {
		t.Fatalf("expected flipped row 1 to come from buffer row 0, got %+v", bt.img.RGBAAt(0, 1))
	}
}

func TestDrawTextureOntoFramebuf(t *testing.T) {
	backend := &blitBackend{}
	tex, _ := backend.NewTexture(pixfmt.RGBA32, 2, 2)
	tex.Upload([]byte{
		0xff, 0, 0, 0xff, 0xff, 0, 0, 0xff,
		0xff, 0, 0, 0xff, 0xff, 0, 0, 0xff,
	}, 0)
	fb, _ := backend.NewFramebuf(10, 10)
	DrawTexture(fb.Image(), image.Rect(0, 0, 2, 2), tex, false)
	if fb.Image().RGBAAt(0, 0).R != 0xff {
		t.Fatal("expected red texture content blitted onto framebuffer")
	}
}
