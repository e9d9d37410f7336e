package surface

import (
	"github.com/Meulengracht/vioarr-sub000/buffer"
	"github.com/Meulengracht/vioarr-sub000/region"
)

// properties holds the subset of a Surface's state that participates
// in the pending/active double-buffering scheme: everything a client
// can change mid-frame without it taking visible effect until Commit.
type properties struct {
	cornerRadius int
	borderWidth  int
	borderColor  int
	transparent  bool

	inputRegion region.Region
	dropShadow  region.Region
	children    []*Surface
}

// backbuffer pairs a Buffer adopted via SetBuffer with the resource id
// the render host assigned it when it was uploaded.
type backbuffer struct {
	resourceID int
	content    *buffer.Buffer
}

func (b *backbuffer) release(host Host) {
	if b.content == nil {
		return
	}
	host.DestroyImage(b.resourceID)
	b.content.Release()
	b.content = nil
	b.resourceID = 0
}
