//go:build unix

package shm

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func init() {
	Attach = attachUnix
}

// unixSegment maps a shared memory file descriptor with mmap.
type unixSegment struct {
	data []byte
}

func attachUnix(handle int, size int) (Segment, error) {
	data, err := unix.Mmap(handle, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("shm: mmap fd %d size %d: %w", handle, size, err)
	}
	return &unixSegment{data: data}, nil
}

func (s *unixSegment) Bytes() []byte { return s.data }

func (s *unixSegment) Close() error {
	if s.data == nil {
		return nil
	}
	err := unix.Munmap(s.data)
	s.data = nil
	return err
}
