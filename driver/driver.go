// Package driver defines the interface a render back-end implements to
// serve the compositor's render pass: texture upload for committed
// surface content and presentation of a composited frame. Unlike the
// teacher's Vulkan-shaped GPU interface, a back-end here only needs to
// support 2D blit composition; command buffers, pipelines and
// descriptor tables have no place in a compositor that never issues
// GPU work of its own.
package driver

import (
	"errors"
	"log/slog"
	"sync"
)

// Driver is the interface that provides methods for opening and
// closing an underlying back-end implementation.
type Driver interface {
	// Open initializes the driver for a screen of the given
	// dimensions and returns the Backend used to upload textures and
	// present frames.
	// If it succeeds, further calls with the same receiver have no
	// effect and must return the same Backend instance. Callers
	// should assume that Open is not safe for parallel execution.
	Open(width, height int) (Backend, error)

	// Name returns the name of the driver. It must not cause the
	// driver to be opened.
	Name() string

	// Close deinitializes the driver. Closing a driver that is not
	// open has no effect.
	Close()
}

// ErrNotInstalled means that a platform-specific library required for
// the driver to work is not present in the system.
var ErrNotInstalled = errors.New("driver: missing required library")

// ErrNoDevice means that no suitable device could be found.
var ErrNoDevice = errors.New("driver: no suitable device found")

// ErrNoHostMemory means that host memory could not be allocated.
var ErrNoHostMemory = errors.New("driver: out of host memory")

// ErrFatal means that the driver is in an unrecoverable state. Upon
// encountering such an error, the caller must destroy every texture it
// created through the driver's Backend and then call Close. It may
// call Open again to reinitialize the driver for further use.
var ErrFatal = errors.New("driver: fatal error")

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, and then calls this
// function from init. As such, drivers that do not register
// themselves on init will not be considered for selection.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Open looks up the registered driver by name and opens it for a
// screen of the given dimensions.
func Open(name string, width, height int) (Backend, error) {
	mu.Lock()
	var found Driver
	for i := range drivers {
		if drivers[i].Name() == name {
			found = drivers[i]
			break
		}
	}
	mu.Unlock()
	if found == nil {
		return nil, ErrNoDevice
	}
	return found.Open(width, height)
}

// Register registers a Driver.
// Driver implementations are expected to call Register exactly once,
// from an init function. If a driver with the same name has already
// been registered, it will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			slog.Warn("driver replaced", "name", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	slog.Debug("driver registered", "name", drv.Name())
}

// Variables used for driver registration.
var (
	mu      sync.Mutex
	drivers []Driver = make([]Driver, 0, 1)
)
