package driver

import "errors"

// ErrCannotPresent means that the driver and/or back-end do not
// support presentation.
var ErrCannotPresent = errors.New("presentation not supported")

// ErrWindow represents an error related to the host window or screen
// surface a Framebuf presents onto. This usually indicates that a
// window misconfiguration is preventing correct operation.
var ErrWindow = errors.New("window-related error")

// ErrCompositor represents an error related to the compositor's own
// request to the back-end, e.g. presenting a Framebuf that was never
// obtained from the Backend currently in use.
var ErrCompositor = errors.New("compositor-related error")

// ErrNoBackbuffer means a Framebuf's backing image could not be
// acquired for writing.
var ErrNoBackbuffer = errors.New("framebuffer unavailable")
