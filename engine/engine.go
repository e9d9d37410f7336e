// Package engine ties the compositor's pieces together: it opens a
// render driver, owns the registry/window-manager/input singletons,
// and drives the render thread at a configured refresh rate.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Meulengracht/vioarr-sub000/driver"
	"github.com/Meulengracht/vioarr-sub000/input"
	"github.com/Meulengracht/vioarr-sub000/region"
	"github.com/Meulengracht/vioarr-sub000/registry"
	"github.com/Meulengracht/vioarr-sub000/render"
	"github.com/Meulengracht/vioarr-sub000/wm"
)

// Config carries the compositor-wide tunables that would otherwise be
// scattered across flags or environment variables.
type Config struct {
	// RefreshInterval is the target time between frames, e.g.
	// 16.6ms for 60Hz.
	//
	// Default is 16ms.
	RefreshInterval time.Duration

	// ScreenWidth and ScreenHeight are the screen's pixel
	// dimensions.
	//
	// Default is 1920x1080.
	ScreenWidth  int
	ScreenHeight int

	// MaxClients records the intended bound on simultaneous client
	// connections. It is carried in the configuration and logged at
	// startup; nothing in this module enforces it.
	//
	// Default is 64.
	MaxClients int

	// DriverName selects the registered driver.Driver to open. The
	// "blit" driver (software compositing) is always registered.
	//
	// Default is "blit".
	DriverName string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 16 * time.Millisecond,
		ScreenWidth:     1920,
		ScreenHeight:    1080,
		MaxClients:      64,
		DriverName:      "blit",
	}
}

var cfg Config

// Configure replaces the engine's default configuration with config.
// The stored package-level value is not read by New, which uses the
// Config passed to it.
func Configure(config *Config) {
	cfg = *config
}

func init() {
	c := DefaultConfig()
	Configure(&c)
}

// Engine owns the render thread and the object graph it draws:
// Registry, WM and Input are exported so dispatch can wire wire-level
// requests directly into them without engine mediating every call.
type Engine struct {
	cfg Config
	log *slog.Logger

	Registry   *registry.Registry
	WM         *wm.Manager
	Input      *input.System
	Renderer   *render.Renderer
	ScreenInfo *Screen

	mu    sync.Mutex
	cond  *sync.Cond
	ready bool

	stop    chan struct{}
	stopped chan struct{}
}

// New opens config's driver and wires up a fresh Registry, WM, Input
// and Renderer around it. events receives the input system's pointer/
// keyboard wire events; logger may be nil, in which case slog.Default
// is used.
func New(config Config, events input.Events, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	backend, err := driver.Open(config.DriverName, config.ScreenWidth, config.ScreenHeight)
	if err != nil {
		return nil, err
	}

	screen := region.New(0, 0, config.ScreenWidth, config.ScreenHeight)
	manager := wm.New()

	renderer, err := render.New(manager, backend, screen)
	if err != nil {
		backend.Destroy()
		return nil, err
	}

	e := &Engine{
		cfg:        config,
		log:        logger,
		Registry:   registry.New(),
		WM:         manager,
		Input:      input.New(manager, events, screen),
		Renderer:   renderer,
		ScreenInfo: newScreen(screen, config.RefreshInterval),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	e.cond = sync.NewCond(&e.mu)
	return e, nil
}

// Config returns the configuration this Engine was created with.
func (e *Engine) Config() Config { return e.cfg }

// Screen returns the screen's region, as published to clients via
// screen.get_properties.
func (e *Engine) Screen() region.Region { return e.Renderer.Region() }

// Start launches the render thread. It returns immediately; the
// thread runs until Stop is called.
func (e *Engine) Start() {
	go e.renderLoop()
}

// renderLoop draws one frame, then sleeps the remainder of the
// configured refresh interval, computed from a monotonic clock so
// that a slow frame does not compound delay across frames (it
// shortens the following sleep instead of stacking on top of it).
func (e *Engine) renderLoop() {
	defer close(e.stopped)
	for {
		start := time.Now()
		if err := e.Renderer.RenderFrame(); err != nil {
			e.log.Error("render frame failed", "error", err)
		}
		e.markReady()

		elapsed := time.Since(start)
		wait := e.cfg.RefreshInterval - elapsed%e.cfg.RefreshInterval
		if wait < 0 {
			wait = 0
		}
		select {
		case <-e.stop:
			return
		case <-time.After(wait):
		}
	}
}

func (e *Engine) markReady() {
	e.mu.Lock()
	if !e.ready {
		e.ready = true
		e.cond.Broadcast()
	}
	e.mu.Unlock()
}

// WaitUntilReady blocks until the render thread has completed its
// first frame. This is the startup handshake a newly accepted client
// connection waits on before Registry.Publish runs, so that a client
// never observes server objects the render thread hasn't begun
// driving yet.
func (e *Engine) WaitUntilReady() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for !e.ready {
		e.cond.Wait()
	}
}

// Stop halts the render thread and waits for it to exit.
func (e *Engine) Stop() {
	close(e.stop)
	<-e.stopped
}
