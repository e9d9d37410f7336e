// Command compositord is the compositor's process entry point: it
// parses the daemon's tunables, wires the engine and dispatcher
// together, publishes the screen as the first server object, and
// blocks until a termination signal arrives.
//
// A real wire codec (the local stream socket a client library talks
// to) sits in front of dispatch.Dispatcher and is out of scope here;
// this binary stands one up with a logOnlyTransport so the engine can
// run and be exercised end to end without one.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Meulengracht/vioarr-sub000/dispatch"
	"github.com/Meulengracht/vioarr-sub000/engine"
	"github.com/Meulengracht/vioarr-sub000/input"
	"github.com/Meulengracht/vioarr-sub000/registry"
	"github.com/Meulengracht/vioarr-sub000/wire"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("compositord", flag.ContinueOnError)
	var (
		width      = fs.Int("width", 1920, "screen width in pixels")
		height     = fs.Int("height", 1080, "screen height in pixels")
		refresh    = fs.Duration("refresh", 16*time.Millisecond, "target time between frames")
		maxClients = fs.Int("max-clients", 64, "maximum simultaneous client connections")
		driverName = fs.String("driver", "blit", "render driver to open")
		logFormat  = fs.String("log-format", "text", "log output format: text or json")
		showVer    = fs.Bool("version", false, "print version and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVer {
		fmt.Printf("compositord %s\n", version)
		return 0
	}

	logger := newLogger(*logFormat)
	cfg := engine.DefaultConfig()
	cfg.ScreenWidth = *width
	cfg.ScreenHeight = *height
	cfg.RefreshInterval = *refresh
	cfg.MaxClients = *maxClients
	cfg.DriverName = *driverName

	transport := &logOnlyTransport{log: logger}
	events := dispatch.NewInputEvents(transport, logger)

	eng, err := engine.New(cfg, events, logger)
	if err != nil {
		logger.Error("open engine", "error", err)
		return 1
	}
	d := dispatch.New(eng, transport, logger)

	screenID := eng.Registry.RegisterServer(eng.ScreenInfo, registry.TypeScreen)
	logger.Info("screen published", "id", screenID, "width", *width, "height", *height)

	// A real seat backend enumerates the host's pointer and keyboard
	// devices through udev/libinput and calls RegisterInputDevice once
	// per device as they're discovered; that backend is out of scope
	// here, so compositord registers one of each up front.
	pointer := d.RegisterInputDevice(0, input.SourcePointer)
	keyboard := d.RegisterInputDevice(1, input.SourceKeyboard)
	logger.Info("input devices registered", "pointer", pointer.ID, "keyboard", keyboard.ID)

	eng.Start()
	eng.WaitUntilReady()
	logger.Info("compositord started",
		"version", version,
		"driver", cfg.DriverName,
		"refresh", cfg.RefreshInterval,
		"max_clients", cfg.MaxClients,
	)

	awaitShutdownSignal(logger)

	eng.Stop()
	logger.Info("compositord stopped")
	return 0
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// awaitShutdownSignal blocks until SIGINT, SIGTERM or SIGHUP arrives.
func awaitShutdownSignal(logger *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	s := <-sigCh
	logger.Info("shutdown signal received", "signal", s.String())
}

// logOnlyTransport stands in for a real wire codec: it logs every
// event a dispatch.Dispatcher would otherwise encode and send to a
// connected client, which lets the engine run and be driven through
// dispatch without a socket in front of it.
type logOnlyTransport struct {
	log *slog.Logger
}

func (t *logOnlyTransport) Send(client wire.ClientID, event any) error {
	t.log.Debug("wire event", "client", client, "event", fmt.Sprintf("%#v", event))
	return nil
}

func (t *logOnlyTransport) Close(client wire.ClientID) {
	t.log.Debug("wire client closed", "client", client)
}

func (t *logOnlyTransport) Broadcast(event any) error {
	t.log.Debug("wire broadcast", "event", fmt.Sprintf("%#v", event))
	return nil
}
