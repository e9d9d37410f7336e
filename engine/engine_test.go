package engine

import (
	"testing"
	"time"
)

func TestNewOpensBlitDriverAndScreen(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScreenWidth, cfg.ScreenHeight = 640, 480
	cfg.RefreshInterval = time.Millisecond

	e, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if e.Screen().Width != 640 || e.Screen().Height != 480 {
		t.Fatalf("unexpected screen region %+v", e.Screen())
	}
}

func TestStartSignalsReadyAfterFirstFrame(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RefreshInterval = time.Millisecond

	e, err := New(cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	e.Start()
	defer e.Stop()

	done := make(chan struct{})
	go func() {
		e.WaitUntilReady()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitUntilReady did not return after the render thread started")
	}
}
