package memory

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.HighWaterMark >= config.CriticalWaterMark {
		t.Errorf("high water mark %.2f must be below critical %.2f",
			config.HighWaterMark, config.CriticalWaterMark)
	}
	if config.CheckInterval <= 0 {
		t.Error("check interval must be positive")
	}
}

func TestMonitorWithoutLimitNeverPauses(t *testing.T) {
	m := NewMonitor(Config{CheckInterval: time.Millisecond})
	if m.limit != 0 {
		t.Skip("ambient GOMEMLIMIT set")
	}

	m.checkMemory()
	if m.IsPaused() {
		t.Error("monitor without limit must not pause")
	}
	if !m.WaitIfPaused() {
		t.Error("WaitIfPaused must return immediately without a limit")
	}
	if m.Usage() != 0 {
		t.Errorf("usage = %.2f, want 0 without a limit", m.Usage())
	}
}

func TestMonitorPausesOverCriticalMark(t *testing.T) {
	// A 1-byte limit guarantees usage above any water mark.
	m := NewMonitor(Config{
		LimitBytes:        1,
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     time.Hour,
	})

	m.checkMemory()
	if !m.IsPaused() {
		t.Fatal("expected monitor to pause over the critical mark")
	}
	if m.Usage() <= 1 {
		t.Errorf("usage = %.2f, want > 1 with a 1-byte limit", m.Usage())
	}
}

func TestWaitIfPausedReleasedByStop(t *testing.T) {
	m := NewMonitor(Config{
		LimitBytes:        1,
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     time.Hour,
	})
	m.checkMemory()

	released := make(chan bool, 1)
	go func() {
		released <- m.WaitIfPaused()
	}()

	m.Stop()

	select {
	case ok := <-released:
		if ok {
			t.Error("WaitIfPaused must return false when stopped while paused")
		}
	case <-time.After(time.Second):
		t.Fatal("WaitIfPaused did not return after Stop")
	}
}
