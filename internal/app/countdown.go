package app

import (
	"sync"
	"time"
)

// Countdown drives the per-second session clock.
type Countdown interface {
	// Start calls tick every interval until the returned stop func is called.
	Start(interval time.Duration, tick func()) (stop func())
}

// TickerCountdown runs tick on a background goroutine backed by time.Ticker.
type TickerCountdown struct{}

func (TickerCountdown) Start(interval time.Duration, tick func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tick()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

// ManualCountdown never fires on its own; callers drive the engine with Tick.
type ManualCountdown struct {
	mu      sync.Mutex
	running int
}

func (m *ManualCountdown) Start(_ time.Duration, _ func()) func() {
	m.mu.Lock()
	m.running++
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			m.running--
			m.mu.Unlock()
		})
	}
}

// Running reports how many countdowns are started and not yet stopped.
func (m *ManualCountdown) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
