package guest

import (
	"log"
	"time"
)

// Ticker drives the guest mirror's settlement loop. One periodic timer
// covers every variant; per-bet timers are never created.
type Ticker struct {
	mirror   *Mirror
	interval time.Duration
	stopChan chan struct{}
}

func NewTicker(mirror *Mirror, interval time.Duration) *Ticker {
	return &Ticker{
		mirror:   mirror,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the loop and blocks until Stop is called.
func (t *Ticker) Start() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := t.mirror.Tick(); err != nil {
				log.Printf("[Guest] Tick failed: %v", err)
			}
		case <-t.stopChan:
			return
		}
	}
}

// Stop stops the loop.
func (t *Ticker) Stop() {
	close(t.stopChan)
}
