package jobs

import (
	"context"
	"log"
	"time"

	"github.com/vedamire/trumanclaw/internal/services"
)

// BetResolver drives the settlement loop. Every tick it asks the resolver
// service to advance the counter and settle whatever has matured.
type BetResolver struct {
	resolver *services.ResolverService
	interval time.Duration
	stopChan chan struct{}
}

// NewBetResolver creates a new bet resolver job
func NewBetResolver(resolver *services.ResolverService, interval time.Duration) *BetResolver {
	return &BetResolver{
		resolver: resolver,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the settlement loop
func (br *BetResolver) Start() {
	log.Printf("[BetResolver] Starting bet resolution job (interval: %v)", br.interval)

	ticker := time.NewTicker(br.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			br.runTick()
		case <-br.stopChan:
			log.Println("[BetResolver] Stopping bet resolution job")
			return
		}
	}
}

// Stop stops the settlement loop
func (br *BetResolver) Stop() {
	close(br.stopChan)
}

func (br *BetResolver) runTick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, _, err := br.resolver.ResolveTick(ctx, time.Now()); err != nil {
		log.Printf("[BetResolver] Tick failed: %v", err)
	}
}
