package jobs

import (
	"context"
	"log"
	"time"

	"tripatlas/internal/db"
)

// ExpirySweeper revokes share links that have gone unrotated past a maximum
// age. Revocation is terminal, same as an owner-initiated revoke: expired
// links stop resolving and cannot be rotated back to life.
type ExpirySweeper struct {
	db       *db.DB
	interval time.Duration
	maxAge   time.Duration
}

// NewExpirySweeper creates a new sweeper.
func NewExpirySweeper(database *db.DB, interval, maxAge time.Duration) *ExpirySweeper {
	return &ExpirySweeper{
		db:       database,
		interval: interval,
		maxAge:   maxAge,
	}
}

// Start begins the background sweep loop.
func (s *ExpirySweeper) Start(ctx context.Context) {
	log.Printf("Share link expiry sweeper started (interval: %v, maxAge: %v)", s.interval, s.maxAge)

	// Run immediately on start
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Share link expiry sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)

	revoked, err := s.db.RevokeShareLinksIdleSince(ctx, cutoff)
	if err != nil {
		log.Printf("Expiry sweeper: failed to revoke stale links: %v", err)
		return
	}

	if revoked > 0 {
		log.Printf("Expiry sweeper: revoked %d stale share links", revoked)
	}
}
