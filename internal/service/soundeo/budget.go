package soundeo

import (
	"context"
	"fmt"
	"sync"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
)

// RateBudget mirrors the per-account download allowance enforced by the
// catalog. Every granted download URL costs one unit; the local copy is the
// optimistic view and the catalog stays authoritative, so workers reconcile
// through RefreshFromClient whenever the local count hits zero.
type RateBudget struct {
	// mu protects all counter fields.
	mu sync.Mutex
	// main is the remaining regular allowance.
	main uint32
	// bonus is the remaining bonus allowance, consumed after main.
	bonus uint32
	// resetETA is the catalog's phrasing of when the allowance refills.
	resetETA string
	// capTotal bounds the refreshed total when positive. Zero means server truth.
	capTotal uint32
}

// NewRateBudget creates an empty budget capped at capTotal units per refresh.
func NewRateBudget(capTotal uint32) *RateBudget {
	return &RateBudget{capTotal: capTotal}
}

// Current returns the remaining main and bonus allowances.
func (b *RateBudget) Current() (uint32, uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.main, b.bonus
}

// Remaining returns the total units left in the budget.
func (b *RateBudget) Remaining() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.main + b.bonus
}

// ResetETA returns the catalog's last reported allowance reset estimate.
func (b *RateBudget) ResetETA() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.resetETA
}

// TryConsume removes one unit from the budget, draining the main allowance
// before the bonus one. It returns false when nothing is left.
func (b *RateBudget) TryConsume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.main > 0:
		b.main--
	case b.bonus > 0:
		b.bonus--
	default:
		return false
	}

	return true
}

// Set overwrites the budget with the given allowances, applying the cap.
func (b *RateBudget) Set(main, bonus uint32, resetETA string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.setLocked(main, bonus, resetETA)
}

// Exhaust drops the budget to zero, keeping the reset estimate for display.
func (b *RateBudget) Exhaust() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.main = 0
	b.bonus = 0
}

// RefreshFromClient reloads the budget from the catalog's account widget.
// The catalog stays authoritative; the configured cap only lowers the result.
func (b *RateBudget) RefreshFromClient(ctx context.Context, client clientsoundeo.Client) error {
	remaining, err := client.CheckRemainingDownloads(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh download budget: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.setLocked(remaining.Main, remaining.Bonus, remaining.ResetETA)

	return nil
}

// setLocked applies the cap and stores the allowances. Callers hold b.mu.
func (b *RateBudget) setLocked(main, bonus uint32, resetETA string) {
	if b.capTotal > 0 && main+bonus > b.capTotal {
		if main >= b.capTotal {
			main = b.capTotal
			bonus = 0
		} else {
			bonus = b.capTotal - main
		}
	}

	b.main = main
	b.bonus = bonus
	b.resetETA = resetETA
}
