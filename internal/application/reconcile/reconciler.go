package reconcile

import (
	"context"
	"time"

	"bazaar-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Reconciler periodically flips past-due active auctions to ended and
// past-due pending offers to expired. Freshness only: both engines make the
// same lazy checks on every touch, so correctness never depends on this
// sweep running.
type Reconciler struct {
	DB *gorm.DB
}

// Run sweeps at the given interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

// Sweep performs one idempotent pass.
func (r *Reconciler) Sweep(ctx context.Context) {
	now := time.Now()

	res := r.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("status = ? AND listing_type = ? AND end_date IS NOT NULL AND end_date < ?",
			domain.ListingStatusActive, domain.ListingTypeAuction, now).
		Update("status", domain.ListingStatusEnded)
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("Reconcile: auction sweep failed")
	} else if res.RowsAffected > 0 {
		log.Info().Int64("listings", res.RowsAffected).Msg("Reconcile: closed expired auctions")
	}

	res = r.DB.WithContext(ctx).Model(&domain.Offer{}).
		Where("status = ? AND expires_at < ?", domain.OfferStatusPending, now).
		Update("status", domain.OfferStatusExpired)
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("Reconcile: offer sweep failed")
	} else if res.RowsAffected > 0 {
		log.Info().Int64("offers", res.RowsAffected).Msg("Reconcile: expired stale offers")
	}
}
