package bids

import (
	"context"
	"sync"
	"time"

	"bazaar-backend/internal/domain"
	"bazaar-backend/internal/pkg/apperrors"
	"bazaar-backend/internal/pkg/money"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RetractionCutoff is the window before auction end in which bids can no
// longer be retracted.
const RetractionCutoff = time.Hour

// Notifier abstracts notification emission (satisfied by the notifications
// service; nil disables emission).
type Notifier interface {
	Create(ctx context.Context, userID uuid.UUID, typ, title, message, linkURL string, relatedEntityID *uuid.UUID, data map[string]interface{})
}

// Service is the bid ledger: it validates and appends bids, derives the
// current highest bid, and guards retraction. The highest bid is never
// stored, always computed.
type Service struct {
	DB       *gorm.DB
	Notifier Notifier
	Currency string

	locks sync.Map // listing id -> *sync.Mutex
}

// listingLock serializes the read-compare-insert sequence per listing so two
// concurrent bidders cannot both pass the highest-bid check on a stale read.
func (s *Service) listingLock(listingID uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(listingID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// PlaceBid validates a bid against the listing and the ledger and appends it.
// Rejections carry the data the client needs to correct the amount without a
// second round trip.
func (s *Service) PlaceBid(ctx context.Context, listingID, bidderID uuid.UUID, amountCents int64) (*domain.BidView, error) {
	mu := s.listingLock(listingID)
	mu.Lock()
	defer mu.Unlock()

	var created domain.Bid
	var outbid *domain.Bid

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing domain.Listing
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Listing not found")
			}
			return apperrors.Internal("Failed to fetch listing", err)
		}
		if listing.Status != domain.ListingStatusActive {
			return apperrors.Rejected("Listing is no longer active")
		}
		if listing.ListingType != domain.ListingTypeAuction {
			return apperrors.Rejected("Bids are only accepted on auction listings")
		}
		if bidderID == listing.SellerID {
			return apperrors.Forbidden("Cannot bid on your own listing")
		}
		if listing.IsExpired(time.Now()) {
			// Lazy close: persist the flip as part of the rejection.
			if err := tx.Model(&listing).Update("status", domain.ListingStatusEnded).Error; err != nil {
				return apperrors.Internal("Failed to close expired auction", err)
			}
			return apperrors.Rejected("Auction has ended")
		}

		currentHighest := listing.PriceCents
		var top domain.Bid
		err := tx.Where("listing_id = ?", listingID).
			Order("amount_cents DESC").Order("created_at DESC").
			First(&top).Error
		switch err {
		case nil:
			currentHighest = top.AmountCents
			outbid = &top
		case gorm.ErrRecordNotFound:
			// No bids yet; the listing price is the floor.
		default:
			return apperrors.Internal("Failed to fetch current highest bid", err)
		}

		minimum := currentHighest + domain.MinimumIncrementCents
		if amountCents <= currentHighest {
			return apperrors.RejectedWith("Bid must be higher than the current highest bid", map[string]interface{}{
				"current_highest_bid": money.ToFloat(currentHighest),
				"minimum_bid":         money.ToFloat(minimum),
			})
		}
		if amountCents < minimum {
			return apperrors.RejectedWith("Bid is below the minimum increment", map[string]interface{}{
				"current_highest_bid": money.ToFloat(currentHighest),
				"minimum_bid":         money.ToFloat(minimum),
			})
		}

		created = domain.Bid{
			ListingID:   listingID,
			BidderID:    bidderID,
			AmountCents: amountCents,
		}
		if err := tx.Create(&created).Error; err != nil {
			return apperrors.Internal("Failed to place bid", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil && outbid != nil && outbid.BidderID != bidderID {
		s.Notifier.Create(ctx, outbid.BidderID, domain.NotificationOutbid,
			"You have been outbid",
			"A higher bid of "+money.Format(created.AmountCents, s.Currency)+" was placed on a listing you bid on",
			"/listings/"+listingID.String(), &listingID, map[string]interface{}{
				"listing_id": listingID,
				"new_amount": money.ToFloat(created.AmountCents),
			})
	}

	view := &domain.BidView{Bid: created}
	var bidder domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", bidderID).First(&bidder).Error; err == nil {
		view.Bidder = bidder.Public()
	}
	return view, nil
}

// GetBidsByListing returns a listing's bids, highest first (ties broken by
// recency), each decorated with the bidder's public profile. Public, no auth.
func (s *Service) GetBidsByListing(ctx context.Context, listingID uuid.UUID) ([]domain.BidView, error) {
	var exists int64
	if err := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("listing_id = ?", listingID).Count(&exists).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch listing", err)
	}
	if exists == 0 {
		return nil, apperrors.NotFound("Listing not found")
	}

	var bids []domain.Bid
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).
		Order("amount_cents DESC").Order("created_at DESC").
		Find(&bids).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch bids", err)
	}
	return s.decorate(ctx, bids), nil
}

// GetMyBids returns the caller's bids across listings, newest first.
func (s *Service) GetMyBids(ctx context.Context, userID uuid.UUID) ([]domain.Bid, error) {
	var bids []domain.Bid
	if err := s.DB.WithContext(ctx).Where("bidder_id = ?", userID).Order("created_at DESC").Find(&bids).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch bids", err)
	}
	return bids, nil
}

// RetractBid hard-deletes the caller's bid, unless it is the current highest
// or the auction closes within the retraction cutoff. The highest bid is
// derived, so no recompute is needed after deletion.
func (s *Service) RetractBid(ctx context.Context, bidID, callerID uuid.UUID) error {
	var peek domain.Bid
	if err := s.DB.WithContext(ctx).Where("bid_id = ?", bidID).First(&peek).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Bid not found")
		}
		return apperrors.Internal("Failed to fetch bid", err)
	}

	// Same per-listing lock as PlaceBid: the "is highest" check must not race
	// with a concurrent placement or retraction.
	mu := s.listingLock(peek.ListingID)
	mu.Lock()
	defer mu.Unlock()

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bid domain.Bid
		if err := tx.Where("bid_id = ?", bidID).First(&bid).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Bid not found")
			}
			return apperrors.Internal("Failed to fetch bid", err)
		}
		if bid.BidderID != callerID {
			return apperrors.Forbidden("Cannot retract another user's bid")
		}

		var top domain.Bid
		if err := tx.Where("listing_id = ?", bid.ListingID).
			Order("amount_cents DESC").Order("created_at DESC").
			First(&top).Error; err != nil {
			return apperrors.Internal("Failed to fetch current highest bid", err)
		}
		if top.AmountCents == bid.AmountCents {
			return apperrors.Rejected("Cannot retract the highest bid")
		}

		var listing domain.Listing
		if err := tx.Where("listing_id = ?", bid.ListingID).First(&listing).Error; err != nil {
			return apperrors.Internal("Failed to fetch listing", err)
		}
		if listing.EndDate != nil && time.Until(*listing.EndDate) < RetractionCutoff {
			return apperrors.Rejected("Cannot retract within 1 hour of auction end")
		}

		if err := tx.Delete(&domain.Bid{}, "bid_id = ?", bidID).Error; err != nil {
			return apperrors.Internal("Failed to retract bid", err)
		}
		return nil
	})
}

// decorate attaches bidder public profiles with one batched lookup.
func (s *Service) decorate(ctx context.Context, bids []domain.Bid) []domain.BidView {
	views := make([]domain.BidView, len(bids))
	ids := make([]uuid.UUID, 0, len(bids))
	seen := map[uuid.UUID]bool{}
	for _, b := range bids {
		if !seen[b.BidderID] {
			seen[b.BidderID] = true
			ids = append(ids, b.BidderID)
		}
	}
	profiles := map[uuid.UUID]domain.PublicProfile{}
	if len(ids) > 0 {
		var users []domain.User
		if err := s.DB.WithContext(ctx).Where("user_id IN ?", ids).Find(&users).Error; err == nil {
			for _, u := range users {
				profiles[u.UserID] = u.Public()
			}
		}
	}
	for i, b := range bids {
		views[i] = domain.BidView{Bid: b, Bidder: profiles[b.BidderID]}
	}
	return views
}
