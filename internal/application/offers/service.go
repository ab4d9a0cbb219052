package offers

import (
	"context"
	"time"

	"bazaar-backend/internal/domain"
	"bazaar-backend/internal/pkg/apperrors"
	"bazaar-backend/internal/pkg/money"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Respond actions.
const (
	ActionAccept  = "accept"
	ActionDecline = "decline"
	ActionCounter = "counter"
)

// Notifier abstracts notification emission (satisfied by the notifications
// service; nil disables emission).
type Notifier interface {
	Create(ctx context.Context, userID uuid.UUID, typ, title, message, linkURL string, relatedEntityID *uuid.UUID, data map[string]interface{})
}

// Service is the offer negotiation state machine. Pending is the only
// non-terminal status; every transition out of it runs as a conditional
// update so concurrent responders cannot both succeed.
type Service struct {
	DB       *gorm.DB
	Notifier Notifier
	Currency string
}

type CreateOfferInput struct {
	ListingID   uuid.UUID
	BuyerID     uuid.UUID
	AmountCents int64
	Message     string
}

func (s *Service) CreateOffer(ctx context.Context, in CreateOfferInput) (*domain.Offer, error) {
	var offer domain.Offer
	var sellerID uuid.UUID

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var listing domain.Listing
		if err := tx.Where("listing_id = ?", in.ListingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Listing not found")
			}
			return apperrors.Internal("Failed to fetch listing", err)
		}
		if in.BuyerID == listing.SellerID {
			return apperrors.Forbidden("Cannot make an offer on your own listing")
		}
		if listing.Status != domain.ListingStatusActive {
			return apperrors.Rejected("Listing is no longer active")
		}
		if !listing.AcceptOffers {
			return apperrors.Rejected("Listing does not accept offers")
		}
		if in.AmountCents <= 0 || in.AmountCents >= listing.PriceCents {
			return apperrors.RejectedWith("Offer must be greater than zero and below the listing price", map[string]interface{}{
				"listing_price": money.ToFloat(listing.PriceCents),
			})
		}

		// Lazy expiry first so a stale pending original does not block.
		now := time.Now()
		if err := tx.Model(&domain.Offer{}).
			Where("listing_id = ? AND buyer_id = ? AND parent_offer_id IS NULL AND status = ? AND expires_at < ?",
				in.ListingID, in.BuyerID, domain.OfferStatusPending, now).
			Update("status", domain.OfferStatusExpired).Error; err != nil {
			return apperrors.Internal("Failed to expire stale offers", err)
		}

		var pending int64
		if err := tx.Model(&domain.Offer{}).
			Where("listing_id = ? AND buyer_id = ? AND parent_offer_id IS NULL AND status = ?",
				in.ListingID, in.BuyerID, domain.OfferStatusPending).
			Count(&pending).Error; err != nil {
			return apperrors.Internal("Failed to check pending offers", err)
		}
		if pending > 0 {
			return apperrors.Rejected("You already have a pending offer on this listing")
		}

		sellerID = listing.SellerID
		offer = domain.Offer{
			ListingID:   in.ListingID,
			BuyerID:     in.BuyerID,
			SellerID:    listing.SellerID,
			AmountCents: in.AmountCents,
			Message:     in.Message,
			Status:      domain.OfferStatusPending,
			ExpiresAt:   now.Add(domain.OfferTTL),
		}
		if err := tx.Create(&offer).Error; err != nil {
			return apperrors.Internal("Failed to create offer", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.Create(ctx, sellerID, domain.NotificationOfferReceived,
			"New offer received",
			"You received an offer of "+money.Format(offer.AmountCents, s.Currency),
			"/offers/"+offer.OfferID.String(), &offer.OfferID, map[string]interface{}{
				"offer_id": offer.OfferID,
				"amount":   money.ToFloat(offer.AmountCents),
			})
	}
	return &offer, nil
}

type RespondInput struct {
	OfferID            uuid.UUID
	CallerID           uuid.UUID
	Action             string
	CounterAmountCents *int64
	Message            string
}

// RespondToOffer applies accept/decline/counter. The responder is derived
// from chain position: seller for originals, buyer for counters. The pending
// guard is a conditional update; losing the race yields Conflict.
func (s *Service) RespondToOffer(ctx context.Context, in RespondInput) (*domain.Offer, error) {
	var offer domain.Offer
	var child *domain.Offer

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("offer_id = ?", in.OfferID).First(&offer).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperrors.NotFound("Offer not found")
			}
			return apperrors.Internal("Failed to fetch offer", err)
		}

		if offer.Responder() != in.CallerID {
			if offer.IsCounter() {
				return apperrors.Forbidden("Only the buyer can respond to this counter-offer")
			}
			return apperrors.Forbidden("Only the seller can respond to this offer")
		}
		if offer.Status != domain.OfferStatusPending {
			return apperrors.Rejected("Offer has already been responded to")
		}

		now := time.Now()
		if now.After(offer.ExpiresAt) {
			// Lazy expiry: persist the flip as part of the rejection so the
			// state self-heals on this access.
			res := tx.Model(&domain.Offer{}).
				Where("offer_id = ? AND status = ?", in.OfferID, domain.OfferStatusPending).
				Update("status", domain.OfferStatusExpired)
			if res.Error != nil {
				return apperrors.Internal("Failed to expire offer", res.Error)
			}
			return apperrors.Rejected("Offer has expired")
		}

		switch in.Action {
		case ActionAccept, ActionDecline, ActionCounter:
		default:
			return apperrors.Rejected("Invalid action")
		}

		newStatus := map[string]string{
			ActionAccept:  domain.OfferStatusAccepted,
			ActionDecline: domain.OfferStatusDeclined,
			ActionCounter: domain.OfferStatusCountered,
		}[in.Action]

		if in.Action == ActionCounter {
			if offer.IsCounter() {
				// A counter terminates the chain for the buyer: accept or
				// decline only, never a counter-of-counter.
				return apperrors.Rejected("Counter-offers can only be accepted or declined")
			}
			if in.CounterAmountCents == nil {
				return apperrors.Rejected("Counter amount is required")
			}
			var listing domain.Listing
			if err := tx.Where("listing_id = ?", offer.ListingID).First(&listing).Error; err != nil {
				return apperrors.Internal("Failed to fetch listing", err)
			}
			if *in.CounterAmountCents <= 0 || *in.CounterAmountCents >= listing.PriceCents {
				return apperrors.RejectedWith("Counter must be greater than zero and below the listing price", map[string]interface{}{
					"listing_price": money.ToFloat(listing.PriceCents),
				})
			}
		}

		// Optimistic guard: only one responder wins the pending row.
		res := tx.Model(&domain.Offer{}).
			Where("offer_id = ? AND status = ?", in.OfferID, domain.OfferStatusPending).
			Updates(map[string]interface{}{"status": newStatus, "responded_at": now})
		if res.Error != nil {
			return apperrors.Internal("Failed to update offer", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("Offer was responded to concurrently")
		}
		offer.Status = newStatus
		offer.RespondedAt = &now

		switch in.Action {
		case ActionAccept:
			if err := tx.Model(&domain.Listing{}).
				Where("listing_id = ?", offer.ListingID).
				Update("status", domain.ListingStatusSold).Error; err != nil {
				return apperrors.Internal("Failed to mark listing sold", err)
			}
		case ActionCounter:
			c := domain.Offer{
				ListingID:     offer.ListingID,
				BuyerID:       offer.BuyerID,
				SellerID:      offer.SellerID,
				AmountCents:   *in.CounterAmountCents,
				Message:       in.Message,
				Status:        domain.OfferStatusPending,
				ParentOfferID: &offer.OfferID,
				ExpiresAt:     now.Add(domain.OfferTTL),
			}
			if err := tx.Create(&c).Error; err != nil {
				return apperrors.Internal("Failed to create counter-offer", err)
			}
			child = &c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyResponse(ctx, &offer, child)
	if child != nil {
		return child, nil
	}
	return &offer, nil
}

func (s *Service) notifyResponse(ctx context.Context, offer *domain.Offer, child *domain.Offer) {
	if s.Notifier == nil {
		return
	}
	switch offer.Status {
	case domain.OfferStatusAccepted:
		s.Notifier.Create(ctx, offer.BuyerID, domain.NotificationOfferAccepted,
			"Offer accepted",
			"Your offer of "+money.Format(offer.AmountCents, s.Currency)+" was accepted",
			"/offers/"+offer.OfferID.String(), &offer.OfferID, nil)
	case domain.OfferStatusDeclined:
		s.Notifier.Create(ctx, offer.BuyerID, domain.NotificationOfferDeclined,
			"Offer declined",
			"Your offer of "+money.Format(offer.AmountCents, s.Currency)+" was declined",
			"/offers/"+offer.OfferID.String(), &offer.OfferID, nil)
	case domain.OfferStatusCountered:
		if child == nil {
			return
		}
		s.Notifier.Create(ctx, offer.BuyerID, domain.NotificationOfferCountered,
			"Counter-offer received",
			"The seller countered with "+money.Format(child.AmountCents, s.Currency),
			"/offers/"+child.OfferID.String(), &child.OfferID, map[string]interface{}{
				"parent_offer_id": offer.OfferID,
				"counter_amount":  money.ToFloat(child.AmountCents),
			})
	}
}

// WithdrawOffer lets a buyer withdraw their own pending original offer. No
// cascading effect on a counter chain.
func (s *Service) WithdrawOffer(ctx context.Context, offerID, callerID uuid.UUID) error {
	var offer domain.Offer
	if err := s.DB.WithContext(ctx).Where("offer_id = ?", offerID).First(&offer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.NotFound("Offer not found")
		}
		return apperrors.Internal("Failed to fetch offer", err)
	}
	if offer.BuyerID != callerID {
		return apperrors.Forbidden("Only the buyer can withdraw an offer")
	}
	if offer.IsCounter() {
		return apperrors.Rejected("Counter-offers cannot be withdrawn")
	}
	if offer.Status != domain.OfferStatusPending {
		return apperrors.Rejected("Only pending offers can be withdrawn")
	}
	res := s.DB.WithContext(ctx).Model(&domain.Offer{}).
		Where("offer_id = ? AND status = ?", offerID, domain.OfferStatusPending).
		Update("status", domain.OfferStatusWithdrawn)
	if res.Error != nil {
		return apperrors.Internal("Failed to withdraw offer", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.Conflict("Offer was responded to concurrently")
	}
	return nil
}

// GetListingOffers returns the offers on a listing visible to the caller
// (participants only), newest first.
func (s *Service) GetListingOffers(ctx context.Context, listingID, callerID uuid.UUID) ([]domain.Offer, error) {
	s.expireDue(ctx)
	var out []domain.Offer
	if err := s.DB.WithContext(ctx).
		Where("listing_id = ? AND (buyer_id = ? OR seller_id = ?)", listingID, callerID, callerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch offers", err)
	}
	return out, nil
}

// GetMyOffers filters by role with chain reversal: a counter-offer was sent
// by the seller and received by the buyer, the mirror of the original.
func (s *Service) GetMyOffers(ctx context.Context, callerID uuid.UUID, offerType string) ([]domain.Offer, error) {
	s.expireDue(ctx)
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	switch offerType {
	case "sent":
		q = q.Where("(parent_offer_id IS NULL AND buyer_id = ?) OR (parent_offer_id IS NOT NULL AND seller_id = ?)", callerID, callerID)
	case "received":
		q = q.Where("(parent_offer_id IS NULL AND seller_id = ?) OR (parent_offer_id IS NOT NULL AND buyer_id = ?)", callerID, callerID)
	case "all", "":
		q = q.Where("buyer_id = ? OR seller_id = ?", callerID, callerID)
	default:
		return nil, apperrors.Rejected("Invalid offer type")
	}
	var out []domain.Offer
	if err := q.Find(&out).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch offers", err)
	}
	return out, nil
}

// expireDue flips all past-due pending offers to expired. Best effort on
// reads; correctness never depends on it (responses re-check).
func (s *Service) expireDue(ctx context.Context) {
	s.DB.WithContext(ctx).Model(&domain.Offer{}).
		Where("status = ? AND expires_at < ?", domain.OfferStatusPending, time.Now()).
		Update("status", domain.OfferStatusExpired)
}
