package listings

import (
	"context"
	"time"

	"bazaar-backend/internal/domain"
	"bazaar-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates listing operations. Auction end dates are evaluated
// lazily: reads and writes that touch an expired active auction flip it to
// ended on the spot, never a background timer (the reconciler is freshness
// only).
type Service struct {
	DB *gorm.DB
}

type CreateListingInput struct {
	SellerID         uuid.UUID
	Title            string
	Description      string
	PriceCents       int64
	BuyNowPriceCents *int64
	ListingType      string
	EndDate          *time.Time
	AcceptOffers     bool
}

func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	if in.Title == "" {
		return nil, apperrors.Rejected("Title is required")
	}
	if in.PriceCents <= 0 {
		return nil, apperrors.Rejected("Price must be greater than zero")
	}
	switch in.ListingType {
	case domain.ListingTypeAuction:
		if in.EndDate == nil {
			return nil, apperrors.Rejected("Auctions require an end date")
		}
		if !in.EndDate.After(time.Now()) {
			return nil, apperrors.Rejected("Auction end date must be in the future")
		}
	case domain.ListingTypeBuyNow:
		// Buy-now listings have no bidding; end date optional.
	default:
		return nil, apperrors.Rejected("Invalid listing type")
	}
	if in.BuyNowPriceCents != nil && *in.BuyNowPriceCents <= 0 {
		return nil, apperrors.Rejected("Buy-now price must be greater than zero")
	}

	listing := &domain.Listing{
		SellerID:         in.SellerID,
		Title:            in.Title,
		Description:      in.Description,
		PriceCents:       in.PriceCents,
		BuyNowPriceCents: in.BuyNowPriceCents,
		ListingType:      in.ListingType,
		Status:           domain.ListingStatusActive,
		EndDate:          in.EndDate,
		AcceptOffers:     in.AcceptOffers,
	}
	if err := s.DB.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, apperrors.Internal("Failed to create listing", err)
	}
	return listing, nil
}

// GetListingByIDResult decorates a listing with the seller's public profile.
type GetListingByIDResult struct {
	domain.Listing
	Seller domain.PublicProfile `json:"seller"`
}

func (s *Service) GetListingByID(ctx context.Context, listingID uuid.UUID) (*GetListingByIDResult, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Listing not found")
		}
		return nil, apperrors.Internal("Failed to fetch listing", err)
	}
	s.expireIfDue(ctx, &listing)

	var seller domain.User
	result := &GetListingByIDResult{Listing: listing}
	if err := s.DB.WithContext(ctx).Where("user_id = ?", listing.SellerID).First(&seller).Error; err == nil {
		result.Seller = seller.Public()
	}
	return result, nil
}

func (s *Service) GetAllActiveListings(ctx context.Context) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := s.DB.WithContext(ctx).Where("status = ?", domain.ListingStatusActive).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch listings", err)
	}
	return out, nil
}

func (s *Service) GetMyListings(ctx context.Context, sellerID uuid.UUID) ([]domain.Listing, error) {
	var out []domain.Listing
	if err := s.DB.WithContext(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, apperrors.Internal("Failed to fetch listings", err)
	}
	return out, nil
}

func (s *Service) CancelListing(ctx context.Context, listingID, callerID uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("Listing not found")
		}
		return nil, apperrors.Internal("Failed to fetch listing", err)
	}
	if listing.SellerID != callerID {
		return nil, apperrors.Forbidden("Only the seller can cancel a listing")
	}
	if listing.Status != domain.ListingStatusActive {
		return nil, apperrors.Rejected("Listing is not active")
	}
	// Guard against cancelling an auction out from under its leading bidder.
	res := s.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("listing_id = ? AND status = ?", listingID, domain.ListingStatusActive).
		Update("status", domain.ListingStatusCancelled)
	if res.Error != nil {
		return nil, apperrors.Internal("Failed to cancel listing", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.Conflict("Listing status changed concurrently")
	}
	listing.Status = domain.ListingStatusCancelled
	return &listing, nil
}

// expireIfDue flips an active auction past its end date to ended. Best
// effort: a failed flip leaves the lazy check to the next touch.
func (s *Service) expireIfDue(ctx context.Context, listing *domain.Listing) {
	if listing.Status != domain.ListingStatusActive || !listing.IsExpired(time.Now()) {
		return
	}
	res := s.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("listing_id = ? AND status = ?", listing.ListingID, domain.ListingStatusActive).
		Update("status", domain.ListingStatusEnded)
	if res.Error == nil && res.RowsAffected > 0 {
		listing.Status = domain.ListingStatusEnded
	}
}
