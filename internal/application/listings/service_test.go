package listings

import (
	"context"
	"testing"
	"time"

	"bazaar-backend/internal/domain"
	"bazaar-backend/internal/pkg/apperrors"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupListingsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Listing{}))
	return &Service{DB: db}, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	u := &domain.User{Username: username, Email: username + "@test.com", PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestCreateListing_Auction(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := seedUser(t, db, "seller")
	end := time.Now().Add(48 * time.Hour)

	listing, err := svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:    seller.UserID,
		Title:       "Antique clock",
		PriceCents:  250_00,
		ListingType: domain.ListingTypeAuction,
		EndDate:     &end,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusActive, listing.Status)
	assert.NotEqual(t, uuid.Nil, listing.ListingID)
}

func TestCreateListing_AuctionRequiresFutureEndDate(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := seedUser(t, db, "seller")

	_, err := svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:    seller.UserID,
		Title:       "No end date",
		PriceCents:  250_00,
		ListingType: domain.ListingTypeAuction,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRejected, apperrors.AsError(err).Kind)

	past := time.Now().Add(-time.Hour)
	_, err = svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:    seller.UserID,
		Title:       "Past end date",
		PriceCents:  250_00,
		ListingType: domain.ListingTypeAuction,
		EndDate:     &past,
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRejected, apperrors.AsError(err).Kind)
}

func TestCreateListing_InvalidType(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := seedUser(t, db, "seller")

	_, err := svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:    seller.UserID,
		Title:       "Weird",
		PriceCents:  250_00,
		ListingType: "raffle",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRejected, apperrors.AsError(err).Kind)
}

func TestGetListingByID_LazyExpiry(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := seedUser(t, db, "seller")
	past := time.Now().Add(-time.Minute)
	l := &domain.Listing{
		SellerID:    seller.UserID,
		Title:       "Ended auction",
		PriceCents:  250_00,
		ListingType: domain.ListingTypeAuction,
		Status:      domain.ListingStatusActive,
		EndDate:     &past,
	}
	require.NoError(t, db.Create(l).Error)

	got, err := svc.GetListingByID(context.Background(), l.ListingID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusEnded, got.Status)
	assert.Equal(t, "seller", got.Seller.Username)

	var reloaded domain.Listing
	require.NoError(t, db.Where("listing_id = ?", l.ListingID).First(&reloaded).Error)
	assert.Equal(t, domain.ListingStatusEnded, reloaded.Status)
}

func TestCancelListing_OnlySeller(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := seedUser(t, db, "seller")
	other := seedUser(t, db, "other")
	end := time.Now().Add(24 * time.Hour)
	listing, err := svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:    seller.UserID,
		Title:       "Cancel me",
		PriceCents:  250_00,
		ListingType: domain.ListingTypeAuction,
		EndDate:     &end,
	})
	require.NoError(t, err)

	_, err = svc.CancelListing(context.Background(), listing.ListingID, other.UserID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindForbidden, apperrors.AsError(err).Kind)

	cancelled, err := svc.CancelListing(context.Background(), listing.ListingID, seller.UserID)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusCancelled, cancelled.Status)

	// Cancelling twice is rejected.
	_, err = svc.CancelListing(context.Background(), listing.ListingID, seller.UserID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindRejected, apperrors.AsError(err).Kind)
}

func TestGetAllActiveListings(t *testing.T) {
	svc, db := setupListingsTest(t)
	seller := seedUser(t, db, "seller")
	end := time.Now().Add(24 * time.Hour)
	_, err := svc.CreateListing(context.Background(), CreateListingInput{
		SellerID: seller.UserID, Title: "Active", PriceCents: 100_00,
		ListingType: domain.ListingTypeAuction, EndDate: &end,
	})
	require.NoError(t, err)
	sold := &domain.Listing{
		SellerID: seller.UserID, Title: "Sold", PriceCents: 100_00,
		ListingType: domain.ListingTypeBuyNow, Status: domain.ListingStatusSold,
	}
	require.NoError(t, db.Create(sold).Error)

	active, err := svc.GetAllActiveListings(context.Background())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Active", active[0].Title)
}
