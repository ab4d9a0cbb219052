package bids

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	bidsvc "bazaar-backend/internal/application/bids"
	"bazaar-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBidsHandlerTest(t *testing.T) (*Handlers, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Listing{}, &domain.Bid{}))
	svc := &bidsvc.Service{DB: db, Currency: "USD"}
	return &Handlers{Service: svc}, db
}

func seedAuction(t *testing.T, db *gorm.DB, priceCents int64) (*domain.User, *domain.User, *domain.Listing) {
	seller := &domain.User{Username: "seller", Email: "seller@test.com", PasswordHash: "x"}
	bidder := &domain.User{Username: "bidder", Email: "bidder@test.com", PasswordHash: "x"}
	require.NoError(t, db.Create(seller).Error)
	require.NoError(t, db.Create(bidder).Error)
	end := time.Now().Add(24 * time.Hour)
	listing := &domain.Listing{
		SellerID:    seller.UserID,
		Title:       "Auction item",
		PriceCents:  priceCents,
		ListingType: domain.ListingTypeAuction,
		Status:      domain.ListingStatusActive,
		EndDate:     &end,
	}
	require.NoError(t, db.Create(listing).Error)
	return seller, bidder, listing
}

func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", map[string]interface{}{
			"user_id":  userID,
			"username": "bidder",
			"email":    "bidder@test.com",
		})
		return c.Next()
	}
}

func TestPlaceBid_HTTP_Success(t *testing.T) {
	h, db := setupBidsHandlerTest(t)
	_, bidder, listing := seedAuction(t, db, 500_00)

	app := fiber.New()
	app.Use(asUser(bidder.UserID.String()))
	app.Post("/place-bid", h.PlaceBid)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id": listing.ListingID.String(),
		"amount":     600.00,
	})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "success", result["status"])
	assert.Equal(t, "Bid placed successfully", result["message"])
	data := result["data"].(map[string]interface{})
	bid := data["bid"].(map[string]interface{})
	assert.Equal(t, 60000.0, bid["amount_cents"])
}

func TestPlaceBid_HTTP_Unauthenticated(t *testing.T) {
	h, db := setupBidsHandlerTest(t)
	_, _, listing := seedAuction(t, db, 500_00)

	app := fiber.New()
	app.Post("/place-bid", h.PlaceBid)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id": listing.ListingID.String(),
		"amount":     600.00,
	})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestPlaceBid_HTTP_RejectionDetails(t *testing.T) {
	h, db := setupBidsHandlerTest(t)
	_, bidder, listing := seedAuction(t, db, 500_00)

	app := fiber.New()
	app.Use(asUser(bidder.UserID.String()))
	app.Post("/place-bid", h.PlaceBid)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id": listing.ListingID.String(),
		"amount":     450.00,
	})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	assert.Equal(t, "error", result["status"])
	errObj := result["error"].(map[string]interface{})
	assert.Equal(t, 400.0, errObj["statusCode"])
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, 500.0, details["current_highest_bid"])
	assert.Equal(t, 600.0, details["minimum_bid"])
}

func TestPlaceBid_HTTP_InvalidListingID(t *testing.T) {
	h, db := setupBidsHandlerTest(t)
	_, bidder, _ := seedAuction(t, db, 500_00)

	app := fiber.New()
	app.Use(asUser(bidder.UserID.String()))
	app.Post("/place-bid", h.PlaceBid)

	body, _ := json.Marshal(map[string]interface{}{
		"listing_id": "not-a-uuid",
		"amount":     600.00,
	})
	req := httptest.NewRequest("POST", "/place-bid", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestListingBids_HTTP_Public(t *testing.T) {
	h, db := setupBidsHandlerTest(t)
	_, bidder, listing := seedAuction(t, db, 500_00)
	require.NoError(t, db.Create(&domain.Bid{
		ListingID: listing.ListingID, BidderID: bidder.UserID, AmountCents: 600_00,
	}).Error)

	app := fiber.New()
	app.Get("/listing/:listing_id", h.ListingBids)

	req := httptest.NewRequest("GET", "/listing/"+listing.ListingID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	meta := result["metadata"].(map[string]interface{})
	assert.Equal(t, 1.0, meta["count"])
}

func TestRetractBid_HTTP_NotFound(t *testing.T) {
	h, db := setupBidsHandlerTest(t)
	_, bidder, _ := seedAuction(t, db, 500_00)

	app := fiber.New()
	app.Use(asUser(bidder.UserID.String()))
	app.Delete("/retract-bid/:bid_id", h.RetractBid)

	req := httptest.NewRequest("DELETE", "/retract-bid/550e8400-e29b-41d4-a716-446655440000", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
