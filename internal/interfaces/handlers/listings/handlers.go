package listings

import (
	"time"

	listingsvc "bazaar-backend/internal/application/listings"
	"bazaar-backend/internal/middleware"
	"bazaar-backend/internal/pkg/money"
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *listingsvc.Service
}

// CreateListingRequest body. Prices are in major currency units, end_date is
// RFC 3339.
type CreateListingRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	BuyNowPrice  *float64 `json:"buy_now_price"`
	ListingType  string   `json:"listing_type"`
	EndDate      *string  `json:"end_date"`
	AcceptOffers bool     `json:"accept_offers"`
}

// Create POST /api/v1/listings/create-listing: create a listing for the caller.
func (h *Handlers) Create(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	in := listingsvc.CreateListingInput{
		SellerID:     userID,
		Title:        req.Title,
		Description:  req.Description,
		PriceCents:   money.FromFloat(req.Price),
		ListingType:  req.ListingType,
		AcceptOffers: req.AcceptOffers,
	}
	if req.BuyNowPrice != nil {
		cents := money.FromFloat(*req.BuyNowPrice)
		in.BuyNowPriceCents = &cents
	}
	if req.EndDate != nil && *req.EndDate != "" {
		t, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			return response.Error(c, "Invalid end_date format, expected RFC 3339", fiber.StatusBadRequest, nil)
		}
		in.EndDate = &t
	}

	listing, err := h.Service.CreateListing(c.Context(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Listing created successfully", fiber.Map{"listing": listing}, nil)
}

// Get GET /api/v1/listings/get-listing/:listing_id: public listing detail
// with seller.
func (h *Handlers) Get(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.GetListingByID(c.Context(), listingID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", fiber.Map{"listing": listing}, nil)
}

// All GET /api/v1/listings/get-all-active-listings: all active listings,
// newest first.
func (h *Handlers) All(c *fiber.Ctx) error {
	listings, err := h.Service.GetAllActiveListings(c.Context())
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listings fetched successfully", fiber.Map{"listings": listings}, fiber.Map{"count": len(listings)})
}

// Mine GET /api/v1/listings/my-listings: the caller's listings, any status.
func (h *Handlers) Mine(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	listings, err := h.Service.GetMyListings(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listings fetched successfully", fiber.Map{"listings": listings}, fiber.Map{"count": len(listings)})
}

// CancelListingRequest body.
type CancelListingRequest struct {
	ListingID string `json:"listing_id"`
}

// Cancel POST /api/v1/listings/cancel-listing: seller cancels an active
// listing.
func (h *Handlers) Cancel(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req CancelListingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	listing, err := h.Service.CancelListing(c.Context(), listingID, userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing cancelled successfully", fiber.Map{"listing": listing}, nil)
}
