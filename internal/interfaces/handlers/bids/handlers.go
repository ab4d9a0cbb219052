package bids

import (
	bidsvc "bazaar-backend/internal/application/bids"
	"bazaar-backend/internal/middleware"
	"bazaar-backend/internal/pkg/money"
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *bidsvc.Service
}

// PlaceBidRequest body. Amount is in major currency units.
type PlaceBidRequest struct {
	ListingID string  `json:"listing_id"`
	Amount    float64 `json:"amount"`
}

// PlaceBid POST /api/v1/bids/place-bid: validate and append a bid.
func (h *Handlers) PlaceBid(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req PlaceBidRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	if req.Amount <= 0 {
		return response.Error(c, "Amount must be greater than zero", fiber.StatusBadRequest, nil)
	}

	bid, err := h.Service.PlaceBid(c.Context(), listingID, userID, money.FromFloat(req.Amount))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Bid placed successfully", fiber.Map{"bid": bid}, nil)
}

// ListingBids GET /api/v1/listings/:listing_id/bids: public bid history,
// highest first.
func (h *Handlers) ListingBids(c *fiber.Ctx) error {
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	bids, err := h.Service.GetBidsByListing(c.Context(), listingID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Bids fetched successfully", fiber.Map{"bids": bids}, fiber.Map{"count": len(bids)})
}

// MyBids GET /api/v1/bids/my-bids: the caller's bids, newest first.
func (h *Handlers) MyBids(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	bids, err := h.Service.GetMyBids(c.Context(), userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Bids fetched successfully", fiber.Map{"bids": bids}, fiber.Map{"count": len(bids)})
}

// RetractBid DELETE /api/v1/bids/retract-bid/:bid_id: remove a non-highest
// bid outside the closing window.
func (h *Handlers) RetractBid(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	bidID, err := uuid.Parse(c.Params("bid_id"))
	if err != nil {
		return response.Error(c, "Invalid bid_id format", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.RetractBid(c.Context(), bidID, userID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Bid retracted successfully", nil, nil)
}
