package offers

import (
	offersvc "bazaar-backend/internal/application/offers"
	"bazaar-backend/internal/middleware"
	"bazaar-backend/internal/pkg/money"
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *offersvc.Service
}

// CreateOfferRequest body. Amount is in major currency units.
type CreateOfferRequest struct {
	ListingID string  `json:"listing_id"`
	Amount    float64 `json:"amount"`
	Message   string  `json:"message"`
}

// CreateOffer POST /api/v1/offers/create-offer: open a negotiation.
func (h *Handlers) CreateOffer(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req CreateOfferRequest
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

	offer, err := h.Service.CreateOffer(c.Context(), offersvc.CreateOfferInput{
		ListingID:   listingID,
		BuyerID:     userID,
		AmountCents: money.FromFloat(req.Amount),
		Message:     req.Message,
	})
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Offer created successfully", fiber.Map{"offer": offer}, nil)
}

// RespondRequest body for accept/decline/counter.
type RespondRequest struct {
	Action        string   `json:"action"`
	CounterAmount *float64 `json:"counter_amount"`
	Message       string   `json:"message"`
}

// Respond POST /api/v1/offers/respond/:offer_id: accept, decline, or counter.
// A counter returns the newly created counter-offer.
func (h *Handlers) Respond(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	offerID, err := uuid.Parse(c.Params("offer_id"))
	if err != nil {
		return response.Error(c, "Invalid offer_id format", fiber.StatusBadRequest, nil)
	}
	var req RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}

	in := offersvc.RespondInput{
		OfferID:  offerID,
		CallerID: userID,
		Action:   req.Action,
		Message:  req.Message,
	}
	if req.CounterAmount != nil {
		cents := money.FromFloat(*req.CounterAmount)
		in.CounterAmountCents = &cents
	}

	offer, err := h.Service.RespondToOffer(c.Context(), in)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer response recorded", fiber.Map{"offer": offer}, nil)
}

// Withdraw POST /api/v1/offers/withdraw/:offer_id: buyer withdraws a pending
// original offer.
func (h *Handlers) Withdraw(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	offerID, err := uuid.Parse(c.Params("offer_id"))
	if err != nil {
		return response.Error(c, "Invalid offer_id format", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.WithdrawOffer(c.Context(), offerID, userID); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offer withdrawn successfully", nil, nil)
}

// ListingOffers GET /api/v1/offers/listing/:listing_id: offers on a listing
// visible to the caller.
func (h *Handlers) ListingOffers(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	listingID, err := uuid.Parse(c.Params("listing_id"))
	if err != nil {
		return response.Error(c, "Invalid listing_id format", fiber.StatusBadRequest, nil)
	}
	offers, err := h.Service.GetListingOffers(c.Context(), listingID, userID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offers fetched successfully", fiber.Map{"offers": offers}, fiber.Map{"count": len(offers)})
}

// MyOffers GET /api/v1/offers/my-offers?type=sent|received|all: the caller's
// offers with counter-offer roles reversed.
func (h *Handlers) MyOffers(c *fiber.Ctx) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	offers, err := h.Service.GetMyOffers(c.Context(), userID, c.Query("type", "all"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Offers fetched successfully", fiber.Map{"offers": offers}, fiber.Map{"count": len(offers)})
}
