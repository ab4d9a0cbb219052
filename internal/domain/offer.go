package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Offer statuses. Pending is the only non-terminal state; Countered spawns a
// new pending child row.
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusDeclined  = "declined"
	OfferStatusCountered = "countered"
	OfferStatusExpired   = "expired"
	OfferStatusWithdrawn = "withdrawn"
)

// OfferTTL is the fixed lifetime of a pending offer.
const OfferTTL = 48 * time.Hour

// Offer is a monetary proposal against a listing, subject to seller
// acceptance. Counter-offers chain via ParentOfferID; who may respond flips
// at each hop.
type Offer struct {
	OfferID       uuid.UUID  `gorm:"column:offer_id;type:uuid;primaryKey" json:"offer_id"`
	ListingID     uuid.UUID  `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	BuyerID       uuid.UUID  `gorm:"column:buyer_id;type:uuid;not null;index" json:"buyer_id"`
	SellerID      uuid.UUID  `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	AmountCents   int64      `gorm:"column:amount_cents;type:bigint;not null" json:"amount_cents"`
	Message       string     `gorm:"column:message" json:"message"`
	Status        string     `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	ParentOfferID *uuid.UUID `gorm:"column:parent_offer_id;type:uuid;index" json:"parent_offer_id"`
	ExpiresAt     time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	RespondedAt   *time.Time `gorm:"column:responded_at" json:"responded_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (Offer) TableName() string {
	return "Offers"
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.OfferID == uuid.Nil {
		o.OfferID = uuid.New()
	}
	return nil
}

// IsCounter reports whether this offer is a counter-offer.
func (o *Offer) IsCounter() bool {
	return o.ParentOfferID != nil
}

// IsExpired reports whether a pending offer has outlived its TTL.
func (o *Offer) IsExpired(now time.Time) bool {
	return o.Status == OfferStatusPending && now.After(o.ExpiresAt)
}

// Responder returns the user who may respond to this offer: the seller for
// original offers, the buyer for counter-offers. Derived, never stored.
func (o *Offer) Responder() uuid.UUID {
	if o.IsCounter() {
		return o.BuyerID
	}
	return o.SellerID
}

// SentBy returns the user who authored this offer. The seller authors
// counter-offers even though the row keeps the original buyer/seller columns.
func (o *Offer) SentBy() uuid.UUID {
	if o.IsCounter() {
		return o.SellerID
	}
	return o.BuyerID
}
