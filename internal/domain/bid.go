package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MinimumIncrementCents is the fixed bid increment (100 currency units).
const MinimumIncrementCents int64 = 100_00

// Bid is a monetary proposal against an auction listing. Rows are immutable;
// retraction hard-deletes, history is never rewritten.
type Bid struct {
	BidID       uuid.UUID `gorm:"column:bid_id;type:uuid;primaryKey" json:"bid_id"`
	ListingID   uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listing_id"`
	BidderID    uuid.UUID `gorm:"column:bidder_id;type:uuid;not null;index" json:"bidder_id"`
	AmountCents int64     `gorm:"column:amount_cents;type:bigint;not null" json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Bid) TableName() string {
	return "Bids"
}

func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.BidID == uuid.Nil {
		b.BidID = uuid.New()
	}
	return nil
}

// BidView is a bid decorated with the bidder's public display fields.
type BidView struct {
	Bid
	Bidder PublicProfile `json:"bidder"`
}
