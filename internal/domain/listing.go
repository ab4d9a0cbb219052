package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Listing types.
const (
	ListingTypeAuction = "auction"
	ListingTypeBuyNow  = "buy_now"
)

// Listing statuses.
const (
	ListingStatusActive    = "active"
	ListingStatusSold      = "sold"
	ListingStatusCancelled = "cancelled"
	ListingStatusEnded     = "ended"
)

// Listing is a sellable item. Amounts are integer cents.
type Listing struct {
	ListingID        uuid.UUID      `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	SellerID         uuid.UUID      `gorm:"column:seller_id;type:uuid;not null;index" json:"seller_id"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	Description      string         `gorm:"column:description" json:"description"`
	PriceCents       int64          `gorm:"column:price_cents;type:bigint;not null" json:"price_cents"`
	BuyNowPriceCents *int64         `gorm:"column:buy_now_price_cents;type:bigint" json:"buy_now_price_cents"`
	ListingType      string         `gorm:"column:listing_type;type:varchar(20);not null" json:"listing_type"`
	Status           string         `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`
	EndDate          *time.Time     `gorm:"column:end_date" json:"end_date"`
	AcceptOffers     bool           `gorm:"column:accept_offers;not null;default:false" json:"accept_offers"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Listing) TableName() string {
	return "Listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}

// IsExpired reports whether an auction end date has passed. Listings without
// an end date never expire.
func (l *Listing) IsExpired(now time.Time) bool {
	return l.EndDate != nil && !l.EndDate.After(now)
}
