// Package domain contains the marketplace listing model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// ListingStatus is the closed set of listing states.
type ListingStatus string

const (
	StatusDraft         ListingStatus = "draft"
	StatusPendingReview ListingStatus = "pending_review"
	StatusPublished     ListingStatus = "published"
	StatusPaused        ListingStatus = "paused"
	StatusRejected      ListingStatus = "rejected"
	StatusSold          ListingStatus = "sold"
)

// Listing is a bike offered for rent or sale. A listing may only hold
// published status while its seller's subscription is active or within the
// past_due grace window; the billing lifecycle is the only component allowed
// to bulk-flip published listings to paused.
type Listing struct {
	ID            snowflake.ID   `gorm:"primaryKey" json:"id"`
	SellerID      snowflake.ID   `gorm:"not null;index:idx_listings_seller_status,priority:1" json:"seller_id"`
	Title         string         `gorm:"type:text;not null" json:"title"`
	Description   string         `gorm:"type:text;not null;default:''" json:"description"`
	PriceCents    int64          `gorm:"not null;default:0" json:"price_cents"`
	ListingStatus ListingStatus  `gorm:"type:text;not null;default:draft;index:idx_listings_seller_status,priority:2" json:"listing_status"`
	Photos        datatypes.JSON `gorm:"type:text" json:"photos"`
	CreatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Listing) TableName() string { return "listings" }
