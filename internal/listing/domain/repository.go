package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, listing *Listing) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Listing, error)
	ListPublished(ctx context.Context, db *gorm.DB, limit, offset int) ([]Listing, error)
	ListBySeller(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]Listing, error)

	// PauseAllPublished flips every published listing of the seller to paused
	// and returns how many rows changed. Only the billing lifecycle calls this.
	PauseAllPublished(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, now time.Time) (int64, error)

	// ResumeAllPaused is the reverse cascade, applied when a paused
	// subscription becomes active again.
	ResumeAllPaused(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, now time.Time) (int64, error)
}
