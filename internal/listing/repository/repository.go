package repository

import (
	"context"
	"time"

	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct{}

// Provide returns the GORM-backed listing repository.
func Provide() listingdomain.Repository {
	return repository{}
}

func (repository) Insert(ctx context.Context, db *gorm.DB, listing *listingdomain.Listing) error {
	return db.WithContext(ctx).Create(listing).Error
}

func (repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*listingdomain.Listing, error) {
	var listing listingdomain.Listing
	err := db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

func (repository) ListPublished(ctx context.Context, db *gorm.DB, limit, offset int) ([]listingdomain.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var listings []listingdomain.Listing
	err := db.WithContext(ctx).
		Where("listing_status = ?", listingdomain.StatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (repository) ListBySeller(ctx context.Context, db *gorm.DB, sellerID snowflake.ID) ([]listingdomain.Listing, error) {
	var listings []listingdomain.Listing
	err := db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

func (repository) PauseAllPublished(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, now time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&listingdomain.Listing{}).
		Where("seller_id = ? AND listing_status = ?", sellerID, listingdomain.StatusPublished).
		Updates(map[string]any{
			"listing_status": listingdomain.StatusPaused,
			"updated_at":     now.UTC(),
		})
	return result.RowsAffected, result.Error
}

func (repository) ResumeAllPaused(ctx context.Context, db *gorm.DB, sellerID snowflake.ID, now time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&listingdomain.Listing{}).
		Where("seller_id = ? AND listing_status = ?", sellerID, listingdomain.StatusPaused).
		Updates(map[string]any{
			"listing_status": listingdomain.StatusPublished,
			"updated_at":     now.UTC(),
		})
	return result.RowsAffected, result.Error
}
