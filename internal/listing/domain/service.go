package domain

import (
	"context"
	"errors"
)

type Service interface {
	Browse(ctx context.Context, req BrowseRequest) ([]Listing, error)
	Get(ctx context.Context, id string) (Listing, error)
	Create(ctx context.Context, req CreateRequest) (Listing, error)
}

type BrowseRequest struct {
	Limit  int
	Offset int
}

type CreateRequest struct {
	SellerID    string `json:"seller_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
}

var (
	ErrInvalidListingID = errors.New("invalid_listing_id")
	ErrListingNotFound  = errors.New("listing_not_found")
	ErrInvalidSeller    = errors.New("invalid_seller")
	ErrInvalidTitle     = errors.New("invalid_title")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrListingQuota     = errors.New("listing_quota_exceeded")
)
