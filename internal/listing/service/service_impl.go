package service

import (
	"context"
	"strconv"
	"strings"

	listingdomain "github.com/Huve14/Go-Moto-sub000/internal/listing/domain"
	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  listingdomain.Repository
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  listingdomain.Repository
}

func NewService(p Params) listingdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("listing.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Browse(ctx context.Context, req listingdomain.BrowseRequest) ([]listingdomain.Listing, error) {
	return s.repo.ListPublished(ctx, s.db, req.Limit, req.Offset)
}

func (s *Service) Get(ctx context.Context, id string) (listingdomain.Listing, error) {
	raw, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || raw == 0 {
		return listingdomain.Listing{}, listingdomain.ErrInvalidListingID
	}

	listing, err := s.repo.FindByID(ctx, s.db, snowflake.ID(raw))
	if err != nil {
		return listingdomain.Listing{}, err
	}
	if listing == nil {
		return listingdomain.Listing{}, listingdomain.ErrListingNotFound
	}
	return *listing, nil
}

func (s *Service) Create(ctx context.Context, req listingdomain.CreateRequest) (listingdomain.Listing, error) {
	sellerID, err := strconv.ParseInt(strings.TrimSpace(req.SellerID), 10, 64)
	if err != nil || sellerID == 0 {
		return listingdomain.Listing{}, listingdomain.ErrInvalidSeller
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return listingdomain.Listing{}, listingdomain.ErrInvalidTitle
	}
	if req.PriceCents < 0 {
		return listingdomain.Listing{}, listingdomain.ErrInvalidPrice
	}

	quota, err := s.sellerQuota(ctx, snowflake.ID(sellerID))
	if err != nil {
		return listingdomain.Listing{}, err
	}
	var open int64
	err = s.db.WithContext(ctx).
		Model(&listingdomain.Listing{}).
		Where("seller_id = ? AND listing_status NOT IN ?", sellerID,
			[]listingdomain.ListingStatus{listingdomain.StatusSold, listingdomain.StatusRejected}).
		Count(&open).Error
	if err != nil {
		return listingdomain.Listing{}, err
	}
	if open >= int64(quota) {
		return listingdomain.Listing{}, listingdomain.ErrListingQuota
	}

	listing := listingdomain.Listing{
		ID:            s.genID.Generate(),
		SellerID:      snowflake.ID(sellerID),
		Title:         title,
		Description:   strings.TrimSpace(req.Description),
		PriceCents:    req.PriceCents,
		ListingStatus: listingdomain.StatusDraft,
	}
	if err := s.repo.Insert(ctx, s.db, &listing); err != nil {
		return listingdomain.Listing{}, err
	}
	return listing, nil
}

// Sellers without a live subscription keep a single slot.
const unsubscribedListingQuota = 1

// sellerQuota resolves the listing quota from the seller's current plan.
func (s *Service) sellerQuota(ctx context.Context, sellerID snowflake.ID) (int, error) {
	var quota int
	err := s.db.WithContext(ctx).
		Table("subscriptions").
		Select("plans.max_active_listings").
		Joins("JOIN plans ON plans.id = subscriptions.plan_id").
		Where("subscriptions.seller_id = ?", sellerID).
		Where("subscriptions.status IN ?", []subscriptiondomain.SubscriptionStatus{
			subscriptiondomain.StatusActive,
			subscriptiondomain.StatusPastDue,
		}).
		Order("subscriptions.created_at DESC").
		Limit(1).
		Scan(&quota).Error
	if err != nil {
		return 0, err
	}
	if quota <= 0 {
		return unsubscribedListingQuota, nil
	}
	return quota, nil
}
