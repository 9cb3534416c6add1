package service

import (
	"context"
	"strconv"
	"strings"

	subscriptiondomain "github.com/Huve14/Go-Moto-sub000/internal/subscription/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo subscriptiondomain.Repository
}

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo subscriptiondomain.Repository
}

func NewService(p Params) subscriptiondomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("subscription.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req subscriptiondomain.ListRequest) ([]subscriptiondomain.Subscription, error) {
	filter := subscriptiondomain.ListFilter{Limit: req.Limit}

	if raw := strings.TrimSpace(req.SellerID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, subscriptiondomain.ErrInvalidSubscriptionID
		}
		filter.SellerID = snowflake.ID(id)
	}

	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := subscriptiondomain.SubscriptionStatus(raw)
		switch status {
		case subscriptiondomain.StatusPending,
			subscriptiondomain.StatusActive,
			subscriptiondomain.StatusPastDue,
			subscriptiondomain.StatusPaused,
			subscriptiondomain.StatusCanceled:
			filter.Status = status
		default:
			return nil, subscriptiondomain.ErrInvalidStatus
		}
	}

	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Get(ctx context.Context, id string) (subscriptiondomain.Subscription, error) {
	raw, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || raw == 0 {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrInvalidSubscriptionID
	}

	subscription, err := s.repo.FindByID(ctx, s.db, snowflake.ID(raw))
	if err != nil {
		return subscriptiondomain.Subscription{}, err
	}
	if subscription == nil {
		return subscriptiondomain.Subscription{}, subscriptiondomain.ErrSubscriptionNotFound
	}
	return *subscription, nil
}
