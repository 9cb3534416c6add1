package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Huve14/Go-Moto-sub000/internal/cache"
	plandomain "github.com/Huve14/Go-Moto-sub000/internal/plan/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const planCacheTTL = 5 * time.Minute

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	cache cache.Cache[snowflake.ID, plandomain.Plan]
}

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewService(p Params) plandomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("plan.service"),
		cache: cache.NewTTLCache[snowflake.ID, plandomain.Plan](),
	}
}

func (s *Service) List(ctx context.Context) ([]plandomain.Plan, error) {
	var plans []plandomain.Plan
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("monthly_price_cents ASC").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (s *Service) Get(ctx context.Context, id string) (plandomain.Plan, error) {
	planID, err := parseID(id)
	if err != nil {
		return plandomain.Plan{}, plandomain.ErrInvalidPlanID
	}

	if cached, ok := s.cache.Get(planID); ok {
		return cached, nil
	}

	var plan plandomain.Plan
	err = s.db.WithContext(ctx).First(&plan, "id = ?", planID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return plandomain.Plan{}, plandomain.ErrPlanNotFound
		}
		return plandomain.Plan{}, err
	}

	s.cache.Set(planID, plan, planCacheTTL)
	return plan, nil
}

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, plandomain.ErrInvalidPlanID
	}
	return snowflake.ID(value), nil
}
