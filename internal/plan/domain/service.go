package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]Plan, error)
	Get(ctx context.Context, id string) (Plan, error)
}

var (
	ErrInvalidPlanID = errors.New("invalid_plan_id")
	ErrPlanNotFound  = errors.New("plan_not_found")
)
