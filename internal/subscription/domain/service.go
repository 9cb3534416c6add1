package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Subscription, error)
	Get(ctx context.Context, id string) (Subscription, error)
}

type ListRequest struct {
	SellerID string
	Status   string
	Limit    int
}

var (
	ErrInvalidSubscriptionID = errors.New("invalid_subscription_id")
	ErrSubscriptionNotFound  = errors.New("subscription_not_found")
	ErrInvalidStatus         = errors.New("invalid_status")
)
