package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository exposes the subscription reads and the two status transitions
// owned by the billing lifecycle. Transition writes are conditional on the
// expected current status so a concurrent run cannot double-process a row.
type Repository interface {
	// FindDueActive returns active subscriptions whose next_payment_due falls
	// on or before the day containing asOf.
	FindDueActive(ctx context.Context, db *gorm.DB, asOf time.Time) ([]Subscription, error)

	// FindGraceExpired returns past_due subscriptions whose grace window ended
	// strictly before now.
	FindGraceExpired(ctx context.Context, db *gorm.DB, now time.Time) ([]Subscription, error)

	// FindGraceReminderDue returns past_due subscriptions still inside grace
	// whose payment became due exactly two days before the day containing now.
	FindGraceReminderDue(ctx context.Context, db *gorm.DB, now time.Time) ([]Subscription, error)

	// MarkPastDue transitions id from active to past_due, recording graceUntil.
	// The returned bool reports whether the row actually transitioned.
	MarkPastDue(ctx context.Context, db *gorm.DB, id snowflake.ID, graceUntil, now time.Time) (bool, error)

	// MarkPaused transitions id from past_due to paused.
	MarkPaused(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error)

	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Subscription, error)
}

// ListFilter narrows admin subscription listings.
type ListFilter struct {
	SellerID snowflake.ID
	Status   SubscriptionStatus
	Limit    int
}
