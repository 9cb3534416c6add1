// Package domain contains the seller subscription model and its status set.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SubscriptionStatus is the closed set of subscription states.
type SubscriptionStatus string

const (
	StatusPending  SubscriptionStatus = "pending"
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusPaused   SubscriptionStatus = "paused"
	StatusCanceled SubscriptionStatus = "canceled"
)

// GracePeriod is how long a past_due subscription keeps its listings visible
// after a missed payment.
const GracePeriod = 3 * 24 * time.Hour

// Subscription tracks a seller's paid tier. Rows are never deleted; canceled
// subscriptions remain as history. GraceUntil is only meaningful while the
// subscription is past_due in the current cycle.
type Subscription struct {
	ID                 snowflake.ID       `gorm:"primaryKey" json:"id"`
	SellerID           snowflake.ID       `gorm:"not null;index" json:"seller_id"`
	PlanID             snowflake.ID       `gorm:"not null" json:"plan_id"`
	Status             SubscriptionStatus `gorm:"type:text;not null;default:pending;index:idx_subscriptions_status_due,priority:1" json:"status"`
	NextPaymentDue     *time.Time         `gorm:"index:idx_subscriptions_status_due,priority:2" json:"next_payment_due"`
	GraceUntil         *time.Time         `gorm:"" json:"grace_until"`
	CurrentPeriodStart *time.Time         `gorm:"" json:"current_period_start"`
	CurrentPeriodEnd   *time.Time         `gorm:"" json:"current_period_end"`
	CancelAtPeriodEnd  bool               `gorm:"not null;default:false" json:"cancel_at_period_end"`
	CreatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }
