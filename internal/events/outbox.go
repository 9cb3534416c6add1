package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event describes a billing event to store in the outbox.
type Event struct {
	SubscriptionID snowflake.ID
	SellerID       snowflake.ID
	Type           string
	Payload        map[string]any
	DedupeKey      string
}

// Outbox inserts billing events into the billing_events table.
type Outbox struct {
	db    *gorm.DB
	genID *snowflake.Node
}

func NewOutbox(db *gorm.DB, genID *snowflake.Node) *Outbox {
	return &Outbox{db: db, genID: genID}
}

type billingEventRow struct {
	ID             snowflake.ID      `gorm:"primaryKey"`
	SubscriptionID snowflake.ID      `gorm:"not null;index"`
	SellerID       snowflake.ID      `gorm:"not null"`
	EventType      string            `gorm:"type:text;not null"`
	Payload        datatypes.JSONMap `gorm:"type:text"`
	DedupeKey      *string           `gorm:"type:text"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (billingEventRow) TableName() string { return "billing_events" }

// Publish stores an event using the default database connection.
func (o *Outbox) Publish(ctx context.Context, event Event) error {
	if o == nil || o.db == nil || o.genID == nil {
		return errors.New("outbox_unavailable")
	}
	if event.SubscriptionID == 0 {
		return errors.New("invalid_subscription_id")
	}
	name := strings.TrimSpace(event.Type)
	if name == "" {
		return errors.New("missing_event_type")
	}

	payload := datatypes.JSONMap{}
	for key, value := range event.Payload {
		if strings.TrimSpace(key) == "" {
			continue
		}
		payload[key] = value
	}

	row := billingEventRow{
		ID:             o.genID.Generate(),
		SubscriptionID: event.SubscriptionID,
		SellerID:       event.SellerID,
		EventType:      name,
		Payload:        payload,
	}
	if key := strings.TrimSpace(event.DedupeKey); key != "" {
		row.DedupeKey = &key
	}

	return o.db.WithContext(ctx).Create(&row).Error
}
