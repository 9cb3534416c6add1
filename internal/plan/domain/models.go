package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Plan is a seller subscription pricing tier.
type Plan struct {
	ID                snowflake.ID   `gorm:"primaryKey" json:"id"`
	Code              string         `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Name              string         `gorm:"type:text;not null" json:"name"`
	MonthlyPriceCents int64          `gorm:"not null" json:"monthly_price_cents"`
	Currency          string         `gorm:"type:text;not null;default:USD" json:"currency"`
	MaxActiveListings int            `gorm:"not null;default:1" json:"max_active_listings"`
	Features          datatypes.JSON `gorm:"type:text" json:"features"`
	Active            bool           `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }
