package seed

import (
	"context"
	"errors"

	plandomain "github.com/Huve14/Go-Moto-sub000/internal/plan/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureDefaultPlans seeds the pricing tiers on first startup. Existing plans
// are left untouched.
func EnsureDefaultPlans(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&plandomain.Plan{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		plans := []plandomain.Plan{
			{
				ID:                node.Generate(),
				Code:              "starter",
				Name:              "Starter",
				MonthlyPriceCents: 1900,
				MaxActiveListings: 3,
				Features:          datatypes.JSON([]byte(`["3 active listings","email support"]`)),
				Active:            true,
			},
			{
				ID:                node.Generate(),
				Code:              "pro",
				Name:              "Pro",
				MonthlyPriceCents: 4900,
				MaxActiveListings: 15,
				Features:          datatypes.JSON([]byte(`["15 active listings","featured placement","email support"]`)),
				Active:            true,
			},
			{
				ID:                node.Generate(),
				Code:              "fleet",
				Name:              "Fleet",
				MonthlyPriceCents: 14900,
				MaxActiveListings: 100,
				Features:          datatypes.JSON([]byte(`["100 active listings","featured placement","priority support"]`)),
				Active:            true,
			},
		}
		for i := range plans {
			plans[i].Currency = "USD"
		}
		return tx.Create(&plans).Error
	})
}
