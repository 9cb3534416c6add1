package repository

import (
	"context"

	sellerdomain "github.com/Huve14/Go-Moto-sub000/internal/seller/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct{}

// Provide returns the GORM-backed seller repository.
func Provide() sellerdomain.Repository {
	return repository{}
}

func (repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*sellerdomain.Seller, error) {
	var seller sellerdomain.Seller
	err := db.WithContext(ctx).First(&seller, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}
