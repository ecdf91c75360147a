package models

import (
	"context"
	"errors"
	"time"

	"github.com/experts-ly/money_backend/config"
	"github.com/experts-ly/money_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RGBA is a category's display color.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Category name uniqueness per owner is intentionally NOT enforced.
// Soft-deleted categories stay referenceable by historical outcomes.
type Category struct {
	ID          uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	OwnerId     string    `gorm:"size:64;index;not null" json:"owner_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	Icon        string    `gorm:"size:50" json:"icon"`
	ColorR      uint8     `gorm:"not null;default:0" json:"color_r"`
	ColorG      uint8     `gorm:"not null;default:0" json:"color_g"`
	ColorB      uint8     `gorm:"not null;default:0" json:"color_b"`
	ColorA      uint8     `gorm:"not null;default:255" json:"color_a"`
	IsDeleted   bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Category) Color() RGBA {
	return RGBA{R: c.ColorR, G: c.ColorG, B: c.ColorB, A: c.ColorA}
}

// GetCategory is an owner-scoped point lookup, redis-cached.
func GetCategory(ctx context.Context, id uuid.UUID) (*Category, error) {
	ownerId, ok := utils.GetOwnerIdFromContext(ctx)
	if !ok || ownerId == "" {
		return nil, errors.New("owner id is required")
	}

	if cached, err := utils.RetrieveRedis[Category](id.String()); err == nil && cached != nil {
		if cached.OwnerId == ownerId {
			return cached, nil
		}
		return nil, utils.ErrorRecordNotFound
	}

	db := config.GetDB()
	var result Category
	err := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerId).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	_ = utils.StoreRedis[Category](&result, result.ID.String())
	return &result, nil
}

func GetCategoryName(ctx context.Context, id uuid.UUID) (string, error) {
	category, err := GetCategory(ctx, id)
	if err != nil {
		return "", err
	}
	return category.Name, nil
}

func GetCategoryColor(ctx context.Context, id uuid.UUID) (RGBA, error) {
	category, err := GetCategory(ctx, id)
	if err != nil {
		return RGBA{}, err
	}
	return category.Color(), nil
}
