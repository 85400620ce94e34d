package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// CategoryModel represents the categories table in the database.
// OwnerScope is "" for global categories so the unique index also covers them.
type CategoryModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"type:varchar(50);not null"`
	NormalizedName string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_categories_scope_name,priority:2"`
	OwnerScope     string     `gorm:"type:varchar(36);not null;default:'';uniqueIndex:idx_categories_scope_name,priority:1"`
	OwnerID        *uuid.UUID `gorm:"type:uuid;index"`
	Color          string     `gorm:"type:varchar(7);default:'#6366F1'"`
	Icon           string     `gorm:"type:varchar(50);default:'tag'"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName returns the table name for the CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ToEntity converts a CategoryModel to a domain Category entity.
func (m *CategoryModel) ToEntity() *entity.Category {
	return &entity.Category{
		ID:             m.ID,
		Name:           m.Name,
		NormalizedName: m.NormalizedName,
		OwnerScope:     m.OwnerScope,
		OwnerID:        m.OwnerID,
		Color:          m.Color,
		Icon:           m.Icon,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// CategoryFromEntity creates a CategoryModel from a domain Category entity.
func CategoryFromEntity(category *entity.Category) *CategoryModel {
	return &CategoryModel{
		ID:             category.ID,
		Name:           category.Name,
		NormalizedName: category.NormalizedName,
		OwnerScope:     category.OwnerScope,
		OwnerID:        category.OwnerID,
		Color:          category.Color,
		Icon:           category.Icon,
		CreatedAt:      category.CreatedAt,
		UpdatedAt:      category.UpdatedAt,
	}
}
