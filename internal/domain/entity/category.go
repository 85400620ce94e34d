package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// DefaultCategoryIcon is the default icon for categories.
const DefaultCategoryIcon = "tag"

// GlobalCategoryScope is the owner scope of categories visible to every user.
const GlobalCategoryScope = ""

// Category represents a transaction category. Categories without an owner are global.
type Category struct {
	ID             uuid.UUID
	Name           string
	NormalizedName string
	OwnerScope     string
	OwnerID        *uuid.UUID
	Color          string
	Icon           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCategory creates a new owner-scoped Category entity with default presentation.
func NewCategory(name string, ownerID uuid.UUID) *Category {
	now := time.Now().UTC()
	owner := ownerID

	return &Category{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(name),
		NormalizedName: NormalizeCategoryName(name),
		OwnerScope:     CategoryScopeFor(&owner),
		OwnerID:        &owner,
		Color:          DefaultCategoryColor,
		Icon:           DefaultCategoryIcon,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsGlobal reports whether the category is shared by all users.
func (c *Category) IsGlobal() bool {
	return c.OwnerScope == GlobalCategoryScope
}

// NormalizeCategoryName returns the comparison key for a category name.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// CategoryScopeFor maps an optional owner to the scope column value.
func CategoryScopeFor(ownerID *uuid.UUID) string {
	if ownerID == nil {
		return GlobalCategoryScope
	}
	return ownerID.String()
}
