package dto

import (
	"time"

	"github.com/finance-tracker/ledger/internal/application/usecase/category"
)

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	Icon      string    `json:"icon,omitempty"`
	IsGlobal  bool      `json:"isGlobal"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToCategoryListResponse converts a ListCategoriesOutput to a slice of CategoryResponse DTOs.
func ToCategoryListResponse(output *category.ListCategoriesOutput) []CategoryResponse {
	categories := make([]CategoryResponse, len(output.Categories))
	for i, cat := range output.Categories {
		categories[i] = CategoryResponse{
			ID:        cat.ID.String(),
			Name:      cat.Name,
			Color:     cat.Color,
			Icon:      cat.Icon,
			IsGlobal:  cat.IsGlobal,
			CreatedAt: cat.CreatedAt,
			UpdatedAt: cat.UpdatedAt,
		}
	}
	return categories
}
