package category

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// ListCategoriesInput selects the categories visible to OwnerID.
// A non-empty Query keeps only names containing it, ignoring case and spacing.
type ListCategoriesInput struct {
	OwnerID uuid.UUID
	Query   string
}

// ListCategoriesOutput holds the caller's categories first, then global ones,
// each group ordered by name.
type ListCategoriesOutput struct {
	Categories []*CategoryOutput
}

// CategoryOutput represents a single category in the output.
type CategoryOutput struct {
	ID        uuid.UUID
	Name      string
	Color     string
	Icon      string
	IsGlobal  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListCategoriesUseCase lists the categories a user can post against.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categoryRepo: categoryRepo}
}

// Execute returns the visible categories matching the query.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	categories, err := uc.categoryRepo.FindVisible(ctx, input.OwnerID)
	if err != nil {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryInternal,
			"Failed to list categories",
			fmt.Errorf("failed to find visible categories: %w", err),
		)
	}

	query := entity.NormalizeCategoryName(input.Query)
	categories = slices.DeleteFunc(categories, func(c *entity.Category) bool {
		return query != "" && !strings.Contains(c.NormalizedName, query)
	})
	slices.SortFunc(categories, func(a, b *entity.Category) int {
		if a.IsGlobal() != b.IsGlobal() {
			if a.IsGlobal() {
				return 1
			}
			return -1
		}
		return cmp.Compare(a.NormalizedName, b.NormalizedName)
	})

	output := &ListCategoriesOutput{Categories: make([]*CategoryOutput, len(categories))}
	for i, c := range categories {
		output.Categories[i] = &CategoryOutput{
			ID:        c.ID,
			Name:      c.Name,
			Color:     c.Color,
			Icon:      c.Icon,
			IsGlobal:  c.IsGlobal(),
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
	}
	return output, nil
}
