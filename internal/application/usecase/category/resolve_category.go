// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
)

// MaxCategoryNameLength is the maximum length for a category name.
const MaxCategoryNameLength = 50

// ResolveCategoryInput represents the input for resolving a category by name.
type ResolveCategoryInput struct {
	Name    string
	OwnerID uuid.UUID
}

// ResolveCategoryOutput represents the output of resolving a category.
type ResolveCategoryOutput struct {
	Category *entity.Category
	Created  bool
}

// ResolveCategoryUseCase maps a free-text category name to a stored category,
// creating an owner category when nothing visible matches. Concurrent callers
// resolving the same name converge on one row.
type ResolveCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewResolveCategoryUseCase creates a new ResolveCategoryUseCase instance.
func NewResolveCategoryUseCase(categoryRepo adapter.CategoryRepository) *ResolveCategoryUseCase {
	return &ResolveCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// WithRepository returns a resolver bound to another repository, typically
// one scoped to an open database transaction.
func (uc *ResolveCategoryUseCase) WithRepository(categoryRepo adapter.CategoryRepository) *ResolveCategoryUseCase {
	return &ResolveCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute resolves the category.
func (uc *ResolveCategoryUseCase) Execute(ctx context.Context, input ResolveCategoryInput) (*ResolveCategoryOutput, error) {
	name := strings.Join(strings.Fields(input.Name), " ")
	if name == "" {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeEmptyCategoryName,
			"Category name is required",
			domainerror.ErrEmptyCategoryName,
		)
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameTooLong,
			fmt.Sprintf("Category name must be at most %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryNameTooLong,
		)
	}

	existing, err := uc.categoryRepo.FindByNameFuzzy(ctx, name, input.OwnerID)
	if err != nil {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryInternal,
			"Failed to look up category",
			err,
		)
	}
	if existing != nil {
		return &ResolveCategoryOutput{Category: existing}, nil
	}

	candidate := entity.NewCategory(name, input.OwnerID)
	stored, err := uc.categoryRepo.Upsert(ctx, candidate)
	if err != nil {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryInternal,
			"Failed to create category",
			err,
		)
	}

	created := stored.ID == candidate.ID
	if created {
		slog.Default().Info("Category created during resolution",
			"category_id", stored.ID,
			"owner_id", input.OwnerID,
			"name", stored.Name,
		)
	}

	return &ResolveCategoryOutput{Category: stored, Created: created}, nil
}
