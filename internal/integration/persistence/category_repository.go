package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/domain/valueobject"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
)

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// FindByID retrieves a category by its ID.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindVisible retrieves global categories and the owner's categories.
func (r *categoryRepository) FindVisible(ctx context.Context, ownerID uuid.UUID) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	result := r.db.WithContext(ctx).
		Where("owner_scope IN ?", visibleScopes(ownerID)).
		Order("normalized_name ASC, owner_scope DESC").
		Find(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	categories := make([]*entity.Category, len(categoryModels))
	for i := range categoryModels {
		categories[i] = categoryModels[i].ToEntity()
	}
	return categories, nil
}

// FindByNameFuzzy finds the category a free-text name refers to.
// An exact normalized match wins over a near match, and the owner's
// category wins over a global one at the same distance.
func (r *categoryRepository) FindByNameFuzzy(ctx context.Context, name string, ownerID uuid.UUID) (*entity.Category, error) {
	normalized := entity.NormalizeCategoryName(name)
	if normalized == "" {
		return nil, nil
	}

	candidates, err := r.FindVisible(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	ownerScope := ownerID.String()
	var best *entity.Category
	bestDistance := -1
	for _, candidate := range candidates {
		distance, ok := valueobject.NameDistance(normalized, candidate.NormalizedName)
		if !ok {
			continue
		}
		switch {
		case best == nil, distance < bestDistance:
			best, bestDistance = candidate, distance
		case distance == bestDistance && candidate.OwnerScope == ownerScope && best.OwnerScope != ownerScope:
			best = candidate
		}
	}
	return best, nil
}

// Upsert inserts the category unless one with the same scope and normalized
// name exists, and returns the stored row either way.
func (r *categoryRepository) Upsert(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	categoryModel := model.CategoryFromEntity(category)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_scope"}, {Name: "normalized_name"}},
			DoNothing: true,
		}).
		Create(categoryModel)
	if result.Error != nil {
		return nil, result.Error
	}

	var stored model.CategoryModel
	result = r.db.WithContext(ctx).
		Where("owner_scope = ? AND normalized_name = ?", category.OwnerScope, category.NormalizedName).
		First(&stored)
	if result.Error != nil {
		return nil, result.Error
	}
	return stored.ToEntity(), nil
}

func visibleScopes(ownerID uuid.UUID) []string {
	return []string{entity.GlobalCategoryScope, ownerID.String()}
}
