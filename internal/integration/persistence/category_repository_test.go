package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
	"github.com/finance-tracker/ledger/internal/integration/persistence/persistencetest"
)

func TestCategoryRepository_FindByNameFuzzy(t *testing.T) {
	ctx := context.Background()
	db := persistencetest.NewDB(t)
	repo := NewCategoryRepository(db)
	owner := uuid.New()
	stranger := uuid.New()

	global := &entity.Category{
		ID:             uuid.New(),
		Name:           "Groceries",
		NormalizedName: "groceries",
		OwnerScope:     entity.GlobalCategoryScope,
	}
	if err := db.Create(model.CategoryFromEntity(global)).Error; err != nil {
		t.Fatalf("failed to seed global category: %v", err)
	}
	mine, err := repo.Upsert(ctx, entity.NewCategory("Salary", owner))
	if err != nil {
		t.Fatalf("failed to seed owner category: %v", err)
	}
	shadow, err := repo.Upsert(ctx, entity.NewCategory("groceries", owner))
	if err != nil {
		t.Fatalf("failed to seed shadowing category: %v", err)
	}
	if _, err := repo.Upsert(ctx, entity.NewCategory("Rent", stranger)); err != nil {
		t.Fatalf("failed to seed stranger category: %v", err)
	}

	tests := []struct {
		name   string
		input  string
		wantID *uuid.UUID
	}{
		{"exact match is case insensitive", "  SALARY ", &mine.ID},
		{"owner category shadows global one", "Groceries", &shadow.ID},
		{"near match within one edit", "Grocerie", &shadow.ID},
		{"other owners are invisible", "Rent", nil},
		{"blank name", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindByNameFuzzy(ctx, tt.input, owner)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantID == nil {
				if got != nil {
					t.Errorf("expected no match, got %s", got.Name)
				}
				return
			}
			if got == nil || got.ID != *tt.wantID {
				t.Errorf("expected category %s, got %+v", *tt.wantID, got)
			}
		})
	}

	t.Run("global category is visible to other owners", func(t *testing.T) {
		got, err := repo.FindByNameFuzzy(ctx, "groceries", stranger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.ID != global.ID {
			t.Errorf("expected global category, got %+v", got)
		}
	})
}

func TestCategoryRepository_UpsertConverges(t *testing.T) {
	ctx := context.Background()
	db := persistencetest.NewDB(t)
	repo := NewCategoryRepository(db)
	owner := uuid.New()

	const workers = 8
	ids := make([]uuid.UUID, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stored, err := repo.Upsert(ctx, entity.NewCategory("Travel", owner))
			if err != nil {
				t.Errorf("upsert %d failed: %v", i, err)
				return
			}
			ids[i] = stored.ID
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("upserts diverged: %s vs %s", ids[i], ids[0])
		}
	}

	var count int64
	db.Model(&model.CategoryModel{}).Where("owner_scope = ?", owner.String()).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one category row, got %d", count)
	}
}
