package category

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	domainerror "github.com/finance-tracker/ledger/internal/domain/error"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/persistence/persistencetest"
)

func TestResolveCategoryUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	db := persistencetest.NewDB(t)
	uc := NewResolveCategoryUseCase(persistence.NewCategoryRepository(db))
	owner := uuid.New()

	first, err := uc.Execute(ctx, ResolveCategoryInput{Name: "  Eating   Out ", OwnerID: owner})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Created {
		t.Error("expected the first resolution to create the category")
	}
	if first.Category.Name != "Eating Out" {
		t.Errorf("expected collapsed name, got %q", first.Category.Name)
	}

	tests := []struct {
		name  string
		input string
	}{
		{"same name different case", "eating out"},
		{"one typo", "Eating Oot"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			again, err := uc.Execute(ctx, ResolveCategoryInput{Name: tt.input, OwnerID: owner})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if again.Created || again.Category.ID != first.Category.ID {
				t.Errorf("expected existing category %s, got %s (created %v)", first.Category.ID, again.Category.ID, again.Created)
			}
		})
	}

	t.Run("other owner gets a separate category", func(t *testing.T) {
		other, err := uc.Execute(ctx, ResolveCategoryInput{Name: "Eating Out", OwnerID: uuid.New()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if other.Category.ID == first.Category.ID {
			t.Error("expected owner-scoped categories to stay private")
		}
	})
}

func TestResolveCategoryUseCase_Validation(t *testing.T) {
	db := persistencetest.NewDB(t)
	uc := NewResolveCategoryUseCase(persistence.NewCategoryRepository(db))

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"blank", "   ", domainerror.ErrEmptyCategoryName},
		{"too long", strings.Repeat("x", MaxCategoryNameLength+1), domainerror.ErrCategoryNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), ResolveCategoryInput{Name: tt.input, OwnerID: uuid.New()})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
