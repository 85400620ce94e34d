package category

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
	"github.com/finance-tracker/ledger/internal/integration/persistence"
	"github.com/finance-tracker/ledger/internal/integration/persistence/model"
	"github.com/finance-tracker/ledger/internal/integration/persistence/persistencetest"
)

func TestListCategoriesUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	db := persistencetest.NewDB(t)
	repo := persistence.NewCategoryRepository(db)
	resolver := NewResolveCategoryUseCase(repo)
	owner := uuid.New()

	global := entity.NewCategory("Bank Fees", uuid.New())
	global.OwnerID = nil
	global.OwnerScope = entity.GlobalCategoryScope
	if err := db.Create(model.CategoryFromEntity(global)).Error; err != nil {
		t.Fatalf("failed to seed global category: %v", err)
	}
	for _, name := range []string{"Groceries", "Fuel", "Eating Out"} {
		if _, err := resolver.Execute(ctx, ResolveCategoryInput{Name: name, OwnerID: owner}); err != nil {
			t.Fatalf("failed to seed %q: %v", name, err)
		}
	}
	if _, err := resolver.Execute(ctx, ResolveCategoryInput{Name: "Hidden", OwnerID: uuid.New()}); err != nil {
		t.Fatalf("failed to seed other owner's category: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"owner first then global", "", []string{"Eating Out", "Fuel", "Groceries", "Bank Fees"}},
		{"filter ignores case", "GRO", []string{"Groceries"}},
		{"filter matches global", "fees", []string{"Bank Fees"}},
		{"no match", "rent", nil},
	}

	uc := NewListCategoriesUseCase(repo)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := uc.Execute(ctx, ListCategoriesInput{OwnerID: owner, Query: tt.query})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got []string
			for _, c := range output.Categories {
				got = append(got, c.Name)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("position %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
