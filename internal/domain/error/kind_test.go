package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "coded ledger error wrapping insufficient balance",
			err:  NewLedgerError(ErrCodeInsufficientBalance, "balance would go negative", ErrInsufficientBalance),
			want: KindInsufficientBalance,
		},
		{
			name: "fmt wrapped account not found",
			err:  fmt.Errorf("load aggregate: %w", ErrAccountNotFound),
			want: KindAccountNotFound,
		},
		{
			name: "missing headers is an import validation error",
			err:  NewImportError(ErrCodeMissingHeaders, "missing Category", ErrMissingHeaders),
			want: KindImportValidationError,
		},
		{
			name: "non creator delete is unauthorized",
			err:  NewLedgerError(ErrCodeNotAuthorizedLedger, "only the creator may delete", ErrNotAuthorizedToModifyTransaction),
			want: KindUnauthorized,
		},
		{
			name: "unknown errors are internal",
			err:  errors.New("connection refused"),
			want: KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLedgerError_UnwrapAndMessage(t *testing.T) {
	err := NewLedgerError(ErrCodeTransactionNotFound, "transaction not found", ErrTransactionNotFound)

	if !errors.Is(err, ErrTransactionNotFound) {
		t.Error("expected errors.Is to match the wrapped sentinel")
	}
	if err.Error() != "transaction not found: transaction not found" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var ledgerErr *LedgerError
	if !errors.As(fmt.Errorf("outer: %w", err), &ledgerErr) {
		t.Fatal("expected errors.As to find *LedgerError")
	}
	if ledgerErr.Code != ErrCodeTransactionNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeTransactionNotFound, ledgerErr.Code)
	}
}
