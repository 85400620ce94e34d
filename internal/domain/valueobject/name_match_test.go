package valueobject

import "testing"

func TestNameDistance(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		wantMatch bool
	}{
		{"identical", "groceries", "groceries", true},
		{"single typo", "groceries", "grocerie", true},
		{"two edits", "groceries", "grocery", false},
		{"short names need exact match", "food", "foot", false},
		{"short identical", "gas", "gas", true},
		{"unicode letters", "café bar", "cafe bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NameDistance(tt.a, tt.b)
			if ok != tt.wantMatch {
				t.Errorf("NameDistance(%q, %q) match = %v, want %v", tt.a, tt.b, ok, tt.wantMatch)
			}
		})
	}
}
