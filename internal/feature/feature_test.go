package feature

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    ID
		wantErr bool
	}{
		{"chat", "chat", Chat, false},
		{"timeline", "timeline", Timeline, false},
		{"storyboard", "storyboard", Storyboard, false},
		{"empty", "", "", true},
		{"unknown", "dashboard", "", true},
		{"case-sensitive", "Chat", "", true},
		{"whitespace", " chat", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				if !errors.Is(err, ErrUnknownFeature) {
					t.Fatalf("expected ErrUnknownFeature, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != 3 {
		t.Fatalf("expected 3 modes, got %d", len(all))
	}
	for _, f := range all {
		if !f.Valid() {
			t.Fatalf("All returned invalid mode %q", f)
		}
	}
}
