package main

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short-unchanged", "abc", 12, "abc"},
		{"exact-unchanged", "abcdef", 6, "abcdef"},
		{"ascii-cut", "abcdefgh", 6, "abcde…"},
		{"multibyte-cut", "séancé-séancé", 6, "séanc…"},
		{"multibyte-unchanged", "séancé", 6, "séancé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Fatalf("truncate(%q, %d) produced invalid UTF-8: %q", tt.in, tt.n, got)
			}
		})
	}
}
