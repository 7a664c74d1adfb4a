package util

import "testing"

func TestSanitizeUGC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello world", "hello world"},
		{"  padded  ", "padded"},
		{"<script>alert(1)</script>still here", "still here"},
		{"<b>bold</b> stays", "<b>bold</b> stays"},
		{"fish & chips", "fish & chips"},
	}
	for _, tt := range tests {
		if got := SanitizeUGC(tt.in); got != tt.want {
			t.Errorf("SanitizeUGC(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeStrict(t *testing.T) {
	if got := SanitizeStrict("<b>name</b>"); got != "name" {
		t.Errorf("SanitizeStrict should strip all markup, got %q", got)
	}
	if got := SanitizeStrict("plain"); got != "plain" {
		t.Errorf("plain text should survive, got %q", got)
	}
}
