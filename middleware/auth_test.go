package middleware

import "testing"

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc123", "abc123", true},
		{"bearer abc123", "abc123", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc123", "", false},
		{"abc123", "", false},
	}
	for _, tt := range tests {
		token, ok := parseBearer(tt.header)
		if ok != tt.ok || token != tt.token {
			t.Errorf("parseBearer(%q) = (%q, %v), want (%q, %v)", tt.header, token, ok, tt.token, tt.ok)
		}
	}
}
