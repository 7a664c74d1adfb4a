package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestParseLimitQuery(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		want     int
		wantErr  bool
	}{
		{"absent uses fallback", "", 20, false},
		{"lower bound", "limit=1", 1, false},
		{"upper bound", "limit=100", 100, false},
		{"zero rejected", "limit=0", 0, true},
		{"over cap rejected", "limit=101", 0, true},
		{"negative rejected", "limit=-5", 0, true},
		{"garbage rejected", "limit=abc", 0, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, httpErr := ParseLimitQuery(queryContext(t, test.rawQuery), "limit", 20)
			if test.wantErr {
				if httpErr == nil || httpErr.Status != http.StatusBadRequest {
					t.Fatalf("expected 400, got value=%d err=%v", got, httpErr)
				}
				return
			}
			if httpErr != nil {
				t.Fatalf("unexpected error: %v", httpErr)
			}
			if got != test.want {
				t.Errorf("value = %d, want %d", got, test.want)
			}
		})
	}
}

func TestParseIntQuery(t *testing.T) {
	if got, httpErr := ParseIntQuery(queryContext(t, "skip=0"), "skip", 0); httpErr != nil || got != 0 {
		t.Errorf("skip=0 should parse, got value=%d err=%v", got, httpErr)
	}
	if _, httpErr := ParseIntQuery(queryContext(t, "skip=-1"), "skip", 0); httpErr == nil {
		t.Error("negative skip should be rejected")
	}
}
