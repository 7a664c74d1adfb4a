package routes

import (
	"context"
	"net/http"
	"testing"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
)

type fakeOnboardingDb struct {
	appDb.Database
	topics map[int64][]string
}

func (f *fakeOnboardingDb) GetTopicsForUser(ctx context.Context, userId int64) ([]string, error) {
	return f.topics[userId], nil
}

func (f *fakeOnboardingDb) ReplaceTopicsForUser(ctx context.Context, userId int64, topics []string) error {
	f.topics[userId] = topics
	return nil
}

func TestCompleteOnboardingRejectsSecondCompletion(t *testing.T) {
	database := &fakeOnboardingDb{topics: map[int64][]string{
		1: {"Gaming", "Music", "Anime & Manga"},
	}}
	handler := genCompleteOnboarding(database)

	c := newJSONContext(t, http.MethodPost, "/onboarding/complete",
		`{"topics":["Movies & TV Shows","Health & Fitness","Food & Cooking"]}`)
	c.Set("user", &model.User{Id: 1, Username: "frag"})

	res, httpErr := handler(c)
	if httpErr == nil {
		t.Fatalf("expected completion to be rejected, got %+v", res)
	}
	if httpErr.Status != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", httpErr.Status, http.StatusBadRequest)
	}
	if got := database.topics[1]; len(got) != 3 || got[0] != "Gaming" {
		t.Errorf("topics were replaced despite the rejection: %v", got)
	}
}

func TestCompleteOnboardingStoresFirstSelection(t *testing.T) {
	database := &fakeOnboardingDb{topics: map[int64][]string{}}
	handler := genCompleteOnboarding(database)

	c := newJSONContext(t, http.MethodPost, "/onboarding/complete",
		`{"topics":["Movies & TV Shows","Health & Fitness","Food & Cooking"]}`)
	c.Set("user", &model.User{Id: 1, Username: "frag"})

	if _, httpErr := handler(c); httpErr != nil {
		t.Fatalf("completion failed: %v", httpErr)
	}
	if got := database.topics[1]; len(got) != 3 {
		t.Errorf("stored topics = %v, want the submitted three", got)
	}
}
