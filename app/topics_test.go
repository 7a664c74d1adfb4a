package app

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// memTopicDb is an in-memory TopicDatabase. Membership tag unions are fed
// directly so join/leave scenarios can be scripted.
type memTopicDb struct {
	topics         map[string]bool
	membershipTags []string
}

func newMemTopicDb(membershipTags ...string) *memTopicDb {
	return &memTopicDb{topics: map[string]bool{}, membershipTags: membershipTags}
}

func (m *memTopicDb) GetTopicsForUser(ctx context.Context, userId int64) ([]string, error) {
	out := []string{}
	for topic := range m.topics {
		out = append(out, topic)
	}
	sort.Strings(out)
	return out, nil
}

func (m *memTopicDb) AddTopicsForUser(ctx context.Context, userId int64, topics []string) error {
	for _, topic := range topics {
		m.topics[topic] = true
	}
	return nil
}

func (m *memTopicDb) RemoveTopicsForUser(ctx context.Context, userId int64, topics []string) error {
	for _, topic := range topics {
		delete(m.topics, topic)
	}
	return nil
}

func (m *memTopicDb) ReplaceTopicsForUser(ctx context.Context, userId int64, topics []string) error {
	m.topics = map[string]bool{}
	return m.AddTopicsForUser(ctx, userId, topics)
}

func (m *memTopicDb) GetMembershipTagUnion(ctx context.Context, userId int64) ([]string, error) {
	return m.membershipTags, nil
}

func TestAddTopicsIdempotent(t *testing.T) {
	db := newMemTopicDb()
	ctx := context.Background()

	if err := AddTopics(ctx, db, 1, []string{"Gaming", "Music"}); err != nil {
		t.Fatal(err)
	}
	if err := AddTopics(ctx, db, 1, []string{"Gaming", "Music"}); err != nil {
		t.Fatal(err)
	}

	topics, _ := db.GetTopicsForUser(ctx, 1)
	if diff := cmp.Diff([]string{"Gaming", "Music"}, topics); diff != "" {
		t.Errorf("topics mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveTopicsIfUnusedKeepsCoveredTopics(t *testing.T) {
	// The user leaves a Gaming/Music community but stays in another
	// community tagged Music: only Gaming may be removed.
	db := newMemTopicDb("Music", "Sports")
	ctx := context.Background()
	_ = AddTopics(ctx, db, 1, []string{"Gaming", "Music", "Sports"})

	if err := RemoveTopicsIfUnused(ctx, db, 1, []string{"Gaming", "Music"}); err != nil {
		t.Fatal(err)
	}

	topics, _ := db.GetTopicsForUser(ctx, 1)
	if diff := cmp.Diff([]string{"Music", "Sports"}, topics); diff != "" {
		t.Errorf("topics mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveTopicsIfUnusedLastMembership(t *testing.T) {
	db := newMemTopicDb()
	ctx := context.Background()
	_ = AddTopics(ctx, db, 1, []string{"Art & Design"})

	if err := RemoveTopicsIfUnused(ctx, db, 1, []string{"Art & Design"}); err != nil {
		t.Fatal(err)
	}
	topics, _ := db.GetTopicsForUser(ctx, 1)
	if len(topics) != 0 {
		t.Errorf("expected empty topic set, got %v", topics)
	}
}

func TestReplaceTopics(t *testing.T) {
	db := newMemTopicDb()
	ctx := context.Background()
	_ = AddTopics(ctx, db, 1, []string{"Gaming", "Music"})

	if err := ReplaceTopics(ctx, db, 1, []string{"Sports", "Travel", "History"}); err != nil {
		t.Fatal(err)
	}
	topics, _ := db.GetTopicsForUser(ctx, 1)
	if diff := cmp.Diff([]string{"History", "Sports", "Travel"}, topics); diff != "" {
		t.Errorf("replace mismatch (-want +got):\n%s", diff)
	}
}

func TestHasCompletedOnboarding(t *testing.T) {
	if HasCompletedOnboarding([]string{"Gaming", "Music"}) {
		t.Error("two topics must not count as onboarded")
	}
	if !HasCompletedOnboarding([]string{"Gaming", "Music", "Sports"}) {
		t.Error("three topics must count as onboarded")
	}
}
