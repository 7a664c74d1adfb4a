package app

import (
	"context"
	"math/rand"
	"testing"
	"time"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
)

// fakeRankingDb stubs just the reads the ranking engine touches.
type fakeRankingDb struct {
	appDb.Database
	topics      []string
	communities []*model.Community
	trending    []*model.Community
}

func (f *fakeRankingDb) GetTopicsForUser(ctx context.Context, userId int64) ([]string, error) {
	return f.topics, nil
}

func (f *fakeRankingDb) GetAllCommunities(ctx context.Context) ([]*model.Community, error) {
	return f.communities, nil
}

func (f *fakeRankingDb) GetTrendingCommunities(ctx context.Context, limit, offset int) ([]*model.Community, error) {
	end := offset + limit
	if end > len(f.trending) {
		end = len(f.trending)
	}
	if offset >= len(f.trending) {
		return []*model.Community{}, nil
	}
	return f.trending[offset:end], nil
}

func community(id int64, tags []string, members int, created time.Time) *model.Community {
	return &model.Community{
		Id:          id,
		Tags:        tags,
		MemberCount: members,
		CreatedAt:   created,
	}
}

var noShuffle = &RankingOpts{Shuffle: false}

func TestRankByRelevanceOrdering(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	topics := []string{"Gaming", "Music", "Sports"}
	communities := []*model.Community{
		community(1, []string{"Gaming"}, 10, base),
		community(2, []string{"Gaming", "Music"}, 5, base),
		community(3, []string{"Gardening"}, 1000, base),
		community(4, []string{"Gaming"}, 50, base),
		community(5, []string{"Music"}, 10, base.Add(time.Hour)),
	}

	ranked := RankByRelevance(communities, topics)

	// Community 3 has no overlap and must be filtered out.
	if len(ranked) != 4 {
		t.Fatalf("expected 4 ranked communities, got %d", len(ranked))
	}
	// 2 scores 2/3; 4 and 1 and 5 score 1/3, tie-broken by member count
	// (4 first), then creation recency (5 before 1).
	wantOrder := []int64{2, 4, 5, 1}
	for i, want := range wantOrder {
		if ranked[i].Id != want {
			t.Fatalf("position %d: got community %d, want %d", i, ranked[i].Id, want)
		}
	}
}

func TestRankByRelevanceScoresAndMatches(t *testing.T) {
	ranked := RankByRelevance(
		[]*model.Community{community(1, []string{"Gaming", "Music"}, 1, time.Time{})},
		[]string{"Gaming", "Music", "Sports", "Travel"},
	)
	if len(ranked) != 1 {
		t.Fatal("expected one match")
	}
	if ranked[0].RelevanceScore != 0.5 {
		t.Errorf("score = %v, want 0.5", ranked[0].RelevanceScore)
	}
	if len(ranked[0].MatchingTopics) != 2 {
		t.Errorf("matching topics = %v, want both tags", ranked[0].MatchingTopics)
	}
}

func TestBrowseCommunitiesRequiresOnboarding(t *testing.T) {
	db := &fakeRankingDb{topics: []string{"Gaming", "Music"}}
	_, err := BrowseCommunities(context.Background(), db, 1, 0, 10, noShuffle)
	if err != ErrOnboardingRequired {
		t.Fatalf("expected ErrOnboardingRequired, got %v", err)
	}
}

func TestBrowseCommunitiesFallsBackToTrending(t *testing.T) {
	base := time.Now()
	db := &fakeRankingDb{
		topics: []string{"Gaming", "Music", "Sports"},
		communities: []*model.Community{
			community(1, []string{"Gardening"}, 10, base),
		},
		trending: []*model.Community{
			community(2, []string{"Gardening"}, 500, base),
			community(3, []string{"Parenting"}, 100, base),
		},
	}
	ranked, err := BrowseCommunities(context.Background(), db, 1, 0, 10, noShuffle)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected trending fallback of 2, got %d", len(ranked))
	}
	for _, entry := range ranked {
		if entry.RelevanceScore != 0 {
			t.Errorf("fallback entries carry zero score, got %v", entry.RelevanceScore)
		}
	}
}

func TestBrowseCommunitiesPagination(t *testing.T) {
	base := time.Now()
	db := &fakeRankingDb{
		topics: []string{"Gaming", "Music", "Sports"},
		communities: []*model.Community{
			community(1, []string{"Gaming"}, 40, base),
			community(2, []string{"Gaming"}, 30, base),
			community(3, []string{"Gaming"}, 20, base),
			community(4, []string{"Gaming"}, 10, base),
		},
	}
	page, err := BrowseCommunities(context.Background(), db, 1, 2, 2, noShuffle)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].Id != 3 || page[1].Id != 4 {
		t.Fatalf("skip=2 limit=2 returned wrong page: %+v", ids(page))
	}

	past, err := BrowseCommunities(context.Background(), db, 1, 10, 2, noShuffle)
	if err != nil {
		t.Fatal(err)
	}
	if len(past) != 0 {
		t.Errorf("skip past the end should return an empty page, got %d", len(past))
	}
}

func TestBrowseCommunitiesShuffleDeterministicWithSeed(t *testing.T) {
	base := time.Now()
	db := &fakeRankingDb{
		topics: []string{"Gaming", "Music", "Sports"},
		communities: []*model.Community{
			community(1, []string{"Gaming"}, 40, base),
			community(2, []string{"Gaming"}, 30, base),
			community(3, []string{"Gaming"}, 20, base),
			community(4, []string{"Gaming"}, 10, base),
		},
	}
	opts := func() *RankingOpts {
		return &RankingOpts{Shuffle: true, Rand: rand.New(rand.NewSource(7))}
	}
	first, err := BrowseCommunities(context.Background(), db, 1, 0, 4, opts())
	if err != nil {
		t.Fatal(err)
	}
	second, err := BrowseCommunities(context.Background(), db, 1, 0, 4, opts())
	if err != nil {
		t.Fatal(err)
	}
	for i := range first {
		if first[i].Id != second[i].Id {
			t.Fatal("same seed must produce the same order")
		}
	}
	if len(first) != 4 {
		t.Fatalf("shuffle must not lose entries, got %d", len(first))
	}
}

func TestRecommendedCommunitiesCap(t *testing.T) {
	base := time.Now()
	var communities []*model.Community
	for i := int64(1); i <= 8; i++ {
		communities = append(communities, community(i, []string{"Gaming"}, int(i), base))
	}
	db := &fakeRankingDb{
		topics:      []string{"Gaming", "Music", "Sports"},
		communities: communities,
	}
	ranked, err := RecommendedCommunities(context.Background(), db, 1, 5, noShuffle)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 5 {
		t.Errorf("expected cap of 5, got %d", len(ranked))
	}
}

func ids(ranked []*RankedCommunity) []int64 {
	out := make([]int64, len(ranked))
	for i, entry := range ranked {
		out[i] = entry.Id
	}
	return out
}
