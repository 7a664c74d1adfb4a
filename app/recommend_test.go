package app

import (
	"context"
	"testing"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
)

type fakeFeedDb struct {
	appDb.Database
	topics   []string
	posts    []*model.Post
	trending []*model.Post
}

func (f *fakeFeedDb) GetTopicsForUser(ctx context.Context, userId int64) ([]string, error) {
	return f.topics, nil
}

func (f *fakeFeedDb) GetPostsExcludingUser(ctx context.Context, userId int64) ([]*model.Post, error) {
	return f.posts, nil
}

func (f *fakeFeedDb) GetTrendingPostsExcludingUser(ctx context.Context, userId int64, limit int) ([]*model.Post, error) {
	if limit > len(f.trending) {
		limit = len(f.trending)
	}
	return f.trending[:limit], nil
}

func post(id int64, topicTags []string) *model.Post {
	return &model.Post{Id: id, TopicTags: topicTags}
}

func TestFilterPostsByTopics(t *testing.T) {
	posts := []*model.Post{
		post(1, []string{"Gaming"}),
		post(2, []string{"Gardening"}),
		post(3, []string{"Gardening", "Music"}),
		post(4, nil),
	}
	matched := FilterPostsByTopics(posts, []string{"Gaming", "Music"})
	if len(matched) != 2 {
		t.Fatalf("expected posts 1 and 3, got %d posts", len(matched))
	}
	if matched[0].Id != 1 || matched[1].Id != 3 {
		t.Errorf("wrong posts matched: %d, %d", matched[0].Id, matched[1].Id)
	}
}

func TestRecommendPostsMatches(t *testing.T) {
	db := &fakeFeedDb{
		topics: []string{"Gaming", "Music", "Sports"},
		posts: []*model.Post{
			post(1, []string{"Gaming"}),
			post(2, []string{"Gardening"}),
		},
		trending: []*model.Post{post(9, nil)},
	}
	feed, err := RecommendPosts(context.Background(), db, 1, noShuffle)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 1 || feed[0].Id != 1 {
		t.Fatalf("expected only the overlapping post, got %+v", feed)
	}
}

func TestRecommendPostsFallbackWhenNoOverlap(t *testing.T) {
	db := &fakeFeedDb{
		topics:   []string{"Gaming"},
		posts:    []*model.Post{post(2, []string{"Gardening"})},
		trending: []*model.Post{post(9, nil), post(8, nil)},
	}
	feed, err := RecommendPosts(context.Background(), db, 1, noShuffle)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 2 || feed[0].Id != 9 {
		t.Fatalf("expected trending fallback in stored order, got %+v", feed)
	}
}

func TestRecommendPostsFallbackWhenNoTopics(t *testing.T) {
	db := &fakeFeedDb{
		posts:    []*model.Post{post(1, []string{"Gaming"})},
		trending: []*model.Post{post(9, nil)},
	}
	feed, err := RecommendPosts(context.Background(), db, 1, noShuffle)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 1 || feed[0].Id != 9 {
		t.Fatalf("no topics must mean trending fallback, got %+v", feed)
	}
}

func TestRecommendPostsCap(t *testing.T) {
	db := &fakeFeedDb{topics: []string{"Gaming"}}
	for i := int64(1); i <= MaxRecommendedPosts+10; i++ {
		db.posts = append(db.posts, post(i, []string{"Gaming"}))
	}
	feed, err := RecommendPosts(context.Background(), db, 1, noShuffle)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != MaxRecommendedPosts {
		t.Errorf("feed size = %d, want %d", len(feed), MaxRecommendedPosts)
	}
}
