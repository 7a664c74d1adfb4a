package app

import (
	"context"
	"math/rand"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
)

// MaxRecommendedPosts caps the home feed size.
const MaxRecommendedPosts = 20

// RecommendPosts builds the home feed for a user: posts authored by other
// users whose topic tags overlap the user's topics, shuffled and capped.
// When the user has no topics or nothing overlaps, the trending fallback
// (like count then recency, no shuffle) is returned instead. Unlike browse,
// there is no onboarding precondition here.
func RecommendPosts(ctx context.Context, db appDb.Database, userId int64, opts *RankingOpts) ([]*model.Post, error) {
	if opts == nil {
		opts = &RankingOpts{}
	}
	topics, err := db.GetTopicsForUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	var matched []*model.Post
	if len(topics) > 0 {
		candidates, err := db.GetPostsExcludingUser(ctx, userId)
		if err != nil {
			return nil, err
		}
		matched = FilterPostsByTopics(candidates, topics)
	}
	if len(matched) == 0 {
		return db.GetTrendingPostsExcludingUser(ctx, userId, MaxRecommendedPosts)
	}

	if opts.Shuffle {
		shufflePosts(matched, opts.Rand)
	}
	if len(matched) > MaxRecommendedPosts {
		matched = matched[:MaxRecommendedPosts]
	}
	return matched, nil
}

// FilterPostsByTopics keeps posts with at least one topic tag in the user's
// topic set.
func FilterPostsByTopics(posts []*model.Post, userTopics []string) []*model.Post {
	topicSet := make(map[string]bool, len(userTopics))
	for _, topic := range userTopics {
		topicSet[topic] = true
	}
	var matched []*model.Post
	for _, post := range posts {
		for _, tag := range post.TopicTags {
			if topicSet[tag] {
				matched = append(matched, post)
				break
			}
		}
	}
	return matched
}

func shufflePosts(posts []*model.Post, r *rand.Rand) {
	swap := func(i, j int) {
		posts[i], posts[j] = posts[j], posts[i]
	}
	if r != nil {
		r.Shuffle(len(posts), swap)
		return
	}
	rand.Shuffle(len(posts), swap)
}
