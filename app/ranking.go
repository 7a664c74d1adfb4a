package app

import (
	"context"
	"errors"
	"math/rand"
	"sort"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
)

// ErrOnboardingRequired is returned when a browse/recommend caller has not
// completed onboarding yet.
var ErrOnboardingRequired = errors.New("you must complete onboarding first: select at least 3 topics of interest")

type RankedCommunity struct {
	*model.Community
	RelevanceScore float64  `json:"relevanceScore"`
	MatchingTopics []string `json:"matchingTopics"`
}

// RankingOpts controls post-sort randomization. Shuffling after the
// relevance sort scrambles strict ordering among the matched set; it is kept
// as a policy toggle rather than hard-coded.
type RankingOpts struct {
	Shuffle bool
	// Rand overrides the randomness source. Nil uses the global source.
	Rand *rand.Rand
}

// RankByRelevance scores every community against the user's topics, keeps
// strictly positive matches, and sorts by (score DESC, member count DESC,
// created_at DESC).
func RankByRelevance(communities []*model.Community, userTopics []string) []*RankedCommunity {
	var ranked []*RankedCommunity
	for _, community := range communities {
		score := Score(community.Tags, userTopics)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, &RankedCommunity{
			Community:      community,
			RelevanceScore: score,
			MatchingTopics: MatchingTopics(community.Tags, userTopics),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RelevanceScore != ranked[j].RelevanceScore {
			return ranked[i].RelevanceScore > ranked[j].RelevanceScore
		}
		if ranked[i].MemberCount != ranked[j].MemberCount {
			return ranked[i].MemberCount > ranked[j].MemberCount
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	return ranked
}

// BrowseCommunities returns the paginated browse listing: relevance-ranked
// matches when the user's topics overlap any community, otherwise the
// trending fallback paginated at the storage layer.
func BrowseCommunities(ctx context.Context, db appDb.Database, userId int64, skip, limit int, opts *RankingOpts) ([]*RankedCommunity, error) {
	if opts == nil {
		opts = &RankingOpts{}
	}
	topics, err := db.GetTopicsForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(topics) < OnboardingMinTopics {
		return nil, ErrOnboardingRequired
	}

	communities, err := db.GetAllCommunities(ctx)
	if err != nil {
		return nil, err
	}

	ranked := RankByRelevance(communities, topics)
	if len(ranked) == 0 {
		return trendingAsRanked(ctx, db, limit, skip)
	}
	if opts.Shuffle {
		shuffleRanked(ranked, opts.Rand)
	}
	return paginateRanked(ranked, skip, limit), nil
}

// RecommendedCommunities returns the top matches capped at limit, shuffled
// in relevance mode, falling back to trending when nothing matches.
func RecommendedCommunities(ctx context.Context, db appDb.Database, userId int64, limit int, opts *RankingOpts) ([]*RankedCommunity, error) {
	if opts == nil {
		opts = &RankingOpts{}
	}
	topics, err := db.GetTopicsForUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(topics) < OnboardingMinTopics {
		return nil, ErrOnboardingRequired
	}

	communities, err := db.GetAllCommunities(ctx)
	if err != nil {
		return nil, err
	}

	ranked := RankByRelevance(communities, topics)
	if len(ranked) == 0 {
		return trendingAsRanked(ctx, db, limit, 0)
	}
	if opts.Shuffle {
		shuffleRanked(ranked, opts.Rand)
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// TrendingCommunities is the public trending listing: member count then
// update recency, no randomization, no identity required.
func TrendingCommunities(ctx context.Context, db appDb.CommunityDatabase, limit, offset int) ([]*model.Community, error) {
	return db.GetTrendingCommunities(ctx, limit, offset)
}

func trendingAsRanked(ctx context.Context, db appDb.CommunityDatabase, limit, offset int) ([]*RankedCommunity, error) {
	communities, err := db.GetTrendingCommunities(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	ranked := make([]*RankedCommunity, len(communities))
	for i, community := range communities {
		ranked[i] = &RankedCommunity{
			Community:      community,
			RelevanceScore: 0.0,
			MatchingTopics: []string{},
		}
	}
	return ranked, nil
}

func shuffleRanked(ranked []*RankedCommunity, r *rand.Rand) {
	swap := func(i, j int) {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	}
	if r != nil {
		r.Shuffle(len(ranked), swap)
		return
	}
	rand.Shuffle(len(ranked), swap)
}

func paginateRanked(ranked []*RankedCommunity, skip, limit int) []*RankedCommunity {
	if skip >= len(ranked) {
		return []*RankedCommunity{}
	}
	end := skip + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[skip:end]
}
