package app

// Score computes the topical affinity between a community's tag set and a
// user's topic set: the fraction of the user's topics the community covers.
// The denominator is the user's full topic set, not the community's tag
// count, so broader overlap with the user's interests always wins.
func Score(communityTags, userTopics []string) float64 {
	if len(userTopics) == 0 {
		return 0.0
	}
	topics := make(map[string]struct{}, len(userTopics))
	for _, topic := range userTopics {
		topics[topic] = struct{}{}
	}
	matching := 0
	seen := make(map[string]struct{}, len(communityTags))
	for _, tag := range communityTags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, ok := topics[tag]; ok {
			matching++
		}
	}
	return float64(matching) / float64(len(userTopics))
}

// MatchingTopics returns the intersection of the two sets, preserving the
// community tag order.
func MatchingTopics(communityTags, userTopics []string) []string {
	topics := make(map[string]struct{}, len(userTopics))
	for _, topic := range userTopics {
		topics[topic] = struct{}{}
	}
	matching := []string{}
	seen := make(map[string]struct{}, len(communityTags))
	for _, tag := range communityTags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		if _, ok := topics[tag]; ok {
			matching = append(matching, tag)
		}
	}
	return matching
}
