package app

import (
	"fmt"
	"net/http"

	"github.com/afterfrag/afterfrag-be/util"
)

// AvailableTopics is the fixed interest vocabulary. Community tags and user
// topic preferences are both drawn from it.
var AvailableTopics = []string{
	"Science",
	"Technology",
	"Gaming",
	"Movies & TV Shows",
	"Music",
	"Sports",
	"Health & Fitness",
	"Food & Cooking",
	"Travel",
	"Fashion",
	"Art & Design",
	"Photography",
	"Books & Literature",
	"History",
	"Politics",
	"Finance & Investing",
	"Education",
	"Nature & Environment",
	"Space & Astronomy",
	"DIY & Crafts",
	"Comedy",
	"Memes & Humor",
	"Anime & Manga",
	"Cars & Motorcycles",
	"Relationships & Dating",
	"Mental Health",
	"Meditation & Mindfulness",
	"Business & Entrepreneurship",
	"Science Fiction & Fantasy",
	"True Crime",
	"Parenting",
	"Gardening",
	"Fitness Challenges",
	"Coding & Programming",
	"Pets & Animals",
	"Photography Tips",
	"Gaming Strategies",
	"Streaming & Podcasts",
	"Startups & Tech News",
	"Productivity Hacks",
	"Environment & Climate Change",
	"Art Tutorials",
	"Social Justice",
	"Home Improvement",
	"Career Advice",
	"Makeup & Beauty",
	"Language Learning",
	"Philosophy",
	"Festivals & Events",
	"Motivational Stories",
}

const (
	// OnboardingMinTopics is the minimum selection that counts as a
	// completed onboarding.
	OnboardingMinTopics = 3

	// MaxCommunityTags caps the topic tags a single community may carry.
	MaxCommunityTags = 5
)

var topicSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(AvailableTopics))
	for _, topic := range AvailableTopics {
		set[topic] = struct{}{}
	}
	return set
}()

func IsValidTopic(topic string) bool {
	_, ok := topicSet[topic]
	return ok
}

// ValidateTopicSelection checks an onboarding topic submission: between
// OnboardingMinTopics and the vocabulary size, no duplicates, all drawn from
// the vocabulary.
func ValidateTopicSelection(topics []string) *util.HTTPError {
	if len(topics) < OnboardingMinTopics {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("you must select at least %d topics", OnboardingMinTopics),
		}
	}
	if len(topics) > len(AvailableTopics) {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("you can select up to %d topics", len(AvailableTopics)),
		}
	}
	seen := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		if !IsValidTopic(topic) {
			return &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("invalid topic: %v", topic),
			}
		}
		if _, dup := seen[topic]; dup {
			return &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "duplicate topics are not allowed",
			}
		}
		seen[topic] = struct{}{}
	}
	return nil
}

// ValidateCommunityTags checks a community tag set: one to MaxCommunityTags
// tags, all from the vocabulary.
func ValidateCommunityTags(tags []string) *util.HTTPError {
	if len(tags) == 0 {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "at least one tag is required",
		}
	}
	if len(tags) > MaxCommunityTags {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("maximum %d tags allowed", MaxCommunityTags),
		}
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if !IsValidTopic(tag) {
			return &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: fmt.Sprintf("tag %q is not a valid topic", tag),
			}
		}
		if _, dup := seen[tag]; dup {
			return &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "duplicate tags are not allowed",
			}
		}
		seen[tag] = struct{}{}
	}
	return nil
}

// MaxPostTagNameLen caps community-scoped post tag names.
const MaxPostTagNameLen = 30

func ValidatePostTagName(name string) *util.HTTPError {
	if name == "" || len(name) > MaxPostTagNameLen {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("tag name must be between 1 and %d characters", MaxPostTagNameLen),
		}
	}
	return nil
}
