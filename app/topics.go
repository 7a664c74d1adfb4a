package app

import (
	"context"

	appDb "github.com/afterfrag/afterfrag-be/db"
)

// Topic bookkeeping keeps a user's inferred interest set consistent with
// their community memberships. All operations are idempotent set mutations,
// so concurrent join/leave/onboarding calls for the same user are safe to
// retry and commute.

// AddTopics inserts each topic into the user's preference set if absent.
func AddTopics(ctx context.Context, db appDb.TopicDatabase, userId int64, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	return db.AddTopicsForUser(ctx, userId, topics)
}

// RemoveTopicsIfUnused deletes each candidate topic from the user's
// preference set only if no community the user currently belongs to lists
// that topic among its tags.
func RemoveTopicsIfUnused(ctx context.Context, db appDb.TopicDatabase, userId int64, topics []string) error {
	if len(topics) == 0 {
		return nil
	}
	union, err := db.GetMembershipTagUnion(ctx, userId)
	if err != nil {
		return err
	}
	stillUsed := make(map[string]struct{}, len(union))
	for _, tag := range union {
		stillUsed[tag] = struct{}{}
	}

	var unused []string
	for _, topic := range topics {
		if _, used := stillUsed[topic]; !used {
			unused = append(unused, topic)
		}
	}
	if len(unused) == 0 {
		return nil
	}
	return db.RemoveTopicsForUser(ctx, userId, unused)
}

// ReplaceTopics performs the onboarding full replace: clear all preferences,
// then insert the submitted set.
func ReplaceTopics(ctx context.Context, db appDb.TopicDatabase, userId int64, topics []string) error {
	return db.ReplaceTopicsForUser(ctx, userId, topics)
}

// HasCompletedOnboarding reports whether a topic preference set counts as a
// completed onboarding.
func HasCompletedOnboarding(topics []string) bool {
	return len(topics) >= OnboardingMinTopics
}
