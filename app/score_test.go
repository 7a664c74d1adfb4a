package app

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		communityTags []string
		userTopics    []string
		want          float64
	}{
		{
			name:          "single match over three topics",
			communityTags: []string{"Gaming"},
			userTopics:    []string{"Gaming", "Music", "Sports"},
			want:          1.0 / 3.0,
		},
		{
			name:          "no overlap",
			communityTags: []string{"Gardening", "Parenting"},
			userTopics:    []string{"Gaming", "Music", "Sports"},
			want:          0.0,
		},
		{
			name:          "tags cover every topic",
			communityTags: []string{"Gaming", "Music", "Sports"},
			userTopics:    []string{"Gaming", "Music", "Sports"},
			want:          1.0,
		},
		{
			name:          "empty topic set",
			communityTags: []string{"Gaming"},
			userTopics:    nil,
			want:          0.0,
		},
		{
			name:          "empty tag set",
			communityTags: nil,
			userTopics:    []string{"Gaming"},
			want:          0.0,
		},
		{
			name:          "duplicate tags count once",
			communityTags: []string{"Gaming", "Gaming"},
			userTopics:    []string{"Gaming", "Music"},
			want:          0.5,
		},
		{
			name:          "extra tags outside interests do not dilute",
			communityTags: []string{"Gaming", "Gardening", "Parenting", "True Crime"},
			userTopics:    []string{"Gaming", "Music"},
			want:          0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.communityTags, tt.userTopics); got != tt.want {
				t.Errorf("Score(%v, %v) = %v, want %v", tt.communityTags, tt.userTopics, got, tt.want)
			}
		})
	}
}

func TestScorePositiveIffIntersection(t *testing.T) {
	topics := []string{"Gaming", "Music"}
	if Score([]string{"Sports"}, topics) != 0 {
		t.Error("disjoint sets must score zero")
	}
	if Score([]string{"Sports", "Music"}, topics) <= 0 {
		t.Error("any overlap must score positive")
	}
}

func TestMatchingTopics(t *testing.T) {
	got := MatchingTopics(
		[]string{"Sports", "Gaming", "Gardening", "Music"},
		[]string{"Music", "Gaming"},
	)
	want := []string{"Gaming", "Music"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MatchingTopics mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchingTopicsEmpty(t *testing.T) {
	if got := MatchingTopics([]string{"Sports"}, []string{"Music"}); len(got) != 0 {
		t.Errorf("expected empty intersection, got %v", got)
	}
}
