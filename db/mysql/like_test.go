package mysql

import (
	"testing"

	"github.com/afterfrag/afterfrag-be/model"
)

func TestLikeDelta(t *testing.T) {
	like := model.Like
	dislike := model.Dislike

	tests := []struct {
		name string
		prev *model.LikeValue
		next model.LikeValue
		want int
	}{
		{"fresh like", nil, model.Like, 1},
		{"fresh dislike", nil, model.Dislike, -1},
		{"like to dislike", &like, model.Dislike, -2},
		{"dislike to like", &dislike, model.Like, 2},
		{"like repeated", &like, model.Like, 0},
		{"dislike repeated", &dislike, model.Dislike, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := likeDelta(tt.prev, tt.next); got != tt.want {
				t.Errorf("likeDelta(%v, %v) = %d, want %d", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func TestUnmarshalStrings(t *testing.T) {
	if got := unmarshalStrings(`["Gaming","Music"]`); len(got) != 2 || got[0] != "Gaming" {
		t.Errorf("unexpected result: %v", got)
	}
	if got := unmarshalStrings(""); len(got) != 0 {
		t.Errorf("empty column should decode to empty slice, got %v", got)
	}
	if got := unmarshalStrings("{not json"); len(got) != 0 {
		t.Errorf("corrupt column should degrade to empty slice, got %v", got)
	}
}

func TestViewerKeyForUser(t *testing.T) {
	if got := viewerKeyForUser(42); got != "user:42" {
		t.Errorf("viewerKeyForUser(42) = %q", got)
	}
}
