package app

import (
	"testing"
	"time"

	"github.com/afterfrag/afterfrag-be/model"
)

func comment(id int64, parentId *int64, minute int) *model.Comment {
	return &model.Comment{
		Id:        id,
		PostId:    1,
		ParentId:  parentId,
		CreatedAt: time.Date(2026, 1, 1, 12, minute, 0, 0, time.UTC),
	}
}

func ptr(id int64) *int64 { return &id }

func countNodes(forest []*model.CommentTree) int {
	total := 0
	for _, node := range forest {
		total += 1 + countNodes(node.Children)
	}
	return total
}

func TestBuildCommentForestDepthChain(t *testing.T) {
	comments := []*model.Comment{
		comment(1, nil, 0),
		comment(2, ptr(1), 1),
		comment(3, ptr(2), 2),
	}
	forest := BuildCommentForest(comments)

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	root := forest[0]
	if root.Id != 1 || len(root.Children) != 1 {
		t.Fatalf("root %d has %d children, want comment 1 with 1 child", root.Id, len(root.Children))
	}
	child := root.Children[0]
	if child.Id != 2 || len(child.Children) != 1 || child.Children[0].Id != 3 {
		t.Fatalf("chain 1 -> 2 -> 3 not preserved")
	}
}

func TestBuildCommentForestEveryCommentAppearsOnce(t *testing.T) {
	comments := []*model.Comment{
		comment(1, nil, 0),
		comment(2, nil, 1),
		comment(3, ptr(1), 2),
		comment(4, ptr(1), 3),
		comment(5, ptr(3), 4),
	}
	forest := BuildCommentForest(comments)
	if got := countNodes(forest); got != len(comments) {
		t.Errorf("forest holds %d nodes, want %d", got, len(comments))
	}
}

func TestBuildCommentForestOrphanBecomesRoot(t *testing.T) {
	comments := []*model.Comment{
		comment(1, nil, 0),
		comment(5, ptr(99), 1),
	}
	forest := BuildCommentForest(comments)
	if len(forest) != 2 {
		t.Fatalf("expected orphan promoted to root, got %d roots", len(forest))
	}
	if forest[1].Id != 5 {
		t.Errorf("orphan lost its position, got root ids %d, %d", forest[0].Id, forest[1].Id)
	}
}

func TestBuildCommentForestSiblingOrder(t *testing.T) {
	comments := []*model.Comment{
		comment(1, nil, 0),
		comment(2, ptr(1), 1),
		comment(3, ptr(1), 2),
		comment(4, ptr(1), 3),
	}
	forest := BuildCommentForest(comments)
	children := forest[0].Children
	for i, wantId := range []int64{2, 3, 4} {
		if children[i].Id != wantId {
			t.Fatalf("sibling %d has id %d, want %d", i, children[i].Id, wantId)
		}
	}
}

func TestBuildCommentForestEmpty(t *testing.T) {
	if forest := BuildCommentForest(nil); len(forest) != 0 {
		t.Errorf("expected empty forest, got %d roots", len(forest))
	}
}

func TestBuildCommentThread(t *testing.T) {
	comments := []*model.Comment{
		comment(1, nil, 0),
		comment(2, ptr(1), 1),
		comment(3, ptr(2), 2),
		comment(4, nil, 3),
	}
	thread := BuildCommentThread(comments, 2)
	if thread == nil {
		t.Fatal("expected thread for comment 2")
	}
	if thread.Id != 2 || len(thread.Children) != 1 || thread.Children[0].Id != 3 {
		t.Errorf("thread for comment 2 should carry its subtree")
	}

	if BuildCommentThread(comments, 42) != nil {
		t.Error("unknown comment id should yield nil")
	}
}
