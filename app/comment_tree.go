package app

import "github.com/afterfrag/afterfrag-be/model"

// BuildCommentForest assembles a post's flat comment list into a
// parent/children forest. Input order (creation time ascending) is preserved
// for roots and for each child list. A comment whose parent is missing from
// the input set is treated as a root rather than dropped.
//
// Assembly is iterative: two passes over the slice, no recursion, so reply
// chains of any depth are safe.
func BuildCommentForest(comments []*model.Comment) []*model.CommentTree {
	nodes := make(map[int64]*model.CommentTree, len(comments))
	for _, comment := range comments {
		nodes[comment.Id] = &model.CommentTree{
			Comment:  comment,
			Children: []*model.CommentTree{},
		}
	}

	forest := []*model.CommentTree{}
	for _, comment := range comments {
		node := nodes[comment.Id]
		if comment.ParentId != nil {
			if parent, ok := nodes[*comment.ParentId]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		forest = append(forest, node)
	}
	return forest
}

// BuildCommentThread builds the same forest restricted to one post's
// comments and returns only the requested node with its subtree attached.
// Returns nil if the comment is not in the set.
func BuildCommentThread(comments []*model.Comment, commentId int64) *model.CommentTree {
	for _, tree := range flattenForest(BuildCommentForest(comments)) {
		if tree.Id == commentId {
			return tree
		}
	}
	return nil
}

// flattenForest walks every node iteratively with an explicit stack.
func flattenForest(forest []*model.CommentTree) []*model.CommentTree {
	var all []*model.CommentTree
	stack := append([]*model.CommentTree{}, forest...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		all = append(all, node)
		stack = append(stack, node.Children...)
	}
	return all
}
