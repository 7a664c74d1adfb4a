package routes

import (
	"context"
	"net/http"
	"testing"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/afterfrag/afterfrag-be/services"
	"github.com/gin-gonic/gin"
)

type fakePostDb struct {
	appDb.Database
	post     *model.Post
	comments []*model.Comment
}

func (f *fakePostDb) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	if f.post != nil && f.post.Id == id {
		return f.post, nil
	}
	return nil, nil
}

func (f *fakePostDb) GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error) {
	return f.comments, nil
}

func testMediaStore(t *testing.T) *services.MediaStore {
	t.Helper()
	store, err := services.NewMediaStore(t.TempDir(), "/cdn")
	if err != nil {
		t.Fatalf("creating media store: %v", err)
	}
	return store
}

func TestGetPostEmbedsCommentForest(t *testing.T) {
	parentId := int64(10)
	database := &fakePostDb{
		post: &model.Post{Id: 5, Title: "launch day"},
		comments: []*model.Comment{
			{Id: 10, PostId: 5, Content: "first"},
			{Id: 11, PostId: 5, ParentId: &parentId, Content: "reply"},
		},
	}
	handler := genGetPost(database, testMediaStore(t))

	c := newJSONContext(t, http.MethodGet, "/posts/5", "")
	c.Params = []gin.Param{{Key: "id", Value: "5"}}

	res, httpErr := handler(c)
	if httpErr != nil {
		t.Fatalf("get post failed: %v", httpErr)
	}
	detail, ok := res.(*postDetailRes)
	if !ok {
		t.Fatalf("unexpected response type %T", res)
	}
	if detail.Title != "launch day" {
		t.Errorf("title = %q", detail.Title)
	}
	if len(detail.Comments) != 1 {
		t.Fatalf("roots = %d, want 1", len(detail.Comments))
	}
	if len(detail.Comments[0].Children) != 1 || detail.Comments[0].Children[0].Id != 11 {
		t.Errorf("reply was not nested under its parent: %+v", detail.Comments[0])
	}
}
