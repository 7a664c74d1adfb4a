package routes

import (
	"net/http"

	"github.com/afterfrag/afterfrag-be/app"
	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/middleware"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/afterfrag/afterfrag-be/services"
	"github.com/afterfrag/afterfrag-be/util"
	"github.com/gin-gonic/gin"
)

const maxCommentLen = 5000

type createCommentReq struct {
	PostId   int64          `json:"postId" binding:"required"`
	ParentId *int64         `json:"parentId"`
	Content  string         `json:"content" binding:"required"`
	Media    []*model.Media `json:"media"`
}

type updateCommentReq struct {
	Content *string        `json:"content"`
	Media   []*model.Media `json:"media"`
}

func CreateCommentRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore) {
	routes := router.Group("/comments")
	routes.POST("", util.HandlerWrapper(genCreateComment(database, media),
		&util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	routes.PUT("/:id", util.HandlerWrapper(genUpdateComment(database), &util.HandlerOpts{}))
	routes.DELETE("/:id", util.HandlerWrapper(genDeleteComment(database, media), &util.HandlerOpts{}))

	routes.POST("/:id/like", util.HandlerWrapper(genLikeComment(database), &util.HandlerOpts{}))
	routes.DELETE("/:id/like", util.HandlerWrapper(genUnlikeComment(database), &util.HandlerOpts{}))
	routes.GET("/:id/like", util.HandlerWrapper(genGetCommentLike(database), &util.HandlerOpts{}))

	routes.POST("/upload-media", util.HandlerWrapper(genUploadMedia(media, services.MediaCategoryComment),
		&util.HandlerOpts{SuccessStatus: http.StatusCreated}))
}

func CreatePublicCommentRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore) {
	router.GET("/posts/:id/comments", util.HandlerWrapper(genPostComments(database, media), &util.HandlerOpts{}))
	router.GET("/comments/:id/thread", util.HandlerWrapper(genCommentThread(database, media), &util.HandlerOpts{}))
}

func loadComment(c *gin.Context, database appDb.Database, id int64) (*model.Comment, *util.HTTPError) {
	comment, err := database.GetCommentById(c.Request.Context(), id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if comment == nil {
		return nil, util.BuildNotFoundHTTPErr("comment")
	}
	return comment, nil
}

func genCreateComment(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req createCommentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		content := util.SanitizeUGC(req.Content)
		if content == "" || len(content) > maxCommentLen {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "content must be between 1 and 5000 characters",
			}
		}
		if httpErr := validateAttachments(req.Media); httpErr != nil {
			return nil, httpErr
		}

		ctx := c.Request.Context()
		if _, httpErr := loadPost(c, database, req.PostId); httpErr != nil {
			return nil, httpErr
		}
		if req.ParentId != nil {
			parent, err := database.GetCommentById(ctx, *req.ParentId)
			if err != nil {
				return nil, util.BuildDbHTTPErr(err)
			}
			if parent == nil || parent.PostId != req.PostId {
				return nil, &util.HTTPError{
					Status:  http.StatusBadRequest,
					Message: "parent comment must belong to the same post",
				}
			}
		}

		user := middleware.MustGetUser(c)
		commentId, err := database.CreateComment(ctx, &appDb.CreateComment{
			PostId:   req.PostId,
			AuthorId: user.Id,
			ParentId: req.ParentId,
			Content:  content,
			Media:    req.Media,
		})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}

		comment, httpErr := loadComment(c, database, commentId)
		if httpErr != nil {
			return nil, httpErr
		}
		decorateComment(media, comment)
		return comment, nil
	}
}

func genPostComments(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		if _, httpErr := loadPost(c, database, id); httpErr != nil {
			return nil, httpErr
		}

		comments, err := database.GetCommentsForPost(c.Request.Context(), id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decorateComments(media, comments)
		return app.BuildCommentForest(comments), nil
	}
}

func genCommentThread(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		comment, httpErr := loadComment(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}

		comments, err := database.GetCommentsForPost(c.Request.Context(), comment.PostId)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decorateComments(media, comments)
		thread := app.BuildCommentThread(comments, id)
		if thread == nil {
			return nil, util.BuildNotFoundHTTPErr("comment")
		}
		return thread, nil
	}
}

func genUpdateComment(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		var req updateCommentReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}

		comment, httpErr := loadComment(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		if comment.Author.Id != user.Id {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: "only the author can edit a comment",
			}
		}

		if req.Content != nil {
			content := util.SanitizeUGC(*req.Content)
			if content == "" || len(content) > maxCommentLen {
				return nil, &util.HTTPError{
					Status:  http.StatusBadRequest,
					Message: "content must be between 1 and 5000 characters",
				}
			}
			req.Content = &content
		}
		if req.Media != nil {
			if httpErr := validateAttachments(req.Media); httpErr != nil {
				return nil, httpErr
			}
		}

		err := database.UpdateComment(c.Request.Context(), id, &appDb.UpdateComment{
			Content: req.Content,
			Media:   req.Media,
		})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"id": id}, nil
	}
}

func genDeleteComment(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		comment, httpErr := loadComment(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		if comment.Author.Id != user.Id {
			post, httpErr := loadPost(c, database, comment.PostId)
			if httpErr != nil {
				return nil, httpErr
			}
			role, err := database.GetMemberRole(ctx, post.CommunityId, user.Id)
			if err != nil {
				return nil, util.BuildDbHTTPErr(err)
			}
			if !role.IsStaff() {
				return nil, util.ForbiddenHTTPErr
			}
		}

		if err := database.DeleteComment(ctx, id); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		for _, item := range comment.Media {
			_ = media.Delete(item.Blob)
		}
		return gin.H{"id": id}, nil
	}
}

func genLikeComment(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		var req likeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if !req.Value.Valid() {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "value must be 1 or -1",
			}
		}

		if _, httpErr := loadComment(c, database, id); httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		if err := database.LikeComment(c.Request.Context(), id, user.Id, req.Value); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"commentId": id, "value": req.Value}, nil
	}
}

func genUnlikeComment(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		if err := database.UnlikeComment(c.Request.Context(), id, user.Id); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"commentId": id}, nil
	}
}

func genGetCommentLike(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		value, err := database.GetCommentLike(c.Request.Context(), id, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"commentId": id, "value": value}, nil
	}
}
