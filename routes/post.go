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

const (
	maxPostTitleLen   = 200
	maxPostContentLen = 10000
	maxAttachments    = 5
)

type createPostReq struct {
	CommunityId int64          `json:"communityId" binding:"required"`
	Title       string         `json:"title" binding:"required"`
	Content     string         `json:"content"`
	PostTagIds  []int64        `json:"postTagIds"`
	Media       []*model.Media `json:"media"`
}

type updatePostReq struct {
	Title      *string        `json:"title"`
	Content    *string        `json:"content"`
	PostTagIds []int64        `json:"postTagIds"`
	Media      []*model.Media `json:"media"`
}

type likeReq struct {
	Value model.LikeValue `json:"value" binding:"required"`
}

func CreatePostRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore) {
	routes := router.Group("/posts")
	routes.POST("", util.HandlerWrapper(genCreatePost(database, media),
		&util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	routes.PUT("/:id", util.HandlerWrapper(genUpdatePost(database), &util.HandlerOpts{}))
	routes.DELETE("/:id", util.HandlerWrapper(genDeletePost(database, media), &util.HandlerOpts{}))

	routes.POST("/:id/like", util.HandlerWrapper(genLikePost(database), &util.HandlerOpts{}))
	routes.DELETE("/:id/like", util.HandlerWrapper(genUnlikePost(database), &util.HandlerOpts{}))
	routes.GET("/:id/like", util.HandlerWrapper(genGetPostLike(database), &util.HandlerOpts{}))

	routes.POST("/upload-media", util.HandlerWrapper(genUploadMedia(media, services.MediaCategoryPost),
		&util.HandlerOpts{SuccessStatus: http.StatusCreated}))
}

// CreatePublicPostRoutes registers reads that work without a session. Views
// are recorded here too so anonymous readers count, keyed by IP.
func CreatePublicPostRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore) {
	router.GET("/posts/:id", util.HandlerWrapper(genGetPost(database, media), &util.HandlerOpts{}))
	router.POST("/posts/:id/view", util.HandlerWrapper(genRecordView(database), &util.HandlerOpts{}))
	router.GET("/communities/:id/posts", util.HandlerWrapper(genCommunityPosts(database, media), &util.HandlerOpts{}))
}

func loadPost(c *gin.Context, database appDb.Database, id int64) (*model.Post, *util.HTTPError) {
	post, err := database.GetPostById(c.Request.Context(), id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, util.BuildNotFoundHTTPErr("post")
	}
	return post, nil
}

func validateAttachments(attachments []*model.Media) *util.HTTPError {
	if len(attachments) > maxAttachments {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "at most 5 attachments are allowed",
		}
	}
	return nil
}

func genCreatePost(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req createPostReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		req.Title = util.SanitizeStrict(req.Title)
		if req.Title == "" || len(req.Title) > maxPostTitleLen {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "title must be between 1 and 200 characters",
			}
		}
		if len(req.Content) > maxPostContentLen {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "content must be at most 10000 characters",
			}
		}
		if httpErr := validateAttachments(req.Media); httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()

		community, err := database.GetCommunityById(ctx, req.CommunityId)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if community == nil {
			return nil, util.BuildNotFoundHTTPErr("community")
		}
		role, err := database.GetMemberRole(ctx, req.CommunityId, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if role == "" {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: "you must join the community before posting",
			}
		}

		if len(req.PostTagIds) > 0 {
			validIds, err := database.GetPostTagIds(ctx, req.CommunityId)
			if err != nil {
				return nil, util.BuildDbHTTPErr(err)
			}
			valid := make(map[int64]bool, len(validIds))
			for _, id := range validIds {
				valid[id] = true
			}
			for _, id := range req.PostTagIds {
				if !valid[id] {
					return nil, &util.HTTPError{
						Status:  http.StatusBadRequest,
						Message: "post tags must belong to the community",
					}
				}
			}
		}

		// Posts inherit the community's topic tags so the recommendation
		// feed can match them against reader interests.
		postId, err := database.CreatePost(ctx, &appDb.CreatePost{
			CommunityId: req.CommunityId,
			AuthorId:    user.Id,
			Title:       req.Title,
			Content:     util.SanitizeUGC(req.Content),
			TopicTags:   community.Tags,
			PostTagIds:  req.PostTagIds,
			Media:       req.Media,
		})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}

		post, httpErr := loadPost(c, database, postId)
		if httpErr != nil {
			return nil, httpErr
		}
		decoratePost(media, post)
		return post, nil
	}
}

type postDetailRes struct {
	*model.Post
	Comments []*model.CommentTree `json:"comments"`
}

func genGetPost(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		post, httpErr := loadPost(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}
		decoratePost(media, post)

		comments, err := database.GetCommentsForPost(c.Request.Context(), id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decorateComments(media, comments)
		return &postDetailRes{Post: post, Comments: app.BuildCommentForest(comments)}, nil
	}
}

func genCommunityPosts(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		limit, httpErr := util.ParseLimitQuery(c, "limit", defaultBrowseLimit)
		if httpErr != nil {
			return nil, httpErr
		}
		offset, httpErr := util.ParseIntQuery(c, "offset", 0)
		if httpErr != nil {
			return nil, httpErr
		}
		var tagId int64
		if c.Query("tagId") != "" {
			parsed, httpErr := util.ParseIntQuery(c, "tagId", 0)
			if httpErr != nil {
				return nil, httpErr
			}
			tagId = int64(parsed)
		}

		sort := appDb.PostSort(c.DefaultQuery("sort", string(appDb.PostSortNewest)))
		switch sort {
		case appDb.PostSortNewest, appDb.PostSortMostLiked, appDb.PostSortHottest:
		default:
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "sort must be one of newest, most_liked, hottest",
			}
		}

		posts, err := database.GetPostsByCommunity(c.Request.Context(), &appDb.CommunityPostsQuery{
			CommunityId: id,
			Sort:        sort,
			TagId:       tagId,
			Limit:       limit,
			Offset:      offset,
		})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decoratePosts(media, posts)
		return posts, nil
	}
}

func genUpdatePost(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		var req updatePostReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}

		post, httpErr := loadPost(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		if post.Author.Id != user.Id {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: "only the author can edit a post",
			}
		}

		if req.Title != nil {
			title := util.SanitizeStrict(*req.Title)
			if title == "" || len(title) > maxPostTitleLen {
				return nil, &util.HTTPError{
					Status:  http.StatusBadRequest,
					Message: "title must be between 1 and 200 characters",
				}
			}
			req.Title = &title
		}
		if req.Content != nil {
			if len(*req.Content) > maxPostContentLen {
				return nil, &util.HTTPError{
					Status:  http.StatusBadRequest,
					Message: "content must be at most 10000 characters",
				}
			}
			sanitized := util.SanitizeUGC(*req.Content)
			req.Content = &sanitized
		}
		if req.Media != nil {
			if httpErr := validateAttachments(req.Media); httpErr != nil {
				return nil, httpErr
			}
		}
		if len(req.PostTagIds) > 0 {
			validIds, err := database.GetPostTagIds(c.Request.Context(), post.CommunityId)
			if err != nil {
				return nil, util.BuildDbHTTPErr(err)
			}
			valid := make(map[int64]bool, len(validIds))
			for _, tagId := range validIds {
				valid[tagId] = true
			}
			for _, tagId := range req.PostTagIds {
				if !valid[tagId] {
					return nil, &util.HTTPError{
						Status:  http.StatusBadRequest,
						Message: "post tags must belong to the community",
					}
				}
			}
		}

		err := database.UpdatePost(c.Request.Context(), id, &appDb.UpdatePost{
			Title:      req.Title,
			Content:    req.Content,
			PostTagIds: req.PostTagIds,
			Media:      req.Media,
		})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"id": id}, nil
	}
}

func genDeletePost(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		post, httpErr := loadPost(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		if post.Author.Id != user.Id {
			// Community staff can remove posts in their community.
			role, err := database.GetMemberRole(ctx, post.CommunityId, user.Id)
			if err != nil {
				return nil, util.BuildDbHTTPErr(err)
			}
			if !role.IsStaff() {
				return nil, util.ForbiddenHTTPErr
			}
		}

		if err := database.DeletePost(ctx, id); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		for _, item := range post.Media {
			_ = media.Delete(item.Blob)
		}
		return gin.H{"id": id}, nil
	}
}

func genLikePost(database appDb.Database) util.WrappedHandler {
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

		if _, httpErr := loadPost(c, database, id); httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		if err := database.LikePost(c.Request.Context(), id, user.Id, req.Value); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"postId": id, "value": req.Value}, nil
	}
}

func genUnlikePost(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		if err := database.UnlikePost(c.Request.Context(), id, user.Id); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"postId": id}, nil
	}
}

func genGetPostLike(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		value, err := database.GetPostLike(c.Request.Context(), id, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"postId": id, "value": value}, nil
	}
}

func genRecordView(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		if _, httpErr := loadPost(c, database, id); httpErr != nil {
			return nil, httpErr
		}

		var userId int64
		if user := middleware.GetUserMaybe(c); user != nil {
			userId = user.Id
		}
		counted, err := database.RecordPostView(c.Request.Context(), id, userId, c.ClientIP())
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"counted": counted}, nil
	}
}

func genUploadMedia(media *services.MediaStore, category string) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		file, err := c.FormFile("file")
		if err != nil {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "a file field is required",
			}
		}
		blob, mediaType, err := media.SaveMedia(file, category)
		if err != nil {
			return nil, buildMediaHTTPErr(err)
		}
		return &model.Media{
			Blob: blob,
			Type: model.MediaType(mediaType),
			Size: file.Size,
			Url:  media.URLFor(blob),
		}, nil
	}
}
