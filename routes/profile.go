package routes

import (
	"net/http"
	"sort"
	"time"

	"github.com/afterfrag/afterfrag-be/app"
	"github.com/afterfrag/afterfrag-be/config"
	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/middleware"
	"github.com/afterfrag/afterfrag-be/model"
	"github.com/afterfrag/afterfrag-be/services"
	"github.com/afterfrag/afterfrag-be/util"
	"github.com/gin-gonic/gin"
)

const (
	maxDisplayNameLen    = 50
	maxBioLen            = 500
	defaultActivityLimit = 20
)

type updateProfileReq struct {
	DisplayName *string             `json:"displayName"`
	Bio         *string             `json:"bio"`
	SocialLinks []*model.SocialLink `json:"socialLinks"`
}

func CreateProfileRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore, presence *services.PresenceService, conf *config.Config) {
	routes := router.Group("/profile")
	routes.GET("", util.HandlerWrapper(genGetOwnProfile(database, media, presence), &util.HandlerOpts{}))
	routes.PUT("", util.HandlerWrapper(genUpdateProfile(database), &util.HandlerOpts{}))
	routes.POST("/picture", util.HandlerWrapper(genUploadProfilePicture(database, media), &util.HandlerOpts{}))
	routes.DELETE("/picture", util.HandlerWrapper(genDeleteProfilePicture(database, media), &util.HandlerOpts{}))

	user := router.Group("/user")
	user.GET("/communities", util.HandlerWrapper(genJoinedCommunities(database, media), &util.HandlerOpts{}))
	user.GET("/topics", util.HandlerWrapper(genUserTopics(database), &util.HandlerOpts{}))

	router.GET("/home/recommended-posts", util.HandlerWrapper(genHomeFeed(database, media, conf), &util.HandlerOpts{}))
}

func CreatePublicProfileRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore, presence *services.PresenceService) {
	routes := router.Group("/users")
	routes.GET("/:id/profile", util.HandlerWrapper(genGetUserProfile(database, media, presence), &util.HandlerOpts{}))
	routes.GET("/:id/posts", util.HandlerWrapper(genUserPosts(database, media), &util.HandlerOpts{}))
	routes.GET("/:id/comments", util.HandlerWrapper(genUserComments(database, media), &util.HandlerOpts{}))
	routes.GET("/:id/activity", util.HandlerWrapper(genUserActivity(database, media), &util.HandlerOpts{}))
	routes.GET("/:id/online", util.HandlerWrapper(genUserOnline(presence), &util.HandlerOpts{}))
}

func loadProfile(c *gin.Context, database appDb.Database, media *services.MediaStore, presence *services.PresenceService, userId int64) (*model.Profile, *util.HTTPError) {
	profile, err := database.GetProfile(c.Request.Context(), userId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if profile == nil {
		return nil, util.BuildNotFoundHTTPErr("profile")
	}
	decorateProfile(media, profile)
	if online, err := presence.IsOnline(c.Request.Context(), userId); err == nil {
		profile.IsOnline = online
	}
	if last, err := presence.LastOnline(c.Request.Context(), userId); err == nil && last != nil {
		profile.LastOnline = *last
	}
	return profile, nil
}

func genGetOwnProfile(database appDb.Database, media *services.MediaStore, presence *services.PresenceService) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		user := middleware.MustGetUser(c)
		return loadProfile(c, database, media, presence, user.Id)
	}
}

func genGetUserProfile(database appDb.Database, media *services.MediaStore, presence *services.PresenceService) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		return loadProfile(c, database, media, presence, id)
	}
}

func genUpdateProfile(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if req.DisplayName != nil {
			name := util.SanitizeStrict(*req.DisplayName)
			if name == "" || len(name) > maxDisplayNameLen {
				return nil, &util.HTTPError{
					Status:  http.StatusBadRequest,
					Message: "display name must be between 1 and 50 characters",
				}
			}
			req.DisplayName = &name
		}
		if req.Bio != nil {
			if len(*req.Bio) > maxBioLen {
				return nil, &util.HTTPError{
					Status:  http.StatusBadRequest,
					Message: "bio must be at most 500 characters",
				}
			}
			bio := util.SanitizeUGC(*req.Bio)
			req.Bio = &bio
		}

		user := middleware.MustGetUser(c)
		err := database.UpdateProfile(c.Request.Context(), user.Id, &appDb.UpdateProfile{
			DisplayName: req.DisplayName,
			Bio:         req.Bio,
			SocialLinks: req.SocialLinks,
		})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"userId": user.Id}, nil
	}
}

func genUploadProfilePicture(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		file, err := c.FormFile("file")
		if err != nil {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "a file field is required",
			}
		}
		blob, err := media.SaveImage(file, services.MediaCategoryProfile)
		if err != nil {
			return nil, buildMediaHTTPErr(err)
		}

		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		profile, dbErr := database.GetProfile(ctx, user.Id)
		if dbErr != nil {
			return nil, util.BuildDbHTTPErr(dbErr)
		}
		if err := database.SetProfilePicture(ctx, user.Id, blob); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if profile != nil && profile.PictureBlob != "" {
			_ = media.Delete(profile.PictureBlob)
		}
		return gin.H{"url": media.URLFor(blob)}, nil
	}
}

func genDeleteProfilePicture(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		profile, err := database.GetProfile(ctx, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if profile == nil {
			return nil, util.BuildNotFoundHTTPErr("profile")
		}
		if err := database.SetProfilePicture(ctx, user.Id, ""); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if profile.PictureBlob != "" {
			_ = media.Delete(profile.PictureBlob)
		}
		return gin.H{"userId": user.Id}, nil
	}
}

func genJoinedCommunities(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		user := middleware.MustGetUser(c)
		communities, err := database.GetCommunitiesForUser(c.Request.Context(), user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decorateCommunities(media, communities)
		return communities, nil
	}
}

func genUserTopics(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		topics, err := database.GetTopicsForUser(ctx, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		fromCommunities, err := database.GetMembershipTagUnion(ctx, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		covered := make(map[string]bool, len(fromCommunities))
		for _, tag := range fromCommunities {
			covered[tag] = true
		}
		sources := make(map[string]string, len(topics))
		for _, topic := range topics {
			if covered[topic] {
				sources[topic] = "community"
			} else {
				sources[topic] = "selected"
			}
		}
		return gin.H{"topics": topics, "sources": sources}, nil
	}
}

func genUserPosts(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		posts, err := database.GetPostsByUser(c.Request.Context(), id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decoratePosts(media, posts)
		return posts, nil
	}
}

func genUserComments(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		comments, err := database.GetCommentsByUser(c.Request.Context(), id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decorateComments(media, comments)
		return comments, nil
	}
}

type activityItem struct {
	Type    string         `json:"type"`
	Post    *model.Post    `json:"post,omitempty"`
	Comment *model.Comment `json:"comment,omitempty"`
}

func (item *activityItem) createdAt() time.Time {
	if item.Post != nil {
		return item.Post.CreatedAt
	}
	return item.Comment.CreatedAt
}

func genUserActivity(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		limit, httpErr := util.ParseLimitQuery(c, "limit", defaultActivityLimit)
		if httpErr != nil {
			return nil, httpErr
		}
		offset, httpErr := util.ParseIntQuery(c, "offset", 0)
		if httpErr != nil {
			return nil, httpErr
		}

		ctx := c.Request.Context()
		posts, err := database.GetPostsByUser(ctx, id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		comments, err := database.GetCommentsByUser(ctx, id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decoratePosts(media, posts)
		decorateComments(media, comments)

		items := make([]*activityItem, 0, len(posts)+len(comments))
		for _, post := range posts {
			items = append(items, &activityItem{Type: "post", Post: post})
		}
		for _, comment := range comments {
			items = append(items, &activityItem{Type: "comment", Comment: comment})
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].createdAt().After(items[j].createdAt())
		})

		if offset >= len(items) {
			return []*activityItem{}, nil
		}
		items = items[offset:]
		if limit > 0 && limit < len(items) {
			items = items[:limit]
		}
		return items, nil
	}
}

func genUserOnline(presence *services.PresenceService) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		online, err := presence.IsOnline(c.Request.Context(), id)
		if err != nil {
			return nil, &util.HTTPError{
				Status:  http.StatusInternalServerError,
				Message: "could not read online status",
			}
		}
		return gin.H{"userId": id, "isOnline": online}, nil
	}
}

func genHomeFeed(database appDb.Database, media *services.MediaStore, conf *config.Config) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		user := middleware.MustGetUser(c)
		posts, err := app.RecommendPosts(c.Request.Context(), database, user.Id,
			&app.RankingOpts{Shuffle: conf.RankingShuffle})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decoratePosts(media, posts)
		return posts, nil
	}
}
