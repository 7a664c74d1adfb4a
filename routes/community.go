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
	minCommunityNameLen = 3
	maxCommunityNameLen = 50
	maxCommunityRules   = 15
	maxRuleLen          = 200
	maxDescriptionLen   = 1000
)

type createCommunityReq struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Tags        []string            `json:"tags" binding:"required"`
	Rules       []string            `json:"rules"`
	SocialLinks []*model.SocialLink `json:"socialLinks"`
}

type updateCommunityReq struct {
	Name        *string             `json:"name"`
	Description *string             `json:"description"`
	Tags        []string            `json:"tags"`
	Rules       []string            `json:"rules"`
	SocialLinks []*model.SocialLink `json:"socialLinks"`
}

type postTagReq struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

type updatePostTagReq struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type memberRoleReq struct {
	Role model.Role `json:"role" binding:"required"`
}

func CreateCommunityRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore, presence *services.PresenceService) {
	routes := router.Group("/communities")
	routes.POST("", util.HandlerWrapper(genCreateCommunity(database),
		&util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	routes.PUT("/:id", util.HandlerWrapper(genUpdateCommunity(database), &util.HandlerOpts{}))
	routes.DELETE("/:id", util.HandlerWrapper(genDeleteCommunity(database), &util.HandlerOpts{}))

	routes.POST("/:id/join", util.HandlerWrapper(genJoinCommunity(database), &util.HandlerOpts{}))
	routes.DELETE("/:id/leave", util.HandlerWrapper(genLeaveCommunity(database), &util.HandlerOpts{}))
	routes.GET("/:id/is-member", util.HandlerWrapper(genIsMember(database), &util.HandlerOpts{}))
	routes.PUT("/:id/members/:userId/role", util.HandlerWrapper(genUpdateMemberRole(database), &util.HandlerOpts{}))
	routes.DELETE("/:id/members/:userId", util.HandlerWrapper(genRemoveMember(database), &util.HandlerOpts{}))

	routes.POST("/:id/banner", util.HandlerWrapper(genUploadCommunityImage(database, media,
		services.MediaCategoryBanner), &util.HandlerOpts{}))
	routes.DELETE("/:id/banner", util.HandlerWrapper(genDeleteCommunityImage(database, media,
		services.MediaCategoryBanner), &util.HandlerOpts{}))
	routes.POST("/:id/picture", util.HandlerWrapper(genUploadCommunityImage(database, media,
		services.MediaCategoryCommunity), &util.HandlerOpts{}))
	routes.DELETE("/:id/picture", util.HandlerWrapper(genDeleteCommunityImage(database, media,
		services.MediaCategoryCommunity), &util.HandlerOpts{}))

	routes.POST("/:id/post-tags", util.HandlerWrapper(genCreatePostTag(database),
		&util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	routes.PUT("/:id/post-tags/:tagId", util.HandlerWrapper(genUpdatePostTag(database), &util.HandlerOpts{}))
	routes.DELETE("/:id/post-tags/:tagId", util.HandlerWrapper(genDeletePostTag(database), &util.HandlerOpts{}))
}

// CreatePublicCommunityRoutes registers the read-only community surface,
// reachable without a session.
func CreatePublicCommunityRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore, presence *services.PresenceService) {
	routes := router.Group("/communities")
	routes.GET("", util.HandlerWrapper(genListCommunities(database, media), &util.HandlerOpts{}))
	routes.GET("/:id", util.HandlerWrapper(genGetCommunity(database, media, presence), &util.HandlerOpts{}))
	routes.GET("/f/:name", util.HandlerWrapper(genGetCommunityByName(database, media, presence), &util.HandlerOpts{}))
	routes.GET("/:id/staff", util.HandlerWrapper(genGetStaff(database, media), &util.HandlerOpts{}))
	routes.GET("/:id/post-tags", util.HandlerWrapper(genListPostTags(database), &util.HandlerOpts{}))
}

func validateCommunityName(name string) *util.HTTPError {
	if len(name) < minCommunityNameLen || len(name) > maxCommunityNameLen {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "community name must be between 3 and 50 characters",
		}
	}
	return nil
}

func validateRules(rules []string) *util.HTTPError {
	if len(rules) > maxCommunityRules {
		return &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "a community can have at most 15 rules",
		}
	}
	for _, rule := range rules {
		if rule == "" || len(rule) > maxRuleLen {
			return &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "each rule must be between 1 and 200 characters",
			}
		}
	}
	return nil
}

// loadCommunity fetches the community or produces the 404.
func loadCommunity(c *gin.Context, database appDb.Database, id int64) (*model.Community, *util.HTTPError) {
	community, err := database.GetCommunityById(c.Request.Context(), id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if community == nil {
		return nil, util.BuildNotFoundHTTPErr("community")
	}
	return community, nil
}

// requireStaff loads the community and checks the caller holds a staff role.
func requireStaff(c *gin.Context, database appDb.Database, communityId int64) (*model.Community, model.Role, *util.HTTPError) {
	community, httpErr := loadCommunity(c, database, communityId)
	if httpErr != nil {
		return nil, "", httpErr
	}
	user := middleware.MustGetUser(c)
	role, err := database.GetMemberRole(c.Request.Context(), communityId, user.Id)
	if err != nil {
		return nil, "", util.BuildDbHTTPErr(err)
	}
	if !role.IsStaff() {
		return nil, "", util.ForbiddenHTTPErr
	}
	return community, role, nil
}

// requireOwner is requireStaff narrowed to the community owner.
func requireOwner(c *gin.Context, database appDb.Database, communityId int64) (*model.Community, *util.HTTPError) {
	community, role, httpErr := requireStaff(c, database, communityId)
	if httpErr != nil {
		return nil, httpErr
	}
	if role != model.RoleOwner {
		return nil, util.ForbiddenHTTPErr
	}
	return community, nil
}

func genCreateCommunity(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req createCommunityReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		req.Name = util.SanitizeStrict(req.Name)
		if httpErr := validateCommunityName(req.Name); httpErr != nil {
			return nil, httpErr
		}
		if httpErr := app.ValidateCommunityTags(req.Tags); httpErr != nil {
			return nil, httpErr
		}
		if httpErr := validateRules(req.Rules); httpErr != nil {
			return nil, httpErr
		}
		if len(req.Description) > maxDescriptionLen {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "description must be at most 1000 characters",
			}
		}

		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		communityId, err := database.CreateCommunity(ctx, &appDb.CreateCommunity{
			Name:        req.Name,
			Description: util.SanitizeUGC(req.Description),
			Tags:        req.Tags,
			OwnerId:     user.Id,
			Rules:       req.Rules,
			SocialLinks: req.SocialLinks,
		})
		if err != nil {
			if appDb.IsDupKeyErr(err) {
				return nil, &util.HTTPError{
					Status:  http.StatusConflict,
					Message: "a community with this name already exists",
				}
			}
			return nil, util.BuildDbHTTPErr(err)
		}

		// Owning a community implies interest in its tags.
		if err := app.AddTopics(ctx, database, user.Id, req.Tags); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"id": communityId}, nil
	}
}

func genListCommunities(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		limit, httpErr := util.ParseLimitQuery(c, "limit", defaultBrowseLimit)
		if httpErr != nil {
			return nil, httpErr
		}
		offset, httpErr := util.ParseIntQuery(c, "offset", 0)
		if httpErr != nil {
			return nil, httpErr
		}
		communities, err := database.GetCommunities(c.Request.Context(), &appDb.CommunitiesListQuery{
			Tag:    c.Query("tag"),
			Search: c.Query("search"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decorateCommunities(media, communities)
		return communities, nil
	}
}

func buildCommunityDetail(c *gin.Context, database appDb.Database, media *services.MediaStore, presence *services.PresenceService, community *model.Community) (interface{}, *util.HTTPError) {
	ctx := c.Request.Context()
	staff, err := database.GetStaffMembers(ctx, community.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	memberIds, err := database.GetMemberIds(ctx, community.Id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	online, err := presence.CountOnline(ctx, memberIds)
	if err == nil {
		community.OnlineMemberCount = online
	}

	decorateCommunity(media, community)
	decorateMembers(media, staff)
	return &model.CommunityDetail{Community: community, StaffMembers: staff}, nil
}

func genGetCommunity(database appDb.Database, media *services.MediaStore, presence *services.PresenceService) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		community, httpErr := loadCommunity(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}
		return buildCommunityDetail(c, database, media, presence, community)
	}
}

func genGetCommunityByName(database appDb.Database, media *services.MediaStore, presence *services.PresenceService) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		community, err := database.GetCommunityByName(c.Request.Context(), c.Param("name"))
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if community == nil {
			return nil, util.BuildNotFoundHTTPErr("community")
		}
		return buildCommunityDetail(c, database, media, presence, community)
	}
}

func genGetStaff(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		staff, err := database.GetStaffMembers(c.Request.Context(), id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decorateMembers(media, staff)
		return staff, nil
	}
}

func genUpdateCommunity(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		var req updateCommunityReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}

		if _, httpErr := requireOwner(c, database, id); httpErr != nil {
			return nil, httpErr
		}

		if req.Name != nil {
			name := util.SanitizeStrict(*req.Name)
			if httpErr := validateCommunityName(name); httpErr != nil {
				return nil, httpErr
			}
			req.Name = &name
		}
		if req.Tags != nil {
			if httpErr := app.ValidateCommunityTags(req.Tags); httpErr != nil {
				return nil, httpErr
			}
		}
		if req.Rules != nil {
			if httpErr := validateRules(req.Rules); httpErr != nil {
				return nil, httpErr
			}
		}
		if req.Description != nil {
			if len(*req.Description) > maxDescriptionLen {
				return nil, &util.HTTPError{
					Status:  http.StatusBadRequest,
					Message: "description must be at most 1000 characters",
				}
			}
			sanitized := util.SanitizeUGC(*req.Description)
			req.Description = &sanitized
		}

		err := database.UpdateCommunity(c.Request.Context(), id, &appDb.UpdateCommunity{
			Name:        req.Name,
			Description: req.Description,
			Tags:        req.Tags,
			Rules:       req.Rules,
			SocialLinks: req.SocialLinks,
		})
		if err != nil {
			if appDb.IsDupKeyErr(err) {
				return nil, &util.HTTPError{
					Status:  http.StatusConflict,
					Message: "a community with this name already exists",
				}
			}
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"id": id}, nil
	}
}

func genDeleteCommunity(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		_, role, httpErr := requireStaff(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}
		if role != model.RoleOwner {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: "only the owner can delete a community",
			}
		}
		if err := database.DeleteCommunity(c.Request.Context(), id); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"id": id}, nil
	}
}

func genJoinCommunity(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		community, httpErr := loadCommunity(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		if err := database.AddMember(ctx, id, user.Id, model.RoleMember); err != nil {
			if appDb.IsDupKeyErr(err) {
				return nil, &util.HTTPError{
					Status:  http.StatusConflict,
					Message: "you are already a member of this community",
				}
			}
			return nil, util.BuildDbHTTPErr(err)
		}
		if err := app.AddTopics(ctx, database, user.Id, community.Tags); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"communityId": id, "role": model.RoleMember}, nil
	}
}

func genLeaveCommunity(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		community, httpErr := loadCommunity(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		role, err := database.GetMemberRole(ctx, id, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if role == "" {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "you are not a member of this community",
			}
		}
		if role == model.RoleOwner {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "the owner cannot leave their own community",
			}
		}

		if err := database.RemoveMember(ctx, id, user.Id); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		// Drop the community's tags from the user's topics unless another
		// membership still covers them.
		if err := app.RemoveTopicsIfUnused(ctx, database, user.Id, community.Tags); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"communityId": id}, nil
	}
}

func genIsMember(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		user := middleware.MustGetUser(c)
		role, err := database.GetMemberRole(c.Request.Context(), id, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"isMember": role != "", "role": role}, nil
	}
}

func genUpdateMemberRole(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		targetId, httpErr := util.ParseId(c, "userId")
		if httpErr != nil {
			return nil, httpErr
		}
		var req memberRoleReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if req.Role != model.RoleMember && req.Role != model.RoleModerator {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "role must be member or moderator",
			}
		}

		_, role, httpErr := requireStaff(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}
		if role != model.RoleOwner {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: "only the owner can change member roles",
			}
		}

		ctx := c.Request.Context()
		targetRole, err := database.GetMemberRole(ctx, id, targetId)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if targetRole == "" {
			return nil, util.BuildNotFoundHTTPErr("member")
		}
		if targetRole == model.RoleOwner {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "the owner's role cannot be changed",
			}
		}

		if err := database.UpdateMemberRole(ctx, id, targetId, req.Role); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"userId": targetId, "role": req.Role}, nil
	}
}

func genRemoveMember(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		targetId, httpErr := util.ParseId(c, "userId")
		if httpErr != nil {
			return nil, httpErr
		}
		community, role, httpErr := requireStaff(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}

		ctx := c.Request.Context()
		targetRole, err := database.GetMemberRole(ctx, id, targetId)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if targetRole == "" {
			return nil, util.BuildNotFoundHTTPErr("member")
		}
		if targetRole == model.RoleOwner {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: "the owner cannot be removed",
			}
		}
		if targetRole == model.RoleModerator && role != model.RoleOwner {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: "only the owner can remove a moderator",
			}
		}

		if err := database.RemoveMember(ctx, id, targetId); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if err := app.RemoveTopicsIfUnused(ctx, database, targetId, community.Tags); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"userId": targetId}, nil
	}
}

func genUploadCommunityImage(database appDb.Database, media *services.MediaStore, category string) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		community, httpErr := requireOwner(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}

		file, err := c.FormFile("file")
		if err != nil {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "a file field is required",
			}
		}
		blob, err := media.SaveImage(file, category)
		if err != nil {
			return nil, buildMediaHTTPErr(err)
		}

		ctx := c.Request.Context()
		var previous string
		if category == services.MediaCategoryBanner {
			previous = community.BannerBlob
			err = database.SetCommunityBanner(ctx, id, blob)
		} else {
			previous = community.PictureBlob
			err = database.SetCommunityPicture(ctx, id, blob)
		}
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if previous != "" {
			_ = media.Delete(previous)
		}
		return gin.H{"url": media.URLFor(blob)}, nil
	}
}

func genDeleteCommunityImage(database appDb.Database, media *services.MediaStore, category string) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		community, httpErr := requireOwner(c, database, id)
		if httpErr != nil {
			return nil, httpErr
		}

		ctx := c.Request.Context()
		var previous string
		var err error
		if category == services.MediaCategoryBanner {
			previous = community.BannerBlob
			err = database.SetCommunityBanner(ctx, id, "")
		} else {
			previous = community.PictureBlob
			err = database.SetCommunityPicture(ctx, id, "")
		}
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if previous != "" {
			_ = media.Delete(previous)
		}
		return gin.H{"communityId": id}, nil
	}
}

func genCreatePostTag(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		var req postTagReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		req.Name = util.SanitizeStrict(req.Name)
		if httpErr := app.ValidatePostTagName(req.Name); httpErr != nil {
			return nil, httpErr
		}

		if _, _, httpErr := requireStaff(c, database, id); httpErr != nil {
			return nil, httpErr
		}

		tagId, err := database.CreatePostTag(c.Request.Context(), id, req.Name, req.Color)
		if err != nil {
			if appDb.IsDupKeyErr(err) {
				return nil, &util.HTTPError{
					Status:  http.StatusConflict,
					Message: "a tag with this name already exists in this community",
				}
			}
			return nil, util.BuildDbHTTPErr(err)
		}
		return &model.PostTag{Id: tagId, CommunityId: id, Name: req.Name, Color: req.Color}, nil
	}
}

func genListPostTags(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		tags, err := database.GetPostTags(c.Request.Context(), id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return tags, nil
	}
}

func genUpdatePostTag(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		tagId, httpErr := util.ParseId(c, "tagId")
		if httpErr != nil {
			return nil, httpErr
		}
		var req updatePostTagReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if req.Name != nil {
			name := util.SanitizeStrict(*req.Name)
			if httpErr := app.ValidatePostTagName(name); httpErr != nil {
				return nil, httpErr
			}
			req.Name = &name
		}

		if _, _, httpErr := requireStaff(c, database, id); httpErr != nil {
			return nil, httpErr
		}

		tag, err := database.UpdatePostTag(c.Request.Context(), id, tagId, req.Name, req.Color)
		if err != nil {
			if appDb.IsDupKeyErr(err) {
				return nil, &util.HTTPError{
					Status:  http.StatusConflict,
					Message: "a tag with this name already exists in this community",
				}
			}
			return nil, util.BuildDbHTTPErr(err)
		}
		if tag == nil {
			return nil, util.BuildNotFoundHTTPErr("post tag")
		}
		return tag, nil
	}
}

func genDeletePostTag(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		tagId, httpErr := util.ParseId(c, "tagId")
		if httpErr != nil {
			return nil, httpErr
		}
		if _, _, httpErr := requireStaff(c, database, id); httpErr != nil {
			return nil, httpErr
		}
		if err := database.DeletePostTag(c.Request.Context(), id, tagId); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"id": tagId}, nil
	}
}

func buildMediaHTTPErr(err error) *util.HTTPError {
	switch err {
	case services.ErrMediaTooLarge:
		return &util.HTTPError{Status: http.StatusRequestEntityTooLarge, Message: err.Error()}
	case services.ErrMediaBadType:
		return &util.HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
	default:
		return &util.HTTPError{Status: http.StatusInternalServerError, Message: "could not store file"}
	}
}
