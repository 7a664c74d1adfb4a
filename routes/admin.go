package routes

import (
	"net/http"
	"time"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/middleware"
	"github.com/afterfrag/afterfrag-be/util"
	"github.com/gin-gonic/gin"
)

type moderateReq struct {
	ContentType string `json:"contentType" binding:"required"`
	ContentId   int64  `json:"contentId" binding:"required"`
	Reason      string `json:"reason" binding:"required"`
	AdminNote   string `json:"adminNote"`
}

type banReq struct {
	Days   int    `json:"days" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type terminateReq struct {
	Reason string `json:"reason" binding:"required"`
}

type adminFlagReq struct {
	IsAdmin bool `json:"isAdmin"`
}

var allowedBanDays = map[int]bool{1: true, 3: true, 7: true}

func CreateAdminRoutes(router *gin.RouterGroup, database appDb.Database) {
	routes := router.Group("/admin")
	routes.Use(middleware.RequireAdmin())

	routes.POST("/moderate", util.HandlerWrapper(genModerateContent(database), &util.HandlerOpts{}))
	routes.POST("/users/:id/ban", util.HandlerWrapper(genBanUser(database), &util.HandlerOpts{}))
	routes.DELETE("/users/:id/ban", util.HandlerWrapper(genUnbanUser(database), &util.HandlerOpts{}))
	routes.POST("/users/:id/terminate", util.HandlerWrapper(genTerminateUser(database), &util.HandlerOpts{}))
	routes.PUT("/users/:id/admin", util.HandlerWrapper(genSetAdmin(database), &util.HandlerOpts{}))
	routes.GET("/users/:id/actions", util.HandlerWrapper(genListActions(database), &util.HandlerOpts{}))
}

func genModerateContent(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req moderateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if req.ContentType != "post" && req.ContentType != "comment" {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "contentType must be post or comment",
			}
		}

		admin := middleware.MustGetUser(c)
		ownerId, err := database.ModerateContent(c.Request.Context(), admin.Id,
			req.ContentType, req.ContentId, req.Reason, req.AdminNote)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"contentId": req.ContentId, "userId": ownerId}, nil
	}
}

func loadTargetUser(c *gin.Context, database appDb.Database) (int64, *util.HTTPError) {
	id, httpErr := util.ParseId(c, "id")
	if httpErr != nil {
		return 0, httpErr
	}
	user, err := database.GetUserById(c.Request.Context(), id)
	if err != nil {
		return 0, util.BuildDbHTTPErr(err)
	}
	if user == nil {
		return 0, util.BuildNotFoundHTTPErr("user")
	}
	if user.IsAdmin {
		return 0, &util.HTTPError{
			Status:  http.StatusForbidden,
			Message: "admin accounts cannot be sanctioned",
		}
	}
	return id, nil
}

func genBanUser(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req banReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if !allowedBanDays[req.Days] {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "ban length must be 1, 3 or 7 days",
			}
		}

		targetId, httpErr := loadTargetUser(c, database)
		if httpErr != nil {
			return nil, httpErr
		}

		until := time.Now().AddDate(0, 0, req.Days)
		ctx := c.Request.Context()
		if err := database.SetBannedUntil(ctx, targetId, &until); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}

		admin := middleware.MustGetUser(c)
		if err := database.RecordModerationAction(ctx, &appDb.CreateModerationAction{
			UserId:  targetId,
			AdminId: admin.Id,
			Action:  "ban",
			Reason:  req.Reason,
		}); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"userId": targetId, "bannedUntil": until}, nil
	}
}

func genUnbanUser(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		targetId, httpErr := loadTargetUser(c, database)
		if httpErr != nil {
			return nil, httpErr
		}
		if err := database.SetBannedUntil(c.Request.Context(), targetId, nil); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"userId": targetId}, nil
	}
}

func genTerminateUser(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req terminateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		targetId, httpErr := loadTargetUser(c, database)
		if httpErr != nil {
			return nil, httpErr
		}

		ctx := c.Request.Context()
		if err := database.SetTerminated(ctx, targetId, true); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}

		admin := middleware.MustGetUser(c)
		if err := database.RecordModerationAction(ctx, &appDb.CreateModerationAction{
			UserId:  targetId,
			AdminId: admin.Id,
			Action:  "terminate",
			Reason:  req.Reason,
		}); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"userId": targetId}, nil
	}
}

func genSetAdmin(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		var req adminFlagReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if err := database.SetAdmin(c.Request.Context(), id, req.IsAdmin); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"userId": id, "isAdmin": req.IsAdmin}, nil
	}
}

func genListActions(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		id, httpErr := util.ParseId(c, "id")
		if httpErr != nil {
			return nil, httpErr
		}
		actions, err := database.GetModerationActions(c.Request.Context(), id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return actions, nil
	}
}
