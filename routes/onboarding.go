package routes

import (
	"net/http"

	"github.com/afterfrag/afterfrag-be/app"
	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/middleware"
	"github.com/afterfrag/afterfrag-be/util"
	"github.com/gin-gonic/gin"
)

type topicSelectionReq struct {
	Topics []string `json:"topics" binding:"required"`
}

func CreateOnboardingRoutes(router *gin.RouterGroup, database appDb.Database) {
	routes := router.Group("/onboarding")
	routes.GET("/topics", util.HandlerWrapper(getAvailableTopics, &util.HandlerOpts{}))
	routes.GET("/status", util.HandlerWrapper(genOnboardingStatus(database), &util.HandlerOpts{}))
	routes.POST("/complete", util.HandlerWrapper(genCompleteOnboarding(database), &util.HandlerOpts{}))
	routes.PUT("/topics", util.HandlerWrapper(genUpdateTopics(database), &util.HandlerOpts{}))
}

func getAvailableTopics(c *gin.Context) (interface{}, *util.HTTPError) {
	return gin.H{
		"topics":    app.AvailableTopics,
		"minTopics": app.OnboardingMinTopics,
	}, nil
}

func genOnboardingStatus(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		user := middleware.MustGetUser(c)
		topics, err := database.GetTopicsForUser(c.Request.Context(), user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{
			"completed": app.HasCompletedOnboarding(topics),
			"topics":    topics,
		}, nil
	}
}

func genCompleteOnboarding(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req topicSelectionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if httpErr := app.ValidateTopicSelection(req.Topics); httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		ctx := c.Request.Context()
		existing, err := database.GetTopicsForUser(ctx, user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if app.HasCompletedOnboarding(existing) {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "onboarding has already been completed",
			}
		}
		if err := app.ReplaceTopics(ctx, database, user.Id, req.Topics); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"topics": req.Topics}, nil
	}
}

func genUpdateTopics(database appDb.Database) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req topicSelectionReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if httpErr := app.ValidateTopicSelection(req.Topics); httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		if err := app.ReplaceTopics(c.Request.Context(), database, user.Id, req.Topics); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		topics, err := database.GetTopicsForUser(c.Request.Context(), user.Id)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		return gin.H{"topics": topics}, nil
	}
}
