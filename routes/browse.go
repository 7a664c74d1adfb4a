package routes

import (
	"errors"
	"net/http"

	"github.com/afterfrag/afterfrag-be/app"
	"github.com/afterfrag/afterfrag-be/config"
	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/middleware"
	"github.com/afterfrag/afterfrag-be/services"
	"github.com/afterfrag/afterfrag-be/util"
	"github.com/gin-gonic/gin"
)

const (
	defaultBrowseLimit      = 20
	defaultRecommendedLimit = 5
)

func CreateBrowseRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore, conf *config.Config) {
	routes := router.Group("/browse")
	routes.GET("/communities", util.HandlerWrapper(genBrowseCommunities(database, media, conf), &util.HandlerOpts{}))
	routes.GET("/recommended", util.HandlerWrapper(genRecommendedCommunities(database, media, conf), &util.HandlerOpts{}))
}

// CreateTrendingRoutes registers the anonymous trending listing.
func CreateTrendingRoutes(router *gin.RouterGroup, database appDb.Database, media *services.MediaStore) {
	router.GET("/browse/trending", util.HandlerWrapper(genTrendingCommunities(database, media), &util.HandlerOpts{}))
}

func onboardingHTTPErr() *util.HTTPError {
	return &util.HTTPError{
		Status:  http.StatusBadRequest,
		Message: app.ErrOnboardingRequired.Error(),
	}
}

func genBrowseCommunities(database appDb.Database, media *services.MediaStore, conf *config.Config) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		skip, httpErr := util.ParseIntQuery(c, "skip", 0)
		if httpErr != nil {
			return nil, httpErr
		}
		limit, httpErr := util.ParseLimitQuery(c, "limit", defaultBrowseLimit)
		if httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		ranked, err := app.BrowseCommunities(c.Request.Context(), database, user.Id, skip, limit,
			&app.RankingOpts{Shuffle: conf.RankingShuffle})
		if errors.Is(err, app.ErrOnboardingRequired) {
			return nil, onboardingHTTPErr()
		}
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		for _, community := range ranked {
			decorateCommunity(media, community.Community)
		}
		return ranked, nil
	}
}

func genRecommendedCommunities(database appDb.Database, media *services.MediaStore, conf *config.Config) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		limit, httpErr := util.ParseLimitQuery(c, "limit", defaultRecommendedLimit)
		if httpErr != nil {
			return nil, httpErr
		}

		user := middleware.MustGetUser(c)
		ranked, err := app.RecommendedCommunities(c.Request.Context(), database, user.Id, limit,
			&app.RankingOpts{Shuffle: conf.RankingShuffle})
		if errors.Is(err, app.ErrOnboardingRequired) {
			return nil, onboardingHTTPErr()
		}
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		for _, community := range ranked {
			decorateCommunity(media, community.Community)
		}
		return ranked, nil
	}
}

func genTrendingCommunities(database appDb.Database, media *services.MediaStore) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		limit, httpErr := util.ParseLimitQuery(c, "limit", defaultBrowseLimit)
		if httpErr != nil {
			return nil, httpErr
		}
		offset, httpErr := util.ParseIntQuery(c, "offset", 0)
		if httpErr != nil {
			return nil, httpErr
		}

		communities, err := app.TrendingCommunities(c.Request.Context(), database, limit, offset)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		decorateCommunities(media, communities)
		return communities, nil
	}
}
