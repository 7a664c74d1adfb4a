package main

import (
	"log"
	"net/http"

	"github.com/afterfrag/afterfrag-be/config"
	"github.com/afterfrag/afterfrag-be/db/mysql"
	"github.com/afterfrag/afterfrag-be/middleware"
	"github.com/afterfrag/afterfrag-be/routes"
	"github.com/afterfrag/afterfrag-be/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	database, err := mysql.GetDatabase(conf)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer database.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
	presence := services.NewPresenceService(redisClient)
	tokens := services.NewTokenService(conf.JWTSecret)
	media, err := services.NewMediaStore(conf.UploadRoot, conf.CDNBaseURL)
	if err != nil {
		log.Fatalf("media store: %v", err)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: conf.FrontendOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	routes.CreateHealthRoutes(router)
	routes.CreateCDNRoutes(router, media)

	api := router.Group("/api/v1")

	// Reads work anonymously but still pick up the user when a token is
	// present, so views and like status resolve per account.
	public := api.Group("")
	public.Use(middleware.GenAuth(database, tokens, presence, &middleware.AuthConfig{SessionNotRequired: true}))
	routes.CreateAuthRoutes(public, database, tokens)
	routes.CreateTrendingRoutes(public, database, media)
	routes.CreatePublicCommunityRoutes(public, database, media, presence)
	routes.CreatePublicPostRoutes(public, database, media)
	routes.CreatePublicCommentRoutes(public, database, media)
	routes.CreatePublicProfileRoutes(public, database, media, presence)

	authed := api.Group("")
	authed.Use(middleware.GenAuth(database, tokens, presence, &middleware.AuthConfig{}))
	routes.CreateOnboardingRoutes(authed, database)
	routes.CreateBrowseRoutes(authed, database, media, conf)
	routes.CreateCommunityRoutes(authed, database, media, presence)
	routes.CreatePostRoutes(authed, database, media)
	routes.CreateCommentRoutes(authed, database, media)
	routes.CreateProfileRoutes(authed, database, media, presence, conf)
	routes.CreateAdminRoutes(authed, database)

	if err := router.Run(":" + conf.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
