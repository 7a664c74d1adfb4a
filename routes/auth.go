package routes

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	appDb "github.com/afterfrag/afterfrag-be/db"
	"github.com/afterfrag/afterfrag-be/services"
	"github.com/afterfrag/afterfrag-be/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

type registerReq struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName"`
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionRes struct {
	Token    string `json:"token"`
	UserId   int64  `json:"userId"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

func CreateAuthRoutes(router *gin.RouterGroup, database appDb.Database, tokens *services.TokenService) {
	routes := router.Group("/auth")
	routes.POST("/register", util.HandlerWrapper(genRegister(database, tokens),
		&util.HandlerOpts{SuccessStatus: http.StatusCreated}))
	routes.POST("/login", util.HandlerWrapper(genLogin(database, tokens), &util.HandlerOpts{}))
}

func genRegister(database appDb.Database, tokens *services.TokenService) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req registerReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}
		if !usernamePattern.MatchString(req.Username) {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "username must be 3-30 characters of letters, digits and underscores",
			}
		}
		if len(req.Password) < 8 {
			return nil, &util.HTTPError{
				Status:  http.StatusBadRequest,
				Message: "password must be at least 8 characters",
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, &util.HTTPError{
				Status:  http.StatusInternalServerError,
				Message: "could not hash password",
			}
		}

		ctx := c.Request.Context()
		userId, err := database.CreateUser(ctx, &appDb.CreateUser{
			Username:     req.Username,
			PasswordHash: string(hash),
		})
		if err != nil {
			if appDb.IsDupKeyErr(err) {
				return nil, &util.HTTPError{
					Status:  http.StatusConflict,
					Message: "username is already taken",
				}
			}
			return nil, util.BuildDbHTTPErr(err)
		}

		displayName := req.DisplayName
		if displayName == "" {
			displayName = req.Username
		}
		if err := database.CreateProfile(ctx, &appDb.CreateProfile{
			UserId:      userId,
			DisplayName: util.SanitizeStrict(displayName),
		}); err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}

		token, err := tokens.Issue(req.Username, time.Now())
		if err != nil {
			return nil, &util.HTTPError{
				Status:  http.StatusInternalServerError,
				Message: "could not issue session token",
			}
		}
		return &sessionRes{Token: token, UserId: userId, Username: req.Username}, nil
	}
}

func genLogin(database appDb.Database, tokens *services.TokenService) util.WrappedHandler {
	return func(c *gin.Context) (interface{}, *util.HTTPError) {
		var req loginReq
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, util.BuildJSONBindHTTPErr(err)
		}

		badCredentials := &util.HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "incorrect username or password",
		}

		user, err := database.GetUserByUsername(c.Request.Context(), req.Username)
		if err != nil {
			return nil, util.BuildDbHTTPErr(err)
		}
		if user == nil {
			return nil, badCredentials
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			return nil, badCredentials
		}
		if user.IsTerminated {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: "this account has been terminated",
			}
		}
		if user.IsBanned(time.Now()) {
			return nil, &util.HTTPError{
				Status:  http.StatusForbidden,
				Message: fmt.Sprintf("this account is banned until %s", user.BannedUntil.Format(time.RFC3339)),
			}
		}

		token, err := tokens.Issue(user.Username, time.Now())
		if err != nil {
			return nil, &util.HTTPError{
				Status:  http.StatusInternalServerError,
				Message: "could not issue session token",
			}
		}
		return &sessionRes{
			Token:    token,
			UserId:   user.Id,
			Username: user.Username,
			IsAdmin:  user.IsAdmin,
		}, nil
	}
}
