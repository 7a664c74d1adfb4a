package util

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

var (
	DbHTTPErr = &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: "an internal database error occurred",
	}
	MalformedIdHTTPErr = &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "id must be an integer",
	}
	NotFoundHTTPErr = &HTTPError{
		Status:  http.StatusNotFound,
		Message: "resource not found",
	}
	ForbiddenHTTPErr = &HTTPError{
		Status:  http.StatusForbidden,
		Message: "you do not have permission to perform this action",
	}
)

// BuildDbHTTPErr logs the underlying error and returns the opaque database
// error so internals never leak to clients.
func BuildDbHTTPErr(err error) *HTTPError {
	log.Printf("database error: %v", err)
	return DbHTTPErr
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf("malformed request body: %v", err),
	}
}

func BuildNotFoundHTTPErr(what string) *HTTPError {
	return &HTTPError{
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s not found", what),
	}
}

type HandlerOpts struct {
	// SuccessStatus overrides the 200 written on success.
	SuccessStatus int
}

type WrappedHandler func(c *gin.Context) (interface{}, *HTTPError)

// HandlerWrapper adapts a value-or-error handler into a gin handler with the
// standard response envelope.
func HandlerWrapper(handler WrappedHandler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			return
		}
		status := http.StatusOK
		if opts != nil && opts.SuccessStatus != 0 {
			status = opts.SuccessStatus
		}
		c.JSON(status, gin.H{
			"success": true,
			"data":    data,
		})
	}
}

func HandleHTTPErrorRes(c *gin.Context, httpErr *HTTPError) {
	c.AbortWithStatusJSON(httpErr.Status, gin.H{
		"success": false,
		"message": httpErr.Message,
	})
}

// ParseId reads an int64 path parameter, such as :id.
func ParseId(c *gin.Context, param string) (int64, *HTTPError) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		return 0, MalformedIdHTTPErr
	}
	return id, nil
}

// ParseIntQuery reads an optional non-negative integer query parameter.
// MaxPageLimit caps page sizes on every paginated listing.
const MaxPageLimit = 100

// ParseLimitQuery reads a page-size query parameter, constrained to
// 1 through MaxPageLimit. The fallback applies when the parameter is absent.
func ParseLimitQuery(c *gin.Context, name string, fallback int) (int, *HTTPError) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 || value > MaxPageLimit {
		return 0, &HTTPError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("%s must be between 1 and %d", name, MaxPageLimit),
		}
	}
	return value, nil
}

func ParseIntQuery(c *gin.Context, name string, fallback int) (int, *HTTPError) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, &HTTPError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("%s must be a non-negative integer", name),
		}
	}
	return value, nil
}
