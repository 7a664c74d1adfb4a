package routes

import (
	"errors"
	"net/http"

	"github.com/afterfrag/afterfrag-be/services"
	"github.com/afterfrag/afterfrag-be/util"
	"github.com/gin-gonic/gin"
)

// CreateCDNRoutes serves stored media at /cdn/<category>/<file>.
func CreateCDNRoutes(router *gin.Engine, media *services.MediaStore) {
	router.GET("/cdn/*blob", func(c *gin.Context) {
		path, err := media.Resolve(c.Param("blob"))
		if errors.Is(err, services.ErrMediaNotFound) || errors.Is(err, services.ErrMediaBadBlobRef) {
			util.HandleHTTPErrorRes(c, &util.HTTPError{
				Status:  http.StatusNotFound,
				Message: "file not found",
			})
			return
		}
		if err != nil {
			util.HandleHTTPErrorRes(c, &util.HTTPError{
				Status:  http.StatusInternalServerError,
				Message: "could not read file",
			})
			return
		}
		c.File(path)
	})
}

func CreateHealthRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"status": "ok"}})
	})
}
