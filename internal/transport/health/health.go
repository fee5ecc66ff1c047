package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type response struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func Register(rg *gin.RouterGroup, version string) {
	rg.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, response{Status: "healthy", Version: version})
	})
}
