package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
