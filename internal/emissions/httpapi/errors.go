package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/emission-report/internal/emissions/domain"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// statusFor maps error kinds to HTTP status codes.
func statusFor(err error) int {
	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
		ee *domain.EmptyDataError
	)
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf), errors.As(err, &ee):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	status := statusFor(err)
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}

	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"request_id", requestIDFrom(c),
		"error", msg,
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", fields...)
	} else {
		log.Warn("request rejected", fields...)
	}

	c.AbortWithStatusJSON(status, errorBody{Error: msg, Status: status})
}
