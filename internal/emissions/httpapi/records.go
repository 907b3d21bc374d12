package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/emission-report/internal/emissions/domain"
	"github.com/yungbote/emission-report/internal/emissions/upstream"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

var errUpstreamRejected = errors.New("upstream rejected the emission record")

// RecordHandler forwards writes to the upstream store.
type RecordHandler struct {
	log    *logger.Logger
	client upstream.Client
}

func NewRecordHandler(log *logger.Logger, client upstream.Client) *RecordHandler {
	return &RecordHandler{
		log:    log.With("handler", "RecordHandler"),
		client: client,
	}
}

// POST /api/emissions
func (h *RecordHandler) Create(c *gin.Context) {
	var in domain.EmissionRecord
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.log, domain.NewValidationError("invalid emission record: "+err.Error()))
		return
	}
	out, err := h.client.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if out == nil {
		h.rejected(c)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// PUT /api/emissions/material
func (h *RecordHandler) Update(c *gin.Context) {
	var in domain.EmissionRecord
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.log, domain.NewValidationError("invalid emission record: "+err.Error()))
		return
	}
	out, err := h.client.Update(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if out == nil {
		h.rejected(c)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *RecordHandler) rejected(c *gin.Context) {
	h.log.Warn("upstream rejected write", "path", c.Request.URL.Path, "request_id", requestIDFrom(c))
	c.AbortWithStatusJSON(http.StatusBadGateway, errorBody{
		Error:  errUpstreamRejected.Error(),
		Status: http.StatusBadGateway,
	})
}
