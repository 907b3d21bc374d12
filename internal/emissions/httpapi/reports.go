package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/emission-report/internal/emissions/domain"
	"github.com/yungbote/emission-report/internal/emissions/report"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

// ReportService is the read side consumed by the report endpoints.
type ReportService interface {
	ByMaterialNo(ctx context.Context, materialNo string) ([]domain.EmissionRecord, error)
	ByCountryCode(ctx context.Context, isoCode string) ([]domain.EmissionRecord, error)
	ByCategoryID(ctx context.Context, categoryID int) ([]domain.EmissionRecord, error)
	ByRange(ctx context.Context, start, end *time.Time) ([]domain.EmissionRecord, error)
	Outliers(ctx context.Context) ([]domain.EmissionRecord, error)
	Summary(ctx context.Context) (*domain.ReportSummary, error)
}

type ReportHandler struct {
	log     *logger.Logger
	reports ReportService
}

func NewReportHandler(log *logger.Logger, reports ReportService) *ReportHandler {
	return &ReportHandler{
		log:     log.With("handler", "ReportHandler"),
		reports: reports,
	}
}

// GET /api/emissions/material?materialNo=
func (h *ReportHandler) ByMaterialNo(c *gin.Context) {
	recs, err := h.reports.ByMaterialNo(c.Request.Context(), c.Query("materialNo"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GET /api/emissions/country?isoCode=
func (h *ReportHandler) ByCountryCode(c *gin.Context) {
	recs, err := h.reports.ByCountryCode(c.Request.Context(), c.Query("isoCode"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GET /api/emissions/category?categoryId=
func (h *ReportHandler) ByCategoryID(c *gin.Context) {
	categoryID := 0
	if raw := strings.TrimSpace(c.Query("categoryId")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, h.log, domain.NewValidationError("categoryId must be an integer."))
			return
		}
		categoryID = n
	}
	recs, err := h.reports.ByCategoryID(c.Request.Context(), categoryID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GET /api/emissions/range?startDate=&endDate=
func (h *ReportHandler) ByRange(c *gin.Context) {
	start, err := dateParam(c, "startDate")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	end, err := dateParam(c, "endDate")
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	recs, err := h.reports.ByRange(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GET /api/emissions/outliers
func (h *ReportHandler) Outliers(c *gin.Context) {
	recs, err := h.reports.Outliers(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.log.Info("Found outlier records", "count", len(recs))

	var buf bytes.Buffer
	if err := report.WriteDelimited(&buf, recs, report.PipeDelimiter); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.DownloadFileName))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// GET /api/emissions/summary
func (h *ReportHandler) Summary(c *gin.Context) {
	sum, err := h.reports.Summary(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

// dateParam returns nil for an absent parameter. An unescaped "+hh:mm"
// offset arrives as " hh:mm" and is restored before parsing.
func dateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	ts, err := domain.ParseTimestamp(raw)
	if err != nil {
		if fixed, ok := restorePlusOffset(raw); ok {
			ts, err = domain.ParseTimestamp(fixed)
		}
	}
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf(
			"Invalid %s: %q. Use YYYY-MM-DD or RFC 3339; encode a '+' offset as %%2B.", name, raw))
	}
	t := ts.Time
	return &t, nil
}

func restorePlusOffset(raw string) (string, bool) {
	t := strings.IndexByte(raw, 'T')
	sp := strings.LastIndexByte(raw, ' ')
	if t < 0 || sp < t {
		return "", false
	}
	return raw[:sp] + "+" + raw[sp+1:], true
}
