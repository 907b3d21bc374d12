package report

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/emission-report/internal/emissions/domain"
	"github.com/yungbote/emission-report/internal/emissions/upstream"
	"github.com/yungbote/emission-report/internal/platform/logger"
)

const (
	MsgMaterialRequired = "Material number cannot be null or empty."
	MsgCountryRequired  = "Country ISO code cannot be null or empty."
	MsgRangeRequired    = "Both start and end dates are required."
	MsgRangeInverted    = "Start date must be before end date."
	MsgNoExportData     = "No emission records available to export."
	MsgNoSummaryData    = "No data available to generate summary."
)

type Options struct {
	// ExportDir receives ExportFileName. Empty disables the on-disk export.
	ExportDir string

	// WriteOnOutliers mirrors every Outliers call to the on-disk export.
	WriteOnOutliers bool
}

// Service derives filtered views, summaries and exports from upstream
// records. It keeps no state between calls.
type Service struct {
	log    *logger.Logger
	client upstream.Client
	opts   Options
}

func NewService(log *logger.Logger, client upstream.Client, opts Options) *Service {
	return &Service{
		log:    log.With("service", "ReportService"),
		client: client,
		opts:   opts,
	}
}

func (s *Service) ByMaterialNo(ctx context.Context, materialNo string) ([]domain.EmissionRecord, error) {
	s.log.Info("Fetching emissions by material number", "material_no", materialNo)
	if isBlank(materialNo) {
		s.log.Warn("Material number is required")
		return nil, domain.NewValidationError(MsgMaterialRequired)
	}
	return s.client.FetchByMaterialNo(ctx, materialNo)
}

func (s *Service) ByCountryCode(ctx context.Context, isoCode string) ([]domain.EmissionRecord, error) {
	s.log.Info("Fetching emissions by country code", "iso_code", isoCode)
	if isBlank(isoCode) {
		s.log.Warn("Country ISO code is required")
		return nil, domain.NewValidationError(MsgCountryRequired)
	}
	return s.client.FetchByCountryCode(ctx, isoCode)
}

func (s *Service) ByCategoryID(ctx context.Context, categoryID int) ([]domain.EmissionRecord, error) {
	s.log.Info("Fetching emissions by category", "category_id", categoryID)
	all, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(r domain.EmissionRecord) bool { return r.CategoryID == categoryID }), nil
}

// ByRange keeps records created within [start, end], both ends inclusive.
func (s *Service) ByRange(ctx context.Context, start, end *time.Time) ([]domain.EmissionRecord, error) {
	s.log.Info("Fetching emissions by date range", "start", start, "end", end)
	if start == nil || end == nil {
		s.log.Warn("Both start and end dates are required")
		return nil, domain.NewValidationError(MsgRangeRequired)
	}
	if start.After(*end) {
		s.log.Warn("Start date must be before end date", "start", *start, "end", *end)
		return nil, domain.NewValidationError(MsgRangeInverted)
	}

	all, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	lo, hi := *start, *end
	return filter(all, func(r domain.EmissionRecord) bool {
		ts := r.SourceCreateTimestamp.Time
		return !ts.Before(lo) && !ts.After(hi)
	}), nil
}

// Outliers returns the full collection unfiltered. No anomaly detection is
// applied; callers render it as a delimited export.
func (s *Service) Outliers(ctx context.Context) ([]domain.EmissionRecord, error) {
	s.log.Info("Exporting all emission records")
	all, err := s.fetchNonEmpty(ctx, MsgNoExportData)
	if err != nil {
		return nil, err
	}
	if s.opts.WriteOnOutliers && s.opts.ExportDir != "" {
		path, err := ExportFile(s.opts.ExportDir, all)
		if err != nil {
			s.log.Error("On-disk export failed", "dir", s.opts.ExportDir, "error", err)
			return nil, err
		}
		s.log.Info("Wrote on-disk export", "path", path, "records", len(all))
	}
	return all, nil
}

// ExportAll writes the full collection to the configured export directory and
// returns the file path and record count.
func (s *Service) ExportAll(ctx context.Context) (string, int, error) {
	all, err := s.fetchNonEmpty(ctx, MsgNoExportData)
	if err != nil {
		return "", 0, err
	}
	dir := s.opts.ExportDir
	if dir == "" {
		dir = "."
	}
	path, err := ExportFile(dir, all)
	if err != nil {
		return "", 0, err
	}
	return path, len(all), nil
}

func (s *Service) Summary(ctx context.Context) (*domain.ReportSummary, error) {
	s.log.Info("Generating summary report")
	all, err := s.fetchNonEmpty(ctx, MsgNoSummaryData)
	if err != nil {
		return nil, err
	}
	return Summarize(all)
}

func (s *Service) fetchNonEmpty(ctx context.Context, emptyMsg string) ([]domain.EmissionRecord, error) {
	all, err := s.client.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		s.log.Warn(emptyMsg)
		return nil, domain.NewEmptyDataError(emptyMsg)
	}
	return all, nil
}

func filter(in []domain.EmissionRecord, keep func(domain.EmissionRecord) bool) []domain.EmissionRecord {
	out := make([]domain.EmissionRecord, 0, len(in))
	for _, r := range in {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
