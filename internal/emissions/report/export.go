package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/yungbote/emission-report/internal/emissions/domain"
)

const (
	PipeDelimiter  = '|'
	CommaDelimiter = ','

	// DownloadFileName is offered to HTTP clients; ExportFileName is written to disk.
	DownloadFileName = "OutlierEmissionRecords.csv"
	ExportFileName   = "AllEmissionRecords.csv"
)

// WriteDelimited writes a header row and one row per record, columns in
// EmissionRecord field order.
func WriteDelimited(w io.Writer, records []domain.EmissionRecord, delim rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = delim
	if err := gocsv.MarshalCSV(records, gocsv.NewSafeCSVWriter(cw)); err != nil {
		return fmt.Errorf("write delimited export: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// ExportFile writes records comma-delimited to dir/ExportFileName. The file
// is staged under a temporary name and renamed into place.
func ExportFile(dir string, records []domain.EmissionRecord) (string, error) {
	var buf bytes.Buffer
	if err := WriteDelimited(&buf, records, CommaDelimiter); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".export-*.csv")
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write export file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("chmod export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}

	path := filepath.Join(dir, ExportFileName)
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("publish export file: %w", err)
	}
	return path, nil
}
