package ports

import (
	"errors"
	"io"
	"strings"

	"github.com/telconova/portal/internal/domains/orders/domain"
)

type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseExportFormat defaults to xlsx when raw is empty.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", ErrUnsupportedFormat
}

// ContentType is the media type of an export.
func (f ExportFormat) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Exporter renders orders as a document.
type Exporter interface {
	Write(w io.Writer, format ExportFormat, orders []domain.EnrichedOrder) error
}
