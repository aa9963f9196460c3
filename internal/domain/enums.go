package domain

import "strings"

// ImageMimePrefix is the prefix every accepted declared content type must carry.
const ImageMimePrefix = "image/"

// IsImageMimeType reports whether a declared content type denotes an image.
func IsImageMimeType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), ImageMimePrefix)
}

// ExportFormat selects how extracted table data is delivered.
type ExportFormat string

const (
	ExportFormatTable ExportFormat = "table"
	ExportFormatCSV   ExportFormat = "csv"
	ExportFormatXLSX  ExportFormat = "xlsx"
	ExportFormatJSON  ExportFormat = "json"
)

// ValidExportFormats lists the accepted export formats.
var ValidExportFormats = map[ExportFormat]bool{
	ExportFormatTable: true,
	ExportFormatCSV:   true,
	ExportFormatXLSX:  true,
	ExportFormatJSON:  true,
}

// IssueSeverity ranks a table quality issue.
type IssueSeverity string

const (
	IssueSeverityWarning IssueSeverity = "warning"
	IssueSeverityInfo    IssueSeverity = "info"
)
