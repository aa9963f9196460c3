package main

import (
	"encoding/json"
	"fmt"
	"io"

	"babinium/internal/csvexport"
	"babinium/internal/domain"
	"babinium/internal/render"
	"babinium/internal/validator"
	"babinium/internal/xlsxexport"
)

// writeIssues lists table issues followed by a per-severity count.
func writeIssues(w io.Writer, issues []domain.TableIssue) {
	if len(issues) == 0 {
		return
	}
	for _, issue := range issues {
		fmt.Fprintf(w, "%s: %s\n", issue.Severity, issue.Message)
	}
	counts := validator.Summary(issues)
	fmt.Fprintf(w, "%d warning(s), %d info\n",
		counts[domain.IssueSeverityWarning], counts[domain.IssueSeverityInfo])
}

func writeResult(w io.Writer, format domain.ExportFormat, data domain.TableData, bom bool) error {
	switch format {
	case domain.ExportFormatTable:
		return render.Table(w, data)
	case domain.ExportFormatCSV:
		return csvexport.Export(w, data, bom)
	case domain.ExportFormatXLSX:
		return xlsxexport.Export(w, data)
	case domain.ExportFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
