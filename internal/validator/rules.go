package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"babinium/internal/domain"
)

// consistentColumnsValidator flags rows whose keys differ from the first row.
// Missing columns render empty; extra columns are not shown at all.
type consistentColumnsValidator struct{}

func (v *consistentColumnsValidator) RuleKey() string  { return "columns.consistent" }
func (v *consistentColumnsValidator) RuleName() string { return "Consistent columns" }
func (v *consistentColumnsValidator) Severity() domain.IssueSeverity {
	return domain.IssueSeverityWarning
}

func (v *consistentColumnsValidator) Validate(_ context.Context, data domain.TableData) []domain.TableIssue {
	if len(data) < 2 {
		return nil
	}
	columns := data.Columns()
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}

	var issues []domain.TableIssue
	for i := 1; i < len(data); i++ {
		for _, c := range columns {
			if _, ok := data[i].Get(c); !ok {
				issues = append(issues, v.issue(i, c, fmt.Sprintf("row %d has no value for column %q", i+1, c)))
			}
		}
		for _, k := range data[i].Keys() {
			if !known[k] {
				issues = append(issues, v.issue(i, k, fmt.Sprintf("row %d has column %q that is not in the header and will not be shown", i+1, k)))
			}
		}
	}
	return issues
}

func (v *consistentColumnsValidator) issue(row int, column, msg string) domain.TableIssue {
	return domain.TableIssue{Rule: v.RuleKey(), Severity: v.Severity(), Row: row, Column: column, Message: msg}
}

// scalarCellsValidator flags nested objects or arrays inside cells.
type scalarCellsValidator struct{}

func (v *scalarCellsValidator) RuleKey() string                { return "cells.scalar" }
func (v *scalarCellsValidator) RuleName() string               { return "Scalar cells" }
func (v *scalarCellsValidator) Severity() domain.IssueSeverity { return domain.IssueSeverityWarning }

func (v *scalarCellsValidator) Validate(_ context.Context, data domain.TableData) []domain.TableIssue {
	var issues []domain.TableIssue
	for i := range data {
		for _, k := range data[i].Keys() {
			val, _ := data[i].Get(k)
			if _, nested := val.(json.RawMessage); nested {
				issues = append(issues, domain.TableIssue{
					Rule:     v.RuleKey(),
					Severity: v.Severity(),
					Row:      i,
					Column:   k,
					Message:  fmt.Sprintf("row %d column %q holds nested data and is shown as raw JSON", i+1, k),
				})
			}
		}
	}
	return issues
}

// blankRowsValidator flags rows where every cell is null or empty.
type blankRowsValidator struct{}

func (v *blankRowsValidator) RuleKey() string                { return "rows.blank" }
func (v *blankRowsValidator) RuleName() string               { return "Blank rows" }
func (v *blankRowsValidator) Severity() domain.IssueSeverity { return domain.IssueSeverityInfo }

func (v *blankRowsValidator) Validate(_ context.Context, data domain.TableData) []domain.TableIssue {
	var issues []domain.TableIssue
	for i := range data {
		if isBlank(data[i]) {
			issues = append(issues, domain.TableIssue{
				Rule:     v.RuleKey(),
				Severity: v.Severity(),
				Row:      i,
				Message:  fmt.Sprintf("row %d is empty", i+1),
			})
		}
	}
	return issues
}

func isBlank(row domain.TableRow) bool {
	for _, k := range row.Keys() {
		val, _ := row.Get(k)
		if strings.TrimSpace(domain.FormatCell(val)) != "" {
			return false
		}
	}
	return true
}
