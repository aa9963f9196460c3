package validator

import (
	"context"

	"babinium/internal/domain"
)

// Engine runs every registered check over a table.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Check returns the issues found in data, grouped by rule key and then by row.
func (e *Engine) Check(ctx context.Context, data domain.TableData) []domain.TableIssue {
	var issues []domain.TableIssue
	for _, v := range e.registry.All() {
		if ctx.Err() != nil {
			break
		}
		issues = append(issues, v.Validate(ctx, data)...)
	}
	return issues
}

// Summary counts issues per severity.
func Summary(issues []domain.TableIssue) map[domain.IssueSeverity]int {
	out := make(map[domain.IssueSeverity]int)
	for i := range issues {
		out[issues[i].Severity]++
	}
	return out
}
