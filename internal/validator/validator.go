// Package validator runs quality checks over extracted tables. Checks never
// reject a table; they report issues alongside it.
package validator

import (
	"context"

	"babinium/internal/domain"
)

// Validator is the interface for a single built-in table check.
type Validator interface {
	Validate(ctx context.Context, data domain.TableData) []domain.TableIssue
	RuleKey() string
	RuleName() string
	Severity() domain.IssueSeverity
}
