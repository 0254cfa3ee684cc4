package dialect

import (
	"fmt"
	"strings"
	"unicode"

	"column-detector/internal/apperrors"
)

const maxIdentifierLength = 255

// ValidateIdentifier enforces the unquoted-identifier allow-list: a letter
// or underscore followed by letters, digits, underscores or dollar signs.
// Names that pass are safe to interpolate without quoting.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", apperrors.ErrInvalidIdentifier)
	}
	if len(name) > maxIdentifierLength {
		return fmt.Errorf("%w: %q exceeds %d bytes", apperrors.ErrInvalidIdentifier, name, maxIdentifierLength)
	}
	for i, r := range name {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '$'):
		default:
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidIdentifier, name)
		}
	}
	return nil
}

// ValidateQuotedIdentifier accepts any non-empty printable name. It is used
// for table and column names, which are always quoted before use.
func ValidateQuotedIdentifier(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", apperrors.ErrInvalidIdentifier)
	}
	if len(name) > maxIdentifierLength {
		return fmt.Errorf("%w: %q exceeds %d bytes", apperrors.ErrInvalidIdentifier, name, maxIdentifierLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q contains control characters", apperrors.ErrInvalidIdentifier, name)
		}
	}
	return nil
}

// quoteWith wraps name in open/close, doubling any embedded close rune.
func quoteWith(name string, open, close string) string {
	return open + strings.ReplaceAll(name, close, close+close) + close
}

// sampleSelect is the DISTINCT non-null projection shared by all dialects.
func sampleSelect(qualifiedTable, quotedColumn string) string {
	return fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s IS NOT NULL ORDER BY 1", quotedColumn, qualifiedTable, quotedColumn)
}

func limitQuery(query string, limit int) string {
	return fmt.Sprintf("%s LIMIT %d", query, limit)
}

// DefaultGetSchemaName returns the configured schema, or fallback when empty.
func DefaultGetSchemaName(input, fallback string) string {
	if input == "" {
		return fallback
	}
	return input
}

// classifyByMessage maps driver messages to sentinels by substring.
// The first matching pattern wins.
func classifyByMessage(err error, patterns []messagePattern) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, p := range patterns {
		if strings.Contains(msg, p.substr) {
			return p.kind
		}
	}
	return nil
}

type messagePattern struct {
	substr string
	kind   error
}
