package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nate123456/proof-editor-sub008/domain/config"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// StatementContent is the trimmed, length-checked text of a statement
type StatementContent struct {
	value string
}

// NewStatementContent creates content with validation using default configuration
func NewStatementContent(text string) (StatementContent, error) {
	return NewStatementContentWithConfig(text, config.DefaultDomainConfig())
}

// NewStatementContentWithConfig creates content with validation and configuration
func NewStatementContentWithConfig(text string, cfg *config.DomainConfig) (StatementContent, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return StatementContent{}, pkgerrors.NewInvalidContent("statement content cannot be empty")
	}

	if length := utf8.RuneCountInString(text); length > cfg.MaxStatementLength {
		return StatementContent{}, pkgerrors.NewInvalidContent(
			fmt.Sprintf("statement content exceeds maximum length of %d characters", cfg.MaxStatementLength)).
			WithDetail("length", length)
	}

	return StatementContent{value: text}, nil
}

// String returns the content text
func (c StatementContent) String() string {
	return c.value
}

// IsEmpty checks if content is empty
func (c StatementContent) IsEmpty() bool {
	return c.value == ""
}

// Equals checks if two contents are equal
func (c StatementContent) Equals(other StatementContent) bool {
	return c.value == other.value
}

// WordCount returns the approximate word count
func (c StatementContent) WordCount() int {
	return len(strings.Fields(c.value))
}

// Summary returns a truncated summary of the content
func (c StatementContent) Summary(maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	if utf8.RuneCountInString(c.value) <= maxLength {
		return c.value
	}
	if maxLength <= 3 {
		return string([]rune(c.value)[:maxLength])
	}
	runes := []rune(c.value)
	return string(runes[:maxLength-3]) + "..."
}
