package valueobjects

import (
	"fmt"
	"unicode/utf8"

	"github.com/nate123456/proof-editor-sub008/domain/config"
	pkgerrors "github.com/nate123456/proof-editor-sub008/pkg/errors"
)

// SideLabels annotate an argument with rule names or citations
type SideLabels struct {
	left  string
	right string
}

// SideLabelsUpdate is a partial change; nil fields are left untouched
type SideLabelsUpdate struct {
	Left  *string
	Right *string
}

// NewSideLabels creates side labels with validation using default configuration
func NewSideLabels(left, right string) (SideLabels, error) {
	return NewSideLabelsWithConfig(left, right, config.DefaultDomainConfig())
}

// NewSideLabelsWithConfig creates side labels with validation and configuration
func NewSideLabelsWithConfig(left, right string, cfg *config.DomainConfig) (SideLabels, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if err := checkLabel("left", left, cfg.MaxSideLabelLength); err != nil {
		return SideLabels{}, err
	}
	if err := checkLabel("right", right, cfg.MaxSideLabelLength); err != nil {
		return SideLabels{}, err
	}
	return SideLabels{left: left, right: right}, nil
}

// Apply returns a copy with the update's present fields replaced
func (l SideLabels) Apply(update SideLabelsUpdate, cfg *config.DomainConfig) (SideLabels, error) {
	left, right := l.left, l.right
	if update.Left != nil {
		left = *update.Left
	}
	if update.Right != nil {
		right = *update.Right
	}
	return NewSideLabelsWithConfig(left, right, cfg)
}

// Left returns the left label
func (l SideLabels) Left() string { return l.left }

// Right returns the right label
func (l SideLabels) Right() string { return l.right }

// IsEmpty reports whether neither label is set
func (l SideLabels) IsEmpty() bool { return l.left == "" && l.right == "" }

// Equals checks if two label pairs are equal
func (l SideLabels) Equals(other SideLabels) bool {
	return l.left == other.left && l.right == other.right
}

func checkLabel(side, label string, max int) error {
	if utf8.RuneCountInString(label) > max {
		return pkgerrors.NewInvalidContent(
			fmt.Sprintf("%s side label exceeds maximum length of %d characters", side, max)).
			WithDetail("side", side)
	}
	return nil
}
