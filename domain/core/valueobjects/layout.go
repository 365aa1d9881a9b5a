package valueobjects

import (
	"fmt"
	"math"
)

// Position is the layout origin of a tree. Presentation metadata only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPosition creates a position, rejecting non-finite coordinates
func NewPosition(x, y float64) (Position, error) {
	if !finite(x) || !finite(y) {
		return Position{}, fmt.Errorf("position coordinates must be finite")
	}
	return Position{X: x, Y: y}, nil
}

// Bounds is the optional bounding box of a tree
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewBounds creates bounds, rejecting negative or non-finite sizes
func NewBounds(width, height float64) (Bounds, error) {
	if !finite(width) || !finite(height) {
		return Bounds{}, fmt.Errorf("bounds must be finite")
	}
	if width < 0 || height < 0 {
		return Bounds{}, fmt.Errorf("bounds cannot be negative")
	}
	return Bounds{Width: width, Height: height}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
