package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Depth is the front-to-back axis of the truck-loading grid.
type Depth string

// Horizontal is the left-to-right axis of the truck-loading grid.
type Horizontal string

// Vertical is the floor-to-ceiling axis of the truck-loading grid.
type Vertical string

const (
	DepthFront  Depth = "front"
	DepthMiddle Depth = "middle"
	DepthBack   Depth = "back"

	HorizontalLeft   Horizontal = "left"
	HorizontalCenter Horizontal = "center"
	HorizontalRight  Horizontal = "right"

	VerticalLow  Vertical = "low"
	VerticalMid  Vertical = "mid"
	VerticalHigh Vertical = "high"
)

// ErrInvalidPosition indicates a grid coordinate outside the 27-cell layout.
var ErrInvalidPosition = errors.New("inventory: invalid position")

var (
	depthValues      = []Depth{DepthFront, DepthMiddle, DepthBack}
	horizontalValues = []Horizontal{HorizontalLeft, HorizontalCenter, HorizontalRight}
	verticalValues   = []Vertical{VerticalLow, VerticalMid, VerticalHigh}
)

// Position identifies one of the 27 cells in the truck-loading grid. Cells are
// not exclusive: several boxes may legitimately share one.
type Position struct {
	Depth      Depth
	Horizontal Horizontal
	Vertical   Vertical
}

// NewPosition validates the three axis values and returns a Position.
func NewPosition(depth, horizontal, vertical string) (Position, error) {
	position := Position{
		Depth:      Depth(strings.ToLower(strings.TrimSpace(depth))),
		Horizontal: Horizontal(strings.ToLower(strings.TrimSpace(horizontal))),
		Vertical:   Vertical(strings.ToLower(strings.TrimSpace(vertical))),
	}
	if !position.Valid() {
		return Position{}, fmt.Errorf("%w: %s/%s/%s", ErrInvalidPosition, depth, horizontal, vertical)
	}
	return position, nil
}

// Valid reports whether every axis carries one of its three allowed values.
func (position Position) Valid() bool {
	depthOK := false
	for _, value := range depthValues {
		if position.Depth == value {
			depthOK = true
		}
	}
	horizontalOK := false
	for _, value := range horizontalValues {
		if position.Horizontal == value {
			horizontalOK = true
		}
	}
	verticalOK := false
	for _, value := range verticalValues {
		if position.Vertical == value {
			verticalOK = true
		}
	}
	return depthOK && horizontalOK && verticalOK
}

// String renders the cell as depth-horizontal-vertical, e.g. "front-left-high".
// Activity descriptions embed this form.
func (position Position) String() string {
	return fmt.Sprintf("%s-%s-%s", position.Depth, position.Horizontal, position.Vertical)
}

// AllPositions enumerates every grid cell in a stable order: depth first, then
// horizontal, then vertical.
func AllPositions() []Position {
	positions := make([]Position, 0, len(depthValues)*len(horizontalValues)*len(verticalValues))
	for _, depth := range depthValues {
		for _, horizontal := range horizontalValues {
			for _, vertical := range verticalValues {
				positions = append(positions, Position{
					Depth:      depth,
					Horizontal: horizontal,
					Vertical:   vertical,
				})
			}
		}
	}
	return positions
}
