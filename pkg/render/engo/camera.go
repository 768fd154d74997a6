// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/engo"
)

// Viewport maps field coordinates onto the window. The field never
// scrolls, so this is a fixed scale plus an optional margin.
type Viewport struct {
	Scale   float32
	OffsetX float32
	OffsetY float32
}

// NewViewport returns a viewport for an integer window scale
func NewViewport(scale int) Viewport {
	if scale < 1 {
		scale = 1
	}
	return Viewport{Scale: float32(scale)}
}

// Point converts a field position to window coordinates
func (v Viewport) Point(x, y int) engo.Point {
	return engo.Point{
		X: float32(x)*v.Scale + v.OffsetX,
		Y: float32(y)*v.Scale + v.OffsetY,
	}
}

// Size scales a field length
func (v Viewport) Size(n int) float32 {
	return float32(n) * v.Scale
}

// WindowSize returns the window dimensions for a field
func (v Viewport) WindowSize(fieldWidth, fieldHeight int) (int, int) {
	return int(v.Size(fieldWidth) + 2*v.OffsetX), int(v.Size(fieldHeight) + 2*v.OffsetY)
}
