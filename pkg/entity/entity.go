// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-pong/pkg/physics"
)

// Side identifies which half of the field an entity belongs to.
type Side int

const (
	Left Side = iota
	Right
)

// String returns the side name used in logs and snapshots
func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Entity is the common surface of everything that moves on the field
type Entity interface {
	Move(dt float64)
	Bounds() physics.Rect
}

var (
	_ Entity = (*Ball)(nil)
	_ Entity = (*Paddle)(nil)
)
