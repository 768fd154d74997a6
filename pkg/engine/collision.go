package engine

import (
	"math"

	"github.com/opd-ai/go-pong/pkg/entity"
	"github.com/opd-ai/go-pong/pkg/event"
	"github.com/opd-ai/go-pong/pkg/physics"
)

// scoreSlack is how far past a side edge the ball may travel before it counts
const scoreSlack = 2

// Contact records what Resolve did during one tick
type Contact struct {
	Cues   []event.Cue
	Scored bool
	Scorer entity.Side
}

// Collider resolves ball and paddle contacts on a field of fixed size.
// PaddleBorder changes between rounds and is read on every call.
type Collider struct {
	Width  int
	Height int
}

// Resolve runs one collision pass in fixed order: right paddle, left paddle,
// top/bottom wall, scoring edges, then the paddle clamps. The ball reacts to
// the first surface it touches only.
func (c Collider) Resolve(border int, ball *entity.Ball, left, right *entity.Paddle) Contact {
	var contact Contact

	switch {
	case c.hitPaddle(ball, right, left):
		contact.Cues = append(contact.Cues, event.PaddleHit)
	case c.hitPaddle(ball, left, right):
		contact.Cues = append(contact.Cues, event.PaddleHit)
	case c.hitWall(ball):
		contact.Cues = append(contact.Cues, event.WallHit)
	default:
		if scorer, ok := c.scoreEdge(ball); ok {
			contact.Scored = true
			contact.Scorer = scorer
		}
	}

	c.clampRight(border, right)
	c.clampLeft(border, left)

	return contact
}

// hitPaddle bounces the ball off p. A paddle travelling toward the ball
// transfers momentum; any contact stops both paddles.
func (c Collider) hitPaddle(ball *entity.Ball, p, other *entity.Paddle) bool {
	pb := p.Bounds()
	bb := ball.Bounds()
	if !bb.Intersects(pb) {
		return false
	}

	ball.SetAngle(math.Pi - ball.Angle)

	toward := -1
	if p.Side == entity.Right {
		ball.SetLocation(pb.X-ball.Diameter(), bb.Y)
	} else {
		ball.SetLocation(pb.X+p.Width(), bb.Y)
		toward = 1
	}

	if p.HDir == toward {
		ball.SetSpeed(physics.ElasticRebound(ball.Speed, p.HSpeed, ball.Mass(), p.Mass()))
	}

	p.Stop()
	other.Stop()
	return true
}

func (c Collider) hitWall(ball *entity.Ball) bool {
	bb := ball.Bounds()
	var y int
	switch {
	case bb.Y < 0:
		y = 0
	case bb.Y > c.Height-ball.Diameter():
		y = c.Height - ball.Diameter()
	default:
		return false
	}

	ball.SetAngle(-ball.Angle)
	ball.SetLocation(int(ball.Position.X), y)
	return true
}

// scoreEdge stops a ball that left the field and reports who scored
func (c Collider) scoreEdge(ball *entity.Ball) (entity.Side, bool) {
	bb := ball.Bounds()
	switch {
	case bb.X < -scoreSlack:
		ball.SetLocation(0, int(ball.Position.Y))
		ball.SetSpeed(0)
		return entity.Right, true
	case bb.X+ball.Diameter() > c.Width+scoreSlack:
		ball.SetLocation(c.Width-ball.Diameter(), int(ball.Position.Y))
		ball.SetSpeed(0)
		return entity.Left, true
	}
	return entity.Left, false
}

// clampRight keeps the right paddle inside [W-border, W-width] x [0, H-length]
func (c Collider) clampRight(border int, p *entity.Paddle) {
	corners := p.Corners()
	w := float64(c.Width)

	if corners[0].X <= w-float64(border) {
		p.Position.X = w - float64(border)
	}
	if corners[1].X >= w {
		p.Position.X = w - float64(p.Width())
	}
	c.clampVertical(p, corners)
}

// clampLeft keeps the left paddle inside [0, border-width] x [0, H-length]
func (c Collider) clampLeft(border int, p *entity.Paddle) {
	corners := p.Corners()

	if corners[0].X <= 0 {
		p.Position.X = 0
	}
	if corners[1].X >= float64(border) {
		p.Position.X = float64(border - p.Width())
	}
	c.clampVertical(p, corners)
}

func (c Collider) clampVertical(p *entity.Paddle, corners [4]physics.Vector2D) {
	if corners[3].Y >= float64(c.Height) {
		p.Position.Y = float64(c.Height - p.Length())
	}
	if corners[0].Y <= 0 {
		p.Position.Y = 0
	}
}
