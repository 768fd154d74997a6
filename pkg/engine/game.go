// pkg/engine/game.go
package engine

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/entity"
	"github.com/opd-ai/go-pong/pkg/event"
	"github.com/opd-ai/go-pong/pkg/input"
	"github.com/opd-ai/go-pong/pkg/logging"
)

// Game represents the core game state and logic. The loop goroutine and
// input handlers share it through EntityLock; everyone else reads snapshots.
type Game struct {
	Config      *config.GameConfig
	EventBus    *event.Bus
	EntityLock  sync.Mutex
	Ball        *entity.Ball
	Left        *entity.Paddle
	Right       *entity.Paddle
	Score       entity.Score
	Match       MatchState
	Border      int
	CurrentTick uint64
	Running     atomic.Bool
	LastTick    atomic.Int64 // unix nanos of the most recent Step

	collider   Collider
	rng        *rand.Rand
	logger     *logging.Logger
	ctx        context.Context
	advanceKey string
	pending    []event.Event
	snapshot   atomic.Pointer[GameState]
}

var _ input.Sink = (*Game)(nil)

// NewGame creates a game ready for its first round. A nil rng is seeded from
// the clock and a nil logger discards output.
func NewGame(cfg *config.GameConfig, rng *rand.Rand, logger *logging.Logger) *Game {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if logger == nil {
		logger = logging.Discard()
	}

	g := &Game{
		Config:   cfg,
		EventBus: event.NewEventBus(),
		collider: Collider{Width: cfg.Field.Width, Height: cfg.Field.Height},
		rng:      rng,
		logger:   logger.WithComponent("engine"),
		ctx:      logging.WithCorrelationID(context.Background(), ""),
	}
	g.advanceKey = g.findAdvanceKey()

	g.reset()
	g.pending = nil
	g.storeSnapshot()
	return g
}

// NewSeededGame creates a game whose rounds are reproducible for a seed
func NewSeededGame(cfg *config.GameConfig, seed uint64, logger *logging.Logger) *Game {
	return NewGame(cfg, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), logger)
}

func (g *Game) findAdvanceKey() string {
	for key, name := range g.Config.Controls.Bindings {
		if a, err := input.ParseAction(name); err == nil && a == input.Advance {
			return key
		}
	}
	return "n"
}

// Start marks the game running and announces the match
func (g *Game) Start(ctx context.Context) {
	g.EntityLock.Lock()
	if ctx != nil {
		g.ctx = logging.WithCorrelationID(ctx, logging.GetCorrelationID(g.ctx))
	}
	g.Running.Store(true)
	g.logger.Info(g.ctx, "match started", "winning_score", g.Config.Rules.WinningScore)
	started := event.NewMatchEvent(event.MatchStarted, g, "", g.Score.Left, g.Score.Right)
	g.EntityLock.Unlock()

	g.EventBus.Publish(started)
}

// Stop marks the game halted
func (g *Game) Stop() {
	g.EntityLock.Lock()
	if !g.Running.Swap(false) {
		g.EntityLock.Unlock()
		return
	}
	ended := event.NewMatchEvent(event.MatchEnded, g, "", g.Score.Left, g.Score.Right)
	g.EntityLock.Unlock()

	g.EventBus.Publish(ended)
}

// IsRunning reports whether a loop is driving the game
func (g *Game) IsRunning() bool {
	return g.Running.Load()
}

// LastTickAt returns when Step last ran, or the zero time if it never has.
func (g *Game) LastTickAt() time.Time {
	n := g.LastTick.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Step advances the simulation by one tick and returns the committed snapshot
func (g *Game) Step() *GameState {
	g.EntityLock.Lock()
	g.stepLocked()
	state := g.storeSnapshot()
	events := g.takePending()
	g.EntityLock.Unlock()

	g.LastTick.Store(time.Now().UnixNano())
	g.publish(events)
	return state
}

// stepLocked runs one tick. The caller holds EntityLock.
func (g *Game) stepLocked() {
	defer func() { g.CurrentTick++ }()

	if g.Match.Phase != InPlay {
		return
	}

	g.Ball.Move(1)
	g.Right.Move(1)
	g.Left.Move(1)

	contact := g.collider.Resolve(g.Border, g.Ball, g.Left, g.Right)
	for _, cue := range contact.Cues {
		g.cue(cue)
	}
	if contact.Scored {
		g.scorePoint(contact.Scorer)
		return
	}

	g.applyFriction()
}

// speedEpsilon absorbs the residue left by repeated friction subtraction,
// so a ball at speed s stops within ceil(s/f) ticks.
const speedEpsilon = 1e-9

// applyFriction slows the ball and detects a ball that died mid-field
func (g *Game) applyFriction() {
	f := g.Config.Physics.Friction
	if next := g.Ball.Speed - f; next > speedEpsilon {
		g.Ball.SetSpeed(next)
		return
	}

	g.Ball.SetSpeed(0)
	x := g.Ball.Bounds().X
	if x > g.Border && x+g.Ball.Diameter() < g.Config.Field.Width-g.Border {
		g.Match.Disabled = true
		g.setPhase(StuckTie)
	}
}

func (g *Game) scorePoint(scorer entity.Side) {
	g.Score.Add(scorer)
	g.Match.Disabled = true
	g.emit(event.NewScoreEvent(g, scorer.String(), g.Score.Left, g.Score.Right))

	if winner, ok := g.Score.Leader(g.Config.Rules.WinningScore); ok {
		if winner == entity.Right {
			g.Match.Won = 1
		} else {
			g.Match.Won = -1
		}
		g.cue(event.Win)
		g.setPhase(GameOver)
		g.emit(event.NewMatchEvent(event.MatchEnded, g, scorer.String(), g.Score.Left, g.Score.Right))
		return
	}

	g.cue(event.Scored)
	g.setPhase(RoundOver)
}

// Press applies a key-down action
func (g *Game) Press(a input.Action) {
	g.EntityLock.Lock()
	switch a {
	case input.ToggleRandomise:
		g.toggleRandomise()
	case input.Advance:
		g.advance()
	default:
		if side, move, ok := a.Paddle(); ok && !g.Match.Disabled {
			g.paddle(side).Press(move)
		}
	}
	g.storeSnapshot()
	events := g.takePending()
	g.EntityLock.Unlock()

	g.publish(events)
}

// Release applies a key-up action. Releases are honoured even while input
// is disabled so no paddle is left with a stuck key.
func (g *Game) Release(a input.Action) {
	side, move, ok := a.Paddle()
	if !ok {
		return
	}

	g.EntityLock.Lock()
	g.paddle(side).Release(move)
	g.storeSnapshot()
	g.EntityLock.Unlock()
}

func (g *Game) paddle(side entity.Side) *entity.Paddle {
	if side == entity.Right {
		return g.Right
	}
	return g.Left
}

func (g *Game) toggleRandomise() {
	g.Match.Randomise = !g.Match.Randomise
	if g.Match.Randomise {
		g.cue(event.RandomiseLoopStart)
	} else {
		g.cue(event.RandomiseLoopStop)
	}
	g.logger.Info(g.ctx, "randomise toggled", "enabled", g.Match.Randomise)
}

// advance moves past the current round: a finished match starts over,
// anything else (including a round still in play) deals a new round.
func (g *Game) advance() {
	if g.Match.Phase == GameOver {
		g.newMatch()
		return
	}
	g.reset()
}

// newMatch clears scores and randomise mode and deals the first round
func (g *Game) newMatch() {
	g.Score.Reset()
	if g.Match.Randomise {
		g.Match.Randomise = false
		g.cue(event.RandomiseLoopStop)
	}
	g.reset()
	g.emit(event.NewMatchEvent(event.MatchStarted, g, "", 0, 0))
}

// reset deals a new round: fresh ball and paddles, score kept
func (g *Game) reset() {
	cfg := g.Config
	g.Border = cfg.Field.PaddleBorder

	ballSpec := entity.BallSpec{Diameter: cfg.Ball.Diameter, Speed: cfg.Ball.Speed}
	fromLeft := g.rng.Float64() < 0.5
	x := cfg.Field.Width - cfg.Ball.SpawnInset - ballSpec.Diameter/2
	if fromLeft {
		x = cfg.Ball.SpawnInset
	}
	g.Ball = entity.NewBall(x, cfg.Field.Height/2-ballSpec.Diameter, ballSpec)

	angle := (g.rng.Float64() - 0.5) * math.Pi / 2
	if !fromLeft {
		angle += math.Pi
	}
	g.Ball.SetAngle(angle)

	paddleSpec := entity.PaddleSpec{
		Length: cfg.Paddle.Length,
		Width:  cfg.Paddle.Width,
		Mass:   cfg.Paddle.Mass,
		Speed:  cfg.Paddle.Speed,
	}
	g.Right = entity.NewPaddle(entity.Right, cfg.Field.Width, cfg.Field.Height, paddleSpec)
	g.Left = entity.NewPaddle(entity.Left, cfg.Field.Width, cfg.Field.Height, paddleSpec)

	g.Match.Colorful = g.Match.Randomise
	if g.Match.Randomise {
		g.randomise()
	}

	g.Match.Won = 0
	g.Match.Disabled = false
	g.setPhase(InPlay)
}

// randomise redraws the border, ball speed and size, and paddle lengths
func (g *Game) randomise() {
	r := g.Config.Randomise
	g.Border = r.BorderMin + int(g.rng.Float64()*float64(r.BorderMax-r.BorderMin))
	g.Ball.SetSpeed(g.rng.Float64()*(r.SpeedMax-r.SpeedMin) + r.SpeedMin)
	g.Ball.SetDiameter(r.DiameterMin + int(g.rng.Float64()*float64(r.DiameterMax-r.DiameterMin)))
	g.Right.SetLength(r.PaddleLengthMin + int(g.rng.Float64()*float64(r.PaddleLengthMax-r.PaddleLengthMin)))
	g.Left.SetLength(r.PaddleLengthMin + int(g.rng.Float64()*float64(r.PaddleLengthMax-r.PaddleLengthMin)))

	g.logger.Debug(g.ctx, "round randomised",
		"border", g.Border,
		"ball_speed", g.Ball.Speed,
		"ball_diameter", g.Ball.Diameter(),
		"right_length", g.Right.Length(),
		"left_length", g.Left.Length())
}

func (g *Game) setPhase(p Phase) {
	from := g.Match.Phase
	g.Match.Phase = p
	if from == p {
		return
	}
	g.logger.Info(g.ctx, "phase changed",
		"from", from.String(),
		"to", p.String(),
		"left_score", g.Score.Left,
		"right_score", g.Score.Right,
		"tick", g.CurrentTick)
	g.emit(event.NewPhaseEvent(g, from.String(), p.String(), g.Score.Left, g.Score.Right))
}

func (g *Game) cue(c event.Cue) {
	g.logger.Debug(g.ctx, "cue", "cue", string(c), "tick", g.CurrentTick)
	g.emit(event.NewCueEvent(g, c))
}

// emit queues an event for delivery once EntityLock is released
func (g *Game) emit(e event.Event) {
	g.pending = append(g.pending, e)
}

func (g *Game) takePending() []event.Event {
	events := g.pending
	g.pending = nil
	return events
}

func (g *Game) publish(events []event.Event) {
	for _, e := range events {
		g.EventBus.Publish(e)
	}
}

// GetGameState returns the most recently committed snapshot
func (g *Game) GetGameState() *GameState {
	return g.snapshot.Load()
}

// storeSnapshot copies the live entities into a new GameState and commits it.
// The caller holds EntityLock.
func (g *Game) storeSnapshot() *GameState {
	state := g.createGameStateSnapshot()
	g.snapshot.Store(state)
	return state
}

func (g *Game) createGameStateSnapshot() *GameState {
	bx, by := g.Ball.Position.Rounded()
	return &GameState{
		Tick:      g.CurrentTick,
		Phase:     g.Match.Phase,
		Won:       g.Match.Won,
		Disabled:  g.Match.Disabled,
		Randomise: g.Match.Randomise,
		Colorful:  g.Match.Colorful,
		Field: FieldState{
			Width:        g.Config.Field.Width,
			Height:       g.Config.Field.Height,
			PaddleBorder: g.Border,
		},
		Ball: BallState{
			X:        g.Ball.Position.X,
			Y:        g.Ball.Position.Y,
			PX:       bx,
			PY:       by,
			Diameter: g.Ball.Diameter(),
			Angle:    g.Ball.Angle,
			Speed:    g.Ball.Speed,
		},
		Left:       paddleState(g.Left),
		Right:      paddleState(g.Right),
		LeftScore:  g.Score.Left,
		RightScore: g.Score.Right,
		AdvanceKey: g.advanceKey,
	}
}

func paddleState(p *entity.Paddle) PaddleState {
	px, py := p.Position.Rounded()
	return PaddleState{
		X:      p.Position.X,
		Y:      p.Position.Y,
		PX:     px,
		PY:     py,
		Width:  p.Width(),
		Length: p.Length(),
		Mass:   p.Mass(),
		HDir:   p.HDir,
		VDir:   p.VDir,
	}
}
