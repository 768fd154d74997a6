package engine

import (
	"fmt"
	"strings"
)

// Phase is the round/match state
type Phase int

const (
	InPlay Phase = iota
	StuckTie
	RoundOver
	GameOver
)

// String returns the snake_case phase name used in logs and JSON
func (p Phase) String() string {
	switch p {
	case InPlay:
		return "in_play"
	case StuckTie:
		return "stuck_tie"
	case RoundOver:
		return "round_over"
	case GameOver:
		return "game_over"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText lets Phase serialise by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// MatchState is owned by a Game. Won is +1 once the right side reaches the
// winning score and -1 for the left side.
type MatchState struct {
	Phase     Phase
	Won       int
	Disabled  bool
	Randomise bool
	Colorful  bool
}

// FieldState describes the field for a frame
type FieldState struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	PaddleBorder int `json:"paddleBorder"`
}

// BallState is a copy of the ball for one frame
type BallState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	PX       int     `json:"px"`
	PY       int     `json:"py"`
	Diameter int     `json:"diameter"`
	Angle    float64 `json:"angle"`
	Speed    float64 `json:"speed"`
}

// PaddleState is a copy of one paddle for one frame
type PaddleState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	PX     int     `json:"px"`
	PY     int     `json:"py"`
	Width  int     `json:"width"`
	Length int     `json:"length"`
	Mass   int     `json:"mass"`
	HDir   int     `json:"hdir"`
	VDir   int     `json:"vdir"`
}

// GameState represents a snapshot of the game state. Renderers and the
// spectator feed only ever see these copies.
type GameState struct {
	Tick       uint64      `json:"tick"`
	Phase      Phase       `json:"phase"`
	Won        int         `json:"won"`
	Disabled   bool        `json:"disabled"`
	Randomise  bool        `json:"randomise"`
	Colorful   bool        `json:"colorful"`
	Field      FieldState  `json:"field"`
	Ball       BallState   `json:"ball"`
	Left       PaddleState `json:"left"`
	Right      PaddleState `json:"right"`
	LeftScore  int         `json:"leftScore"`
	RightScore int         `json:"rightScore"`
	AdvanceKey string      `json:"-"`
}

// ShowBall reports whether the ball is drawn this frame
func (s *GameState) ShowBall() bool {
	return s.Won == 0 && s.Phase != StuckTie
}

// ShowScores reports whether the score counters are drawn
func (s *GameState) ShowScores() bool {
	return s.Won == 0
}

// ShowLeftPaddle reports whether the left paddle is drawn; after a win
// only the winner's paddle stays on screen.
func (s *GameState) ShowLeftPaddle() bool {
	return s.Won == 0 || s.Won == -1
}

// ShowRightPaddle is the right-hand counterpart of ShowLeftPaddle
func (s *GameState) ShowRightPaddle() bool {
	return s.Won == 0 || s.Won == 1
}

// ShowBorders reports whether the paddle border markers are drawn
func (s *GameState) ShowBorders() bool {
	return s.Won == 0
}

// ShowCenterLine reports whether the dividing line is drawn
func (s *GameState) ShowCenterLine() bool {
	return s.Won == 0 && s.Phase == InPlay
}

// Message returns the overlay text for the frame, one line per "\n".
// It is empty while the ball is in play.
func (s *GameState) Message() string {
	key := s.AdvanceKey
	if key == "" {
		key = "n"
	}

	switch s.Phase {
	case StuckTie:
		return fmt.Sprintf("Ball stuck! Press %s to move on.", key)
	case RoundOver:
		return fmt.Sprintf("Press %s to start the next round.", key)
	case GameOver:
		winner := "Player 1 "
		if s.Won == 1 {
			winner = "Player 2 "
		}
		return fmt.Sprintf("%swon %d : %d!\nPress %s to start a new game.", winner, s.LeftScore, s.RightScore, key)
	}
	return ""
}

// MessageLines splits Message into lines
func (s *GameState) MessageLines() []string {
	msg := s.Message()
	if msg == "" {
		return nil
	}
	return strings.Split(msg, "\n")
}
