// pkg/render/engo/scene_test.go
package engo

import (
	"testing"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-pong/pkg/config"
	"github.com/opd-ai/go-pong/pkg/engine"
	"github.com/opd-ai/go-pong/pkg/input"
)

type fixedSource struct{ state *engine.GameState }

func (f fixedSource) GetGameState() *engine.GameState { return f.state }

func TestNewGameScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Display.Scale = 3
	cfg.Display.Title = "Pong test"
	router := input.NewRouter(nil, nil)

	scene := NewGameScene(fixedSource{}, router, input.DefaultKeyMap(), cfg, nil, nil)

	if scene.Type() != "PongScene" {
		t.Errorf("Type() = %q", scene.Type())
	}
	if scene.router != router {
		t.Error("router not kept")
	}

	opts := scene.RunOptions()
	if opts.Width != 900 || opts.Height != 900 {
		t.Errorf("window = %dx%d, expected 900x900", opts.Width, opts.Height)
	}
	if opts.Title != "Pong test" || !opts.NotResizable {
		t.Errorf("RunOptions() = %+v", opts)
	}
}

func TestViewport(t *testing.T) {
	tests := []struct {
		name  string
		v     Viewport
		x, y  int
		want  engo.Point
		size  float32
		winW  int
		winH  int
	}{
		{"unit", NewViewport(1), 10, 20, engo.Point{X: 10, Y: 20}, 30, 300, 300},
		{"double", NewViewport(2), 10, 20, engo.Point{X: 20, Y: 40}, 60, 600, 600},
		{"clamped", NewViewport(0), 5, 5, engo.Point{X: 5, Y: 5}, 30, 300, 300},
		{"margin", Viewport{Scale: 2, OffsetX: 8, OffsetY: 4}, 1, 1, engo.Point{X: 10, Y: 6}, 60, 616, 608},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Point(tt.x, tt.y); got != tt.want {
				t.Errorf("Point() = %v, expected %v", got, tt.want)
			}
			if got := tt.v.Size(30); got != tt.size {
				t.Errorf("Size(30) = %v, expected %v", got, tt.size)
			}
			if w, h := tt.v.WindowSize(300, 300); w != tt.winW || h != tt.winH {
				t.Errorf("WindowSize() = %dx%d, expected %dx%d", w, h, tt.winW, tt.winH)
			}
		})
	}
}

func TestPlanBindings(t *testing.T) {
	keys := input.DefaultKeyMap()
	keys["f13"] = input.Advance
	keys["space"] = input.ToggleRandomise

	bound, unknown := planBindings(keys)

	if len(unknown) != 1 || unknown[0] != "f13" {
		t.Errorf("unknown = %v, expected [f13]", unknown)
	}
	if len(bound) != 11 {
		t.Fatalf("bound %d keys, expected 11", len(bound))
	}
	for i := 1; i < len(bound); i++ {
		if bound[i-1].key >= bound[i].key {
			t.Fatalf("bindings not sorted: %q before %q", bound[i-1].key, bound[i].key)
		}
	}

	want := map[string]engo.Key{"w": engo.KeyW, "up": engo.KeyArrowUp, "n": engo.KeyN, "space": engo.KeySpace}
	for _, b := range bound {
		if code, ok := want[b.key]; ok && b.code != code {
			t.Errorf("key %q bound to %v, expected %v", b.key, b.code, code)
		}
		if b.button != "pong:"+b.key {
			t.Errorf("button name = %q", b.button)
		}
	}
}
