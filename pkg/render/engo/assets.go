// pkg/render/engo/assets.go
package engo

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"
)

// fontURL is the virtual path the embedded HUD font is registered under
const fontURL = "gomono.ttf"

// AssetManager owns the HUD fonts and the shape drawables
type AssetManager struct {
	scale float32
	fonts map[int]*common.Font
}

// NewAssetManager creates a new asset manager
func NewAssetManager(scale float32) *AssetManager {
	return &AssetManager{
		scale: scale,
		fonts: make(map[int]*common.Font),
	}
}

// LoadAssets registers the embedded Go Mono font with engo's file loader
func (am *AssetManager) LoadAssets() error {
	if err := engo.Files.LoadReaderData(fontURL, bytes.NewReader(gomono.TTF)); err != nil {
		return fmt.Errorf("failed to load HUD font: %w", err)
	}
	return nil
}

// Font returns the HUD font at a nominal field size, creating it on first use
func (am *AssetManager) Font(size int) (*common.Font, error) {
	if f, ok := am.fonts[size]; ok {
		return f, nil
	}

	f := &common.Font{
		URL:  fontURL,
		FG:   color.White,
		Size: float64(float32(size) * am.scale),
	}
	if err := f.CreatePreloaded(); err != nil {
		return nil, fmt.Errorf("failed to create font size %d: %w", size, err)
	}
	am.fonts[size] = f
	return f, nil
}

// Rect returns the drawable for lines and paddles
func (am *AssetManager) Rect() common.Drawable {
	return common.Rectangle{}
}

// Ball returns the drawable for the ball
func (am *AssetManager) Ball() common.Drawable {
	return common.Circle{}
}
