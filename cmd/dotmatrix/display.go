package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tealfowl/dotmatrix/internal/emulator"
	"github.com/tealfowl/dotmatrix/internal/input"
	"github.com/tealfowl/dotmatrix/internal/ppu"
)

// keyMap binds host keys to Game Boy buttons.
var keyMap = map[ebiten.Key]input.Button{
	ebiten.KeyArrowUp:    input.ButtonUp,
	ebiten.KeyArrowDown:  input.ButtonDown,
	ebiten.KeyArrowLeft:  input.ButtonLeft,
	ebiten.KeyArrowRight: input.ButtonRight,
	ebiten.KeyZ:          input.ButtonA,
	ebiten.KeyX:          input.ButtonB,
	ebiten.KeyEnter:      input.ButtonStart,
	ebiten.KeyBackspace:  input.ButtonSelect,
}

// Display implements the ebiten game interface around an emulator instance.
type Display struct {
	emulator *emulator.Emulator
	screen   *ebiten.Image
}

// NewDisplay creates a display for the emulator.
func NewDisplay(emu *emulator.Emulator) *Display {
	return &Display{
		emulator: emu,
		screen:   ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight),
	}
}

// Update runs one frame of emulation. Called 60 times per second by ebiten.
func (d *Display) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	d.handleInput()
	d.emulator.RunFrame()

	return nil
}

// handleInput forwards the host keyboard state to the joypad.
func (d *Display) handleInput() {
	for key, button := range keyMap {
		if ebiten.IsKeyPressed(key) {
			d.emulator.Joypad.KeyDown(button)
		} else {
			d.emulator.Joypad.KeyUp(button)
		}
	}
}

// Draw presents the PPU's framebuffer. The PPU already produces RGBA8888, so
// the whole frame uploads in one WritePixels call.
func (d *Display) Draw(screen *ebiten.Image) {
	d.screen.WritePixels(d.emulator.PPU.Framebuffer())
	screen.DrawImage(d.screen, nil)
}

// Layout returns the logical screen size; ebiten scales it to the window.
func (d *Display) Layout(_, _ int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}
