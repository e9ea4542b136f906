// Package main provides the dotmatrix CLI application.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tealfowl/dotmatrix/internal/cartridge"
	"github.com/tealfowl/dotmatrix/internal/emulator"
	"github.com/tealfowl/dotmatrix/internal/ppu"
	"github.com/tealfowl/dotmatrix/internal/testrom"
)

var (
	// ErrTestFailed indicates a test ROM failed.
	ErrTestFailed = errors.New("test failed")

	// ErrInvalidScale indicates the scale factor is out of valid range.
	ErrInvalidScale = errors.New("scale must be between 1 and 10")
)

// CLI represents the command-line interface structure.
type CLI struct {
	Info InfoCmd `cmd:"" help:"Display cartridge information."`
	Run  RunCmd  `cmd:"" default:"withargs" help:"Run a Game Boy ROM."`
	Test TestCmd `cmd:"" help:"Run a test ROM and report results."`
}

// InfoCmd displays cartridge header information.
type InfoCmd struct {
	ROM string `arg:"" type:"existingfile" help:"Path to ROM file."`
}

// Run executes the info command.
func (c *InfoCmd) Run() error {
	data, err := os.ReadFile(c.ROM)
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}

	header, err := cartridge.ParseHeader(data)
	if err != nil {
		return fmt.Errorf("failed to parse header: %w", err)
	}

	cartType := cartridge.CartridgeType(header.CartridgeType)
	fmt.Printf("ROM Information:\n")
	fmt.Printf("  Title:           %s\n", header.GetTitle())
	fmt.Printf("  Cartridge Type:  %s (0x%02X)\n", cartType, header.CartridgeType)
	fmt.Printf("  ROM Size:        %d KiB (%d banks)\n", header.GetROMSizeBytes()/1024, header.GetROMBanks())
	fmt.Printf("  RAM Size:        %d KiB (%d banks)\n", header.GetRAMSizeBytes()/1024, header.GetRAMBanks())
	fmt.Printf("  Has Battery:     %v\n", cartType.HasBattery())
	fmt.Printf("  CGB Flag:        0x%02X\n", header.CGBFlag)
	fmt.Printf("  SGB Flag:        0x%02X\n", header.SGBFlag)
	fmt.Printf("  Header Checksum: 0x%02X (valid: %v)\n", header.HeaderChecksum, header.VerifyHeaderChecksum(data))

	return nil
}

// RunCmd runs a Game Boy ROM in a window.
type RunCmd struct {
	ROM   string `arg:"" type:"existingfile" help:"Path to ROM file."`
	Scale int    `help:"Display scale factor (1-10)." default:"3"`
}

// Run executes the run command.
func (c *RunCmd) Run() error {
	if c.Scale < 1 || c.Scale > 10 {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, c.Scale)
	}

	data, err := os.ReadFile(c.ROM)
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}

	emu, err := emulator.New(data)
	if err != nil {
		return fmt.Errorf("failed to create emulator: %w", err)
	}

	display := NewDisplay(emu)

	ebiten.SetWindowTitle("dotmatrix - Game Boy Emulator")
	ebiten.SetWindowSize(ppu.ScreenWidth*c.Scale, ppu.ScreenHeight*c.Scale)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60) // close enough to the hardware's ~59.73 Hz

	if err := ebiten.RunGame(display); err != nil {
		if errors.Is(err, ebiten.Termination) {
			return nil
		}
		return fmt.Errorf("emulator error: %w", err)
	}

	return nil
}

// TestCmd runs a test ROM headlessly and reports results.
type TestCmd struct {
	ROM     string `arg:"" type:"existingfile" help:"Path to test ROM file."`
	Timeout int    `default:"30" help:"Timeout in seconds."`
	Verbose bool   `short:"v" help:"Show detailed output."`
}

// Run executes the test command.
func (c *TestCmd) Run() error {
	fmt.Printf("Running test ROM: %s\n", c.ROM)

	timeout := time.Duration(c.Timeout) * time.Second
	result := testrom.Run(c.ROM, timeout)

	fmt.Printf("Result: %s\n", result.String())

	if c.Verbose || !result.IsSuccess() {
		fmt.Printf("\nOutput:\n%s\n", result.Output)
	}

	if !result.IsSuccess() {
		return ErrTestFailed
	}

	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("dotmatrix"),
		kong.Description("A Game Boy (DMG) emulator written in Go."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
