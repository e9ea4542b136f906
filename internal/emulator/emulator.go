// Package emulator wires the CPU, memory bus, PPU, joypad, and cartridge
// into a runnable Game Boy and drives them on the shared cycle clock.
package emulator

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/tealfowl/dotmatrix/internal/cartridge"
	"github.com/tealfowl/dotmatrix/internal/cpu"
	"github.com/tealfowl/dotmatrix/internal/input"
	"github.com/tealfowl/dotmatrix/internal/memory"
	"github.com/tealfowl/dotmatrix/internal/ppu"
)

const (
	// cyclesPerIteration is how many M-cycles to run between serial-output
	// checks in headless mode; roughly 10 ms of emulated time.
	cyclesPerIteration = 10000

	// maxSerialBufferSize bounds the serial capture buffer.
	maxSerialBufferSize = 64 * 1024

	initialSerialBufferCapacity = 1024

	// stableOutputDuration is how long output must stay unchanged before a
	// headless run treats it as final.
	stableOutputDuration = 3 * time.Second
)

var (
	// ErrTimeout indicates a headless run produced no output in time.
	ErrTimeout = errors.New("timeout waiting for serial output")

	// Test ROM completion markers.
	passedBytes = []byte("Passed")
	failedBytes = []byte("Failed")
)

// Emulator represents one Game Boy instance.
type Emulator struct {
	CPU    *cpu.CPU
	Bus    *memory.Bus
	PPU    *ppu.PPU
	Joypad *input.Joypad
	Cart   cartridge.Cartridge

	// Serial output capture for test ROMs that report through SB/SC.
	serialOutput []byte
}

// New creates an emulator instance from raw ROM data.
func New(romData []byte) (*Emulator, error) {
	cart, err := cartridge.New(romData)
	if err != nil {
		return nil, fmt.Errorf("failed to load cartridge: %w", err)
	}

	e := &Emulator{
		Cart:         cart,
		PPU:          ppu.New(),
		Joypad:       input.New(),
		serialOutput: make([]byte, 0, initialSerialBufferCapacity),
	}

	bus := memory.NewBus()
	bus.SetCartridge(cart)
	bus.SetPPU(e.PPU)
	bus.SetJoypad(e.Joypad)
	e.Bus = bus

	e.CPU = cpu.New(bus)

	return e, nil
}

// Step executes one CPU instruction, advances the bus-side hardware by the
// cycles it consumed, and returns true when a frame completed.
func (e *Emulator) Step() bool {
	mCycles := e.CPU.Step()
	return e.Bus.Tick(mCycles)
}

// RunFrame runs the emulator until the PPU delivers a complete frame. With
// the LCD disabled no frame ever completes, so one frame's worth of cycles
// serves as the fallback budget.
func (e *Emulator) RunFrame() {
	budget := ppu.DotsPerFrame
	for budget > 0 {
		mCycles := e.CPU.Step()
		if e.Bus.Tick(mCycles) {
			return
		}
		budget -= mCycles * 4
	}
}

// RunCycles runs the emulator for at least the given number of M-cycles.
func (e *Emulator) RunCycles(mCycles uint64) {
	target := e.CPU.Cycles + mCycles
	for e.CPU.Cycles < target {
		e.Step()
	}
	e.captureSerialOutput()
}

// RunUntilOutput runs headlessly until serial output stabilizes, a
// completion marker appears, or the timeout expires. Used by the test-ROM
// runner; Blargg's suites print "Passed" or "Failed" over the link port.
func (e *Emulator) RunUntilOutput(timeout time.Duration) (string, error) {
	deadline := time.Now().Add(timeout)
	lastLen := 0
	lastChange := time.Now()

	for {
		if time.Now().After(deadline) {
			if len(e.serialOutput) > 0 {
				return string(e.serialOutput), nil
			}
			return "", ErrTimeout
		}

		e.RunCycles(cyclesPerIteration)

		if len(e.serialOutput) > lastLen {
			lastLen = len(e.serialOutput)
			lastChange = time.Now()

			if bytes.Contains(e.serialOutput, passedBytes) || bytes.Contains(e.serialOutput, failedBytes) {
				return string(e.serialOutput), nil
			}
		}

		if len(e.serialOutput) > 0 && time.Since(lastChange) > stableOutputDuration {
			return string(e.serialOutput), nil
		}
	}
}

// captureSerialOutput drains a byte published through the serial registers:
// SB (0xFF01) holds the data, SC (0xFF02) bit 7 requests the transfer.
func (e *Emulator) captureSerialOutput() {
	sc := e.Bus.Read(0xFF02)
	if sc&0x80 == 0 {
		return
	}

	if len(e.serialOutput) < maxSerialBufferSize {
		e.serialOutput = append(e.serialOutput, e.Bus.Read(0xFF01))
	}

	e.Bus.Write(0xFF02, sc&0x7F)
}

// GetSerialOutput returns the accumulated serial output.
func (e *Emulator) GetSerialOutput() string {
	return string(e.serialOutput)
}

// Reset restores the whole machine to its boot state. Cartridge banking
// state is left as-is, like pulling the reset line on real hardware.
func (e *Emulator) Reset() {
	e.Bus.Reset()
	e.PPU.Reset()
	e.CPU = cpu.New(e.Bus)
	e.serialOutput = e.serialOutput[:0]
}
