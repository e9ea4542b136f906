// Package memory implements the Game Boy memory bus: address decoding,
// WRAM/HRAM, interrupt flag plumbing, OAM DMA, and timer register routing.
package memory

import (
	"errors"
	"fmt"

	"github.com/tealfowl/dotmatrix/internal/cartridge"
	"github.com/tealfowl/dotmatrix/internal/timer"
)

// Interrupt bit positions in IE/IF.
const (
	InterruptVBlank uint8 = 0
	InterruptSTAT   uint8 = 1
	InterruptTimer  uint8 = 2
	InterruptSerial uint8 = 3
	InterruptJoypad uint8 = 4
)

// PPU is the bus-facing surface of the Picture Processing Unit.
type PPU interface {
	ReadVRAM(addr uint16) uint8
	WriteVRAM(addr uint16, value uint8)
	ReadOAM(addr uint16) uint8
	WriteOAM(addr uint16, value uint8)
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
	Step(tCycles int) bool
	ConsumeStatInterrupt() bool
	ConsumeVBlankInterrupt() bool
}

// Joypad is the bus-facing surface of the joypad matrix.
type Joypad interface {
	Read() uint8
	Write(value uint8)
	ConsumeInterrupt() bool
}

// Bus represents the Game Boy memory bus. It exclusively owns WRAM, HRAM,
// the interrupt registers, and the timer, and composes the PPU, joypad, and
// cartridge behind the CPU-visible address map.
type Bus struct {
	cartridge cartridge.Cartridge
	ppu       PPU
	joypad    Joypad
	timer     *timer.Timer

	wram [0x2000]uint8 // 0xC000-0xDFFF, mirrored at 0xE000-0xFDFF
	hram [0x7F]uint8   // 0xFF80-0xFFFE

	ifFlags uint8 // 0xFF0F, low 5 bits
	ie      uint8 // 0xFFFF

	// Serial registers, stored so test ROMs can publish results through SB/SC.
	sb uint8 // 0xFF01
	sc uint8 // 0xFF02

	dma uint8 // last value written to 0xFF46
}

// NewBus creates a memory bus with its own timer; the timer's overflow
// requests land directly in IF.
func NewBus() *Bus {
	b := &Bus{}
	b.timer = timer.New(func() {
		b.RequestInterrupt(InterruptTimer)
	})
	return b
}

// SetCartridge attaches the cartridge.
func (b *Bus) SetCartridge(cart cartridge.Cartridge) {
	b.cartridge = cart
}

// SetPPU attaches the PPU.
func (b *Bus) SetPPU(ppu PPU) {
	b.ppu = ppu
}

// SetJoypad attaches the joypad.
func (b *Bus) SetJoypad(joypad Joypad) {
	b.joypad = joypad
}

// Timer returns the bus-owned timer.
func (b *Bus) Timer() *timer.Timer {
	return b.timer
}

// RequestInterrupt sets the given interrupt's bit in IF.
func (b *Bus) RequestInterrupt(interrupt uint8) {
	b.ifFlags |= 1 << interrupt
}

// Tick advances the bus-side hardware by the M-cycles one CPU step consumed:
// the timer sees M-cycles, the PPU sees T-cycles, and any interrupt requests
// they latched are folded into IF. Returns true when the PPU finished a frame.
func (b *Bus) Tick(mCycles int) bool {
	b.timer.Step(mCycles)

	frameReady := false
	if b.ppu != nil {
		frameReady = b.ppu.Step(mCycles * 4)
		if b.ppu.ConsumeVBlankInterrupt() {
			b.RequestInterrupt(InterruptVBlank)
		}
		if b.ppu.ConsumeStatInterrupt() {
			b.RequestInterrupt(InterruptSTAT)
		}
	}
	return frameReady
}

// Read reads a byte from the memory bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	// ROM banks (0000-7FFF), handled by the cartridge
	case addr < 0x8000:
		if b.cartridge != nil {
			return b.cartridge.Read(addr)
		}
		return 0xFF

	// VRAM (8000-9FFF)
	case addr < 0xA000:
		if b.ppu != nil {
			return b.ppu.ReadVRAM(addr - 0x8000)
		}
		return 0xFF

	// External RAM (A000-BFFF), handled by the cartridge
	case addr < 0xC000:
		if b.cartridge != nil {
			return b.cartridge.Read(addr)
		}
		return 0xFF

	// Work RAM (C000-DFFF)
	case addr < 0xE000:
		return b.wram[addr-0xC000]

	// Echo RAM (E000-FDFF), mirror of C000-DDFF
	case addr < 0xFE00:
		return b.wram[addr-0xE000]

	// OAM (FE00-FE9F)
	case addr < 0xFEA0:
		if b.ppu != nil {
			return b.ppu.ReadOAM(addr - 0xFE00)
		}
		return 0xFF

	// Not usable (FEA0-FEFF)
	case addr < 0xFF00:
		return 0xFF

	// I/O registers (FF00-FF7F)
	case addr < 0xFF80:
		return b.readIO(addr)

	// High RAM (FF80-FFFE)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]

	// Interrupt enable (FFFF)
	default:
		return b.ie
	}
}

// Write writes a byte to the memory bus.
func (b *Bus) Write(addr uint16, value uint8) {
	switch {
	// MBC control registers (0000-7FFF)
	case addr < 0x8000:
		if b.cartridge != nil {
			b.cartridge.Write(addr, value)
		}

	// VRAM (8000-9FFF)
	case addr < 0xA000:
		if b.ppu != nil {
			b.ppu.WriteVRAM(addr-0x8000, value)
		}

	// External RAM (A000-BFFF)
	case addr < 0xC000:
		if b.cartridge != nil {
			b.cartridge.Write(addr, value)
		}

	// Work RAM (C000-DFFF)
	case addr < 0xE000:
		b.wram[addr-0xC000] = value

	// Echo RAM (E000-FDFF)
	case addr < 0xFE00:
		b.wram[addr-0xE000] = value

	// OAM (FE00-FE9F)
	case addr < 0xFEA0:
		if b.ppu != nil {
			b.ppu.WriteOAM(addr-0xFE00, value)
		}

	// Not usable (FEA0-FEFF)
	case addr < 0xFF00:
		// writes ignored

	// I/O registers (FF00-FF7F)
	case addr < 0xFF80:
		b.writeIO(addr, value)

	// High RAM (FF80-FFFE)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value

	// Interrupt enable (FFFF)
	default:
		b.ie = value
	}
}

// readIO reads an I/O register.
func (b *Bus) readIO(addr uint16) uint8 {
	switch addr {
	case 0xFF00:
		if b.joypad != nil {
			return b.joypad.Read()
		}
		return 0xFF

	case 0xFF01:
		return b.sb
	case 0xFF02:
		return b.sc

	case timer.DIV, timer.TIMA, timer.TMA, timer.TAC:
		return b.timer.Read(addr)

	case 0xFF0F:
		// A latched joypad press appears as bit 4 when IF is observed.
		if b.joypad != nil && b.joypad.ConsumeInterrupt() {
			b.ifFlags |= 1 << InterruptJoypad
		}
		return b.ifFlags | 0xE0 // bits 7-5 are unwired and read 1

	case 0xFF46:
		return b.dma

	case 0xFF40, 0xFF41, 0xFF42, 0xFF43, 0xFF44, 0xFF45, 0xFF47, 0xFF48, 0xFF49, 0xFF4A, 0xFF4B:
		if b.ppu != nil {
			return b.ppu.ReadRegister(addr)
		}
		return 0xFF

	default:
		return 0xFF
	}
}

// writeIO writes an I/O register.
func (b *Bus) writeIO(addr uint16, value uint8) {
	switch addr {
	case 0xFF00:
		if b.joypad != nil {
			b.joypad.Write(value)
		}

	case 0xFF01:
		b.sb = value
	case 0xFF02:
		b.sc = value

	case timer.DIV, timer.TIMA, timer.TMA, timer.TAC:
		b.timer.Write(addr, value)

	case 0xFF0F:
		b.ifFlags = value & 0x1F

	case 0xFF46:
		b.dma = value
		b.performDMA(value)

	case 0xFF40, 0xFF41, 0xFF42, 0xFF43, 0xFF44, 0xFF45, 0xFF47, 0xFF48, 0xFF49, 0xFF4A, 0xFF4B:
		if b.ppu != nil {
			b.ppu.WriteRegister(addr, value)
		}

	default:
		// unmapped I/O: writes ignored
	}
}

// performDMA copies 160 bytes from sourceHigh<<8 into OAM. The transfer is
// executed instantaneously; the CPU lockout window is not modeled.
func (b *Bus) performDMA(sourceHigh uint8) {
	if b.ppu == nil {
		return
	}
	base := uint16(sourceHigh) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.ppu.WriteOAM(i, b.Read(base+i))
	}
}

// ErrROMLoadFailed indicates ROM loading failed.
var ErrROMLoadFailed = errors.New("ROM loading failed")

// LoadROM creates a cartridge from ROM data and attaches it.
func (b *Bus) LoadROM(rom []byte) error {
	cart, err := cartridge.New(rom)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrROMLoadFailed, err)
	}

	b.cartridge = cart
	return nil
}

// GetCartridge returns the currently attached cartridge.
func (b *Bus) GetCartridge() cartridge.Cartridge {
	return b.cartridge
}

// Reset clears bus-owned state while keeping the attached components.
// Cartridge RAM is left alone.
func (b *Bus) Reset() {
	clear(b.wram[:])
	clear(b.hram[:])
	b.ifFlags = 0
	b.ie = 0
	b.sb = 0
	b.sc = 0
	b.dma = 0
	b.timer.Reset()
}
