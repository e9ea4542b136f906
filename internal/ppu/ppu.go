// Package ppu implements the Game Boy Picture Processing Unit (PPU).
// The PPU owns VRAM and OAM, runs the per-scanline mode machine, and
// rasterizes background, window, and sprite layers into an RGBA framebuffer.
package ppu

const (
	// ScreenWidth is the Game Boy screen width in pixels.
	ScreenWidth = 160
	// ScreenHeight is the Game Boy screen height in pixels.
	ScreenHeight = 144
)

const (
	// ModeHBlank is the PPU mode for H-Blank (end of scanline).
	ModeHBlank = 0
	// ModeVBlank is the PPU mode for V-Blank (vertical blank period).
	ModeVBlank = 1
	// ModeOAMScan is the PPU mode for OAM scan (sprite search).
	ModeOAMScan = 2
	// ModeDrawing is the PPU mode for pixel transfer.
	ModeDrawing = 3
)

const (
	// DotsPerScanline is the total number of T-cycles per scanline.
	DotsPerScanline = 456
	// DotsOAMScan is the duration of mode 2 in T-cycles.
	DotsOAMScan = 80
	// DotsDrawing is the duration of mode 3 in T-cycles.
	DotsDrawing = 172
	// DotsHBlank is the duration of mode 0 in T-cycles.
	DotsHBlank = 204
	// ScanlinesVisible is the number of visible scanlines.
	ScanlinesVisible = 144
	// ScanlinesTotal is the total number of scanlines per frame.
	ScanlinesTotal = 154
	// DotsPerFrame is the total number of T-cycles per frame.
	DotsPerFrame = 70224
)

const (
	// VRAMSize is the size of VRAM in bytes (8 KiB).
	VRAMSize = 0x2000
	// OAMSize is the size of OAM in bytes (40 sprites x 4 bytes).
	OAMSize = 0xA0
)

// LCDC bits.
const (
	LCDCLCDEnable      = 1 << 7 // LCD display enable
	LCDCWindowTileMap  = 1 << 6 // window tile map select (0=0x9800, 1=0x9C00)
	LCDCWindowEnable   = 1 << 5 // window display enable
	LCDCBGTileData     = 1 << 4 // BG/window tile data select (1=0x8000 unsigned)
	LCDCBGTileMap      = 1 << 3 // BG tile map select
	LCDCOBJSize        = 1 << 2 // sprite height (0=8, 1=16)
	LCDCOBJEnable      = 1 << 1 // sprite display enable
	LCDCBGWindowEnable = 1 << 0 // BG display enable
)

// STAT bits.
const (
	STATLYCInterrupt   = 1 << 6 // LYC=LY interrupt enable
	STATMode2Interrupt = 1 << 5 // OAM scan interrupt enable
	STATMode1Interrupt = 1 << 4 // V-Blank interrupt enable
	STATMode0Interrupt = 1 << 3 // H-Blank interrupt enable
	STATLYCFlag        = 1 << 2 // LYC=LY coincidence flag
	STATModeMask       = 0x03
)

// Sprite attribute bits (OAM byte 3).
const (
	SpriteAttrPriority = 1 << 7 // 1 = behind BG colors 1-3
	SpriteAttrYFlip    = 1 << 6
	SpriteAttrXFlip    = 1 << 5
	SpriteAttrPalette  = 1 << 4 // 0=OBP0, 1=OBP1
)

// PPU represents the Game Boy Picture Processing Unit.
type PPU struct {
	vram [VRAMSize]uint8
	oam  [OAMSize]uint8

	// Registers
	lcdc uint8 // LCD control (0xFF40)
	stat uint8 // LCD status (0xFF41)
	scy  uint8 // scroll Y (0xFF42)
	scx  uint8 // scroll X (0xFF43)
	ly   uint8 // current scanline (0xFF44)
	lyc  uint8 // LY compare (0xFF45)
	bgp  uint8 // background palette (0xFF47)
	obp0 uint8 // object palette 0 (0xFF48)
	obp1 uint8 // object palette 1 (0xFF49)
	wy   uint8 // window Y (0xFF4A)
	wx   uint8 // window X + 7 (0xFF4B)

	mode uint8  // current mode (0-3), mirrored into STAT bits 1-0
	dots uint32 // T-cycle accumulator for the current mode

	// Interrupt latches drained by the Bus after each step.
	statInterrupt   bool
	vblankInterrupt bool

	// RGBA8888 output, one frame.
	framebuffer [ScreenWidth * ScreenHeight * 4]uint8

	// Raw BG/window color indices for the line being rasterized; sprite
	// priority compares against these, not the palette-translated shades.
	lineColorIDs [ScreenWidth]uint8

	// Per-scanline sprite scratch, reused across lines.
	spriteBuffer []sprite
}

type sprite struct {
	x, y      int16
	tileIndex uint8
	attrs     uint8
}

// New creates a PPU in the post-boot state.
func New() *PPU {
	p := &PPU{
		lcdc:         0x91,
		bgp:          0xFC,
		obp0:         0xFF,
		obp1:         0xFF,
		spriteBuffer: make([]sprite, 0, 10),
	}
	p.setModeRaw(ModeOAMScan)
	return p
}

// Step advances the PPU by the given number of T-cycles and returns true when
// a full frame has been rendered (entry into V-Blank).
func (p *PPU) Step(tCycles int) bool {
	if p.lcdc&LCDCLCDEnable == 0 {
		// LCD off: hold line 0 in H-Blank and render nothing.
		p.ly = 0
		p.setModeRaw(ModeHBlank)
		p.dots = 0
		return false
	}

	p.dots += uint32(tCycles) //nolint:gosec // step sizes are small and positive
	frameReady := false

	// A single CPU step can cross several mode boundaries.
	for {
		switch p.mode {
		case ModeOAMScan:
			if p.dots < DotsOAMScan {
				return frameReady
			}
			p.dots -= DotsOAMScan
			p.setMode(ModeDrawing)

		case ModeDrawing:
			if p.dots < DotsDrawing {
				return frameReady
			}
			p.dots -= DotsDrawing
			p.setMode(ModeHBlank)
			p.renderScanline()

		case ModeHBlank:
			if p.dots < DotsHBlank {
				return frameReady
			}
			p.dots -= DotsHBlank
			p.setLY(p.ly + 1)

			if p.ly >= ScanlinesVisible {
				p.setMode(ModeVBlank)
				p.vblankInterrupt = true
				frameReady = true
			} else {
				p.setMode(ModeOAMScan)
			}

		case ModeVBlank:
			if p.dots < DotsPerScanline {
				return frameReady
			}
			p.dots -= DotsPerScanline
			p.setLY(p.ly + 1)

			if p.ly >= ScanlinesTotal {
				p.setLY(0)
				p.setMode(ModeOAMScan)
			}
		}
	}
}

// setMode changes the PPU mode, mirrors it into STAT, and latches a STAT
// interrupt when the matching enable bit is set.
func (p *PPU) setMode(mode uint8) {
	p.setModeRaw(mode)

	switch mode {
	case ModeHBlank:
		if p.stat&STATMode0Interrupt != 0 {
			p.statInterrupt = true
		}
	case ModeVBlank:
		if p.stat&STATMode1Interrupt != 0 {
			p.statInterrupt = true
		}
	case ModeOAMScan:
		if p.stat&STATMode2Interrupt != 0 {
			p.statInterrupt = true
		}
	}
}

func (p *PPU) setModeRaw(mode uint8) {
	p.mode = mode & STATModeMask
	p.stat = (p.stat &^ STATModeMask) | p.mode
}

// setLY updates the current scanline and refreshes the LYC coincidence flag.
func (p *PPU) setLY(line uint8) {
	p.ly = line
	p.compareLYC()
}

func (p *PPU) compareLYC() {
	if p.ly == p.lyc {
		p.stat |= STATLYCFlag
		if p.stat&STATLYCInterrupt != 0 {
			p.statInterrupt = true
		}
	} else {
		p.stat &^= STATLYCFlag
	}
}

// ConsumeStatInterrupt reports whether a STAT condition fired since the last
// call and clears the latch.
func (p *PPU) ConsumeStatInterrupt() bool {
	pending := p.statInterrupt
	p.statInterrupt = false
	return pending
}

// ConsumeVBlankInterrupt reports whether V-Blank was entered since the last
// call and clears the latch.
func (p *PPU) ConsumeVBlankInterrupt() bool {
	pending := p.vblankInterrupt
	p.vblankInterrupt = false
	return pending
}

// ReadVRAM reads a byte from VRAM (offset from 0x8000).
func (p *PPU) ReadVRAM(addr uint16) uint8 {
	if addr < VRAMSize {
		return p.vram[addr]
	}
	return 0xFF
}

// WriteVRAM writes a byte to VRAM (offset from 0x8000).
func (p *PPU) WriteVRAM(addr uint16, value uint8) {
	if addr < VRAMSize {
		p.vram[addr] = value
	}
}

// ReadOAM reads a byte from OAM (offset from 0xFE00).
func (p *PPU) ReadOAM(addr uint16) uint8 {
	if addr < OAMSize {
		return p.oam[addr]
	}
	return 0xFF
}

// WriteOAM writes a byte to OAM (offset from 0xFE00).
func (p *PPU) WriteOAM(addr uint16, value uint8) {
	if addr < OAMSize {
		p.oam[addr] = value
	}
}

// ReadRegister reads a PPU register by bus address.
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80 // bit 7 is always 1
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

// WriteRegister writes a PPU register by bus address.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0xFF40:
		wasEnabled := p.lcdc&LCDCLCDEnable != 0
		p.lcdc = value
		// Turning the LCD off parks the PPU on line 0 in H-Blank.
		if wasEnabled && value&LCDCLCDEnable == 0 {
			p.ly = 0
			p.setModeRaw(ModeHBlank)
			p.dots = 0
		}
	case 0xFF41:
		// Bits 2-0 (mode + coincidence) are read-only.
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		// LY is read-only; writing resets it.
		p.setLY(0)
	case 0xFF45:
		p.lyc = value
		p.compareLYC()
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}

// Framebuffer returns the RGBA8888 pixel data for the most recent frame.
func (p *PPU) Framebuffer() []uint8 {
	return p.framebuffer[:]
}

// Reset restores the post-boot state and clears all video memory.
func (p *PPU) Reset() {
	p.vram = [VRAMSize]uint8{}
	p.oam = [OAMSize]uint8{}
	p.lcdc = 0x91
	p.stat = 0
	p.scy = 0
	p.scx = 0
	p.ly = 0
	p.lyc = 0
	p.bgp = 0xFC
	p.obp0 = 0xFF
	p.obp1 = 0xFF
	p.wy = 0
	p.wx = 0
	p.setModeRaw(ModeOAMScan)
	p.dots = 0
	p.statInterrupt = false
	p.vblankInterrupt = false
	p.framebuffer = [ScreenWidth * ScreenHeight * 4]uint8{}
}
