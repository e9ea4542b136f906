package memory

import (
	"testing"

	"github.com/tealfowl/dotmatrix/internal/cartridge"
	"github.com/tealfowl/dotmatrix/internal/input"
	"github.com/tealfowl/dotmatrix/internal/ppu"
)

// makeROM builds a minimal ROM-only image with a recognizable byte pattern
// in the first bank.
func makeROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00 // ROM only
	rom[0x0148] = 0x00 // 32 KiB
	for i := 0; i < 0x100; i++ {
		rom[i] = uint8(i) //nolint:gosec // pattern bytes
	}
	return rom
}

// setupBus wires a bus with real PPU, joypad, and a ROM-only cartridge.
func setupBus(t *testing.T) (*Bus, *ppu.PPU, *input.Joypad) {
	t.Helper()

	b := NewBus()
	p := ppu.New()
	j := input.New()
	b.SetPPU(p)
	b.SetJoypad(j)

	if err := b.LoadROM(makeROM()); err != nil {
		t.Fatalf("LoadROM() error: %v", err)
	}
	return b, p, j
}

func TestROMReads(t *testing.T) {
	b, _, _ := setupBus(t)

	if got := b.Read(0x0042); got != 0x42 {
		t.Errorf("Read(0x0042) = %02X, want 0x42", got)
	}
}

func TestWRAMReadWrite(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xC000, 0x11)
	b.Write(0xDFFF, 0x22)
	if got := b.Read(0xC000); got != 0x11 {
		t.Errorf("Read(0xC000) = %02X, want 0x11", got)
	}
	if got := b.Read(0xDFFF); got != 0x22 {
		t.Errorf("Read(0xDFFF) = %02X, want 0x22", got)
	}
}

func TestEchoRAM(t *testing.T) {
	b, _, _ := setupBus(t)

	// Every echo address mirrors WRAM 0x2000 below.
	b.Write(0xC123, 0xAB)
	if got := b.Read(0xE123); got != 0xAB {
		t.Errorf("Read(0xE123) = %02X, want 0xAB", got)
	}

	b.Write(0xF000, 0xCD)
	if got := b.Read(0xD000); got != 0xCD {
		t.Errorf("Read(0xD000) = %02X, want 0xCD", got)
	}

	for addr := uint16(0xC000); addr < 0xDE00; addr += 0x101 {
		if b.Read(addr) != b.Read(addr+0x2000) {
			t.Errorf("echo mismatch at %04X", addr)
		}
	}
}

func TestHRAMReadWrite(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFF80, 0x42)
	b.Write(0xFFFE, 0x99)
	if got := b.Read(0xFF80); got != 0x42 {
		t.Errorf("Read(0xFF80) = %02X, want 0x42", got)
	}
	if got := b.Read(0xFFFE); got != 0x99 {
		t.Errorf("Read(0xFFFE) = %02X, want 0x99", got)
	}
}

func TestUnusableRegion(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFEA0, 0x42)
	if got := b.Read(0xFEA0); got != 0xFF {
		t.Errorf("Read(0xFEA0) = %02X, want 0xFF", got)
	}
	if got := b.Read(0xFEFF); got != 0xFF {
		t.Errorf("Read(0xFEFF) = %02X, want 0xFF", got)
	}
}

func TestVRAMRouting(t *testing.T) {
	b, p, _ := setupBus(t)

	b.Write(0x8000, 0x3C)
	if got := p.ReadVRAM(0); got != 0x3C {
		t.Errorf("PPU VRAM[0] = %02X, want 0x3C", got)
	}
	if got := b.Read(0x9FFF); got != p.ReadVRAM(0x1FFF) {
		t.Error("bus and PPU disagree on VRAM tail byte")
	}
}

func TestOAMRouting(t *testing.T) {
	b, p, _ := setupBus(t)

	b.Write(0xFE00, 0x50)
	if got := p.ReadOAM(0); got != 0x50 {
		t.Errorf("PPU OAM[0] = %02X, want 0x50", got)
	}
	if got := b.Read(0xFE00); got != 0x50 {
		t.Errorf("Read(0xFE00) = %02X, want 0x50", got)
	}
}

func TestIERegister(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFFFF, 0x1F)
	if got := b.Read(0xFFFF); got != 0x1F {
		t.Errorf("IE = %02X, want 0x1F", got)
	}
}

func TestIFUpperBitsReadOnes(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFF0F, 0x00)
	if got := b.Read(0xFF0F); got != 0xE0 {
		t.Errorf("IF = %02X, want 0xE0", got)
	}

	b.Write(0xFF0F, 0xFF) // only the low 5 bits stick
	if got := b.Read(0xFF0F); got != 0xFF {
		t.Errorf("IF = %02X, want 0xFF", got)
	}
}

func TestJoypadInterruptFoldedIntoIF(t *testing.T) {
	b, _, j := setupBus(t)

	j.KeyDown(input.ButtonA)
	if got := b.Read(0xFF0F); got&0x10 == 0 {
		t.Errorf("IF = %02X, want joypad bit set", got)
	}

	// The latch is consumed: clearing IF keeps it cleared.
	b.Write(0xFF0F, 0x00)
	if got := b.Read(0xFF0F); got&0x10 != 0 {
		t.Errorf("IF = %02X, joypad bit should stay clear", got)
	}
}

func TestJoypadRegisterRouting(t *testing.T) {
	b, _, j := setupBus(t)

	j.KeyDown(input.ButtonRight)
	b.Write(0xFF00, 0x20) // select directions
	if got := b.Read(0xFF00); got&0x01 != 0 {
		t.Errorf("P1 = %02X, want Right low", got)
	}
}

func TestTimerRegisterRouting(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFF06, 0x42) // TMA
	if got := b.Read(0xFF06); got != 0x42 {
		t.Errorf("TMA = %02X, want 0x42", got)
	}

	// DIV resets on write regardless of value.
	b.Tick(100)
	b.Write(0xFF04, 0x55)
	if got := b.Read(0xFF04); got != 0x00 {
		t.Errorf("DIV = %02X, want 0x00", got)
	}
}

func TestTimerInterruptLandsInIF(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFF04, 0x00) // reset DIV
	b.Write(0xFF05, 0xFF) // TIMA on the brink
	b.Write(0xFF07, 0x05) // enabled, 16 T-cycle period

	b.Tick(4)
	if got := b.Read(0xFF0F); got&0x04 == 0 {
		t.Errorf("IF = %02X, want timer bit set", got)
	}
}

func TestPPURegisterRouting(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFF42, 0x17) // SCY
	if got := b.Read(0xFF42); got != 0x17 {
		t.Errorf("SCY = %02X, want 0x17", got)
	}

	// LY is read-only: a write resets it to zero.
	b.Write(0xFF44, 0x55)
	if got := b.Read(0xFF44); got != 0x00 {
		t.Errorf("LY = %02X, want 0x00", got)
	}

	// STAT writes preserve the read-only low bits.
	before := b.Read(0xFF41) & 0x07
	b.Write(0xFF41, 0x00)
	if got := b.Read(0xFF41) & 0x07; got != before {
		t.Errorf("STAT low bits = %02X, want %02X", got, before)
	}
}

func TestUnmappedIO(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFF7F, 0x42)
	if got := b.Read(0xFF7F); got != 0xFF {
		t.Errorf("Read(0xFF7F) = %02X, want 0xFF", got)
	}
}

func TestSerialLatch(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xFF01, 0x42)
	b.Write(0xFF02, 0x81)
	if got := b.Read(0xFF01); got != 0x42 {
		t.Errorf("SB = %02X, want 0x42", got)
	}
	if got := b.Read(0xFF02); got != 0x81 {
		t.Errorf("SC = %02X, want 0x81", got)
	}
}

func TestOAMDMA(t *testing.T) {
	b, p, _ := setupBus(t)

	// Stage a recognizable pattern in WRAM and trigger DMA from 0xC000.
	for i := uint16(0); i < 0xA0; i++ {
		b.Write(0xC000+i, uint8(i)+1) //nolint:gosec // pattern bytes
	}
	b.Write(0xFF46, 0xC0)

	for i := uint16(0); i < 0xA0; i++ {
		if got := p.ReadOAM(i); got != uint8(i)+1 { //nolint:gosec // pattern bytes
			t.Fatalf("OAM[%02X] = %02X, want %02X", i, got, uint8(i)+1)
		}
	}

	// The DMA register reads back the last source page.
	if got := b.Read(0xFF46); got != 0xC0 {
		t.Errorf("DMA = %02X, want 0xC0", got)
	}
}

func TestOAMDMAFromROM(t *testing.T) {
	b, p, _ := setupBus(t)

	b.Write(0xFF46, 0x00) // DMA from ROM page 0
	for i := uint16(0); i < 0x10; i++ {
		if got := p.ReadOAM(i); got != uint8(i) { //nolint:gosec // pattern bytes
			t.Fatalf("OAM[%02X] = %02X, want %02X", i, got, uint8(i))
		}
	}
}

func TestTickFoldsPPUInterrupts(t *testing.T) {
	b, _, _ := setupBus(t)

	// Run one full frame; the V-Blank entry must appear in IF.
	frames := 0
	for i := 0; i < ppu.DotsPerFrame/4; i++ {
		if b.Tick(1) {
			frames++
		}
	}

	if frames != 1 {
		t.Errorf("frames = %d, want 1", frames)
	}
	if got := b.Read(0xFF0F); got&0x01 == 0 {
		t.Errorf("IF = %02X, want VBlank bit set", got)
	}
}

func TestCartridgeAccessors(t *testing.T) {
	b, _, _ := setupBus(t)

	if b.GetCartridge() == nil {
		t.Error("GetCartridge() = nil after LoadROM")
	}

	cart, err := cartridge.New(makeROM())
	if err != nil {
		t.Fatalf("cartridge.New() error: %v", err)
	}
	b.SetCartridge(cart)
	if b.GetCartridge() != cart {
		t.Error("SetCartridge did not take")
	}
}

func TestReset(t *testing.T) {
	b, _, _ := setupBus(t)

	b.Write(0xC000, 0x42)
	b.Write(0xFF80, 0x42)
	b.Write(0xFFFF, 0x1F)
	b.Write(0xFF0F, 0x1F)

	b.Reset()

	if b.Read(0xC000) != 0 || b.Read(0xFF80) != 0 {
		t.Error("RAM should clear on reset")
	}
	if b.Read(0xFFFF) != 0 {
		t.Error("IE should clear on reset")
	}
	if b.Read(0xFF0F) != 0xE0 {
		t.Error("IF should clear on reset")
	}
	if b.GetCartridge() == nil {
		t.Error("reset must keep the cartridge attached")
	}
}
