package cartridge

import (
	"errors"
	"fmt"
	"os"
)

// Cartridge maps the CPU-visible cartridge address space: ROM at
// 0x0000-0x7FFF and external RAM at 0xA000-0xBFFF.
type Cartridge interface {
	// Read reads a byte from the cartridge address space
	Read(addr uint16) uint8

	// Write writes a byte to the cartridge address space (MBC control or RAM)
	Write(addr uint16, value uint8)

	// Header returns the parsed cartridge header
	Header() *Header
}

// ErrROMTooLarge indicates the ROM size exceeds the maximum allowed size.
var ErrROMTooLarge = errors.New("ROM size exceeds maximum allowed size of 8 MiB")

// New creates a cartridge from raw ROM data. The mapper is selected by header
// byte 0x0147: ROM-only types map straight through, MBC1 types get banking,
// and anything unrecognized falls back to MBC1 with a warning (most titles
// that reach that path use an MBC1-compatible register layout).
func New(rom []byte) (Cartridge, error) {
	const maxROMSize = 8 * 1024 * 1024
	if len(rom) > maxROMSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrROMTooLarge, len(rom))
	}

	header, err := ParseHeader(rom)
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	switch cartType := CartridgeType(header.CartridgeType); cartType {
	case TypeROMOnly, TypeROMRAM, TypeROMRAMBattery:
		return newROMOnly(rom, header), nil

	case TypeMBC1, TypeMBC1RAM, TypeMBC1RAMBattery:
		return newMBC1(rom, header), nil

	default:
		fmt.Fprintf(os.Stderr, "warning: unsupported cartridge type 0x%02X (%s), falling back to MBC1\n",
			byte(cartType), cartType)
		return newMBC1(rom, header), nil
	}
}
