// Package cartridge implements Game Boy cartridge loading and Memory Bank Controllers (MBCs).
package cartridge

import (
	"errors"
	"fmt"
)

// Header represents the cartridge header region at 0x0100-0x014F.
// The emulation core keys only on CartridgeType; the remaining fields are
// parsed for the `info` command and diagnostics.
type Header struct {
	// Entry point (0x0100-0x0103)
	EntryPoint [4]byte

	// Nintendo logo (0x0104-0x0133)
	NintendoLogo [48]byte

	// Title (0x0134-0x0143), null-padded. Later cartridges reuse the tail
	// bytes for the manufacturer code and CGB flag.
	Title [16]byte

	// CGB flag (0x0143): 0x80 = CGB enhanced, 0xC0 = CGB only
	CGBFlag byte

	// New licensee code (0x0144-0x0145)
	NewLicenseeCode [2]byte

	// SGB flag (0x0146)
	SGBFlag byte

	// Cartridge type (0x0147) - selects the MBC
	CartridgeType byte

	// ROM size code (0x0148): 32 KiB << value
	ROMSize byte

	// RAM size code (0x0149)
	RAMSize byte

	// Destination code (0x014A): 0x00 = Japan, 0x01 = overseas
	DestinationCode byte

	// Old licensee code (0x014B)
	OldLicenseeCode byte

	// Mask ROM version (0x014C)
	MaskROMVersion byte

	// Header checksum (0x014D), over 0x0134-0x014C
	HeaderChecksum byte

	// Global checksum (0x014E-0x014F), big-endian sum of all other bytes
	GlobalChecksum [2]byte
}

// CartridgeType identifies the mapper hardware declared at 0x0147.
//
//nolint:revive // CartridgeType is intentionally explicit for clarity
type CartridgeType byte

// Cartridge types as defined in the header at 0x0147.
const (
	TypeROMOnly             CartridgeType = 0x00
	TypeMBC1                CartridgeType = 0x01
	TypeMBC1RAM             CartridgeType = 0x02
	TypeMBC1RAMBattery      CartridgeType = 0x03
	TypeMBC2                CartridgeType = 0x05
	TypeMBC2Battery         CartridgeType = 0x06
	TypeROMRAM              CartridgeType = 0x08
	TypeROMRAMBattery       CartridgeType = 0x09
	TypeMBC3TimerBattery    CartridgeType = 0x0F
	TypeMBC3TimerRAMBattery CartridgeType = 0x10
	TypeMBC3                CartridgeType = 0x11
	TypeMBC3RAM             CartridgeType = 0x12
	TypeMBC3RAMBattery      CartridgeType = 0x13
	TypeMBC5                CartridgeType = 0x19
	TypeMBC5RAM             CartridgeType = 0x1A
	TypeMBC5RAMBattery      CartridgeType = 0x1B
)

// String returns a human-readable name for the cartridge type.
func (t CartridgeType) String() string {
	switch t {
	case TypeROMOnly:
		return "ROM ONLY"
	case TypeMBC1:
		return "MBC1"
	case TypeMBC1RAM:
		return "MBC1+RAM"
	case TypeMBC1RAMBattery:
		return "MBC1+RAM+BATTERY"
	case TypeMBC2:
		return "MBC2"
	case TypeMBC2Battery:
		return "MBC2+BATTERY"
	case TypeROMRAM:
		return "ROM+RAM"
	case TypeROMRAMBattery:
		return "ROM+RAM+BATTERY"
	case TypeMBC3TimerBattery:
		return "MBC3+TIMER+BATTERY"
	case TypeMBC3TimerRAMBattery:
		return "MBC3+TIMER+RAM+BATTERY"
	case TypeMBC3:
		return "MBC3"
	case TypeMBC3RAM:
		return "MBC3+RAM"
	case TypeMBC3RAMBattery:
		return "MBC3+RAM+BATTERY"
	case TypeMBC5:
		return "MBC5"
	case TypeMBC5RAM:
		return "MBC5+RAM"
	case TypeMBC5RAMBattery:
		return "MBC5+RAM+BATTERY"
	default:
		return fmt.Sprintf("UNKNOWN (0x%02X)", byte(t))
	}
}

// HasBattery returns true if the cartridge type declares battery-backed RAM.
func (t CartridgeType) HasBattery() bool {
	switch t {
	case TypeMBC1RAMBattery,
		TypeMBC2Battery,
		TypeROMRAMBattery,
		TypeMBC3TimerBattery, TypeMBC3TimerRAMBattery, TypeMBC3RAMBattery,
		TypeMBC5RAMBattery:
		return true
	default:
		return false
	}
}

// GetROMBanks returns the number of 16 KiB ROM banks declared by the header.
func (h *Header) GetROMBanks() int {
	if h.ROMSize <= 0x08 {
		return 2 << h.ROMSize
	}
	return 0
}

// GetROMSizeBytes returns the declared ROM size in bytes.
func (h *Header) GetROMSizeBytes() int {
	return h.GetROMBanks() * 0x4000
}

// GetRAMBanks returns the number of 8 KiB RAM banks declared by the header.
func (h *Header) GetRAMBanks() int {
	switch h.RAMSize {
	case 0x02:
		return 1
	case 0x03:
		return 4
	case 0x04:
		return 16
	case 0x05:
		return 8
	default:
		return 0
	}
}

// GetRAMSizeBytes returns the declared RAM size in bytes.
func (h *Header) GetRAMSizeBytes() int {
	return h.GetRAMBanks() * 0x2000
}

// GetTitle returns the cartridge title, trimmed at the first null byte.
func (h *Header) GetTitle() string {
	end := len(h.Title)
	for i, b := range h.Title {
		if b == 0 {
			end = i
			break
		}
	}
	return string(h.Title[:end])
}

// ErrROMTooSmall indicates the ROM data cannot contain a complete header.
var ErrROMTooSmall = errors.New("ROM too small: must be at least 336 bytes (0x0150)")

// ParseHeader parses the cartridge header from ROM data.
// Checksums are parsed but not enforced: the core interprets only the
// cartridge type byte, and homebrew frequently ships with bad checksums.
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < 0x0150 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrROMTooSmall, len(rom))
	}

	h := &Header{}
	copy(h.EntryPoint[:], rom[0x0100:0x0104])
	copy(h.NintendoLogo[:], rom[0x0104:0x0134])
	copy(h.Title[:], rom[0x0134:0x0144])
	h.CGBFlag = rom[0x0143]
	copy(h.NewLicenseeCode[:], rom[0x0144:0x0146])
	h.SGBFlag = rom[0x0146]
	h.CartridgeType = rom[0x0147]
	h.ROMSize = rom[0x0148]
	h.RAMSize = rom[0x0149]
	h.DestinationCode = rom[0x014A]
	h.OldLicenseeCode = rom[0x014B]
	h.MaskROMVersion = rom[0x014C]
	h.HeaderChecksum = rom[0x014D]
	copy(h.GlobalChecksum[:], rom[0x014E:0x0150])

	return h, nil
}

// VerifyHeaderChecksum recomputes the header checksum over 0x0134-0x014C
// and compares it to the stored byte.
func (h *Header) VerifyHeaderChecksum(rom []byte) bool {
	checksum := byte(0)
	for addr := 0x0134; addr <= 0x014C; addr++ {
		checksum = checksum - rom[addr] - 1
	}
	return checksum == h.HeaderChecksum
}
