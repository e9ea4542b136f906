package ppu

// DMG shades, index 0 (lightest) to 3 (darkest): the classic green LCD tones.
var dmgPalette = [4][4]uint8{
	{0x9B, 0xBC, 0x0F, 0xFF},
	{0x8B, 0xAC, 0x0F, 0xFF},
	{0x30, 0x62, 0x30, 0xFF},
	{0x0F, 0x38, 0x0F, 0xFF},
}

// renderScanline rasterizes line LY into the framebuffer. Called exactly once
// per line, at the mode 3 -> mode 0 transition, with the current register
// snapshot.
func (p *PPU) renderScanline() {
	if p.lcdc&LCDCBGWindowEnable != 0 {
		p.renderBackground()
	} else {
		p.clearScanline()
	}

	if p.lcdc&LCDCWindowEnable != 0 {
		p.renderWindow()
	}

	if p.lcdc&LCDCOBJEnable != 0 {
		p.renderSprites()
	}
}

// clearScanline fills the current line with shade 0.
func (p *PPU) clearScanline() {
	for x := 0; x < ScreenWidth; x++ {
		p.lineColorIDs[x] = 0
		p.setPixel(x, int(p.ly), 0)
	}
}

// renderBackground draws the scrolled background layer for line LY.
func (p *PPU) renderBackground() {
	mapBase := uint16(0x1800) // 0x9800 in bus terms
	if p.lcdc&LCDCBGTileMap != 0 {
		mapBase = 0x1C00
	}

	mapY := p.ly + p.scy // wraps at 256
	tileRow := uint16(mapY % 8)

	for x := 0; x < ScreenWidth; x++ {
		mapX := uint8(x) + p.scx //nolint:gosec // x < 160; wrap at 256 is wanted

		mapAddr := mapBase + uint16(mapY/8)*32 + uint16(mapX/8)
		tileID := p.vram[mapAddr]

		tileAddr := p.tileDataAddr(tileID)
		colorID := p.tilePixel(tileAddr, uint16(mapX%8), tileRow)

		p.lineColorIDs[x] = colorID
		p.setPixel(x, int(p.ly), applyPalette(colorID, p.bgp))
	}
}

// renderWindow draws the window layer for line LY. The window is an
// unscrolled second background whose top-left corner sits at (WX-7, WY);
// its line counter restarts at LY==WY rather than tracking mid-frame WY
// changes.
func (p *PPU) renderWindow() {
	if p.ly < p.wy {
		return
	}

	mapBase := uint16(0x1800)
	if p.lcdc&LCDCWindowTileMap != 0 {
		mapBase = 0x1C00
	}

	windowLine := p.ly - p.wy
	tileRow := uint16(windowLine % 8)

	left := int(p.wx) - 7

	for x := 0; x < ScreenWidth; x++ {
		if x < left {
			continue
		}

		windowX := uint16(x - left) //nolint:gosec // x >= left here

		mapAddr := mapBase + uint16(windowLine/8)*32 + windowX/8
		tileID := p.vram[mapAddr]

		tileAddr := p.tileDataAddr(tileID)
		colorID := p.tilePixel(tileAddr, windowX%8, tileRow)

		p.lineColorIDs[x] = colorID
		p.setPixel(x, int(p.ly), applyPalette(colorID, p.bgp))
	}
}

// renderSprites draws the OAM sprites intersecting line LY. Hardware selects
// the first ten sprites in OAM order and gives earlier entries priority;
// drawing the selection in reverse order reproduces that.
func (p *PPU) renderSprites() {
	height := int16(8)
	if p.lcdc&LCDCOBJSize != 0 {
		height = 16
	}

	p.spriteBuffer = p.spriteBuffer[:0]
	line := int16(p.ly)

	for i := 0; i < 40 && len(p.spriteBuffer) < 10; i++ {
		entry := p.oam[i*4 : i*4+4]
		y := int16(entry[0]) - 16
		if line < y || line >= y+height {
			continue
		}
		p.spriteBuffer = append(p.spriteBuffer, sprite{
			x:         int16(entry[1]) - 8,
			y:         y,
			tileIndex: entry[2],
			attrs:     entry[3],
		})
	}

	for i := len(p.spriteBuffer) - 1; i >= 0; i-- {
		p.drawSprite(p.spriteBuffer[i], height)
	}
}

func (p *PPU) drawSprite(spr sprite, height int16) {
	spriteLine := int16(p.ly) - spr.y
	if spr.attrs&SpriteAttrYFlip != 0 {
		spriteLine = height - 1 - spriteLine
	}

	tile := uint16(spr.tileIndex)
	if height == 16 {
		// In 8x16 mode bit 0 of the tile index is ignored; the second
		// tile supplies the bottom half.
		tile &= 0xFE
		if spriteLine >= 8 {
			tile++
			spriteLine -= 8
		}
	}

	// Sprites always use the 0x8000 addressing mode.
	tileAddr := tile * 16

	palette := p.obp0
	if spr.attrs&SpriteAttrPalette != 0 {
		palette = p.obp1
	}

	for px := int16(0); px < 8; px++ {
		screenX := spr.x + px
		if screenX < 0 || screenX >= ScreenWidth {
			continue
		}

		tileX := uint16(px) //nolint:gosec // px in [0,8)
		if spr.attrs&SpriteAttrXFlip != 0 {
			tileX = uint16(7 - px) //nolint:gosec // px in [0,8)
		}

		colorID := p.tilePixel(tileAddr, tileX, uint16(spriteLine)) //nolint:gosec // bounded by height
		if colorID == 0 {
			continue // color 0 is transparent for sprites
		}

		// Priority bit: sprite hides behind BG colors 1-3.
		if spr.attrs&SpriteAttrPriority != 0 && p.lineColorIDs[screenX] != 0 {
			continue
		}

		p.setPixel(int(screenX), int(p.ly), applyPalette(colorID, palette))
	}
}

// tileDataAddr resolves a tile index to its VRAM offset using the LCDC-selected
// addressing mode: unsigned from 0x8000, or signed around 0x9000.
func (p *PPU) tileDataAddr(tileID uint8) uint16 {
	if p.lcdc&LCDCBGTileData != 0 {
		return uint16(tileID) * 16
	}
	signed := int16(int8(tileID)) //nolint:gosec // intentional signed reinterpretation
	return uint16(0x1000 + int32(signed)*16) //nolint:gosec // result in [0x800, 0x17F0]
}

// tilePixel extracts the 2-bit color index of pixel (x, y) within a tile.
// Each tile row is two bytes; bit 7 is the leftmost pixel.
func (p *PPU) tilePixel(tileAddr, x, y uint16) uint8 {
	lineAddr := tileAddr + y*2
	byte1 := p.vram[lineAddr]
	byte2 := p.vram[lineAddr+1]

	bit := 7 - x
	lo := (byte1 >> bit) & 1
	hi := (byte2 >> bit) & 1
	return hi<<1 | lo
}

// applyPalette translates a color index (0-3) through a packed palette
// register into a shade (0-3).
func applyPalette(colorID, palette uint8) uint8 {
	return (palette >> (colorID * 2)) & 0x03
}

// setPixel writes the RGBA quadruple for a shade into the framebuffer.
func (p *PPU) setPixel(x, y int, shade uint8) {
	c := dmgPalette[shade&0x03]
	offset := (y*ScreenWidth + x) * 4
	p.framebuffer[offset] = c[0]
	p.framebuffer[offset+1] = c[1]
	p.framebuffer[offset+2] = c[2]
	p.framebuffer[offset+3] = c[3]
}
