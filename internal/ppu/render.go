package ppu

// renderScanline composes one visible scanline's background and sprite
// pixels into the frame buffer, per the §4.4 rendering algorithm.
// PPUMASK's left-column hide bits are accepted but ignored, as the
// register table explicitly allows a minimal implementation to do.
func (p *PPU) renderScanline(scanline int) {
	var bgColorIndex [256]uint8

	if p.mask&MaskShowBackground != 0 {
		p.renderBackground(scanline, &bgColorIndex)
	} else {
		backdrop := p.paletteColor(0)
		for x := 0; x < 256; x++ {
			p.frameBuffer[scanline*256+x] = backdrop
		}
	}

	if p.mask&MaskShowSprites != 0 {
		p.renderSprites(scanline, &bgColorIndex)
	}
}

func (p *PPU) renderBackground(scanline int, bgColorIndex *[256]uint8) {
	baseNametable := uint16(0x2000) + 0x400*uint16(p.ctrl&CtrlBaseNametable)
	patternBase := uint16(0x0000)
	if p.ctrl&CtrlBackgroundPatTable != 0 {
		patternBase = 0x1000
	}

	tileRow := scanline / 8
	fineY := uint16(scanline % 8)

	for tileCol := 0; tileCol < 32; tileCol++ {
		nametableAddr := baseNametable + uint16(tileRow*32+tileCol)
		tileID := p.readVRAM(nametableAddr)

		patternAddr := patternBase + uint16(tileID)*16 + fineY
		lo := p.readVRAM(patternAddr)
		hi := p.readVRAM(patternAddr + 8)

		attrAddr := baseNametable + 0x3C0 + uint16((tileRow/4)*8+(tileCol/4))
		attrByte := p.readVRAM(attrAddr)
		shift := uint(((tileRow%4)/2)*4 + ((tileCol%4)/2)*2)
		paletteGroup := (attrByte >> shift) & 0x03

		for px := 0; px < 8; px++ {
			screenX := tileCol*8 + px
			if screenX >= 256 {
				break
			}
			bit := uint(7 - px)
			colorIndex := ((hi>>bit)&1)<<1 | (lo>>bit)&1
			bgColorIndex[screenX] = colorIndex

			var rgb uint32
			if colorIndex == 0 {
				rgb = p.paletteColor(0)
			} else {
				rgb = p.paletteColor(paletteGroup*4 + colorIndex)
			}
			p.frameBuffer[scanline*256+screenX] = rgb
		}
	}
}

func (p *PPU) renderSprites(scanline int, bgColorIndex *[256]uint8) {
	spriteHeight := 8
	if p.ctrl&CtrlSpriteHeight != 0 {
		spriteHeight = 16
	}

	matched := 0
	for i := 0; i < 64; i++ {
		y := p.oam[i*4]
		tile := p.oam[i*4+1]
		attr := p.oam[i*4+2]
		x := p.oam[i*4+3]

		if y > 239 || x > 249 {
			continue
		}

		row := scanline - int(y) - 1
		if row < 0 || row >= spriteHeight {
			continue
		}

		matched++
		if matched > 8 {
			p.spriteOverflow = true
			break
		}

		flipV := attr&0x80 != 0
		flipH := attr&0x40 != 0
		behindBackground := attr&0x20 != 0
		paletteGroup := attr & 0x03

		if flipV {
			row = spriteHeight - 1 - row
		}

		var patternAddr uint16
		if spriteHeight == 8 {
			patternBase := uint16(0)
			if p.ctrl&CtrlSpritePatTable != 0 {
				patternBase = 0x1000
			}
			patternAddr = patternBase + uint16(tile)*16 + uint16(row)
		} else {
			patternBase := uint16(tile&0x01) * 0x1000
			tileIndex := uint16(tile &^ 0x01)
			if row >= 8 {
				tileIndex++
				row -= 8
			}
			patternAddr = patternBase + tileIndex*16 + uint16(row)
		}

		lo := p.readVRAM(patternAddr)
		hi := p.readVRAM(patternAddr + 8)

		for px := 0; px < 8; px++ {
			bit := uint(7 - px)
			if flipH {
				bit = uint(px)
			}
			colorIndex := ((hi>>bit)&1)<<1 | (lo>>bit)&1
			if colorIndex == 0 {
				continue
			}

			screenX := int(x) + px
			if screenX < 0 || screenX >= 256 {
				continue
			}

			if i == 0 && bgColorIndex[screenX] != 0 {
				p.sprite0Hit = true
			}
			if behindBackground && bgColorIndex[screenX] != 0 {
				continue
			}

			p.frameBuffer[scanline*256+screenX] = p.paletteColor(0x10 + paletteGroup*4 + colorIndex)
		}
	}
}

func (p *PPU) paletteColor(index uint8) uint32 {
	i := p.paletteIndex(0x3F00 + uint16(index))
	return masterPalette[p.paletteRAM[i]&0x3F]
}
