package hal

// The panel is monochrome. Framebuffers stay RGB565 little-endian so the
// drawing libraries can target them; any non-black pixel lights.

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func fillRGB(buf []byte, r, g, b uint8) {
	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}

// litAt reports whether pixel x of an RGB565 row is lit.
func litAt(row []byte, x int) bool {
	return row[2*x] != 0 || row[2*x+1] != 0
}
