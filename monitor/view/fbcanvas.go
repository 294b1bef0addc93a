package view

import (
	"image/color"

	"deskmon/hal"
	"deskmon/internal/mathx"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	colorOff = color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
	colorOn  = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

func rgba(c Color) color.RGBA {
	if c == White {
		return colorOn
	}
	return colorOff
}

// textBaseline is the distance from a text line's top edge to its baseline;
// Canvas text coordinates are top-left like the panel's 8px font.
const textBaseline = 8

// FramebufferCanvas draws on a hal.Framebuffer. It is also a
// drivers.Displayer, so tinyfont and tinydraw can draw on it directly.
type FramebufferCanvas struct {
	fb   hal.Framebuffer
	font tinyfont.Fonter
}

var _ drivers.Displayer = (*FramebufferCanvas)(nil)

// NewFramebufferCanvas returns a canvas on fb; fb must be RGB565.
func NewFramebufferCanvas(fb hal.Framebuffer) *FramebufferCanvas {
	return &FramebufferCanvas{fb: fb, font: &proggy.TinySZ8pt7b}
}

func (d *FramebufferCanvas) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *FramebufferCanvas) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	pixel := rgb565From888(c.R, c.G, c.B)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

// Display presents the framebuffer.
func (d *FramebufferCanvas) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func (d *FramebufferCanvas) Clear(c Color) {
	if d.fb == nil {
		return
	}
	p := rgba(c)
	d.fb.ClearRGB(p.R, p.G, p.B)
}

// FillRect writes rows straight into the buffer; it is the hot path of the
// alarm flash and the progress bar.
func (d *FramebufferCanvas) FillRect(x, y, width, height int16, c Color) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()

	x0 := mathx.Clamp(int(x), 0, w)
	y0 := mathx.Clamp(int(y), 0, h)
	x1 := mathx.Clamp(int(x)+int(width), 0, w)
	y1 := mathx.Clamp(int(y)+int(height), 0, h)
	if x0 >= x1 || y0 >= y1 {
		return
	}

	p := rgba(c)
	pixel := rgb565From888(p.R, p.G, p.B)
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	stride := d.fb.StrideBytes()
	for py := y0; py < y1; py++ {
		row := py * stride
		for px := x0; px < x1; px++ {
			off := row + px*2
			if off < 0 || off+1 >= len(buf) {
				continue
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

func (d *FramebufferCanvas) Rect(x, y, w, h int16, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	_ = tinydraw.Rectangle(d, x, y, w, h, rgba(c))
}

func (d *FramebufferCanvas) Line(x0, y0, x1, y1 int16, c Color) {
	tinydraw.Line(d, x0, y0, x1, y1, rgba(c))
}

func (d *FramebufferCanvas) Text(s string, x, y int16, c Color) {
	tinyfont.WriteLine(d, d.font, x, y+textBaseline, s, rgba(c))
}

func (d *FramebufferCanvas) Present() error { return d.Display() }

func rgb565From888(r, g, b uint8) uint16 {
	return uint16((uint16(r>>3)&0x1F)<<11 | (uint16(g>>2)&0x3F)<<5 | (uint16(b>>3) & 0x1F))
}
