//go:build tinygo && baremetal

package hal

import (
	"errors"
	"machine"
	"time"
)

// sh1107 drives the 128x64 SH1107 panel of the Pico-OLED-1.3 HAT.
//
// The controller is natively 64x128; the HAT mounts it rotated, so every
// framebuffer row is sent as one controller column of 16 bytes, LSB = leftmost pixel.
type sh1107 struct {
	spi machine.SPI
	cs  machine.Pin
	dc  machine.Pin
	rst machine.Pin

	row [16]byte
}

func initSH1107() (*sh1107, error) {
	if machine.SPI1 == nil {
		return nil, errors.New("SPI1 unavailable")
	}

	if err := machine.SPI1.Configure(machine.SPIConfig{
		SCK:       machine.GP10,
		SDO:       machine.GP11,
		Frequency: 10_000_000,
	}); err != nil {
		return nil, err
	}

	d := &sh1107{
		spi: *machine.SPI1,
		cs:  machine.GP9,
		dc:  machine.GP8,
		rst: machine.GP12,
	}
	d.cs.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.dc.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.rst.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.cs.High()
	d.dc.High()

	d.reset()
	d.init()
	return d, nil
}

func (d *sh1107) reset() {
	d.rst.High()
	time.Sleep(1 * time.Millisecond)
	d.rst.Low()
	time.Sleep(10 * time.Millisecond)
	d.rst.High()
}

func (d *sh1107) init() {
	d.cmd(0xAE)       // display off
	d.cmd(0x00, 0x10) // column address 0
	d.cmd(0xB0)       // page address 0
	d.cmd(0xDC, 0x00) // display start line
	d.cmd(0x81, 0x6F) // contrast
	d.cmd(0x21)       // memory addressing: vertical
	d.cmd(0xA0)       // segment remap off
	d.cmd(0xC0)       // COM scan direction
	d.cmd(0xA4)       // resume to RAM content
	d.cmd(0xA6)       // normal (not inverted)
	d.cmd(0xA8, 0x3F) // multiplex ratio
	d.cmd(0xD3, 0x60) // display offset
	d.cmd(0xD5, 0x41) // oscillator
	d.cmd(0xD9, 0x22) // pre-charge
	d.cmd(0xDB, 0x35) // VCOMH
	d.cmd(0xAD, 0x8A) // charge pump
	time.Sleep(100 * time.Millisecond)
	d.cmd(0xAF) // display on
}

func (d *sh1107) cmd(cmd byte, data ...byte) {
	d.cs.Low()
	d.dc.Low()
	d.spi.Tx([]byte{cmd}, nil)
	if len(data) > 0 {
		d.spi.Tx(data, nil)
	}
	d.cs.High()
}

func (d *sh1107) data(b []byte) {
	d.cs.Low()
	d.dc.High()
	d.spi.Tx(b, nil)
	d.cs.High()
}

// blitMono sends an RGB565 little-endian buffer; any non-black pixel lights.
func (d *sh1107) blitMono(buf []byte, w, h int) error {
	if w != 128 || h > 64 || len(buf) < w*h*2 {
		return errors.New("invalid framebuffer")
	}

	d.cmd(0xB0)
	for y := 0; y < h; y++ {
		col := byte(63 - y)
		d.cmd(0x00 | col&0x0F)
		d.cmd(0x10 | col>>4)

		for i := range d.row {
			d.row[i] = 0
		}
		line := buf[y*w*2 : (y+1)*w*2]
		for x := 0; x < w; x++ {
			if litAt(line, x) {
				d.row[x/8] |= 1 << (x % 8)
			}
		}
		d.data(d.row[:])
	}
	return nil
}

type oledFramebuffer struct {
	lcd *sh1107
	w   int
	h   int
	buf []byte
}

func newOLEDFramebuffer(lcd *sh1107) *oledFramebuffer {
	return &oledFramebuffer{lcd: lcd, w: 128, h: 64, buf: make([]byte, 128*64*2)}
}

func (f *oledFramebuffer) Width() int          { return f.w }
func (f *oledFramebuffer) Height() int         { return f.h }
func (f *oledFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *oledFramebuffer) StrideBytes() int    { return f.w * 2 }
func (f *oledFramebuffer) Buffer() []byte      { return f.buf }

func (f *oledFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB(f.buf, r, g, b)
}

func (f *oledFramebuffer) Present() error {
	return f.lcd.blitMono(f.buf, f.w, f.h)
}
