//go:build tinygo && baremetal

package hal

import "fmt"

// missingPanel stands in for the OLED when it fails to initialise. Frames
// are still drawn into memory; Present reports why nothing is shown.
type missingPanel struct {
	buf []byte
	err error
}

func newMissingPanel(cause error) *missingPanel {
	return &missingPanel{
		buf: make([]byte, 128*64*2),
		err: fmt.Errorf("oled: %w", cause),
	}
}

func (f *missingPanel) Width() int             { return 128 }
func (f *missingPanel) Height() int            { return 64 }
func (f *missingPanel) Format() PixelFormat    { return PixelFormatRGB565 }
func (f *missingPanel) StrideBytes() int       { return 128 * 2 }
func (f *missingPanel) Buffer() []byte         { return f.buf }
func (f *missingPanel) ClearRGB(r, g, b uint8) { fillRGB(f.buf, r, g, b) }
func (f *missingPanel) Present() error         { return f.err }
