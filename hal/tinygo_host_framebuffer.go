//go:build tinygo && !baremetal

package hal

// tinyGoHostFramebuffer has no panel to drive; Present prints the frame as
// text, and only when it differs from the last one printed.
type tinyGoHostFramebuffer struct {
	w      int
	h      int
	stride int
	buf    []byte
	shown  []byte
	line   []byte
}

func newTinyGoHostFramebuffer(w, h int) *tinyGoHostFramebuffer {
	stride := w * 2
	return &tinyGoHostFramebuffer{
		w:      w,
		h:      h,
		stride: stride,
		buf:    make([]byte, stride*h),
		shown:  make([]byte, stride*h),
		line:   make([]byte, w),
	}
}

func (f *tinyGoHostFramebuffer) Width() int          { return f.w }
func (f *tinyGoHostFramebuffer) Height() int         { return f.h }
func (f *tinyGoHostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *tinyGoHostFramebuffer) StrideBytes() int    { return f.stride }
func (f *tinyGoHostFramebuffer) Buffer() []byte      { return f.buf }

func (f *tinyGoHostFramebuffer) ClearRGB(r, g, b uint8) {
	fillRGB(f.buf, r, g, b)
}

func (f *tinyGoHostFramebuffer) Present() error {
	if string(f.buf) == string(f.shown) {
		return nil
	}
	copy(f.shown, f.buf)

	// Two pixel rows per text line keeps the aspect ratio roughly square.
	for y := 0; y < f.h; y += 2 {
		row := f.buf[y*f.stride : (y+1)*f.stride]
		for x := 0; x < f.w; x++ {
			if litAt(row, x) {
				f.line[x] = '#'
			} else {
				f.line[x] = ' '
			}
		}
		println(string(f.line))
	}
	return nil
}
