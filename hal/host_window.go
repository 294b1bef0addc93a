//go:build !tinygo && cgo

package hal

import (
	"fmt"
	"image"

	"deskmon/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	windowScale = 5

	// Distances used by the "sit"/"stand" shortcut.
	simSeatedCM   = 40
	simStandingCM = 150
	simNudgeCM    = 5
)

// OLED white on an unlit panel.
var (
	panelOn  = [3]byte{0xE8, 0xF4, 0xFF}
	panelOff = [3]byte{0x08, 0x08, 0x0C}
)

// WindowConfig controls the desktop simulator.
type WindowConfig struct {
	Hz         int
	DistanceCM float64
}

// RunWindow starts a desktop window that displays the panel and simulates
// the buttons and the range finder from the keyboard:
//
//	Enter / R   KEY0 (reset)
//	Tab / V     KEY1 (view toggle)
//	Up / Down   move the simulated target away / closer
//	S           jump between seated and standing distances
//	F           toggle a ranger fault
//
// It blocks until the window closes.
func RunWindow(newApp func(HAL) (func() error, error), cfg WindowConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 10
	}
	h := newHost(HostOptions{InitialDistanceCM: cfg.DistanceCM})
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(g.title())
	ebiten.SetWindowSize(h.fb.width*windowScale, h.fb.height*windowScale)
	ebiten.SetTPS(cfg.Hz)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.pollKeys()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) pollKeys() {
	justPressed := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if inpututil.IsKeyJustPressed(k) {
				return true
			}
		}
		return false
	}

	if justPressed(ebiten.KeyEnter, ebiten.KeyR) {
		g.h.key0.Tap()
	}
	if justPressed(ebiten.KeyTab, ebiten.KeyV) {
		g.h.key1.Tap()
	}

	r := g.h.ranger
	changed := false
	if justPressed(ebiten.KeyArrowUp) {
		r.Nudge(simNudgeCM)
		changed = true
	}
	if justPressed(ebiten.KeyArrowDown) {
		r.Nudge(-simNudgeCM)
		changed = true
	}
	if justPressed(ebiten.KeyS) {
		if r.Distance() < simSeatedCM+simNudgeCM {
			r.SetDistance(simStandingCM)
		} else {
			r.SetDistance(simSeatedCM)
		}
		changed = true
	}
	if justPressed(ebiten.KeyF) {
		r.SetFault(!r.Fault())
		changed = true
	}
	if changed {
		ebiten.SetWindowTitle(g.title())
	}
}

func (g *hostGame) title() string {
	r := g.h.ranger
	s := fmt.Sprintf("deskmon (%s) target %.0fcm", buildinfo.Short(), r.Distance())
	if r.Fault() {
		s += " [ranger fault]"
	}
	return s
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	dst := g.img.Pix
	stride := fb.stride
	for y := 0; y < fb.height; y++ {
		row := g.scratch[y*stride : (y+1)*stride]
		for x := 0; x < fb.width; x++ {
			c := panelOff
			if litAt(row, x) {
				c = panelOn
			}
			j := (y*fb.width + x) * 4
			dst[j+0] = c[0]
			dst[j+1] = c[1]
			dst[j+2] = c[2]
			dst[j+3] = 0xFF
		}
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
