//go:build tinygo && baremetal

package hal

import (
	"machine"

	"tinygo.org/x/drivers/hcsr04"
)

type picoHAL struct {
	logger *serialLogger
	gpio   GPIO
	fb     Framebuffer
	ranger Ranger
}

// New returns a Raspberry Pi Pico HAL for the Pico-OLED-1.3 HAT with an
// HC-SR04 range finder.
//
// Wiring:
//   - HC-SR04 trigger GP6, echo GP7 (echo level-shifted to 3V3).
//   - KEY0 GP15, KEY1 GP17, both active-low with internal pull-ups.
//   - SH1107 on SPI1: SCK GP10, MOSI GP11, DC GP8, CS GP9, RST GP12.
//   - Log lines go to the USB CDC console.
func New() HAL {
	logger := &serialLogger{w: machine.Serial}

	var fb Framebuffer
	if oled, err := initSH1107(); err == nil {
		fb = newOLEDFramebuffer(oled)
	} else {
		logger.WriteLineString("oled: " + err.Error())
		fb = newMissingPanel(err)
	}

	sensor := hcsr04.New(machine.GP6, machine.GP7)
	sensor.Configure()

	return &picoHAL{
		logger: logger,
		gpio: newVirtualGPIO([]GPIOPin{
			newMachinePin(PinKey0, machine.GP15),
			newMachinePin(PinKey1, machine.GP17),
		}),
		fb:     fb,
		ranger: &hcsrRanger{dev: &sensor},
	}
}

func (h *picoHAL) Logger() Logger   { return h.logger }
func (h *picoHAL) GPIO() GPIO       { return h.gpio }
func (h *picoHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }
func (h *picoHAL) Ranger() Ranger   { return h.ranger }
