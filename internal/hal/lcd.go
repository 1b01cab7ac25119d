package hal

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/pinctrl"
)

// CharLCD drives a 16x2 character display through its device node. Each
// frame clears the panel and writes both lines padded to the panel width.
// The backlight is a separate GPIO drive.
type CharLCD struct {
	DevicePath   string
	Columns      int
	BacklightPin int
}

func NewCharLCD(devicePath string, columns, backlightPin int) *CharLCD {
	return &CharLCD{DevicePath: devicePath, Columns: columns, BacklightPin: backlightPin}
}

func (d *CharLCD) Show(line1, line2 string) {
	w := d.Columns
	frame := fmt.Sprintf("\f%-*.*s\n%-*.*s", w, w, line1, w, w, line2)

	f, err := os.OpenFile(d.DevicePath, os.O_WRONLY, 0)
	if err != nil {
		log.Warn().Err(err).Str("device", d.DevicePath).Msg("Failed to open display")
		return
	}
	defer f.Close()

	if _, err := f.WriteString(frame); err != nil {
		log.Warn().Err(err).Str("device", d.DevicePath).Msg("Failed to write display frame")
	}
}

func (d *CharLCD) Backlight(on bool) {
	drive := "dl"
	if on {
		drive = "dh"
	}
	if err := pinctrl.SetPin(d.BacklightPin, "op", "pn", drive); err != nil {
		log.Warn().Err(err).Int("pin", d.BacklightPin).Msg("Failed to switch backlight")
	}
}
