package display

import (
	"fmt"

	"github.com/aquasense/aquanode/internal/hal"
	"github.com/aquasense/aquanode/internal/model"
)

// Renderer formats the two-line screens the node shows. It owns no
// state; the menu machine decides what to draw and when.
type Renderer struct {
	lcd hal.Display
}

func New(lcd hal.Display) *Renderer {
	return &Renderer{lcd: lcd}
}

// Menu draws the browsing screen: the selected item marked on the top
// line, the following item beneath it.
func (r *Renderer) Menu(selected, next string) {
	r.lcd.Show(">"+selected, " "+next)
}

// Value draws a live reading under its item label. Faulted readings show
// an error line instead of a number.
func (r *Renderer) Value(label string, reading model.Reading) {
	if !reading.Valid {
		r.lcd.Show(label, "Error")
		return
	}

	var line string
	switch reading.Channel {
	case model.ChannelPH:
		line = fmt.Sprintf("pH: %.1f", reading.Magnitude)
	default:
		line = fmt.Sprintf("%.1f %s", reading.Magnitude, reading.Unit)
	}
	r.lcd.Show(label, line)
}

// Notice draws a transient two-line message.
func (r *Renderer) Notice(line1, line2 string) {
	r.lcd.Show(line1, line2)
}

func (r *Renderer) Backlight(on bool) {
	r.lcd.Backlight(on)
}
