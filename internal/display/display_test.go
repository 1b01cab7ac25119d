package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aquasense/aquanode/internal/model"
)

type fakeLCD struct {
	line1, line2 string
	backlight    bool
}

func (f *fakeLCD) Show(line1, line2 string) {
	f.line1 = line1
	f.line2 = line2
}

func (f *fakeLCD) Backlight(on bool) {
	f.backlight = on
}

func TestMenu(t *testing.T) {
	lcd := &fakeLCD{}
	r := New(lcd)

	r.Menu("Temperature", "pH")

	assert.Equal(t, ">Temperature", lcd.line1)
	assert.Equal(t, " pH", lcd.line2)
}

func TestValue_PH(t *testing.T) {
	lcd := &fakeLCD{}
	r := New(lcd)

	r.Value("pH", model.Reading{Channel: model.ChannelPH, Magnitude: 7.25, Valid: true})

	assert.Equal(t, "pH", lcd.line1)
	assert.Equal(t, "pH: 7.2", lcd.line2)
}

func TestValue_WithUnit(t *testing.T) {
	lcd := &fakeLCD{}
	r := New(lcd)

	r.Value("TDS", model.Reading{Channel: model.ChannelTDS, Magnitude: 412.34, Unit: "ppm", Valid: true})

	assert.Equal(t, "TDS", lcd.line1)
	assert.Equal(t, "412.3 ppm", lcd.line2)
}

func TestValue_Invalid(t *testing.T) {
	lcd := &fakeLCD{}
	r := New(lcd)

	r.Value("Turbidity", model.Reading{Channel: model.ChannelTurbidity, Valid: false})

	assert.Equal(t, "Turbidity", lcd.line1)
	assert.Equal(t, "Error", lcd.line2)
}

func TestBacklight(t *testing.T) {
	lcd := &fakeLCD{backlight: true}
	r := New(lcd)

	r.Backlight(false)
	assert.False(t, lcd.backlight)

	r.Backlight(true)
	assert.True(t, lcd.backlight)
}
