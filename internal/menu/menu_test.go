package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aquasense/aquanode/internal/display"
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

type fakeActions struct {
	readItems []Item
	toggled   int
	powerSave bool
	sent      int
}

func (f *fakeActions) ReadValue(item Item) model.Reading {
	f.readItems = append(f.readItems, item)
	return model.Reading{Channel: model.ChannelPH, Magnitude: 7.0, Valid: true}
}

func (f *fakeActions) TogglePowerSave() bool {
	f.toggled++
	f.powerSave = !f.powerSave
	return f.powerSave
}

func (f *fakeActions) SendNow() {
	f.sent++
}

func newTestMachine() (*Machine, *fakeLCD, *fakeActions) {
	lcd := &fakeLCD{}
	actions := &fakeActions{}
	m := New(display.New(lcd), actions, 200*time.Millisecond)
	return m, lcd, actions
}

func TestNavigation_Circular(t *testing.T) {
	m, _, _ := newTestMachine()
	now := time.Now()

	assert.Equal(t, ItemTemperature, m.Selected())

	m.Handle(EventUp, now)
	assert.Equal(t, ItemSendData, m.Selected(), "Up from the first item wraps to the last")

	m.Handle(EventDown, now.Add(time.Second))
	assert.Equal(t, ItemTemperature, m.Selected(), "Down from the last item wraps to the first")
}

func TestNavigation_DownWalksAllItems(t *testing.T) {
	m, _, _ := newTestMachine()
	now := time.Now()

	want := []Item{ItemPH, ItemTurbidity, ItemTDS, ItemEC, ItemPowerSave, ItemSendData, ItemTemperature}
	for i, item := range want {
		m.Handle(EventDown, now.Add(time.Duration(i)*time.Second))
		assert.Equal(t, item, m.Selected())
	}
}

func TestDebounceWindow(t *testing.T) {
	m, _, _ := newTestMachine()
	now := time.Now()

	assert.False(t, m.InDebounceWindow(now), "no accepted edge yet")

	m.Handle(EventDown, now)
	assert.True(t, m.InDebounceWindow(now.Add(100*time.Millisecond)))
	assert.False(t, m.InDebounceWindow(now.Add(200*time.Millisecond)))
}

func TestSelect_ReadingItemShowsValue(t *testing.T) {
	m, lcd, actions := newTestMachine()
	now := time.Now()

	m.Handle(EventDown, now) // pH
	m.Handle(EventSelect, now.Add(time.Second))

	assert.Equal(t, []Item{ItemPH}, actions.readItems)
	assert.True(t, m.ShowingValue())
	assert.Equal(t, "pH", lcd.line1)
	assert.Equal(t, "pH: 7.0", lcd.line2)
}

func TestSelect_PowerSaveTogglesAndStaysBrowsing(t *testing.T) {
	m, lcd, actions := newTestMachine()
	now := time.Now()

	for i := 0; i < 5; i++ { // navigate to Power Save
		m.Handle(EventDown, now.Add(time.Duration(i)*time.Second))
	}
	m.Handle(EventSelect, now.Add(10*time.Second))

	assert.Equal(t, 1, actions.toggled)
	assert.False(t, m.ShowingValue())
	assert.Equal(t, ">Power Save", lcd.line1)
}

func TestSelect_SendDataInvokesManualSend(t *testing.T) {
	m, _, actions := newTestMachine()
	now := time.Now()

	m.Handle(EventUp, now) // wraps to Send Data
	m.Handle(EventSelect, now.Add(time.Second))

	assert.Equal(t, 1, actions.sent)
	assert.False(t, m.ShowingValue())
}

func TestBack_ReturnsToBrowsing(t *testing.T) {
	m, lcd, _ := newTestMachine()
	now := time.Now()

	m.Handle(EventSelect, now) // Temperature reading screen
	assert.True(t, m.ShowingValue())

	m.Handle(EventBack, now.Add(time.Second))
	assert.False(t, m.ShowingValue())
	assert.Equal(t, ">Temperature", lcd.line1)
	assert.Equal(t, " pH", lcd.line2)
}

func TestShowMenu_NextWraps(t *testing.T) {
	m, lcd, _ := newTestMachine()
	now := time.Now()

	m.Handle(EventUp, now) // Send Data is last
	assert.Equal(t, ">Send Data", lcd.line1)
	assert.Equal(t, " Temperature", lcd.line2)
}
