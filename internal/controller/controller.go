package controller

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/conditioner"
	"github.com/aquasense/aquanode/internal/display"
	"github.com/aquasense/aquanode/internal/hal"
	"github.com/aquasense/aquanode/internal/menu"
	"github.com/aquasense/aquanode/internal/model"
	"github.com/aquasense/aquanode/internal/power"
	"github.com/aquasense/aquanode/internal/uploader"
)

// Sensors groups the analog inputs by channel.
type Sensors struct {
	PH        hal.AnalogChannel
	Turbidity hal.AnalogChannel
	TDS       hal.AnalogChannel
}

// SettingsStore persists operator-facing settings across deep sleep.
type SettingsStore interface {
	SetPowerSave(enabled bool) error
}

// Node is the main control loop. One logical thread of control owns all
// mutable state; every collaborator call runs to completion within a
// tick.
type Node struct {
	cond      *conditioner.Conditioner
	sensors   Sensors
	buttons   hal.ButtonInput
	render    *display.Renderer
	menu      *menu.Machine
	power     *power.Manager
	scheduler *uploader.Scheduler
	state     *model.PowerState
	settings  SettingsStore

	clock func() time.Time
	tick  time.Duration
}

type Deps struct {
	Conditioner *conditioner.Conditioner
	Sensors     Sensors
	Buttons     hal.ButtonInput
	Render      *display.Renderer
	Power       *power.Manager
	State       *model.PowerState
	Settings    SettingsStore

	Debounce       time.Duration
	UploadInterval time.Duration
	Tick           time.Duration
	Transport      uploader.Transport
}

func New(d Deps) *Node {
	n := &Node{
		cond:     d.Conditioner,
		sensors:  d.Sensors,
		buttons:  d.Buttons,
		render:   d.Render,
		power:    d.Power,
		state:    d.State,
		settings: d.Settings,
		clock:    time.Now,
		tick:     d.Tick,
	}
	n.menu = menu.New(d.Render, n, d.Debounce)
	n.scheduler = uploader.New(n, d.Transport, d.UploadInterval, d.State)
	return n
}

// read maps an ADC error to the zero code, which the conditioner treats
// as a rail fault.
func read(ch hal.AnalogChannel) int {
	raw, err := ch.Read()
	if err != nil {
		log.Warn().Err(err).Msg("ADC read failed")
		return 0
	}
	return raw
}

// Temperature through ECFromTDS implement the upload source and the
// menu's value reads with one shared conditioner.

func (n *Node) Temperature() model.Reading {
	return n.cond.Temperature()
}

func (n *Node) PH() model.Reading {
	return n.cond.PH(read(n.sensors.PH))
}

func (n *Node) Turbidity() model.Reading {
	return n.cond.Turbidity(read(n.sensors.Turbidity))
}

func (n *Node) TDS() model.Reading {
	return n.cond.TDS(read(n.sensors.TDS))
}

func (n *Node) ECFromTDS(tds model.Reading) model.Reading {
	return n.cond.ECFromTDS(tds)
}

func (n *Node) ReadValue(item menu.Item) model.Reading {
	switch item {
	case menu.ItemTemperature:
		return n.Temperature()
	case menu.ItemPH:
		return n.PH()
	case menu.ItemTurbidity:
		return n.Turbidity()
	case menu.ItemTDS:
		return n.TDS()
	case menu.ItemEC:
		return n.ECFromTDS(n.TDS())
	default:
		return model.Reading{Valid: false}
	}
}

func (n *Node) TogglePowerSave() bool {
	n.state.PowerSaveEnabled = !n.state.PowerSaveEnabled
	if err := n.settings.SetPowerSave(n.state.PowerSaveEnabled); err != nil {
		log.Error().Err(err).Msg("Failed to persist power-save flag")
	}
	return n.state.PowerSaveEnabled
}

func (n *Node) SendNow() {
	n.scheduler.SendNow(n.clock())
}

// pollEvent maps the current button state to at most one event. Up wins
// over Down wins over Select wins over Back when multiple are held.
func pollEvent(st hal.ButtonState) (menu.Event, bool) {
	switch {
	case st.Up:
		return menu.EventUp, true
	case st.Down:
		return menu.EventDown, true
	case st.Select:
		return menu.EventSelect, true
	case st.Back:
		return menu.EventBack, true
	default:
		return 0, false
	}
}

func (n *Node) handleInput(now time.Time) {
	ev, ok := pollEvent(n.buttons.Poll())
	if !ok {
		return
	}
	if n.menu.InDebounceWindow(now) {
		return
	}

	// Waking comes before the event is processed.
	if n.power.Wake(n.state, now) {
		n.render.Backlight(true)
	}
	n.menu.Handle(ev, now)
}

// Tick runs one loop iteration. Returns false when the node must enter
// deep sleep.
func (n *Node) Tick(now time.Time) bool {
	n.handleInput(now)

	switch n.power.Evaluate(n.state, now) {
	case power.ActionDimBacklight:
		n.render.Backlight(false)
	case power.ActionDeepSleep:
		return false
	}

	n.scheduler.Tick(now)
	return true
}

// Run polls until the power manager calls for deep sleep.
func (n *Node) Run() {
	log.Info().Msg("Control loop started")
	n.menu.ShowMenu()

	for {
		if !n.Tick(n.clock()) {
			return
		}
		time.Sleep(n.tick)
	}
}
