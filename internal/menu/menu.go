package menu

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/display"
	"github.com/aquasense/aquanode/internal/model"
)

// Item is a fixed menu position. Order matches the panel layout.
type Item int

const (
	ItemTemperature Item = iota
	ItemPH
	ItemTurbidity
	ItemTDS
	ItemEC
	ItemPowerSave
	ItemSendData

	itemCount
)

func (i Item) Label() string {
	switch i {
	case ItemTemperature:
		return "Temperature"
	case ItemPH:
		return "pH"
	case ItemTurbidity:
		return "Turbidity"
	case ItemTDS:
		return "TDS"
	case ItemEC:
		return "EC"
	case ItemPowerSave:
		return "Power Save"
	case ItemSendData:
		return "Send Data"
	default:
		return "?"
	}
}

type Event int

const (
	EventUp Event = iota
	EventDown
	EventSelect
	EventBack
)

// Actions are the operations the menu dispatches into the rest of the
// node.
type Actions interface {
	ReadValue(item Item) model.Reading
	TogglePowerSave() bool
	SendNow()
}

// Machine is the panel navigation state. One accepted edge per debounce
// window; edges inside the window are dropped before they reach Handle.
type Machine struct {
	selected     Item
	showingValue bool

	debounce     time.Duration
	lastAccepted time.Time

	render  *display.Renderer
	actions Actions
}

func New(render *display.Renderer, actions Actions, debounce time.Duration) *Machine {
	return &Machine{render: render, actions: actions, debounce: debounce}
}

// InDebounceWindow reports whether an edge at now falls inside the
// repeat-suppression window of the last accepted edge.
func (m *Machine) InDebounceWindow(now time.Time) bool {
	return !m.lastAccepted.IsZero() && now.Sub(m.lastAccepted) < m.debounce
}

// Handle processes one accepted button event. The caller is responsible
// for checking the debounce window and waking the display first.
func (m *Machine) Handle(ev Event, now time.Time) {
	m.lastAccepted = now

	switch ev {
	case EventUp:
		m.selected = (m.selected - 1 + itemCount) % itemCount
		m.showingValue = false
		m.ShowMenu()
	case EventDown:
		m.selected = (m.selected + 1) % itemCount
		m.showingValue = false
		m.ShowMenu()
	case EventSelect:
		m.dispatch()
	case EventBack:
		m.showingValue = false
		m.ShowMenu()
	}
}

func (m *Machine) dispatch() {
	switch m.selected {
	case ItemPowerSave:
		enabled := m.actions.TogglePowerSave()
		log.Info().Bool("enabled", enabled).Msg("Power save toggled")
		m.showingValue = false
		m.ShowMenu()
	case ItemSendData:
		m.actions.SendNow()
		m.showingValue = false
		m.ShowMenu()
	default:
		reading := m.actions.ReadValue(m.selected)
		m.showingValue = true
		m.render.Value(m.selected.Label(), reading)
	}
}

// ShowMenu draws the browsing screen: selected item plus the next one,
// wrapping at the end of the list.
func (m *Machine) ShowMenu() {
	next := (m.selected + 1) % itemCount
	m.render.Menu(m.selected.Label(), next.Label())
}

// Selected reports the current menu position.
func (m *Machine) Selected() Item {
	return m.selected
}

// ShowingValue reports whether a reading screen is up.
func (m *Machine) ShowingValue() bool {
	return m.showingValue
}
