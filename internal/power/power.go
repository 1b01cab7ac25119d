package power

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/model"
)

// Action is what the controller must do after a power evaluation.
type Action int

const (
	ActionNone Action = iota
	ActionDimBacklight
	ActionDeepSleep
)

// Manager applies the battery policy. Both thresholds only matter while
// power save is enabled; with it off the node never dims or sleeps.
type Manager struct {
	dimAfter   time.Duration
	sleepAfter time.Duration
}

func New(dimAfter, sleepAfter time.Duration) *Manager {
	return &Manager{dimAfter: dimAfter, sleepAfter: sleepAfter}
}

// Evaluate checks the two inactivity clocks. Deep sleep wins over a
// backlight dim when both thresholds have passed.
func (m *Manager) Evaluate(st *model.PowerState, now time.Time) Action {
	if !st.PowerSaveEnabled {
		return ActionNone
	}

	if now.Sub(st.LastSample) > m.sleepAfter {
		log.Info().
			Dur("inactive", now.Sub(st.LastSample)).
			Msg("Deep sleep threshold reached")
		return ActionDeepSleep
	}

	if st.BacklightOn && now.Sub(st.LastActivity) > m.dimAfter {
		st.BacklightOn = false
		return ActionDimBacklight
	}

	return ActionNone
}

// Wake resets the activity clock and restores the backlight. Returns
// true when the backlight was off and needs to be driven back on.
func (m *Manager) Wake(st *model.PowerState, now time.Time) bool {
	st.LastActivity = now
	if !st.BacklightOn {
		st.BacklightOn = true
		return true
	}
	return false
}
