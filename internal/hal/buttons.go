package hal

import (
	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/pinctrl"
)

// PinButtons polls the panel buttons through pinctrl. Inputs are wired
// active-low with pull-ups, so a low level means pressed.
type PinButtons struct {
	UpPin     int
	DownPin   int
	SelectPin int
	BackPin   int
}

func (b *PinButtons) Poll() ButtonState {
	return ButtonState{
		Up:     pressed(b.UpPin),
		Down:   pressed(b.DownPin),
		Select: pressed(b.SelectPin),
		Back:   pressed(b.BackPin),
	}
}

func pressed(pin int) bool {
	level, err := pinctrl.ReadLevel(pin)
	if err != nil {
		log.Warn().Err(err).Int("pin", pin).Msg("Failed to poll button pin")
		return false
	}
	return !level
}
