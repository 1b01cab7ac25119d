package sleep

import (
	"os"
	"os/exec"

	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/display"
	"github.com/aquasense/aquanode/internal/pinctrl"
)

// DeepSleep halts the node for the low-power state. The Select button
// pin is armed as a pulled-up input so its falling edge can wake the
// board, then the system suspends. After resume the process exits and
// systemd restarts it, so execution resumes from initialization with
// calibration and the power-save flag reloaded from storage.
func DeepSleep(render *display.Renderer, wakePin int) {
	render.Notice("Sleeping...", "SELECT to wake")
	render.Backlight(false)

	if err := pinctrl.SetPin(wakePin, "ip", "pu"); err != nil {
		log.Warn().Err(err).Int("pin", wakePin).Msg("Failed to arm wake pin")
	}

	log.Info().Msg("Entering deep sleep")

	cmd := exec.Command("systemctl", "suspend")
	if err := cmd.Run(); err != nil {
		log.Error().Err(err).Msg("Suspend request failed")
	}

	os.Exit(0)
}
