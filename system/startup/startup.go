package startup

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/aquasense/aquanode/internal/config"
)

// WriteBootScript generates the pinctrl script that configures the
// panel GPIO at boot: buttons as pulled-up inputs, backlight as an
// output driven on.
func WriteBootScript(cfg config.Config) error {
	var lines []string
	lines = append(lines, "#!/bin/bash", "", "# AquaNode GPIO pin configuration at boot", "")

	input := func(label string, pin int) {
		lines = append(lines, fmt.Sprintf("# %s", label))
		lines = append(lines, fmt.Sprintf("pinctrl set %d ip pu", pin))
		lines = append(lines, "")
	}

	input("button_up", *cfg.GPIO.ButtonUp)
	input("button_down", *cfg.GPIO.ButtonDown)
	input("button_select", *cfg.GPIO.ButtonSelect)
	input("button_back", *cfg.GPIO.ButtonBack)

	lines = append(lines, "# backlight")
	lines = append(lines, fmt.Sprintf("pinctrl set %d op pn dh", *cfg.GPIO.Backlight))
	lines = append(lines, "")

	contents := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(cfg.BootScriptFilePath, []byte(contents), 0755)
}

// InstallService writes the systemd unit for the node. The unit runs
// the boot script first, then keeps the control loop alive; the loop
// exits intentionally for deep sleep and the restart brings it back on
// wake.
func InstallService(cfg config.Config, execPath string) error {
	unit := fmt.Sprintf(`[Unit]
Description=AquaNode water quality monitor
After=network.target

[Service]
Type=simple
ExecStartPre=/bin/bash %s
ExecStart=%s -config-file %s -db %s
Restart=always
RestartSec=5s

[Install]
WantedBy=multi-user.target
`, cfg.BootScriptFilePath, execPath, cfg.ConfigFile, cfg.DBFile)

	return os.WriteFile(cfg.OSServicePath, []byte(unit), 0644)
}

// RunBootScript applies the pin configuration immediately.
func RunBootScript(cfg config.Config) error {
	cmd := exec.Command("/bin/bash", cfg.BootScriptFilePath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
