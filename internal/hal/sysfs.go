package hal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// IIOChannel reads raw ADC codes from a Linux industrial I/O device.
// Each read opens and parses /sys/.../in_voltage<N>_raw, matching how
// the kernel exposes single-shot conversions.
type IIOChannel struct {
	DevicePath string
	Channel    int
}

func NewIIOChannel(devicePath string, channel int) *IIOChannel {
	return &IIOChannel{DevicePath: devicePath, Channel: channel}
}

func (c *IIOChannel) Read() (int, error) {
	path := fmt.Sprintf("%s/in_voltage%d_raw", c.DevicePath, c.Channel)
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read ADC channel %d: %w", c.Channel, err)
	}
	raw, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("unexpected ADC output %q: %w", strings.TrimSpace(string(data)), err)
	}
	return raw, nil
}
