package hal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// W1Probe reads a DS18B20 temperature probe through the w1 sysfs
// interface. The kernel file reports milli-degrees C after a "t=" marker.
type W1Probe struct {
	Path string
}

func NewW1Probe(path string) *W1Probe {
	return &W1Probe{Path: path}
}

func (p *W1Probe) ReadCelsius() (float64, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read probe file %s: %w", p.Path, err)
	}

	content := string(data)
	idx := strings.LastIndex(content, "t=")
	if idx == -1 {
		return 0, fmt.Errorf("no temperature reading found in %s", p.Path)
	}

	raw := strings.TrimSpace(content[idx+2:])
	milli, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature value %q: %w", raw, err)
	}

	return float64(milli) / 1000.0, nil
}
