package tempsense

import (
	"github.com/rs/zerolog/log"
)

// DefaultCelsius is substituted whenever the probe cannot produce a
// trustworthy reading, so compensation math always has a temperature.
const DefaultCelsius = 25.0

// DS18B20 sentinel codes. -127 is the disconnected marker, 85 is the
// power-on reset value reported before the first conversion finishes.
const (
	sentinelDisconnected = -127.0
	sentinelPowerOnReset = 85.0
)

// Probe reads the raw water temperature in degrees C.
type Probe interface {
	ReadCelsius() (float64, error)
}

// Source wraps a probe and normalizes its failure modes to a usable
// temperature.
type Source struct {
	probe Probe
}

func New(probe Probe) *Source {
	return &Source{probe: probe}
}

func (s *Source) Celsius() float64 {
	temp, err := s.probe.ReadCelsius()
	if err != nil {
		log.Warn().Err(err).Float64("fallback_c", DefaultCelsius).Msg("Temperature probe read failed")
		return DefaultCelsius
	}
	if temp == sentinelDisconnected || temp == sentinelPowerOnReset {
		log.Warn().Float64("sentinel", temp).Float64("fallback_c", DefaultCelsius).Msg("Temperature probe returned sentinel value")
		return DefaultCelsius
	}
	return temp
}
