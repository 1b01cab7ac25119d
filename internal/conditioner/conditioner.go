package conditioner

import (
	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/model"
)

const (
	maxCode          = 4095
	referenceVoltage = 3.3
	windowSize       = 3

	phTempCoeff    = 0.0198
	tdsTempCoeff   = 0.02
	referenceTempC = 25.0
	ecFromTDS      = 2.0
)

// RollingSample is a fixed circular buffer averaged over every slot,
// including slots not yet written. Fresh buffers therefore bias low
// until the window fills, which keeps startup transients damped.
type RollingSample struct {
	buf [windowSize]float64
	ptr int
}

// Push stores a new voltage and returns the mean across the window.
func (r *RollingSample) Push(v float64) float64 {
	r.buf[r.ptr] = v
	r.ptr = (r.ptr + 1) % windowSize

	var sum float64
	for _, s := range r.buf {
		sum += s
	}
	return sum / windowSize
}

// TemperatureSource supplies the water temperature used for
// compensation.
type TemperatureSource interface {
	Celsius() float64
}

// Conditioner turns raw ADC codes into calibrated readings. Each analog
// channel keeps its own smoothing window; a faulted sample leaves its
// window untouched.
type Conditioner struct {
	profile model.CalibrationProfile
	temp    TemperatureSource

	phWindow   RollingSample
	turbWindow RollingSample
	tdsWindow  RollingSample
}

func New(profile model.CalibrationProfile, temp TemperatureSource) *Conditioner {
	return &Conditioner{profile: profile, temp: temp}
}

// SetProfile swaps the active calibration coefficients. Smoothing
// windows carry over unchanged.
func (c *Conditioner) SetProfile(profile model.CalibrationProfile) {
	c.profile = profile
}

// voltage converts a raw code into a smoothed voltage. A code exactly at
// either rail means the probe is disconnected or saturated.
func voltage(raw int, window *RollingSample, ch model.Channel) (float64, bool) {
	if raw == 0 || raw == maxCode {
		log.Warn().Int("raw", raw).Str("channel", string(ch)).Msg("Analog reading at rail, dropping sample")
		return 0, false
	}
	v := float64(raw) * referenceVoltage / maxCode
	return window.Push(v), true
}

// Temperature reports the compensation temperature as a reading. The
// source already substitutes a default for probe faults, so it is always
// valid.
func (c *Conditioner) Temperature() model.Reading {
	return model.Reading{
		Channel:   model.ChannelTemperature,
		Magnitude: c.temp.Celsius(),
		Unit:      "C",
		Valid:     true,
	}
}

// PH converts a raw pH probe code. The slope model is adjusted by the
// Nernstian temperature coefficient and the result is clamped to the pH
// scale.
func (c *Conditioner) PH(raw int) model.Reading {
	v, ok := voltage(raw, &c.phWindow, model.ChannelPH)
	if !ok {
		return model.Reading{Channel: model.ChannelPH, Valid: false}
	}

	ph := c.profile.PHSlope*v + c.profile.PHIntercept
	ph += phTempCoeff * (c.temp.Celsius() - referenceTempC)
	ph = clamp(ph, 0, 14)

	return model.Reading{Channel: model.ChannelPH, Magnitude: ph, Valid: true}
}

// Turbidity converts a raw turbidity code through the linear calibration
// model, clamped to the sensor's rated NTU range.
func (c *Conditioner) Turbidity(raw int) model.Reading {
	v, ok := voltage(raw, &c.turbWindow, model.ChannelTurbidity)
	if !ok {
		return model.Reading{Channel: model.ChannelTurbidity, Valid: false}
	}

	ntu := c.profile.TurbSlope*v + c.profile.TurbIntercept
	ntu = clamp(ntu, 0, 150)

	return model.Reading{Channel: model.ChannelTurbidity, Magnitude: ntu, Unit: "NTU", Valid: true}
}

// TDS converts a raw TDS code. Conductivity rises with temperature, so
// the scale factor compensates around the reference temperature.
func (c *Conditioner) TDS(raw int) model.Reading {
	v, ok := voltage(raw, &c.tdsWindow, model.ChannelTDS)
	if !ok {
		return model.Reading{Channel: model.ChannelTDS, Valid: false}
	}

	ppm := v * c.profile.TDSK
	ppm *= 1 + tdsTempCoeff*(c.temp.Celsius()-referenceTempC)

	return model.Reading{Channel: model.ChannelTDS, Magnitude: ppm, Unit: "ppm", Valid: true}
}

// ECFromTDS derives electrical conductivity from an already-conditioned
// TDS reading. No new sample is taken.
func (c *Conditioner) ECFromTDS(tds model.Reading) model.Reading {
	if !tds.Valid {
		return model.Reading{Channel: model.ChannelEC, Valid: false}
	}
	return model.Reading{
		Channel:   model.ChannelEC,
		Magnitude: tds.Magnitude * ecFromTDS,
		Unit:      "uS/cm",
		Valid:     true,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
