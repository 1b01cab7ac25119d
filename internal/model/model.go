package model

import "time"

type Channel string

const (
	ChannelTemperature Channel = "temperature"
	ChannelPH          Channel = "ph"
	ChannelTurbidity   Channel = "turbidity"
	ChannelTDS         Channel = "tds"
	ChannelEC          Channel = "ec"
)

// Reading is a single conditioned measurement. Valid is false when the
// probe read as disconnected or saturated; no magnitude flows downstream
// in that case.
type Reading struct {
	Channel   Channel
	Magnitude float64
	Unit      string
	Valid     bool
}

// CalibrationProfile holds the operator-set conversion coefficients.
// Loaders substitute defaults for missing keys, so it is always fully
// populated.
type CalibrationProfile struct {
	PHSlope       float64
	PHIntercept   float64
	TurbSlope     float64
	TurbIntercept float64
	TDSK          float64
}

// DefaultCalibration returns the factory coefficients applied when the
// store is empty or an entry is missing.
func DefaultCalibration() CalibrationProfile {
	return CalibrationProfile{
		PHSlope:       -1.5,
		PHIntercept:   7.0,
		TurbSlope:     -50.0,
		TurbIntercept: 100.0,
		TDSK:          0.5,
	}
}

// UploadPayload is one complete measurement cycle. It is built only when
// every constituent reading is valid. Field names match the remote
// time-series schema.
type UploadPayload struct {
	Temperature float64 `json:"t"`
	PH          float64 `json:"p"`
	Turbidity   float64 `json:"n"`
	TDS         float64 `json:"d"`
	EC          float64 `json:"ec"`
	Timestamp   int64   `json:"timestamp"`
}

// PowerState tracks the node's power-save posture and the two clocks the
// power manager evaluates each tick. LastSample doubles as the upload
// scheduler's attempt clock.
type PowerState struct {
	PowerSaveEnabled bool
	BacklightOn      bool
	LastActivity     time.Time
	LastSample       time.Time
}
