package uploader

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/metrics"
	"github.com/aquasense/aquanode/internal/model"
)

// Transport delivers one payload to the collection endpoint.
type Transport interface {
	Send(path string, payload model.UploadPayload) error
}

// Source produces the readings that make up one upload cycle.
type Source interface {
	Temperature() model.Reading
	PH() model.Reading
	Turbidity() model.Reading
	TDS() model.Reading
	ECFromTDS(tds model.Reading) model.Reading
}

// Scheduler runs the periodic upload cadence. Every attempt, scheduled
// or manual, stamps LastSample, which is also the clock the power
// manager uses for its deep-sleep decision. Power save suppresses
// scheduled attempts and so freezes that clock.
type Scheduler struct {
	source    Source
	transport Transport
	interval  time.Duration
	state     *model.PowerState
}

func New(source Source, transport Transport, interval time.Duration, state *model.PowerState) *Scheduler {
	return &Scheduler{source: source, transport: transport, interval: interval, state: state}
}

// ShouldUpload reports whether a scheduled attempt is due. Always false
// while power save is enabled, regardless of elapsed time.
func (s *Scheduler) ShouldUpload(now time.Time) bool {
	if s.state.PowerSaveEnabled {
		return false
	}
	return now.Sub(s.state.LastSample) >= s.interval
}

// Tick runs one scheduler evaluation; called once per main-loop tick.
func (s *Scheduler) Tick(now time.Time) {
	if !s.ShouldUpload(now) {
		return
	}
	s.send(now)
}

// SendNow is the operator's manual send. It bypasses both the cadence
// and the power-save gate, and still stamps the shared sample clock.
func (s *Scheduler) SendNow(now time.Time) {
	s.send(now)
}

func (s *Scheduler) send(now time.Time) {
	s.state.LastSample = now

	payload, ok := s.BuildPayload(now)
	if !ok {
		log.Warn().Msg("Skipping upload, one or more readings invalid")
		metrics.Count("upload.skipped", 1)
		return
	}

	path := fmt.Sprintf("/r/%d", now.Unix())
	if err := s.transport.Send(path, payload); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Upload failed")
		metrics.Count("upload.failed", 1)
		return
	}

	log.Debug().Str("path", path).Msg("Upload succeeded")
	metrics.Count("upload.sent", 1)
	metrics.Gauge("reading.temperature", payload.Temperature)
	metrics.Gauge("reading.ph", payload.PH)
	metrics.Gauge("reading.turbidity", payload.Turbidity)
	metrics.Gauge("reading.tds", payload.TDS)
	metrics.Gauge("reading.ec", payload.EC)
}

// BuildPayload samples every channel in order. Any invalid reading
// abandons the cycle.
func (s *Scheduler) BuildPayload(now time.Time) (model.UploadPayload, bool) {
	temp := s.source.Temperature()
	ph := s.source.PH()
	turb := s.source.Turbidity()
	tds := s.source.TDS()
	ec := s.source.ECFromTDS(tds)

	for _, r := range []model.Reading{temp, ph, turb, tds, ec} {
		if !r.Valid {
			log.Debug().Str("channel", string(r.Channel)).Msg("Invalid reading in upload cycle")
			return model.UploadPayload{}, false
		}
	}

	return model.UploadPayload{
		Temperature: temp.Magnitude,
		PH:          ph.Magnitude,
		Turbidity:   turb.Magnitude,
		TDS:         tds.Magnitude,
		EC:          ec.Magnitude,
		Timestamp:   now.Unix(),
	}, true
}
