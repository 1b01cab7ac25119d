package uploader

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquasense/aquanode/internal/model"
)

type fakeSource struct {
	tdsValid bool
}

func (f *fakeSource) Temperature() model.Reading {
	return model.Reading{Channel: model.ChannelTemperature, Magnitude: 21.0, Unit: "C", Valid: true}
}

func (f *fakeSource) PH() model.Reading {
	return model.Reading{Channel: model.ChannelPH, Magnitude: 7.1, Valid: true}
}

func (f *fakeSource) Turbidity() model.Reading {
	return model.Reading{Channel: model.ChannelTurbidity, Magnitude: 12.0, Unit: "NTU", Valid: true}
}

func (f *fakeSource) TDS() model.Reading {
	return model.Reading{Channel: model.ChannelTDS, Magnitude: 0.8, Unit: "ppm", Valid: f.tdsValid}
}

func (f *fakeSource) ECFromTDS(tds model.Reading) model.Reading {
	if !tds.Valid {
		return model.Reading{Channel: model.ChannelEC, Valid: false}
	}
	return model.Reading{Channel: model.ChannelEC, Magnitude: tds.Magnitude * 2, Unit: "uS/cm", Valid: true}
}

type fakeTransport struct {
	paths    []string
	payloads []model.UploadPayload
	err      error
}

func (f *fakeTransport) Send(path string, payload model.UploadPayload) error {
	f.paths = append(f.paths, path)
	f.payloads = append(f.payloads, payload)
	return f.err
}

func newTestScheduler(tdsValid bool) (*Scheduler, *fakeTransport, *model.PowerState) {
	state := &model.PowerState{}
	transport := &fakeTransport{}
	s := New(&fakeSource{tdsValid: tdsValid}, transport, 15*time.Second, state)
	return s, transport, state
}

func TestShouldUpload_PowerSaveAlwaysFalse(t *testing.T) {
	s, _, state := newTestScheduler(true)
	state.PowerSaveEnabled = true
	state.LastSample = time.Now().Add(-time.Hour)

	assert.False(t, s.ShouldUpload(time.Now()))
}

func TestShouldUpload_Cadence(t *testing.T) {
	s, _, state := newTestScheduler(true)
	now := time.Now()
	state.LastSample = now.Add(-14 * time.Second)

	assert.False(t, s.ShouldUpload(now))

	state.LastSample = now.Add(-15 * time.Second)
	assert.True(t, s.ShouldUpload(now))
}

func TestTick_SendsAndStampsSampleClock(t *testing.T) {
	s, transport, state := newTestScheduler(true)
	now := time.Now()
	state.LastSample = now.Add(-time.Minute)

	s.Tick(now)

	require.Len(t, transport.payloads, 1)
	assert.Equal(t, now, state.LastSample)

	p := transport.payloads[0]
	assert.Equal(t, 21.0, p.Temperature)
	assert.Equal(t, 7.1, p.PH)
	assert.Equal(t, 12.0, p.Turbidity)
	assert.Equal(t, 0.8, p.TDS)
	assert.Equal(t, 1.6, p.EC)
	assert.Equal(t, now.Unix(), p.Timestamp)

	// The next tick inside the interval does nothing.
	s.Tick(now.Add(time.Second))
	assert.Len(t, transport.payloads, 1)
}

func TestTick_InvalidReadingSkipsTransport(t *testing.T) {
	s, transport, state := newTestScheduler(false)
	now := time.Now()
	state.LastSample = now.Add(-time.Minute)

	s.Tick(now)

	assert.Empty(t, transport.paths, "no transport call on an invalid cycle")
	assert.Equal(t, now, state.LastSample, "attempt still stamps the sample clock")
}

func TestTick_TransportFailureNoRetry(t *testing.T) {
	s, transport, state := newTestScheduler(true)
	transport.err = errors.New("broker unreachable")
	now := time.Now()
	state.LastSample = now.Add(-time.Minute)

	s.Tick(now)
	require.Len(t, transport.paths, 1)

	// Failure does not re-arm an early retry; next attempt only at the
	// normal cadence.
	s.Tick(now.Add(5 * time.Second))
	assert.Len(t, transport.paths, 1)

	s.Tick(now.Add(16 * time.Second))
	assert.Len(t, transport.paths, 2)
}

func TestSendNow_BypassesPowerSave(t *testing.T) {
	s, transport, state := newTestScheduler(true)
	state.PowerSaveEnabled = true
	now := time.Now()

	s.SendNow(now)

	require.Len(t, transport.paths, 1)
	assert.Equal(t, now, state.LastSample, "manual send resets the deep-sleep clock")
}

func TestBuildPayload_Path(t *testing.T) {
	s, transport, state := newTestScheduler(true)
	now := time.Unix(1700000000, 0)
	state.LastSample = now.Add(-time.Minute)

	s.Tick(now)

	require.Len(t, transport.paths, 1)
	assert.Equal(t, "/r/1700000000", transport.paths[0])
}
