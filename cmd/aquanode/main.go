package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aquasense/aquanode/internal/calibration"
	"github.com/aquasense/aquanode/internal/conditioner"
	"github.com/aquasense/aquanode/internal/config"
	"github.com/aquasense/aquanode/internal/controller"
	"github.com/aquasense/aquanode/internal/display"
	"github.com/aquasense/aquanode/internal/hal"
	"github.com/aquasense/aquanode/internal/logging"
	"github.com/aquasense/aquanode/internal/metrics"
	"github.com/aquasense/aquanode/internal/model"
	"github.com/aquasense/aquanode/internal/power"
	"github.com/aquasense/aquanode/internal/tempsense"
	"github.com/aquasense/aquanode/internal/transport"
	"github.com/aquasense/aquanode/system/sleep"
	"github.com/aquasense/aquanode/system/startup"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	log.Info().
		Str("db_file", cfg.DBFile).
		Str("broker", cfg.BrokerURL).
		Msg("Starting AquaNode")

	if cfg.InstallService {
		if err := startup.WriteBootScript(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to write boot script")
		}
		execPath, err := os.Executable()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to resolve executable path")
		}
		if err := startup.InstallService(cfg, execPath); err != nil {
			log.Fatal().Err(err).Msg("Failed to install systemd unit")
		}
		log.Info().Str("unit", cfg.OSServicePath).Msg("Service installed")
		return
	}

	if err := startup.RunBootScript(cfg); err != nil {
		log.Warn().Err(err).Msg("Boot script failed, continuing with current pin state")
	}

	metrics.Init(cfg.DDAgentAddr, cfg.DDNamespace, cfg.DDTags, cfg.EnableDatadog)
	defer metrics.Close()

	store, err := calibration.Open(cfg.DBFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open calibration store")
	}
	defer store.Close()

	profile, err := store.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load calibration, using defaults")
		profile = model.DefaultCalibration()
	}

	powerSave, err := store.LoadPowerSave()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load power-save flag, defaulting to off")
	}

	lcd := hal.NewCharLCD(cfg.LCDDevicePath, cfg.DisplayColumns, *cfg.GPIO.Backlight)
	render := display.New(lcd)

	probe := tempsense.New(hal.NewW1Probe(cfg.ProbePath))
	cond := conditioner.New(profile, probe)

	mq, err := transport.NewMQTT(cfg.BrokerURL, cfg.ClientID, cfg.TopicBase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect upload transport")
	}
	defer mq.Close()

	now := time.Now()
	state := &model.PowerState{
		PowerSaveEnabled: powerSave,
		BacklightOn:      true,
		LastActivity:     now,
		LastSample:       now,
	}
	render.Backlight(true)

	node := controller.New(controller.Deps{
		Conditioner: cond,
		Sensors: controller.Sensors{
			PH:        hal.NewIIOChannel(cfg.ADCDevicePath, cfg.PHChannel),
			Turbidity: hal.NewIIOChannel(cfg.ADCDevicePath, cfg.TurbidityChannel),
			TDS:       hal.NewIIOChannel(cfg.ADCDevicePath, cfg.TDSChannel),
		},
		Buttons: &hal.PinButtons{
			UpPin:     *cfg.GPIO.ButtonUp,
			DownPin:   *cfg.GPIO.ButtonDown,
			SelectPin: *cfg.GPIO.ButtonSelect,
			BackPin:   *cfg.GPIO.ButtonBack,
		},
		Render:         render,
		Power:          power.New(time.Duration(cfg.BacklightDimSeconds)*time.Second, time.Duration(cfg.DeepSleepSeconds)*time.Second),
		State:          state,
		Settings:       store,
		Debounce:       time.Duration(cfg.DebounceMillis) * time.Millisecond,
		UploadInterval: time.Duration(cfg.UploadIntervalSeconds) * time.Second,
		Tick:           time.Duration(cfg.TickIntervalMillis) * time.Millisecond,
		Transport:      mq,
	})

	node.Run()

	sleep.DeepSleep(render, *cfg.GPIO.ButtonSelect)
}
