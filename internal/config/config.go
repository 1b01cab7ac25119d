package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// GPIO maps the front-panel buttons and the backlight drive pin. Buttons
// are polled active-low; the hardware debounces the edges, the menu layer
// debounces repeats.
type GPIO struct {
	ButtonUp     *int `json:"button_up"`
	ButtonDown   *int `json:"button_down"`
	ButtonSelect *int `json:"button_select"`
	ButtonBack   *int `json:"button_back"`
	Backlight    *int `json:"backlight"`
}

type Config struct {
	ConfigFile     string
	DBFile         string
	LogLevel       zerolog.Level
	InstallService bool

	TickIntervalMillis    int `json:"tick_interval_millis"`
	DebounceMillis        int `json:"debounce_millis"`
	BacklightDimSeconds   int `json:"backlight_dim_seconds"`
	DeepSleepSeconds      int `json:"deep_sleep_seconds"`
	UploadIntervalSeconds int `json:"upload_interval_seconds"`

	// sensor collaborators
	ADCDevicePath    string `json:"adc_device_path"`
	PHChannel        int    `json:"ph_channel"`
	TurbidityChannel int    `json:"turbidity_channel"`
	TDSChannel       int    `json:"tds_channel"`
	ProbePath        string `json:"probe_path"`
	LCDDevicePath    string `json:"lcd_device_path"`
	DisplayColumns   int    `json:"display_columns"`

	// upload transport
	BrokerURL string `json:"broker_url"`
	ClientID  string `json:"client_id"`
	TopicBase string `json:"topic_base"`

	// metrics
	DDAgentAddr   string   `json:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace"`
	DDTags        []string `json:"dd_tags"`
	EnableDatadog bool     `json:"enable_datadog"`

	// boot plumbing
	BootScriptFilePath string `json:"boot_script_file_path"`
	OSServicePath      string `json:"os_service_path"`

	GPIO GPIO `json:"gpio"`
}

func Load() Config {
	var cfg Config
	var logLevel string

	flag.StringVar(&cfg.ConfigFile, "config-file", "config.json", "Path to node config file")
	flag.StringVar(&cfg.DBFile, "db", "data/aquanode.db", "Path to the calibration database file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&cfg.InstallService, "install-service", false, "Write boot script and systemd unit, then exit")
	flag.Parse()

	cfg.LogLevel = parseLogLevel(logLevel)

	file, err := os.Open(cfg.ConfigFile)
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		panic("Failed to parse config file: " + err.Error())
	}

	cfg.applyDefaults()
	cfg.validate()
	return cfg
}

func parseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (cfg *Config) applyDefaults() {
	if cfg.TickIntervalMillis == 0 {
		cfg.TickIntervalMillis = 100
	}
	if cfg.DebounceMillis == 0 {
		cfg.DebounceMillis = 200
	}
	if cfg.BacklightDimSeconds == 0 {
		cfg.BacklightDimSeconds = 30
	}
	if cfg.DeepSleepSeconds == 0 {
		cfg.DeepSleepSeconds = 300
	}
	if cfg.UploadIntervalSeconds == 0 {
		cfg.UploadIntervalSeconds = 15
	}
	if cfg.ADCDevicePath == "" {
		cfg.ADCDevicePath = "/sys/bus/iio/devices/iio:device0"
	}
	if cfg.LCDDevicePath == "" {
		cfg.LCDDevicePath = "/dev/lcd"
	}
	if cfg.DisplayColumns == 0 {
		cfg.DisplayColumns = 16
	}
	if cfg.TopicBase == "" {
		cfg.TopicBase = "aquanode"
	}
	if cfg.BootScriptFilePath == "" {
		cfg.BootScriptFilePath = "/usr/local/bin/aquanode-pins.sh"
	}
	if cfg.OSServicePath == "" {
		cfg.OSServicePath = "/etc/systemd/system/aquanode.service"
	}
}

func (cfg *Config) validate() {
	var (
		missingFields []string
		usedPins      = map[int]string{}
		conflicts     []string
	)

	v := reflect.ValueOf(cfg.GPIO)
	t := reflect.TypeOf(cfg.GPIO)

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldName := t.Field(i).Tag.Get("json")

		if field.IsNil() {
			missingFields = append(missingFields, "gpio."+fieldName)
			continue
		}

		pin := int(field.Elem().Int())
		if other, exists := usedPins[pin]; exists {
			conflicts = append(conflicts, fmt.Sprintf("gpio.%s and gpio.%s both use pin %d", fieldName, other, pin))
		} else {
			usedPins[pin] = fieldName
		}
	}

	if len(missingFields) > 0 {
		panic("Missing required GPIO config fields: " + strings.Join(missingFields, ", "))
	}
	if len(conflicts) > 0 {
		panic("Conflicting GPIO pins: " + strings.Join(conflicts, ", "))
	}

	usedChannels := map[int]string{}
	for name, ch := range map[string]int{
		"ph_channel":        cfg.PHChannel,
		"turbidity_channel": cfg.TurbidityChannel,
		"tds_channel":       cfg.TDSChannel,
	} {
		if other, exists := usedChannels[ch]; exists {
			panic(fmt.Sprintf("Conflicting ADC channels: %s and %s both use channel %d", name, other, ch))
		}
		usedChannels[ch] = name
	}
}
