package metrics

import (
	"github.com/DataDog/datadog-go/statsd"
	"github.com/rs/zerolog/log"
)

var client *statsd.Client

// Init connects the statsd client. With enable false the node runs
// without metrics and every emit is a no-op.
func Init(addr, namespace string, tags []string, enable bool) {
	if !enable {
		log.Info().Msg("Metrics disabled")
		return
	}

	c, err := statsd.New(addr)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize statsd client, continuing without metrics")
		return
	}
	c.Namespace = namespace
	c.Tags = tags
	client = c
	log.Info().Str("addr", addr).Msg("Metrics client initialized")
}

func Gauge(name string, value float64, tags ...string) {
	if client == nil {
		return
	}
	if err := client.Gauge(name, value, tags, 1); err != nil {
		log.Debug().Err(err).Str("metric", name).Msg("Failed to emit gauge")
	}
}

func Count(name string, value int64, tags ...string) {
	if client == nil {
		return
	}
	if err := client.Count(name, value, tags, 1); err != nil {
		log.Debug().Err(err).Str("metric", name).Msg("Failed to emit count")
	}
}

func Close() {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close statsd client")
	}
}
