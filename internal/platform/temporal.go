package platform

import (
	"crypto/tls"

	"github.com/rs/zerolog"
	temporalclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/edvin/signalstart/internal/config"
	"github.com/edvin/signalstart/internal/logging"
)

// ClientOptions assembles the Temporal client options shared by every
// process: address, namespace, identity, logger, data converter, mTLS and
// API key credentials. An API key without a client certificate still dials
// over TLS.
func ClientOptions(cfg *config.Config, identity string, logger zerolog.Logger, dc converter.DataConverter) (temporalclient.Options, error) {
	opts := temporalclient.Options{
		HostPort:      cfg.TemporalAddress,
		Namespace:     cfg.TemporalNamespace,
		Identity:      identity,
		Logger:        logging.NewTemporalLogger(logger),
		DataConverter: dc,
	}

	tlsConfig, err := cfg.TemporalTLS()
	if err != nil {
		return temporalclient.Options{}, err
	}
	if tlsConfig != nil {
		opts.ConnectionOptions = temporalclient.ConnectionOptions{TLS: tlsConfig}
		logger.Info().Msg("temporal mTLS enabled")
	}

	if cfg.TemporalAPIKey != "" {
		opts.Credentials = temporalclient.NewAPIKeyStaticCredentials(cfg.TemporalAPIKey)
		if opts.ConnectionOptions.TLS == nil {
			opts.ConnectionOptions.TLS = &tls.Config{ServerName: cfg.TemporalTLSServerName}
		}
		logger.Info().Msg("temporal API key authentication enabled")
	}
	return opts, nil
}

// DialTemporal connects to the Temporal frontend described by cfg.
func DialTemporal(cfg *config.Config, identity string, logger zerolog.Logger, dc converter.DataConverter) (temporalclient.Client, error) {
	opts, err := ClientOptions(cfg, identity, logger, dc)
	if err != nil {
		return nil, err
	}
	return temporalclient.Dial(opts)
}
