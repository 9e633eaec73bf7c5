package config

import (
	"io"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const appID = "storefront"

type Config struct {
	LogLevel      string `envconfig:"log_level" default:"info"`
	LogFormat     string `envconfig:"log_format" default:"text"`
	IDStrategy    string `envconfig:"id_strategy" default:"uuid"`
	SnowflakeNode int64  `envconfig:"snowflake_node" default:"1"`
	AssumeYes     bool   `envconfig:"assume_yes" default:"false"`
	SampleData    bool   `envconfig:"sample_data" default:"true"`
	SeedFile      string `envconfig:"seed_file"`
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process(appID, &c); err != nil {
		return c, errors.Wrap(err, "failed to parse env")
	}
	return c, nil
}

func NewLogger(c Config, out io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(level)
	switch strings.ToLower(c.LogFormat) {
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	default:
		return nil, errors.Errorf("unknown log format %q", c.LogFormat)
	}
	return logger, nil
}
