package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/askiada/go-stepparams/internal/logging"
	"github.com/askiada/go-stepparams/pkg/pipeline/identity"
)

// EnvPrefix prefixes every environment variable read by Load,
// e.g. ORCHEST_STEP_UUID for step_uuid.
const EnvPrefix = "ORCHEST"

// Configuration keys.
const (
	KeyPipelinePath = "pipeline_path"
	KeyStepUUID     = "step_uuid"
	KeyStepFilePath = "step_file_path"
	KeyLogLevel     = "log_level"
)

var ErrPipelinePathRequired = errors.New("pipeline path must be set")

// Config holds the settings of the command line tool.
type Config struct {
	// PipelinePath is the location of the pipeline description document.
	PipelinePath string `mapstructure:"pipeline_path"`
	// StepUUID identifies the running step, when known.
	StepUUID string `mapstructure:"step_uuid"`
	// StepFilePath is the file the running step executes. Used when StepUUID is empty.
	StepFilePath string `mapstructure:"step_file_path"`
	// LogLevel is one of DEBUG, INFO, WARN or ERROR.
	LogLevel string `mapstructure:"log_level"`
}

func Default() Config {
	return Config{
		PipelinePath: "pipeline.json",
		LogLevel:     logging.LevelInfo,
	}
}

// NewViper returns a viper instance reading ORCHEST_* environment variables
// with the defaults already set.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// SetDefaults registers every key so environment variables are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault(KeyPipelinePath, defaults.PipelinePath)
	v.SetDefault(KeyStepUUID, defaults.StepUUID)
	v.SetDefault(KeyStepFilePath, defaults.StepFilePath)
	v.SetDefault(KeyLogLevel, defaults.LogLevel)
}

// Load reads configFile when given, then decodes the settings of v.
// Precedence follows viper: flags, environment, config file, defaults.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)

		err := v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", configFile)
		}
	}

	cfg := &Config{}

	err := v.Unmarshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode configuration")
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.PipelinePath) == "" {
		return ErrPipelinePathRequired
	}

	return nil
}

// ExecContext returns the execution context described by the configuration.
func (c *Config) ExecContext() identity.ExecContext {
	return identity.ExecContext{
		StepUUID: c.StepUUID,
		FilePath: c.StepFilePath,
	}
}
