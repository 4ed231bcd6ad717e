package cmd

import (
	"os"
	"strings"

	"github.com/healthforge/cdssandbox/component/cdsservice"
	libHTTP "github.com/healthforge/cdssandbox/component/http"
	"github.com/healthforge/cdssandbox/component/sandbox"
	"github.com/healthforge/cdssandbox/component/tracing"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const configFile = "config/cdssandbox.yml"

const envPrefix = "CDSSB_"

type Config struct {
	HTTP       libHTTP.Config    `koanf:"http"`
	Tracing    tracing.Config    `koanf:"tracing"`
	CDSService cdsservice.Config `koanf:"cdsservice"`
	Sandbox    sandbox.Config    `koanf:"sandbox"`
}

func DefaultConfig() Config {
	return Config{
		HTTP:       libHTTP.DefaultConfig(),
		CDSService: cdsservice.DefaultConfig(),
		Sandbox:    sandbox.DefaultConfig(),
	}
}

// LoadConfig builds the configuration in three layers: defaults, then an
// optional config/cdssandbox.yml, then CDSSB_-prefixed environment variables.
// Each layer overrides the one before it.
func LoadConfig() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, errors.Wrap(err, "failed to load default configuration")
	}

	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "failed to load configuration file %s", configFile)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to load configuration from environment")
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal configuration")
	}
	return config, nil
}
