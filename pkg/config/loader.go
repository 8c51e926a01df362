package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides
const EnvPrefix = "AGENTSYNC_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Only these top-level sections can be set from the environment; other
// AGENTSYNC_ variables (AGENTSYNC_CONFIG, AGENTSYNC_STATE_DIR, ...) are paths
var envSections = []string{"source.", "output.", "sync.", "tools."}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions selects the user configuration file
type LoadOptions struct {
	// Path of the user file; empty loads defaults and environment only
	Path string
	// Required makes a missing file an error. Set it when the path was
	// given explicitly rather than derived from XDG.
	Required bool
}

// Load builds the effective configuration and validates it
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	if opts.Path != "" {
		if _, err := os.Stat(opts.Path); err == nil {
			if err := k.Load(file.Provider(opts.Path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", opts.Path).
					WithDetail("path", opts.Path)
			}
			logger.Debug().Str("path", opts.Path).Msg("loaded user config")
		} else if opts.Required || !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "cannot read config file %s", opts.Path).
				WithDetail("path", opts.Path)
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Stringer("config", &cfg).Msg("configuration loaded")
	return &cfg, nil
}

// envKey maps AGENTSYNC_SOURCE_ROOT to source.root. Variables outside the
// configurable sections map to "" and are skipped.
func envKey(s string) string {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	for _, section := range envSections {
		if strings.HasPrefix(key, section) {
			return key
		}
	}
	return ""
}
