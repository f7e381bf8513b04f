package rcv

import (
	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
	"github.com/go-viper/mapstructure/v2"
)

// Config is the jurisdiction-level configuration this core accepts: the
// default normalization/tabulation tags applied when a contest's own
// ElectionInfo leaves them blank. SPEC_FULL.md §2.4.
type Config struct {
	DefaultFormatTag        string `yaml:"defaultFormatTag"`
	DefaultNormalizationTag string `yaml:"defaultNormalizationTag"`
	DefaultTabulationTag    string `yaml:"defaultTabulationTag"`
}

// defaultConfig mirrors spec.md's two recognized normalizer tags.
var defaultConfig = Config{
	DefaultFormatTag:        "simple",
	DefaultNormalizationTag: "simple",
	DefaultTabulationTag:    "irv-batched",
}

// LoadConfig parses YAML jurisdiction configuration and merges it over
// defaultConfig, so a partial document only overrides the fields it sets.
func LoadConfig(data []byte) (Config, error) {
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, WrapError(ErrConfiguration, err)
	}
	if err := mergo.Merge(&cfg, defaultConfig); err != nil {
		return Config{}, WrapError(ErrConfiguration, err)
	}
	return cfg, nil
}

// ApplyDefaults fills in any blank tag fields of info from cfg.
func (cfg Config) ApplyDefaults(info ElectionInfo) ElectionInfo {
	if info.FormatTag == "" {
		info.FormatTag = cfg.DefaultFormatTag
	}
	if info.NormalizationTag == "" {
		info.NormalizationTag = cfg.DefaultNormalizationTag
	}
	if info.TabulationTag == "" {
		info.TabulationTag = cfg.DefaultTabulationTag
	}
	return info
}

// NewElectionInfo decodes a loosely typed jurisdiction metadata map (as
// produced by a raw-format adapter's own discovery step) into an
// ElectionInfo, per spec.md §3's "opaque to the core" contract.
func NewElectionInfo(raw map[string]any) (ElectionInfo, error) {
	var info ElectionInfo
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &info,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return ElectionInfo{}, WrapError(ErrConfiguration, err)
	}
	if err := decoder.Decode(raw); err != nil {
		return ElectionInfo{}, WrapError(ErrConfiguration, err)
	}
	return info, nil
}
