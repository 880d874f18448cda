package configflags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
	"k8s.io/apimachinery/pkg/util/sets"

	v1 "github.com/jupyterhub/prboard/pkg/apis/config/v1"
	"github.com/jupyterhub/prboard/pkg/fields"
)

// ConfigFlags points at the optional YAML configuration file overriding
// the classification defaults.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"Configuration file overriding the bot list and contributor thresholds (optional)")
}

// GetFieldConfig merges the config file, if any, over the compiled-in
// defaults.
func (f *ConfigFlags) GetFieldConfig() (fields.Config, error) {
	cfg := fields.DefaultConfig()
	if f.Path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return cfg, errors.WithMessage(err, "could not load config")
	}
	var boardConfig v1.BoardConfig
	if err := yaml.Unmarshal(data, &boardConfig); err != nil {
		return cfg, errors.WithMessage(err, "couldn't unmarshal config")
	}

	if len(boardConfig.Bots) > 0 {
		cfg.Bots = sets.NewString(boardConfig.Bots...)
	}
	if boardConfig.EarlyContributorThreshold > 0 {
		cfg.EarlyContributorThreshold = boardConfig.EarlyContributorThreshold
	}
	return cfg, nil
}
