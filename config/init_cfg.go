package config

import (
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/ColdToo/ColdPBFT/code"
	"github.com/ColdToo/ColdPBFT/log"
)

var (
	Viper *viper.Viper
	Conf  *Config
)

// Config is the operator-set local configuration, read from a yaml file
// before the node talks to anything. On-chain settings never live here.
type Config struct {
	ZapConf  *log.ZapConfig `mapstructure:"zap"`
	NodeConf *NodeConfig    `mapstructure:"node"`
}

type NodeConfig struct {
	// ValidatorEndpoint is the REST endpoint of the local validator.
	ValidatorEndpoint string `mapstructure:"validatorEndpoint" yaml:"validatorEndpoint"`

	// Storage overrides where PBFT state is kept ("memory" or a file
	// path). Empty keeps the compiled-in default.
	Storage string `mapstructure:"storage" yaml:"storage"`

	// ConnectTimeout bounds a single validator HTTP call.
	ConnectTimeout time.Duration `mapstructure:"connectTimeout" yaml:"connectTimeout"`
}

func InitConfig(path string) {
	Viper = viper.New()
	Viper.SetConfigFile(path)
	Viper.SetConfigType("yaml")
	if err := Viper.ReadInConfig(); err != nil {
		panic(errors.Wrapf(code.ErrLocalConfig, "%s: %v", path, err))
	}
	Conf = new(Config)
	if err := Viper.Unmarshal(Conf); err != nil {
		panic(errors.Wrapf(code.ErrLocalConfig, "%s: %v", path, err))
	}

	Viper.WatchConfig()
	Viper.OnConfigChange(func(e fsnotify.Event) {
		log.Infof("config file changed: %s", e.Name)
		if err := Viper.Unmarshal(Conf); err != nil {
			log.Errorf("config file reload failed: %v", err)
		}
	})
}

func GetZapConf() *log.ZapConfig {
	return Conf.ZapConf
}

func GetNodeConf() *NodeConfig {
	return Conf.NodeConf
}
