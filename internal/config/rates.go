package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// RateConfig holds the shipping rate tables. Values not present in the
// config file fall back to the compiled-in defaults.
type RateConfig struct {
	BaseRates             map[string]float64 `mapstructure:"baseRates"`
	ZoneMultipliers       map[string]float64 `mapstructure:"zoneMultipliers"`
	DefaultZoneMultiplier float64            `mapstructure:"defaultZoneMultiplier"`
	BoxFee                float64            `mapstructure:"boxFee"`
	FuelSurchargePct      float64            `mapstructure:"fuelSurchargePct"`
	HandlingFee           float64            `mapstructure:"handlingFee"`
}

func DefaultRateConfig() RateConfig {
	return RateConfig{
		BaseRates: map[string]float64{
			"ground":   4.5,
			"express":  7.5,
			"priority": 11.5,
		},
		ZoneMultipliers: map[string]float64{
			"US->US": 1.0,
			"US->CA": 1.2,
			"US->EU": 1.6,
			"US->CN": 1.8,
			"EU->EU": 1.0,
			"EU->US": 1.5,
		},
		DefaultZoneMultiplier: 1.7,
		BoxFee:                2.5,
		FuelSurchargePct:      0.12,
		HandlingFee:           0,
	}
}

// RateConfigHolder serves the current rate tables and hot-reloads them when
// the config file changes on disk.
type RateConfigHolder struct {
	current atomic.Value // holds RateConfig
}

func NewRateConfigHolder(log *zap.Logger) (*RateConfigHolder, error) {
	log = log.Named("config.rates")

	v := viper.New()

	v.SetConfigName("rates")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/smartpricing")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SMARTPRICING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &RateConfigHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultRateConfig())
		return holder, nil
	}

	cfg, err := unmarshalRates(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(cfg)

	v.OnConfigChange(func(e fsnotify.Event) {
		reloaded, err := unmarshalRates(v)
		if err != nil {
			log.Warn("rate config reload failed, keeping previous",
				zap.String("file", e.Name),
				zap.Error(err),
			)
			return
		}
		holder.current.Store(reloaded)
		log.Info("rate config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

// Current returns the active rate tables.
func (h *RateConfigHolder) Current() RateConfig {
	if cfg, ok := h.current.Load().(RateConfig); ok {
		return cfg
	}
	return DefaultRateConfig()
}

// Store replaces the active rate tables. Intended for tests.
func (h *RateConfigHolder) Store(cfg RateConfig) {
	h.current.Store(cfg.withDefaults())
}

func unmarshalRates(v *viper.Viper) (RateConfig, error) {
	var cfg RateConfig
	if err := v.UnmarshalKey("rates", &cfg); err != nil {
		return RateConfig{}, err
	}
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return RateConfig{}, err
	}
	return cfg, nil
}

func (c RateConfig) withDefaults() RateConfig {
	defaults := DefaultRateConfig()
	if len(c.BaseRates) == 0 {
		c.BaseRates = defaults.BaseRates
	}
	if len(c.ZoneMultipliers) == 0 {
		c.ZoneMultipliers = defaults.ZoneMultipliers
	}
	if c.DefaultZoneMultiplier <= 0 {
		c.DefaultZoneMultiplier = defaults.DefaultZoneMultiplier
	}
	if c.BoxFee <= 0 {
		c.BoxFee = defaults.BoxFee
	}
	if c.FuelSurchargePct <= 0 {
		c.FuelSurchargePct = defaults.FuelSurchargePct
	}
	if c.HandlingFee < 0 {
		c.HandlingFee = defaults.HandlingFee
	}
	return c
}

func (c RateConfig) validate() error {
	for level, rate := range c.BaseRates {
		if rate <= 0 {
			return errors.New("base rate must be positive for " + level)
		}
	}
	for pair, mult := range c.ZoneMultipliers {
		if mult <= 0 {
			return errors.New("zone multiplier must be positive for " + pair)
		}
	}
	return nil
}
