package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// InvoicingConfig holds the operator-tunable invoicing defaults. The number
// template must keep (year, sequence) -> number injective; the bundled
// default pads sequences to four digits (e.g. 2025-0007).
type InvoicingConfig struct {
	NumberTemplate  string `mapstructure:"numberTemplate"`
	DueInDays       int    `mapstructure:"dueInDays"`
	SequenceRetries int    `mapstructure:"sequenceRetries"`
}

func DefaultInvoicingConfig() InvoicingConfig {
	return InvoicingConfig{
		NumberTemplate:  "{YYYY}-{SEQ4}",
		DueInDays:       30,
		SequenceRetries: 5,
	}
}

// InvoicingConfigHolder serves the current invoicing defaults and hot-reloads
// them when the config file changes.
type InvoicingConfigHolder struct {
	current atomic.Value // holds InvoicingConfig
}

func NewInvoicingConfigHolder() (*InvoicingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("invoicing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/vzwledger")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VZWLEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultInvoicingConfig()
		v.SetDefault("invoicing.numberTemplate", defaults.NumberTemplate)
		v.SetDefault("invoicing.dueInDays", defaults.DueInDays)
		v.SetDefault("invoicing.sequenceRetries", defaults.SequenceRetries)
	}

	var cfg InvoicingConfig
	if err := v.UnmarshalKey("invoicing", &cfg); err != nil {
		return nil, err
	}
	if err := validateInvoicingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &InvoicingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InvoicingConfig
		if err := v.UnmarshalKey("invoicing", &updated); err != nil {
			log.Printf("[invoicing-config] reload failed: %v", err)
			return
		}
		if err := validateInvoicingConfig(updated); err != nil {
			log.Printf("[invoicing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invoicing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *InvoicingConfigHolder) Get() InvoicingConfig {
	return h.current.Load().(InvoicingConfig)
}

func validateInvoicingConfig(cfg InvoicingConfig) error {
	if strings.TrimSpace(cfg.NumberTemplate) == "" {
		return errors.New("invoicing.numberTemplate cannot be empty")
	}
	if !strings.Contains(cfg.NumberTemplate, "{SEQ") {
		return errors.New("invoicing.numberTemplate must contain a sequence token")
	}
	if cfg.DueInDays < 0 {
		return errors.New("invoicing.dueInDays cannot be negative")
	}
	if cfg.SequenceRetries < 1 {
		return errors.New("invoicing.sequenceRetries must be at least 1")
	}
	return nil
}
