package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// RoyaltyConfig mirrors the `royalty` section of royalty.yml.
type RoyaltyConfig struct {
	PlayThreshold PlayThresholdConfig
	Purchase      PurchaseConfig
	Settlement    SettlementConfig
}

type PlayThresholdConfig struct {
	UnitPlays  int64
	UnitPayout string
}

type PurchaseConfig struct {
	OwnerPercentage string
}

type SettlementConfig struct {
	DefaultPayoutMethodID string
	DayOfMonth            int
}

// RoyaltyRates is the validated, parsed form of RoyaltyConfig.
type RoyaltyRates struct {
	UnitPlays             int64
	UnitPayout            decimal.Decimal
	OwnerPercentage       decimal.Decimal
	DefaultPayoutMethodID string
	SettlementDayOfMonth  int
}

func DefaultRoyaltyConfig() RoyaltyConfig {
	return RoyaltyConfig{
		PlayThreshold: PlayThresholdConfig{
			UnitPlays:  1000,
			UnitPayout: "5.00",
		},
		Purchase: PurchaseConfig{
			OwnerPercentage: "0.80",
		},
		Settlement: SettlementConfig{
			DefaultPayoutMethodID: "DEFAULT",
			DayOfMonth:            1,
		},
	}
}

func DefaultRoyaltyRates() RoyaltyRates {
	rates, err := parseRoyaltyConfig(DefaultRoyaltyConfig())
	if err != nil {
		panic(err)
	}
	return rates
}

type RoyaltyConfigHolder struct {
	current atomic.Value // holds RoyaltyRates
}

func NewRoyaltyConfigHolder() (*RoyaltyConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("royalty")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/royalty/config")
	v.AddConfigPath("/etc/royalty")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ROYALTY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRoyaltyConfig()
	v.SetDefault("royalty.playThreshold.unitPlays", defaults.PlayThreshold.UnitPlays)
	v.SetDefault("royalty.playThreshold.unitPayout", defaults.PlayThreshold.UnitPayout)
	v.SetDefault("royalty.purchase.ownerPercentage", defaults.Purchase.OwnerPercentage)
	v.SetDefault("royalty.settlement.defaultPayoutMethodId", defaults.Settlement.DefaultPayoutMethodID)
	v.SetDefault("royalty.settlement.dayOfMonth", defaults.Settlement.DayOfMonth)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg RoyaltyConfig
	if err := v.UnmarshalKey("royalty", &cfg); err != nil {
		return nil, err
	}
	rates, err := parseRoyaltyConfig(cfg)
	if err != nil {
		return nil, err
	}

	holder := &RoyaltyConfigHolder{}
	holder.current.Store(rates)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RoyaltyConfig
		if err := v.UnmarshalKey("royalty", &updated); err != nil {
			log.Printf("[royalty-config] reload failed: %v", err)
			return
		}
		parsed, err := parseRoyaltyConfig(updated)
		if err != nil {
			log.Printf("[royalty-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(parsed)
		log.Printf("[royalty-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticRoyaltyConfigHolder returns a holder pinned to the given rates.
func NewStaticRoyaltyConfigHolder(rates RoyaltyRates) *RoyaltyConfigHolder {
	holder := &RoyaltyConfigHolder{}
	holder.current.Store(rates)
	return holder
}

func (h *RoyaltyConfigHolder) Get() RoyaltyRates {
	if h == nil {
		return DefaultRoyaltyRates()
	}
	rates, ok := h.current.Load().(RoyaltyRates)
	if !ok {
		return DefaultRoyaltyRates()
	}
	return rates
}

func parseRoyaltyConfig(cfg RoyaltyConfig) (RoyaltyRates, error) {
	if cfg.PlayThreshold.UnitPlays <= 0 {
		return RoyaltyRates{}, errors.New("royalty.playThreshold.unitPlays must be positive")
	}
	unitPayout, err := decimal.NewFromString(strings.TrimSpace(cfg.PlayThreshold.UnitPayout))
	if err != nil {
		return RoyaltyRates{}, fmt.Errorf("royalty.playThreshold.unitPayout: %w", err)
	}
	if unitPayout.IsNegative() {
		return RoyaltyRates{}, errors.New("royalty.playThreshold.unitPayout cannot be negative")
	}
	percentage, err := decimal.NewFromString(strings.TrimSpace(cfg.Purchase.OwnerPercentage))
	if err != nil {
		return RoyaltyRates{}, fmt.Errorf("royalty.purchase.ownerPercentage: %w", err)
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(1)) {
		return RoyaltyRates{}, errors.New("royalty.purchase.ownerPercentage must be within [0, 1]")
	}
	payoutMethodID := strings.TrimSpace(cfg.Settlement.DefaultPayoutMethodID)
	if payoutMethodID == "" {
		return RoyaltyRates{}, errors.New("royalty.settlement.defaultPayoutMethodId cannot be empty")
	}
	day := cfg.Settlement.DayOfMonth
	if day < 1 || day > 28 {
		return RoyaltyRates{}, errors.New("royalty.settlement.dayOfMonth must be within [1, 28]")
	}

	return RoyaltyRates{
		UnitPlays:             cfg.PlayThreshold.UnitPlays,
		UnitPayout:            unitPayout.Round(2),
		OwnerPercentage:       percentage,
		DefaultPayoutMethodID: payoutMethodID,
		SettlementDayOfMonth:  day,
	}, nil
}
