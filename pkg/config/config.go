package config

// Package config provides a reusable loader for jobescrow configuration
// files and environment variables, kept from the teacher's
// pkg/config.Load/LoadFromEnv shape.
//
// Version: v0.1.0

import (
	"fmt"

	"github.com/spf13/viper"

	"jobescrow/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config is the unified configuration for a jobescrow node. It mirrors the
// structure of the YAML files under cmd/config.
type Config struct {
	Program struct {
		ID               string `mapstructure:"id" json:"id"`
		PlatformAuthority string `mapstructure:"platform_authority" json:"platform_authority"`
		PlatformFeeAccount string `mapstructure:"platform_fee_account" json:"platform_fee_account"`
	} `mapstructure:"program" json:"program"`

	Escrow struct {
		MinAmountLamports uint64 `mapstructure:"min_amount_lamports" json:"min_amount_lamports"`
		MinExpirySeconds  int64  `mapstructure:"min_expiry_seconds" json:"min_expiry_seconds"`
		MaxExpirySeconds  int64  `mapstructure:"max_expiry_seconds" json:"max_expiry_seconds"`
		ReviewWindowSeconds int64 `mapstructure:"review_window_seconds" json:"review_window_seconds"`
		PlatformFeeBps    uint64 `mapstructure:"platform_fee_bps" json:"platform_fee_bps"`
	} `mapstructure:"escrow" json:"escrow"`

	Arbitration struct {
		ArbitratorsPerDispute int    `mapstructure:"arbitrators_per_dispute" json:"arbitrators_per_dispute"`
		Majority              int    `mapstructure:"majority" json:"majority"`
		MinStakeLamports      uint64 `mapstructure:"min_stake_lamports" json:"min_stake_lamports"`
		VotingWindowSeconds   int64  `mapstructure:"voting_window_seconds" json:"voting_window_seconds"`
		GracePeriodSeconds    int64  `mapstructure:"grace_period_seconds" json:"grace_period_seconds"`
	} `mapstructure:"arbitration" json:"arbitration"`

	RPC struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"rpc" json:"rpc"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and
// returned.
//
// The function uses the provided environment name to merge additional
// config files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.AutomaticEnv() // picks up from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the JOBESCROW_ENV environment
// variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("JOBESCROW_ENV", ""))
}
