package config

import "time"

// Defaults written to a fresh config.json.
const (
	DefaultNetworkMode    = "mainnet"
	DefaultOutputDir      = "transactions"
	DefaultLimit          = 10
	DefaultRequestTimeout = 15 * time.Second
	DefaultPollInterval   = 5 * time.Second
	DefaultConfirmTimeout = 15 * time.Second
)

// DirEnv overrides the config directory.
const DirEnv = "TONSCOPE_CONFIG_DIR"
