package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Mohsinsiddi/tonscope/internal/network"
)

const configFile = "config.json"

// DefaultDir returns $TONSCOPE_CONFIG_DIR or ~/.tonscope.
func DefaultDir() (string, error) {
	if dir := os.Getenv(DirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home dir: %w", err)
	}
	return filepath.Join(home, ".tonscope"), nil
}

// Load reads config from dir (or creates defaults). dir defaults to
// DefaultDir().
func Load(dir string) (*Config, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg, err := loadJSON(filepath.Join(dir, configFile), defaults())
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configDir = dir
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return saveJSON(filepath.Join(c.configDir, configFile), c)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// SetNetworkMode validates and sets the default network.
func (c *Config) SetNetworkMode(mode string) error {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != network.Mainnet && mode != network.Testnet {
		return fmt.Errorf("invalid network mode %q (use mainnet or testnet)", mode)
	}
	c.NetworkMode = mode
	return nil
}

// SetOutputDir sets where results are written. A leading ~ expands to the
// home directory.
func (c *Config) SetOutputDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	c.OutputDir = dir
	return nil
}

// Endpoints resolves the API base URLs for mode, applying the URL overrides.
func (c *Config) Endpoints(reg *network.Registry, mode string) (Endpoints, error) {
	if mode == "" {
		mode = c.NetworkMode
	}
	n, err := reg.Get(mode)
	if err != nil {
		return Endpoints{}, fmt.Errorf("%w: %s", err, mode)
	}
	ep := Endpoints{Toncenter: n.ToncenterURL, Tonapi: n.TonapiURL, Explorer: n.Explorer}
	if c.ToncenterURL != "" {
		ep.Toncenter = c.ToncenterURL
	}
	if c.TonapiURL != "" {
		ep.Tonapi = c.TonapiURL
	}
	return ep, nil
}

// RequestTimeoutDuration is the per-request HTTP timeout.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return seconds(c.RequestTimeout, DefaultRequestTimeout)
}

// PollIntervalDuration is the delay between confirmation polls.
func (c *Config) PollIntervalDuration() time.Duration {
	return seconds(c.PollInterval, DefaultPollInterval)
}

// ConfirmTimeoutDuration bounds how long confirm waits.
func (c *Config) ConfirmTimeoutDuration() time.Duration {
	return seconds(c.ConfirmTimeout, DefaultConfirmTimeout)
}

// --- helpers ---

func seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

func defaults() *Config {
	return &Config{
		NetworkMode:     DefaultNetworkMode,
		OutputDir:       DefaultOutputDir,
		DefaultLimit:    DefaultLimit,
		RequestTimeout:  int(DefaultRequestTimeout / time.Second),
		PollInterval:    int(DefaultPollInterval / time.Second),
		ConfirmTimeout:  int(DefaultConfirmTimeout / time.Second),
		TimestampTraces: true,
	}
}

// loadJSON decodes path over base, so fields missing from the file keep
// their base values. A missing file returns base unchanged.
func loadJSON[T any](path string, base *T) (*T, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return base, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, base); err != nil {
		return nil, err
	}
	return base, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
