package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all finsight configuration.
type Config struct {
	General    GeneralConfig     `toml:"general"`
	Appearance AppearanceConfig  `toml:"appearance"`
	Budget     BudgetConfig      `toml:"budget"`
	Notify     NotifyConfig      `toml:"notify"`
	Categories map[string]string `toml:"categories,omitempty"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultMonths int    `toml:"default_months"`
	Currency      string `toml:"currency"`
	DataDir       string `toml:"data_dir,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// BudgetConfig holds spending limits.
type BudgetConfig struct {
	MonthlyLimit   *float64           `toml:"monthly_limit,omitempty"`
	CategoryLimits map[string]float64 `toml:"category_limits,omitempty"`
}

// NotifyConfig holds reminder daemon settings.
type NotifyConfig struct {
	LeadDays     int    `toml:"lead_days"`
	ListenAddr   string `toml:"listen_addr"`
	PollInterval string `toml:"poll_interval"`
}

// PollDuration parses the configured poll interval, defaulting to 15m.
func (n NotifyConfig) PollDuration() time.Duration {
	d, err := time.ParseDuration(n.PollInterval)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultMonths: 3,
			Currency:      "USD",
		},
		Appearance: AppearanceConfig{
			Theme: "midnight",
		},
		Notify: NotifyConfig{
			LeadDays:     3,
			ListenAddr:   "127.0.0.1:7313",
			PollInterval: "15m",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "finsight")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "finsight")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the directory holding the ledger database. The config
// value wins; otherwise XDG data home.
func DataDir(cfg Config) string {
	if cfg.General.DataDir != "" {
		return cfg.General.DataDir
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "finsight")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "finsight")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
