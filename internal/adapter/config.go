package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// appName names the config, data and log directories
const appName = "tubegrab"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Download DownloadConfig `mapstructure:"download"`
	Poll     PollConfig     `mapstructure:"poll"`
	UI       UIConfig       `mapstructure:"ui"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig locates the download service
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"` // per-request timeout
}

// DownloadConfig holds the initial selections for a new download
type DownloadConfig struct {
	Format      string `mapstructure:"format"`       // "video" or "audio"
	Quality     string `mapstructure:"quality"`      // e.g. "best", "1080p"
	AudioFormat string `mapstructure:"audio_format"` // e.g. "mp3"
}

// PollConfig controls the progress poller
type PollConfig struct {
	Interval    time.Duration `mapstructure:"interval"`
	MaxFailures int           `mapstructure:"max_failures"` // consecutive transport failures before giving up, 0 = never
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme             string        `mapstructure:"theme"`
	HideProgressAfter time.Duration `mapstructure:"hide_progress_after"`
	ShowWelcome       bool          `mapstructure:"show_welcome"`
	Browser           string        `mapstructure:"browser"` // empty for system default
}

// StorageConfig locates the local database
type StorageConfig struct {
	Dir string `mapstructure:"dir"` // empty keeps state in memory only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:5000",
			Timeout: 30 * time.Second,
		},
		Download: DownloadConfig{
			Format:      "video",
			Quality:     "best",
			AudioFormat: "mp3",
		},
		Poll: PollConfig{
			Interval: time.Second,
		},
		UI: UIConfig{
			Theme:             "light",
			HideProgressAfter: 5 * time.Second,
			ShowWelcome:       true,
		},
		Storage: StorageConfig{
			Dir: defaultDataPath(),
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), appName+".log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", appName)
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), appName)
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appName)
	}
}

// ConfigFile returns the path SaveConfig writes to
func ConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. TUBEGRAB_SERVER_URL
	v.SetEnvPrefix(strings.ToUpper(appName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Server.URL = strings.TrimRight(cfg.Server.URL, "/")

	return cfg, nil
}

// setDefaults registers every key so env overrides apply without a config file
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.url", cfg.Server.URL)
	v.SetDefault("server.timeout", cfg.Server.Timeout)
	v.SetDefault("download.format", cfg.Download.Format)
	v.SetDefault("download.quality", cfg.Download.Quality)
	v.SetDefault("download.audio_format", cfg.Download.AudioFormat)
	v.SetDefault("poll.interval", cfg.Poll.Interval)
	v.SetDefault("poll.max_failures", cfg.Poll.MaxFailures)
	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.hide_progress_after", cfg.UI.HideProgressAfter)
	v.SetDefault("ui.show_welcome", cfg.UI.ShowWelcome)
	v.SetDefault("ui.browser", cfg.UI.Browser)
	v.SetDefault("storage.dir", cfg.Storage.Dir)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, ConfigFile())
}

func saveConfig(v *viper.Viper, cfg *Config, configFile string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.timeout", cfg.Server.Timeout.String())

	v.Set("download.format", cfg.Download.Format)
	v.Set("download.quality", cfg.Download.Quality)
	v.Set("download.audio_format", cfg.Download.AudioFormat)

	v.Set("poll.interval", cfg.Poll.Interval.String())
	v.Set("poll.max_failures", cfg.Poll.MaxFailures)

	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.hide_progress_after", cfg.UI.HideProgressAfter.String())
	v.Set("ui.show_welcome", cfg.UI.ShowWelcome)
	v.Set("ui.browser", cfg.UI.Browser)

	v.Set("storage.dir", cfg.Storage.Dir)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
