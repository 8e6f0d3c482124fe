package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mediavault/mediavault-go/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	CurrentConfig types.AppConfig
)

const DefaultPollIntervalSeconds = 7

func defaultConfig() types.AppConfig {
	return types.AppConfig{
		APIBaseURL:   "http://127.0.0.1:8080",
		UserID:       "default",
		Port:         47113, // local agent API, loopback only
		StateDir:     defaultStateDir(),
		PollInterval: DefaultPollIntervalSeconds,
	}
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mediavault")
	}
	return ".mediavault"
}

func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := defaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file doesn't exist, create with default values so the user
			// has something to edit.
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			CurrentConfig = cfg
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollIntervalSeconds
	}
	if cfg.UserID == "" {
		cfg.UserID = "default"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = defaultStateDir()
	}

	CurrentConfig = cfg
	return cfg, nil
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func GetCurrentConfig() *types.AppConfig {
	return &CurrentConfig
}

// ApplyFlagOverrides merges CLI flag values over the loaded config.
func ApplyFlagOverrides(cfg *types.AppConfig, flags types.Config) {
	if flags.UseAPIBaseURL != "" {
		cfg.APIBaseURL = strings.TrimRight(flags.UseAPIBaseURL, "/")
	}
	if flags.UseAPIToken != "" {
		cfg.APIToken = flags.UseAPIToken
	}
	if flags.UseUserID != "" {
		cfg.UserID = flags.UseUserID
	}
	if flags.UsePort > 0 {
		cfg.Port = flags.UsePort
	}
	if flags.UseStateDir != "" {
		cfg.StateDir = flags.UseStateDir
	}
	if flags.UseParentID > 0 {
		cfg.ParentID = flags.UseParentID
	}
	if flags.UseEventID > 0 {
		cfg.EventID = flags.UseEventID
	}
	if flags.UsePollSeconds > 0 {
		cfg.PollInterval = flags.UsePollSeconds
	}
}
