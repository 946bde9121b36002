package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	UserID     string `json:"user_id"     env:"PURE8_USER_ID"     env-default:"default"`
	DBPath     string `json:"db_path"     env:"PURE8_DB_PATH"`
	WebEnabled bool   `json:"web_enabled" env:"PURE8_WEB_ENABLED"`
	WebPort    int    `json:"web_port"    env:"PURE8_WEB_PORT"`
	LogLevel   string `json:"log_level"   env:"PURE8_LOG_LEVEL"   env-default:"info"`
	LogFormat  string `json:"log_format"  env:"PURE8_LOG_FORMAT"  env-default:"text"`
}

func Default() Config {
	return Config{UserID: "default", WebPort: 8484, LogLevel: "info", LogFormat: "text"}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "pure8", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads the config file when it exists and applies PURE8_* env
// overrides on top. A missing file is not an error.
func Load(path string) (Config, error) {
	config := Default()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if err := cleanenv.ReadEnv(&config); err != nil {
				return Config{}, fmt.Errorf("read env: %w", err)
			}
			return config, nil
		}
		return Config{}, err
	}

	if err := cleanenv.ReadConfig(path, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
