package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDataName       = "agenda.db"
	appDirName            = "agenda"
)

type Keymap struct {
	Quit    string `toml:"quit"`
	Add     string `toml:"add"`
	Up      string `toml:"up"`
	Down    string `toml:"down"`
	Toggle  string `toml:"toggle"`
	Delete  string `toml:"delete"`
	Edit    string `toml:"edit"`
	Select  string `toml:"select"`
	Confirm string `toml:"confirm"`
	Cancel  string `toml:"cancel"`
}

type Config struct {
	DataPath       string `toml:"data_path"`
	LogPath        string `toml:"log_path"`
	LogLevel       string `toml:"log_level"`
	NotifyCommand  string `toml:"notify_command"`
	DefaultSection string `toml:"default_section"`
	Keys           Keymap `toml:"keys"`
}

// ResolveConfigPath returns the config file location under the user
// config dir, falling back to the working directory.
func ResolveConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(base, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults first if
// no file exists yet.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DataPath == "" {
		cfg.DataPath = defaultDataPath()
	}
	if cfg.DefaultSection == "" {
		cfg.DefaultSection = "all"
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultDataPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultDataName
	}
	return filepath.Join(base, appDirName, DefaultDataName)
}

func defaultConfig() Config {
	return Config{
		DataPath:       defaultDataPath(),
		LogLevel:       "info",
		NotifyCommand:  "notify-send",
		DefaultSection: "all",
		Keys: Keymap{
			Quit:    "q",
			Add:     "a",
			Up:      "k",
			Down:    "j",
			Toggle:  " ",
			Delete:  "d",
			Edit:    "e",
			Select:  "v",
			Confirm: "enter",
			Cancel:  "esc",
		},
	}
}
