package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const DEFAULT_CONFIG_FILE_NAME = "config.yaml"

// Store writes operator changes back to the config file. Only what the
// file already holds plus the saved keys is written, so values coming from
// defaults or the environment (tokens, passwords) never land on disk.
type Store struct {
	mu   sync.Mutex
	v    *viper.Viper
	path string
}

func NewStore(v *viper.Viper, path string) *Store {
	return &Store{v: v, path: path}
}

// DefaultConfigPath is <user config dir>/shockbridge/config.yaml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DEFAULT_CONFIG_FILE_NAME
	}
	return filepath.Join(dir, "shockbridge", DEFAULT_CONFIG_FILE_NAME)
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Save(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(key, value)

	file := viper.New()
	file.SetConfigFile(s.path)
	if filepath.Ext(s.path) == "" {
		file.SetConfigType("yaml")
	}
	if err := file.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: read %s: %w", s.path, err)
	}
	file.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("config: create dir for %s: %w", s.path, err)
	}
	if err := file.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("config: write %s: %w", s.path, err)
	}
	return nil
}
