package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johanforsgren/mediavault/internal/logger"
	"gopkg.in/yaml.v3"
)

const (
	configDir  = ".mediavault"
	configFile = "config.yml"
	logFile    = "mediavault.log"
)

type Store struct {
	configPath string
	mu         sync.Mutex
}

// NewStore returns a store for path, or for ~/.mediavault/config.yml when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, configFile)
	}

	store := &Store{configPath: path}
	if err := store.ensureConfigDir(); err != nil {
		return nil, err
	}
	return store, nil
}

func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir), nil
}

func DefaultLogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFile), nil
}

func (s *Store) Path() string {
	return s.configPath
}

func (s *Store) ensureConfigDir() error {
	return os.MkdirAll(filepath.Dir(s.configPath), 0700)
}

// Load reads the config file over the defaults. A missing file is created from the defaults.
func (s *Store) Load() (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Default()

	logger.LogFileOpen(s.configPath)
	data, err := os.ReadFile(s.configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.LogError("LOAD_CONFIG", s.configPath, err)
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		logger.Log("No config at %s, writing defaults", s.configPath)
		if err := s.save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		logger.LogError("UNMARSHAL_CONFIG", s.configPath, err)
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

func (s *Store) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cfg)
}

func (s *Store) save(cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		logger.LogError("MARSHAL_CONFIG", s.configPath, err)
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	logger.LogFileWrite(s.configPath)
	if err := os.WriteFile(s.configPath, data, 0600); err != nil {
		logger.LogError("SAVE_CONFIG", s.configPath, err)
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
