package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fedy97/branch-db-state-switcher/pkg/models"
)

// Manager handles the global tool configuration at ~/.dbstate/config.toml.
// It carries machine-level preferences (container runtime, socket path)
// that do not belong in the per-project file.
type Manager struct {
	configPath string
	config     *models.GlobalConfig
}

func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	m := &Manager{
		configPath: filepath.Join(homeDir, ".dbstate", "config.toml"),
	}

	if err := m.Load(); err != nil {
		if os.IsNotExist(err) {
			m.config = &models.GlobalConfig{}
			return m, nil
		}
		return nil, err
	}

	return m, nil
}

func (m *Manager) Load() error {
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return err
	}

	var config models.GlobalConfig
	if _, err := toml.DecodeFile(m.configPath, &config); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}

	m.config = &config
	return nil
}

func (m *Manager) Save() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(m.config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

func (m *Manager) GetConfig() *models.GlobalConfig {
	return m.config
}
