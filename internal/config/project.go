package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/fedy97/branch-db-state-switcher/pkg/models"
	"github.com/spf13/viper"
)

// ProjectConfigFile is the key=value config file looked up in the
// working directory.
const ProjectConfigFile = "dbstate.conf"

// LoadProject reads the per-project configuration from path.
//
// Expected keys: container, databases (comma separated), user, password,
// safe_restore (default true), files (comma separated).
func LoadProject(path string) (*models.ProjectConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file %s not found, run from a directory containing one", path)
		}
		return nil, fmt.Errorf("failed to access config file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.SetDefault("safe_restore", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &models.ProjectConfig{
		Container:   strings.TrimSpace(v.GetString("container")),
		Databases:   splitList(v.GetString("databases")),
		User:        strings.TrimSpace(v.GetString("user")),
		Password:    v.GetString("password"),
		SafeRestore: v.GetBool("safe_restore"),
		Files:       splitList(v.GetString("files")),
	}

	if err := validateProject(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateProject(cfg *models.ProjectConfig) error {
	if cfg.Container == "" {
		return fmt.Errorf("missing configuration: container")
	}
	if len(cfg.Databases) == 0 {
		return fmt.Errorf("missing configuration: databases")
	}
	if cfg.User == "" {
		return fmt.Errorf("missing configuration: user")
	}
	return nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
