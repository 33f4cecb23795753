package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
	"github.com/datamill-co/knots/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeyWorkspaceDir  = "workspace.dir"
	KeyKnotsDir      = "knots.dir"
	KeyDiscoveryCmd  = "discovery.command"
	KeyDiscoveryTime = "discovery.timeout"
	KeyPersistSchema = "discovery.persist_schema"
	KeyDockerBinary  = "docker.binary"
)

// settingKeys lists the recognised keys in display order.
var settingKeys = []string{
	KeyWorkspaceDir,
	KeyKnotsDir,
	KeyDiscoveryCmd,
	KeyDiscoveryTime,
	KeyPersistSchema,
	KeyDockerBinary,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Workspace: domain.WorkspaceSettings{
			Dir:      s.getString(KeyWorkspaceDir, defaults.Workspace.Dir),
			KnotsDir: s.configStore.GetString(KeyKnotsDir), // Empty derives from Dir
		},
		Discovery: domain.DiscoverySettings{
			Command:       s.getString(KeyDiscoveryCmd, defaults.Discovery.Command),
			Timeout:       s.getTimeout(defaults.Discovery.Timeout),
			PersistSchema: s.getBool(KeyPersistSchema, defaults.Discovery.PersistSchema),
		},
		Docker: domain.DockerSettings{
			Binary: s.getString(KeyDockerBinary, defaults.Docker.Binary),
		},
	}
	return settings, nil
}

// Set validates and stores a single setting.
func (s *SettingsService) Set(key, value string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}

	switch key {
	case KeyWorkspaceDir, KeyDiscoveryCmd, KeyDockerBinary:
		if value == "" {
			return fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, key)
		}
		return s.save(key, value)
	case KeyKnotsDir:
		return s.save(key, value)
	case KeyDiscoveryTime:
		seconds, err := strconv.Atoi(value)
		if err != nil || seconds < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number of seconds", domain.ErrInvalidInput, key)
		}
		return s.save(key, seconds)
	case KeyPersistSchema:
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return s.save(key, enabled)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
}

// Keys returns the recognised setting keys.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

func (s *SettingsService) save(key string, value any) error {
	if err := s.configStore.Set(key, value); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getTimeout reads seconds; an explicit 0 disables the timeout.
func (s *SettingsService) getTimeout(defaultVal time.Duration) time.Duration {
	if _, exists := s.configStore.Get(KeyDiscoveryTime); !exists {
		return defaultVal
	}
	seconds := s.configStore.GetInt(KeyDiscoveryTime)
	if seconds < 0 {
		return defaultVal
	}
	return time.Duration(seconds) * time.Second
}
