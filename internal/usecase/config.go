package usecase

import (
	"creeper-desktop/internal/domain"
	"creeper-desktop/internal/logging"
)

// ConfigUseCase is the primary port for runtime configuration overrides.
type ConfigUseCase interface {
	GetConfig() domain.Config
	SetConfig(key, value string) error
	Entries() map[string]string
}

// configInteractor implements ConfigUseCase on top of a repository that
// serializes every access behind one lock.
type configInteractor struct {
	repo domain.ConfigRepository
}

// NewConfigUseCase creates the config use case.
func NewConfigUseCase(repo domain.ConfigRepository) ConfigUseCase {
	return &configInteractor{repo: repo}
}

// GetConfig returns the typed view. Missing or unparsable values fall back
// to their defaults, so this never fails.
func (c *configInteractor) GetConfig() domain.Config {
	return domain.ParseConfig(c.repo.Get)
}

// SetConfig stores value under key. Keys and values are not validated.
func (c *configInteractor) SetConfig(key, value string) error {
	c.repo.Set(key, value)
	logging.Debugf("config %s=%q", key, value)
	return nil
}

// Entries returns a copy of the raw overrides.
func (c *configInteractor) Entries() map[string]string {
	return c.repo.Entries()
}
