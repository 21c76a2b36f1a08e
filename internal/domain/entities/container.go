package entities

import (
	"go.uber.org/dig"
)

// SettingsLoader loads settings from an optional file path.
type SettingsLoader func(path string) (*Settings, error)

// RegisterProviders registers all entity providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// the path comes from the --config flag, so only the loader is injected
	return container.Provide(func() SettingsLoader { return NewSettings })
}
