package controllers

import (
	"go.uber.org/dig"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	for _, constructor := range []any{
		NewListController,
		NewCheckController,
		NewOutdatedController,
		NewUpdateController,
		NewControllers,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	listController *ListController,
	checkController *CheckController,
	outdatedController *OutdatedController,
	updateController *UpdateController,
) *[]entities.Controller {
	return &[]entities.Controller{
		listController,
		checkController,
		outdatedController,
		updateController,
	}
}
