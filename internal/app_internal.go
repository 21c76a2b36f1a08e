package internal

import (
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// AppInternal holds everything the command line needs from the container.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates the application context from the registered controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns the controllers in subcommand order.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
