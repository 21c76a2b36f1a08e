//go:build integration || unit || test

// Package commanddoubles provides stubs of the command interfaces for controller tests.
package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/commands"
	"github.com/robbievanleeuwen/upgrade-dependencies/internal/domain/entities"
)

// StubListCommand implements commands.List.
type StubListCommand struct {
	Result      *commands.ListResult
	Err         error
	CallCount   int
	LastOptions commands.ListOptions
}

var _ commands.List = (*StubListCommand)(nil)

func (s *StubListCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.ListOptions,
) (*commands.ListResult, error) {
	s.CallCount++
	s.LastOptions = opts
	return s.Result, s.Err
}

// StubCheckCommand implements commands.Check.
type StubCheckCommand struct {
	Result      *commands.CheckResult
	Err         error
	CallCount   int
	LastOptions commands.CheckOptions
}

var _ commands.Check = (*StubCheckCommand)(nil)

func (s *StubCheckCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.CheckOptions,
) (*commands.CheckResult, error) {
	s.CallCount++
	s.LastOptions = opts
	return s.Result, s.Err
}

// StubOutdatedCommand implements commands.Outdated.
type StubOutdatedCommand struct {
	Result      *commands.OutdatedResult
	Err         error
	CallCount   int
	LastOptions commands.ProjectOptions
}

var _ commands.Outdated = (*StubOutdatedCommand)(nil)

func (s *StubOutdatedCommand) Execute(
	_ context.Context,
	_ *entities.Settings,
	opts commands.ProjectOptions,
) (*commands.OutdatedResult, error) {
	s.CallCount++
	s.LastOptions = opts
	return s.Result, s.Err
}

// StubUpdateCommand implements commands.Update.
type StubUpdateCommand struct {
	Result       *commands.UpdateResult
	Err          error
	CallCount    int
	LastOptions  commands.UpdateOptions
	LastSettings *entities.Settings
}

var _ commands.Update = (*StubUpdateCommand)(nil)

func (s *StubUpdateCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	opts commands.UpdateOptions,
) (*commands.UpdateResult, error) {
	s.CallCount++
	s.LastOptions = opts
	s.LastSettings = settings
	return s.Result, s.Err
}
