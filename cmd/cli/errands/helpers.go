package errands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/errands/internal/utils"
	"github.com/temirov/errands/internal/workflow"
)

const missingErrandProviderMessageConstant = "errand services are not configured"

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ErrandProvider yields the services errand commands run against.
type ErrandProvider func() workflow.ErrandProvider

// DefaultsProvider yields configured values commands fall back to.
type DefaultsProvider func() workflow.Defaults

// Dependencies are shared by every errand command builder.
type Dependencies struct {
	LoggerProvider   LoggerProvider
	ErrandProvider   ErrandProvider
	DefaultsProvider DefaultsProvider
}

func (dependencies Dependencies) environment(command *cobra.Command, dryRun bool) (*workflow.Environment, error) {
	if dependencies.ErrandProvider == nil {
		return nil, errors.New(missingErrandProviderMessageConstant)
	}
	errandProvider := dependencies.ErrandProvider()
	if errandProvider == nil {
		return nil, errors.New(missingErrandProviderMessageConstant)
	}

	defaults := workflow.Defaults{}
	if dependencies.DefaultsProvider != nil {
		defaults = dependencies.DefaultsProvider()
	}

	contextAccessor := utils.NewCommandContextAccessor()
	executionContext := command.Context()
	return &workflow.Environment{
		Errands:  errandProvider,
		Defaults: defaults,
		Output:   command.OutOrStdout(),
		Logger:   resolveLogger(dependencies.LoggerProvider),
		Now: func() time.Time {
			return contextAccessor.ReferenceTime(executionContext)
		},
		DryRun: dryRun,
	}, nil
}

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
