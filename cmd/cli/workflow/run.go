package workflow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/errands/internal/utils"
	"github.com/temirov/errands/internal/workflow"
)

const (
	commandUseConstant                       = "workflow [workflow]"
	commandShortDescriptionConstant          = "Run several errands in order from a workflow file"
	commandLongDescriptionConstant           = "workflow executes the errand steps defined in a YAML or JSON file. Without an argument the workflow section of the loaded configuration file is used. The first failing step stops the run."
	dryRunFlagNameConstant                   = "dry-run"
	dryRunFlagDescriptionConstant            = "Run every step without sending messages or writing to sheets and trackers"
	configurationPathRequiredMessageConstant = "workflow file path required; provide it as a positional argument or with --config"
	missingErrandProviderMessageConstant     = "errand services are not configured"
	loadConfigurationErrorTemplateConstant   = "unable to load workflow configuration: %w"
	buildOperationsErrorTemplateConstant     = "unable to build workflow operations: %w"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the workflow command.
type CommandBuilder struct {
	LoggerProvider   LoggerProvider
	ErrandProvider   func() workflow.ErrandProvider
	DefaultsProvider func() workflow.Defaults
}

// Build constructs the workflow command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().Bool(dryRunFlagNameConstant, false, dryRunFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configurationPath := ""
	if len(arguments) > 0 {
		configurationPath = strings.TrimSpace(arguments[0])
	}
	contextAccessor := utils.NewCommandContextAccessor()
	if len(configurationPath) == 0 {
		if configurationPathFromContext, available := contextAccessor.ConfigurationFilePath(command.Context()); available {
			configurationPath = strings.TrimSpace(configurationPathFromContext)
		}
	}
	if len(configurationPath) == 0 {
		if helpError := command.Help(); helpError != nil {
			return helpError
		}
		return errors.New(configurationPathRequiredMessageConstant)
	}

	workflowConfiguration, configurationError := workflow.LoadConfiguration(configurationPath)
	if configurationError != nil {
		return fmt.Errorf(loadConfigurationErrorTemplateConstant, configurationError)
	}

	operations, operationsError := workflow.BuildOperations(workflowConfiguration)
	if operationsError != nil {
		return fmt.Errorf(buildOperationsErrorTemplateConstant, operationsError)
	}

	if builder.ErrandProvider == nil {
		return errors.New(missingErrandProviderMessageConstant)
	}
	defaults := workflow.Defaults{}
	if builder.DefaultsProvider != nil {
		defaults = builder.DefaultsProvider()
	}

	executionContext := command.Context()
	executor := workflow.NewExecutor(operations, workflow.Dependencies{
		Errands:  builder.ErrandProvider(),
		Defaults: defaults,
		Output:   command.OutOrStdout(),
		Logger:   resolveLogger(builder.LoggerProvider),
		Now:      func() time.Time { return contextAccessor.ReferenceTime(executionContext) },
	})

	dryRun, _ := command.Flags().GetBool(dryRunFlagNameConstant)
	return executor.Execute(executionContext, workflow.RuntimeOptions{DryRun: dryRun})
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
