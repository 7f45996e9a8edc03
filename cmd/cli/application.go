package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/errands/cmd/cli/errands"
	"github.com/temirov/errands/cmd/cli/habit"
	workflowcmd "github.com/temirov/errands/cmd/cli/workflow"
	"github.com/temirov/errands/internal/credentials"
	"github.com/temirov/errands/internal/habits"
	"github.com/temirov/errands/internal/httpclient"
	"github.com/temirov/errands/internal/ui"
	"github.com/temirov/errands/internal/utils"
	"github.com/temirov/errands/internal/workflow"
)

const (
	applicationNameConstant                 = "errands"
	applicationShortDescriptionConstant     = "Personal automation errands: flight deals, stock alerts, workouts and habits"
	applicationLongDescriptionConstant      = "errands runs small scheduled chores against spreadsheets, travel, market, fitness and habit-tracking APIs and texts the results."
	versionTemplateConstant                 = "errands version: {{.Version}}\n"
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonHTTPTimeoutConfigKeyConstant      = commonConfigurationKeyConstant + ".http_timeout"
	commonCurrencyConfigKeyConstant         = commonConfigurationKeyConstant + ".currency"
	defaultHTTPTimeoutConstant              = 30 * time.Second
	defaultCurrencyConstant                 = "MXN"
	environmentPrefixConstant               = "ERRANDS"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	dotEnvFileNameConstant                  = ".env"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationDotEnvFieldConstant        = "dotenv_files"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	defaultConfigurationSearchPathConstant  = "."
)

// Version is reported by --version and set at build time.
var Version = "dev"

// Application wires the Cobra root command, configuration loader, structured logger and errand services.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	humanReadableLogging   bool
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	commandContextAccessor utils.CommandContextAccessor
	resolver               *credentials.Resolver
	now                    func() time.Time
	factory                *errandFactory
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant},
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	configurationLoader.SetDotEnvFiles([]string{dotEnvFileNameConstant})

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		resolver:               credentials.NewResolver(nil, nil),
		now:                    time.Now,
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	errandDependencies := errands.Dependencies{
		LoggerProvider:   application.loggerProvider,
		ErrandProvider:   application.errandProvider,
		DefaultsProvider: application.workflowDefaults,
	}

	flightDealsBuilder := errands.FlightDealsCommandBuilder{Dependencies: errandDependencies}
	flightDealsCommand, flightDealsBuildError := flightDealsBuilder.Build()
	if flightDealsBuildError == nil {
		cobraCommand.AddCommand(flightDealsCommand)
	}

	stockAlertBuilder := errands.StockAlertCommandBuilder{Dependencies: errandDependencies}
	stockAlertCommand, stockAlertBuildError := stockAlertBuilder.Build()
	if stockAlertBuildError == nil {
		cobraCommand.AddCommand(stockAlertCommand)
	}

	workoutLogBuilder := errands.WorkoutLogCommandBuilder{Dependencies: errandDependencies}
	workoutLogCommand, workoutLogBuildError := workoutLogBuilder.Build()
	if workoutLogBuildError == nil {
		cobraCommand.AddCommand(workoutLogCommand)
	}

	habitBuilder := habit.CommandGroupBuilder{
		LoggerProvider: application.loggerProvider,
		TrackerProvider: func(executionContext context.Context) (habit.Tracker, error) {
			client, clientError := application.errandFactory().HabitClient(executionContext)
			if clientError != nil {
				return nil, clientError
			}
			return client, nil
		},
		GraphProvider: func() habits.Graph {
			return application.configuration.Errands.Habits.Graph
		},
		UsernameProvider: func() string {
			return application.configuration.Errands.Habits.Username
		},
	}
	habitCommand, habitBuildError := habitBuilder.Build()
	if habitBuildError == nil {
		cobraCommand.AddCommand(habitCommand)
	}

	workflowBuilder := workflowcmd.CommandBuilder{
		LoggerProvider:   application.loggerProvider,
		ErrandProvider:   application.errandProvider,
		DefaultsProvider: application.workflowDefaults,
	}
	workflowCommand, workflowBuildError := workflowBuilder.Build()
	if workflowBuildError == nil {
		cobraCommand.AddCommand(workflowCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:    string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:   string(utils.LogFormatStructured),
		commonHTTPTimeoutConfigKeyConstant: defaultHTTPTimeoutConstant,
		commonCurrencyConfigKeyConstant:    defaultCurrencyConstant,
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.humanReadableLogging = loggerOutputs.HumanReadable
	application.factory = nil

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(configurationDotEnvFieldConstant, application.configurationMetadata.DotEnvFilesConsumed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		updatedContext = application.commandContextAccessor.WithReferenceTime(updatedContext, application.now())
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) loggerProvider() *zap.Logger {
	return application.logger
}

func (application *Application) errandProvider() workflow.ErrandProvider {
	return application.errandFactory()
}

func (application *Application) workflowDefaults() workflow.Defaults {
	return application.errandFactory().defaults()
}

func (application *Application) errandFactory() *errandFactory {
	if application.factory == nil {
		application.factory = newErrandFactory(
			application.configuration,
			application.resolver,
			application.logger,
			application.requestObserver(),
			application.now,
		)
	}
	return application.factory
}

// requestObserver renders HTTP request events for people when console logging is selected.
func (application *Application) requestObserver() httpclient.RequestEventObserver {
	if !application.humanReadableLoggingEnabled() {
		return nil
	}
	return ui.NewConsoleRequestEventLogger(application.logger)
}

func (application *Application) humanReadableLoggingEnabled() bool {
	if application.humanReadableLogging {
		return true
	}
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) flushLogger() error {
	if application.logger == nil {
		return nil
	}

	syncError := application.logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
