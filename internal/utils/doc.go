// Package utils exposes reusable helpers consumed by every errand command.
//
// It houses ConfigurationLoader, which layers embedded defaults, configuration
// files, dotenv files, and environment variables through Viper, LoggerFactory,
// which builds zap loggers, and CommandContextAccessor for values shared through
// command contexts.
package utils
