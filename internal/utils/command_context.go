package utils

import (
	"context"
	"time"
)

const (
	configurationFilePathContextKeyConstant = commandContextKey("configurationFilePath")
	referenceTimeContextKeyConstant         = commandContextKey("referenceTime")
)

type commandContextKey string

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath attaches the configuration file path to the provided context.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKeyConstant, configurationFilePath)
}

// ConfigurationFilePath extracts the configuration file path from the provided context.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, configurationFilePathAvailable := executionContext.Value(configurationFilePathContextKeyConstant).(string)
	if !configurationFilePathAvailable {
		return "", false
	}
	return configurationFilePath, true
}

// WithReferenceTime pins the instant errands treat as "now" for date arithmetic.
func (accessor CommandContextAccessor) WithReferenceTime(parentContext context.Context, referenceTime time.Time) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, referenceTimeContextKeyConstant, referenceTime)
}

// ReferenceTime returns the pinned instant or the current time when none was attached.
func (accessor CommandContextAccessor) ReferenceTime(executionContext context.Context) time.Time {
	if executionContext != nil {
		if referenceTime, referenceTimeAvailable := executionContext.Value(referenceTimeContextKeyConstant).(time.Time); referenceTimeAvailable {
			return referenceTime
		}
	}
	return time.Now()
}
