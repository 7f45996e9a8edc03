package habit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/errands/internal/habits"
	"github.com/temirov/errands/internal/utils"
)

const (
	dateFlagName                   = "date"
	dateFlagLayoutConstant         = "20060102"
	graphFlagName                  = "graph"
	graphFlagDescription           = "Graph identifier (defaults to the configured graph)"
	quantityFlagName               = "quantity"
	invalidDateTemplateConstant    = "invalid --date %q: expected YYYYMMDD"
	missingClientProviderMessage   = "habit tracker is not configured"
	missingQuantityMessageConstant = "--quantity is required"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// Tracker is the habit tracker the commands drive.
type Tracker interface {
	CreateUser(executionContext context.Context) error
	CreateGraph(executionContext context.Context, graph habits.Graph) error
	AddPixel(executionContext context.Context, graphID string, date time.Time, quantity string) error
	UpdatePixel(executionContext context.Context, graphID string, date time.Time, quantity string) error
	DeletePixel(executionContext context.Context, graphID string, date time.Time) error
	GraphPageURL(graphID string) string
}

// TrackerProvider constructs the tracker on demand.
type TrackerProvider func(executionContext context.Context) (Tracker, error)

// GraphProvider yields the configured default graph.
type GraphProvider func() habits.Graph

func resolveTracker(provider TrackerProvider, command *cobra.Command) (Tracker, error) {
	if provider == nil {
		return nil, errors.New(missingClientProviderMessage)
	}
	return provider(command.Context())
}

func resolveGraph(provider GraphProvider) habits.Graph {
	if provider == nil {
		return habits.Graph{}
	}
	return provider()
}

// resolvePixelDate parses --date or falls back to the reference time shifted by dayOffset days.
func resolvePixelDate(command *cobra.Command, dayOffset int) (time.Time, error) {
	dateValue, _ := command.Flags().GetString(dateFlagName)
	trimmedDate := strings.TrimSpace(dateValue)
	if len(trimmedDate) == 0 {
		referenceTime := utils.NewCommandContextAccessor().ReferenceTime(command.Context())
		return referenceTime.AddDate(0, 0, dayOffset), nil
	}
	parsedDate, parseError := time.Parse(dateFlagLayoutConstant, trimmedDate)
	if parseError != nil {
		return time.Time{}, fmt.Errorf(invalidDateTemplateConstant, trimmedDate)
	}
	return parsedDate, nil
}

func resolveGraphID(command *cobra.Command, provider GraphProvider) string {
	graphID, _ := command.Flags().GetString(graphFlagName)
	if trimmedGraphID := strings.TrimSpace(graphID); len(trimmedGraphID) > 0 {
		return trimmedGraphID
	}
	return strings.TrimSpace(resolveGraph(provider).ID)
}

func requireQuantity(command *cobra.Command) (string, error) {
	quantity, _ := command.Flags().GetString(quantityFlagName)
	trimmedQuantity := strings.TrimSpace(quantity)
	if len(trimmedQuantity) == 0 {
		return "", errors.New(missingQuantityMessageConstant)
	}
	return trimmedQuantity, nil
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
