package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/market"
	"github.com/temirov/errands/internal/ui"
)

const (
	unknownInstrumentTemplateConstant = "%w: stock-alert step references %s"
	workoutQueryRequiredMessage       = "workout-log step requires a query"
	habitGraphRequiredMessage         = "habit-pixel step requires a graph"
	habitQuantityRequiredMessage      = "habit-pixel step requires a quantity"
	habitPixelSkippedMessageConstant  = "Skipping habit pixel in dry run"
	habitPixelRecordedMessageConstant = "Habit pixel recorded"
	logFieldGraphConstant             = "graph"
	logFieldQuantityConstant          = "quantity"
	logFieldDateConstant              = "date"
	habitPixelDateLayoutConstant      = "2006-01-02"
)

// ErrUnknownInstrument indicates a stock-alert step naming a symbol absent from configuration.
var ErrUnknownInstrument = errors.New("unknown instrument")

// FlightDealsOperation compares stored destination prices against current quotes.
type FlightDealsOperation struct {
	Origin deals.AirportCode
	DryRun bool
}

// Name identifies the operation.
func (operation *FlightDealsOperation) Name() string {
	return string(ErrandTypeFlightDeals)
}

// Execute runs the comparison and renders the report.
func (operation *FlightDealsOperation) Execute(executionContext context.Context, environment *Environment) error {
	runner, runnerError := environment.Errands.FlightDeals(executionContext)
	if runnerError != nil {
		return runnerError
	}

	options := environment.Defaults.FlightDeals
	if operation.Origin.IsKnown() {
		options.Origin = operation.Origin
	}
	options.DryRun = options.DryRun || operation.DryRun || environment.DryRun

	summary, runError := runner.Run(executionContext, options)
	if runError != nil {
		return runError
	}
	ui.RenderDealReport(environment.Output, summary, options.DryRun)
	return nil
}

// StockAlertOperation checks configured instruments, optionally narrowed to Symbols.
type StockAlertOperation struct {
	Symbols []string
}

// Name identifies the operation.
func (operation *StockAlertOperation) Name() string {
	return string(ErrandTypeStockAlert)
}

// Execute checks the selected instruments. The report is rendered even when some instruments failed.
func (operation *StockAlertOperation) Execute(executionContext context.Context, environment *Environment) error {
	instruments, selectionError := operation.selectInstruments(environment.Defaults.Instruments)
	if selectionError != nil {
		return selectionError
	}

	runner, runnerError := environment.Errands.StockAlert(executionContext)
	if runnerError != nil {
		return runnerError
	}

	reports, runError := runner.Run(executionContext, instruments)
	ui.RenderMarketReport(environment.Output, reports)
	return runError
}

func (operation *StockAlertOperation) selectInstruments(configured []market.Instrument) ([]market.Instrument, error) {
	if len(operation.Symbols) == 0 {
		return configured, nil
	}

	bySymbol := make(map[string]market.Instrument, len(configured))
	for _, instrument := range configured {
		bySymbol[strings.ToUpper(strings.TrimSpace(instrument.Symbol))] = instrument
	}

	selected := make([]market.Instrument, 0, len(operation.Symbols))
	for _, symbol := range operation.Symbols {
		instrument, configuredSymbol := bySymbol[strings.ToUpper(strings.TrimSpace(symbol))]
		if !configuredSymbol {
			return nil, fmt.Errorf(unknownInstrumentTemplateConstant, ErrUnknownInstrument, symbol)
		}
		selected = append(selected, instrument)
	}
	return selected, nil
}

// WorkoutLogOperation records a free-text workout description.
type WorkoutLogOperation struct {
	Query string
}

// Name identifies the operation.
func (operation *WorkoutLogOperation) Name() string {
	return string(ErrandTypeWorkoutLog)
}

// Execute logs the workout and renders the recognized exercises.
func (operation *WorkoutLogOperation) Execute(executionContext context.Context, environment *Environment) error {
	logger, loggerError := environment.Errands.Workouts(executionContext)
	if loggerError != nil {
		return loggerError
	}

	options := environment.Defaults.Workouts
	options.DryRun = options.DryRun || environment.DryRun

	exercises, logError := logger.Log(executionContext, operation.Query, options)
	ui.RenderWorkoutReport(environment.Output, exercises, options.DryRun)
	return logError
}

// HabitPixelOperation adds today's pixel to a habit graph.
type HabitPixelOperation struct {
	GraphID  string
	Quantity string
}

// Name identifies the operation.
func (operation *HabitPixelOperation) Name() string {
	return string(ErrandTypeHabitPixel)
}

// Execute records the pixel dated with the environment clock.
func (operation *HabitPixelOperation) Execute(executionContext context.Context, environment *Environment) error {
	pixelDate := environment.Now()
	fields := []zap.Field{
		zap.String(logFieldGraphConstant, operation.GraphID),
		zap.String(logFieldQuantityConstant, operation.Quantity),
		zap.String(logFieldDateConstant, pixelDate.Format(habitPixelDateLayoutConstant)),
	}
	if environment.DryRun {
		environment.Logger.Info(habitPixelSkippedMessageConstant, fields...)
		return nil
	}

	recorder, recorderError := environment.Errands.Habits(executionContext)
	if recorderError != nil {
		return recorderError
	}
	if addError := recorder.AddPixel(executionContext, operation.GraphID, pixelDate, operation.Quantity); addError != nil {
		return addError
	}
	environment.Logger.Info(habitPixelRecordedMessageConstant, fields...)
	return nil
}
