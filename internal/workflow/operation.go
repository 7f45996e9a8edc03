package workflow

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/market"
	"github.com/temirov/errands/internal/workouts"
)

// Operation runs a single workflow step.
type Operation interface {
	Name() string
	Execute(executionContext context.Context, environment *Environment) error
}

// FlightDealsRunner runs the flight-deal comparison.
type FlightDealsRunner interface {
	Run(executionContext context.Context, options deals.Options) (deals.RunSummary, error)
}

// StockAlertRunner checks instruments for significant moves.
type StockAlertRunner interface {
	Run(executionContext context.Context, instruments []market.Instrument) ([]market.InstrumentReport, error)
}

// WorkoutLogger records a free-text workout.
type WorkoutLogger interface {
	Log(executionContext context.Context, query string, options workouts.Options) ([]workouts.LoggedExercise, error)
}

// PixelRecorder adds a habit pixel.
type PixelRecorder interface {
	AddPixel(executionContext context.Context, graphID string, date time.Time, quantity string) error
}

// ErrandProvider constructs errand services on first use so a workflow only needs credentials for the errands it runs.
type ErrandProvider interface {
	FlightDeals(executionContext context.Context) (FlightDealsRunner, error)
	StockAlert(executionContext context.Context) (StockAlertRunner, error)
	Workouts(executionContext context.Context) (WorkoutLogger, error)
	Habits(executionContext context.Context) (PixelRecorder, error)
}

// Defaults carries configured values steps fall back to.
type Defaults struct {
	FlightDeals deals.Options
	Instruments []market.Instrument
	Workouts    workouts.Options
}

// Environment exposes shared dependencies for workflow operations.
type Environment struct {
	Errands  ErrandProvider
	Defaults Defaults
	Output   io.Writer
	Logger   *zap.Logger
	Now      func() time.Time
	DryRun   bool
}
