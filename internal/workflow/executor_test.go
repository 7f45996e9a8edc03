package workflow_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/market"
	"github.com/temirov/errands/internal/workflow"
	"github.com/temirov/errands/internal/workouts"
)

const testPixelFailureMessage = "graph not found"

type recordingFlightDeals struct {
	options []deals.Options
}

func (runner *recordingFlightDeals) Run(_ context.Context, options deals.Options) (deals.RunSummary, error) {
	runner.options = append(runner.options, options)
	return deals.RunSummary{}, nil
}

type recordingStockAlert struct {
	instruments [][]market.Instrument
}

func (runner *recordingStockAlert) Run(_ context.Context, instruments []market.Instrument) ([]market.InstrumentReport, error) {
	runner.instruments = append(runner.instruments, instruments)
	reports := make([]market.InstrumentReport, 0, len(instruments))
	for _, instrument := range instruments {
		reports = append(reports, market.InstrumentReport{Instrument: instrument})
	}
	return reports, nil
}

type recordingWorkouts struct {
	queries []string
	options []workouts.Options
}

func (logger *recordingWorkouts) Log(_ context.Context, query string, options workouts.Options) ([]workouts.LoggedExercise, error) {
	logger.queries = append(logger.queries, query)
	logger.options = append(logger.options, options)
	return []workouts.LoggedExercise{{Exercise: "Running", Duration: 30, Calories: 300}}, nil
}

type recordingPixels struct {
	dates    []time.Time
	graphIDs []string
	failWith error
}

func (recorder *recordingPixels) AddPixel(_ context.Context, graphID string, date time.Time, _ string) error {
	if recorder.failWith != nil {
		return recorder.failWith
	}
	recorder.graphIDs = append(recorder.graphIDs, graphID)
	recorder.dates = append(recorder.dates, date)
	return nil
}

type stubErrandProvider struct {
	flightDeals *recordingFlightDeals
	stockAlert  *recordingStockAlert
	workouts    *recordingWorkouts
	pixels      *recordingPixels
	requested   []string
}

func newStubErrandProvider() *stubErrandProvider {
	return &stubErrandProvider{
		flightDeals: &recordingFlightDeals{},
		stockAlert:  &recordingStockAlert{},
		workouts:    &recordingWorkouts{},
		pixels:      &recordingPixels{},
	}
}

func (provider *stubErrandProvider) FlightDeals(context.Context) (workflow.FlightDealsRunner, error) {
	provider.requested = append(provider.requested, "flight-deals")
	return provider.flightDeals, nil
}

func (provider *stubErrandProvider) StockAlert(context.Context) (workflow.StockAlertRunner, error) {
	provider.requested = append(provider.requested, "stock-alert")
	return provider.stockAlert, nil
}

func (provider *stubErrandProvider) Workouts(context.Context) (workflow.WorkoutLogger, error) {
	provider.requested = append(provider.requested, "workout-log")
	return provider.workouts, nil
}

func (provider *stubErrandProvider) Habits(context.Context) (workflow.PixelRecorder, error) {
	provider.requested = append(provider.requested, "habit-pixel")
	return provider.pixels, nil
}

func testDefaults() workflow.Defaults {
	return workflow.Defaults{
		FlightDeals: deals.Options{Origin: deals.AirportCode("MEX")},
		Instruments: []market.Instrument{
			{Symbol: "TSLA", Kind: market.InstrumentKindStock, ThresholdPercent: 5},
			{Symbol: "BTC", Kind: market.InstrumentKindCrypto, ThresholdPercent: 0.3},
		},
		Workouts: workouts.Options{ObjectName: "workout"},
	}
}

func TestExecutorRunsStepsInOrder(testInstance *testing.T) {
	provider := newStubErrandProvider()
	pixelDate := time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)
	output := &bytes.Buffer{}

	executor := workflow.NewExecutor([]workflow.Operation{
		&workflow.FlightDealsOperation{Origin: deals.AirportCode("GDL")},
		&workflow.StockAlertOperation{Symbols: []string{"btc"}},
		&workflow.WorkoutLogOperation{Query: "ran 5k"},
		&workflow.HabitPixelOperation{GraphID: "graph1", Quantity: "5"},
	}, workflow.Dependencies{
		Errands:  provider,
		Defaults: testDefaults(),
		Output:   output,
		Now:      func() time.Time { return pixelDate },
	})

	require.NoError(testInstance, executor.Execute(context.Background(), workflow.RuntimeOptions{}))
	require.Equal(testInstance, []string{"flight-deals", "stock-alert", "workout-log", "habit-pixel"}, provider.requested)
	require.Equal(testInstance, []deals.Options{{Origin: deals.AirportCode("GDL")}}, provider.flightDeals.options)
	require.Len(testInstance, provider.stockAlert.instruments, 1)
	require.Len(testInstance, provider.stockAlert.instruments[0], 1)
	require.Equal(testInstance, "BTC", provider.stockAlert.instruments[0][0].Symbol)
	require.Equal(testInstance, []string{"ran 5k"}, provider.workouts.queries)
	require.Equal(testInstance, []time.Time{pixelDate}, provider.pixels.dates)
	require.Contains(testInstance, output.String(), "Running")
	require.Contains(testInstance, output.String(), "BTC")
}

func TestExecutorDryRunPropagates(testInstance *testing.T) {
	provider := newStubErrandProvider()
	executor := workflow.NewExecutor([]workflow.Operation{
		&workflow.FlightDealsOperation{},
		&workflow.WorkoutLogOperation{Query: "swam"},
		&workflow.HabitPixelOperation{GraphID: "graph1", Quantity: "1"},
	}, workflow.Dependencies{Errands: provider, Defaults: testDefaults()})

	require.NoError(testInstance, executor.Execute(context.Background(), workflow.RuntimeOptions{DryRun: true}))
	require.Equal(testInstance, []deals.Options{{Origin: deals.AirportCode("MEX"), DryRun: true}}, provider.flightDeals.options)
	require.True(testInstance, provider.workouts.options[0].DryRun)
	require.Empty(testInstance, provider.pixels.graphIDs)
	require.NotContains(testInstance, provider.requested, "habit-pixel")
}

func TestExecutorStopsAtFailingStep(testInstance *testing.T) {
	provider := newStubErrandProvider()
	provider.pixels.failWith = errors.New(testPixelFailureMessage)

	executor := workflow.NewExecutor([]workflow.Operation{
		&workflow.HabitPixelOperation{GraphID: "graph1", Quantity: "1"},
		&workflow.FlightDealsOperation{},
	}, workflow.Dependencies{Errands: provider, Defaults: testDefaults()})

	executeError := executor.Execute(context.Background(), workflow.RuntimeOptions{})
	require.ErrorContains(testInstance, executeError, "workflow step 1 (habit-pixel) failed")
	require.ErrorContains(testInstance, executeError, testPixelFailureMessage)
	require.Empty(testInstance, provider.flightDeals.options)
}

func TestExecutorRejectsUnknownSymbol(testInstance *testing.T) {
	provider := newStubErrandProvider()
	executor := workflow.NewExecutor([]workflow.Operation{
		&workflow.StockAlertOperation{Symbols: []string{"AAPL"}},
	}, workflow.Dependencies{Errands: provider, Defaults: testDefaults()})

	executeError := executor.Execute(context.Background(), workflow.RuntimeOptions{})
	require.ErrorIs(testInstance, executeError, workflow.ErrUnknownInstrument)
	require.Empty(testInstance, provider.requested)
}

func TestExecutorRequiresErrandProvider(testInstance *testing.T) {
	executor := workflow.NewExecutor(nil, workflow.Dependencies{})
	require.Error(testInstance, executor.Execute(context.Background(), workflow.RuntimeOptions{}))
}
