package workflow_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	workflowcmd "github.com/temirov/errands/cmd/cli/workflow"
	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/market"
	"github.com/temirov/errands/internal/utils"
	"github.com/temirov/errands/internal/workflow"
	"github.com/temirov/errands/internal/workouts"
)

const (
	workflowFileNameConstant = "errands.yaml"
	workflowFileContent      = `steps:
  - errand: flight-deals
    with:
      origin: gdl
  - errand: habit-pixel
    with:
      graph: graph1
      quantity: 3
`
)

type recordingProvider struct {
	flightOptions []deals.Options
	pixelDates    []time.Time
}

func (provider *recordingProvider) FlightDeals(context.Context) (workflow.FlightDealsRunner, error) {
	return provider, nil
}

func (provider *recordingProvider) StockAlert(context.Context) (workflow.StockAlertRunner, error) {
	return nil, nil
}

func (provider *recordingProvider) Workouts(context.Context) (workflow.WorkoutLogger, error) {
	return nil, nil
}

func (provider *recordingProvider) Habits(context.Context) (workflow.PixelRecorder, error) {
	return provider, nil
}

func (provider *recordingProvider) Run(_ context.Context, options deals.Options) (deals.RunSummary, error) {
	provider.flightOptions = append(provider.flightOptions, options)
	return deals.RunSummary{}, nil
}

func (provider *recordingProvider) AddPixel(_ context.Context, _ string, date time.Time, _ string) error {
	provider.pixelDates = append(provider.pixelDates, date)
	return nil
}

func executeWorkflowCommand(testInstance *testing.T, provider *recordingProvider, arguments []string) error {
	testInstance.Helper()
	builder := workflowcmd.CommandBuilder{
		ErrandProvider: func() workflow.ErrandProvider { return provider },
		DefaultsProvider: func() workflow.Defaults {
			return workflow.Defaults{
				FlightDeals: deals.Options{Origin: "MEX"},
				Instruments: []market.Instrument{{Symbol: "TSLA"}},
				Workouts:    workouts.Options{},
			}
		},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	referenceTime := time.Date(2026, time.October, 19, 6, 0, 0, 0, time.UTC)
	executionContext := utils.NewCommandContextAccessor().WithReferenceTime(context.Background(), referenceTime)
	output := &bytes.Buffer{}
	command.SetOut(output)
	command.SetErr(output)
	command.SetArgs(arguments)
	return command.ExecuteContext(executionContext)
}

func TestWorkflowCommandRunsFile(testInstance *testing.T) {
	workflowPath := filepath.Join(testInstance.TempDir(), workflowFileNameConstant)
	require.NoError(testInstance, os.WriteFile(workflowPath, []byte(workflowFileContent), 0o600))

	testCases := []struct {
		name                string
		arguments           []string
		expectedFlightDeals []deals.Options
		expectedPixels      int
	}{
		{
			name:                "live_run",
			arguments:           []string{workflowPath},
			expectedFlightDeals: []deals.Options{{Origin: "GDL"}},
			expectedPixels:      1,
		},
		{
			name:                "dry_run",
			arguments:           []string{"--dry-run", workflowPath},
			expectedFlightDeals: []deals.Options{{Origin: "GDL", DryRun: true}},
			expectedPixels:      0,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			provider := &recordingProvider{}
			require.NoError(subTest, executeWorkflowCommand(subTest, provider, testCase.arguments))
			require.Equal(subTest, testCase.expectedFlightDeals, provider.flightOptions)
			require.Len(subTest, provider.pixelDates, testCase.expectedPixels)
		})
	}
}

func TestWorkflowCommandRequiresFile(testInstance *testing.T) {
	executionError := executeWorkflowCommand(testInstance, &recordingProvider{}, []string{})
	require.ErrorContains(testInstance, executionError, "workflow file path required")
}

func TestWorkflowCommandReportsInvalidFile(testInstance *testing.T) {
	workflowPath := filepath.Join(testInstance.TempDir(), workflowFileNameConstant)
	require.NoError(testInstance, os.WriteFile(workflowPath, []byte("steps:\n  - errand: feed-cat\n"), 0o600))

	executionError := executeWorkflowCommand(testInstance, &recordingProvider{}, []string{workflowPath})
	require.ErrorContains(testInstance, executionError, "unsupported workflow errand: feed-cat")
}

func TestWorkflowCommandFallsBackToConfigurationFile(testInstance *testing.T) {
	configurationPath := filepath.Join(testInstance.TempDir(), "config.yaml")
	configurationContent := "common:\n  currency: MXN\nworkflow:\n  steps:\n    - errand: flight-deals\n"
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(configurationContent), 0o600))

	provider := &recordingProvider{}
	builder := workflowcmd.CommandBuilder{
		ErrandProvider:   func() workflow.ErrandProvider { return provider },
		DefaultsProvider: func() workflow.Defaults { return workflow.Defaults{FlightDeals: deals.Options{Origin: "MEX"}} },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	executionContext := utils.NewCommandContextAccessor().WithConfigurationFilePath(context.Background(), configurationPath)
	command.SetOut(&bytes.Buffer{})
	command.SetArgs([]string{})
	require.NoError(testInstance, command.ExecuteContext(executionContext))
	require.Equal(testInstance, []deals.Options{{Origin: "MEX"}}, provider.flightOptions)
}
