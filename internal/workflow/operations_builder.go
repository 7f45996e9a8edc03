package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/temirov/errands/internal/deals"
)

const (
	unsupportedErrandTemplateConstant = "unsupported workflow errand: %s"
	stepOptionsDecodeTemplateConstant = "invalid %s options: %w"
	stepBuildErrorTemplateConstant    = "workflow step %d: %w"
)

type flightDealsStepOptions struct {
	Origin string `mapstructure:"origin"`
	DryRun bool   `mapstructure:"dry_run"`
}

type stockAlertStepOptions struct {
	Symbols []string `mapstructure:"symbols"`
}

type workoutLogStepOptions struct {
	Query string `mapstructure:"query"`
}

type habitPixelStepOptions struct {
	Graph    string `mapstructure:"graph"`
	Quantity string `mapstructure:"quantity"`
}

// BuildOperations converts the declarative configuration into executable operations.
func BuildOperations(configuration Configuration) ([]Operation, error) {
	operations := make([]Operation, 0, len(configuration.Steps))
	for stepIndex := range configuration.Steps {
		operation, buildError := buildOperationFromStep(configuration.Steps[stepIndex])
		if buildError != nil {
			return nil, fmt.Errorf(stepBuildErrorTemplateConstant, stepIndex+1, buildError)
		}
		operations = append(operations, operation)
	}
	return operations, nil
}

func buildOperationFromStep(step StepConfiguration) (Operation, error) {
	switch step.Errand {
	case ErrandTypeFlightDeals:
		var options flightDealsStepOptions
		if decodeError := decodeStepOptions(step, &options); decodeError != nil {
			return nil, decodeError
		}
		return &FlightDealsOperation{Origin: deals.NewAirportCode(options.Origin), DryRun: options.DryRun}, nil
	case ErrandTypeStockAlert:
		var options stockAlertStepOptions
		if decodeError := decodeStepOptions(step, &options); decodeError != nil {
			return nil, decodeError
		}
		return &StockAlertOperation{Symbols: options.Symbols}, nil
	case ErrandTypeWorkoutLog:
		var options workoutLogStepOptions
		if decodeError := decodeStepOptions(step, &options); decodeError != nil {
			return nil, decodeError
		}
		query := strings.TrimSpace(options.Query)
		if len(query) == 0 {
			return nil, errors.New(workoutQueryRequiredMessage)
		}
		return &WorkoutLogOperation{Query: query}, nil
	case ErrandTypeHabitPixel:
		var options habitPixelStepOptions
		if decodeError := decodeStepOptions(step, &options); decodeError != nil {
			return nil, decodeError
		}
		graphID := strings.TrimSpace(options.Graph)
		if len(graphID) == 0 {
			return nil, errors.New(habitGraphRequiredMessage)
		}
		quantity := strings.TrimSpace(options.Quantity)
		if len(quantity) == 0 {
			return nil, errors.New(habitQuantityRequiredMessage)
		}
		return &HabitPixelOperation{GraphID: graphID, Quantity: quantity}, nil
	default:
		return nil, fmt.Errorf(unsupportedErrandTemplateConstant, step.Errand)
	}
}

// decodeStepOptions rejects unknown keys so typos in a workflow file fail before any errand runs.
func decodeStepOptions(step StepConfiguration, target any) error {
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if decoderError != nil {
		return decoderError
	}
	if decodeError := decoder.Decode(step.Options); decodeError != nil {
		return fmt.Errorf(stepOptionsDecodeTemplateConstant, step.Errand, decodeError)
	}
	return nil
}
