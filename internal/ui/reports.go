package ui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/temirov/errands/internal/market"
	"github.com/temirov/errands/internal/workouts"
)

const (
	marketHeaderSymbolConstant      = "Symbol"
	marketHeaderMovementConstant    = "Movement"
	marketHeaderThresholdConstant   = "Threshold"
	marketHeaderArticlesConstant    = "Articles"
	marketHeaderDeliveredConstant   = "Sent"
	marketHeaderStatusConstant      = "Status"
	marketStatusAlertConstant       = "alert"
	marketStatusQuietConstant       = "quiet"
	marketStatusFailedConstant      = "failed"
	marketThresholdTemplateConstant = "%g%%"
	marketFooterTemplateConstant    = "%d instruments, %d alerts"
	workoutHeaderExerciseConstant   = "Exercise"
	workoutHeaderDurationConstant   = "Minutes"
	workoutHeaderCaloriesConstant   = "Calories"
	workoutFooterTemplateConstant   = "%d exercises, %d calories"
	workoutFooterDryRunSuffix       = " (not logged)"
)

// RenderMarketReport writes one line per checked instrument.
func RenderMarketReport(writer io.Writer, reports []market.InstrumentReport) {
	tableWriter := NewTable(writer)
	tableWriter.AppendHeader(table.Row{
		marketHeaderSymbolConstant,
		marketHeaderMovementConstant,
		marketHeaderThresholdConstant,
		marketHeaderArticlesConstant,
		marketHeaderDeliveredConstant,
		marketHeaderStatusConstant,
	})

	alerts := 0
	for _, report := range reports {
		status := marketStatusQuietConstant
		movementCell := report.Movement.String()
		switch {
		case report.Error != nil:
			status = marketStatusFailedConstant
			movementCell = emptyCellConstant
		case report.Significant:
			status = marketStatusAlertConstant
			alerts++
		}
		tableWriter.AppendRow(table.Row{
			report.Instrument.Symbol,
			movementCell,
			fmt.Sprintf(marketThresholdTemplateConstant, report.Instrument.ThresholdPercent),
			report.Articles,
			report.Delivered,
			status,
		})
	}

	tableWriter.AppendFooter(table.Row{emptyCellConstant, fmt.Sprintf(marketFooterTemplateConstant, len(reports), alerts)})
	tableWriter.Render()
}

// RenderWorkoutReport writes the exercises recognized from a workout description.
func RenderWorkoutReport(writer io.Writer, exercises []workouts.LoggedExercise, dryRun bool) {
	tableWriter := NewTable(writer)
	tableWriter.AppendHeader(table.Row{workoutHeaderExerciseConstant, workoutHeaderDurationConstant, workoutHeaderCaloriesConstant})

	totalCalories := 0
	for _, exercise := range exercises {
		totalCalories += exercise.Calories
		tableWriter.AppendRow(table.Row{exercise.Exercise, exercise.Duration, exercise.Calories})
	}

	footer := fmt.Sprintf(workoutFooterTemplateConstant, len(exercises), totalCalories)
	if dryRun {
		footer += workoutFooterDryRunSuffix
	}
	tableWriter.AppendFooter(table.Row{emptyCellConstant, footer})
	tableWriter.Render()
}
