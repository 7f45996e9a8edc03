package habit

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	pixelUseConstant             = "pixel"
	pixelShortDescription        = "Record, change or remove a day's quantity"
	pixelAddUseConstant          = "add"
	pixelAddShortDescription     = "Add a pixel (defaults to today)"
	pixelUpdateUseConstant       = "update"
	pixelUpdateShortDescription  = "Update a pixel (defaults to yesterday)"
	pixelDeleteUseConstant       = "delete"
	pixelDeleteShortDescription  = "Delete a pixel (defaults to yesterday)"
	addDateFlagDescription       = "Pixel date as YYYYMMDD (defaults to today)"
	pastDateFlagDescription      = "Pixel date as YYYYMMDD (defaults to yesterday)"
	quantityFlagDescription      = "Quantity to record"
	pixelAddedTemplateConstant   = "Pixel %s added: %s\n"
	pixelUpdatedTemplateConstant = "Pixel %s updated: %s\n"
	pixelDeletedTemplateConstant = "Pixel %s deleted: %s\n"
	pixelChangedMessageConstant  = "Habit pixel changed"
	logFieldOperationConstant    = "operation"
	logFieldDateConstant         = "date"
	todayOffsetConstant          = 0
	yesterdayOffsetConstant      = -1
)

// PixelCommandBuilder assembles the pixel command group.
type PixelCommandBuilder struct {
	LoggerProvider  LoggerProvider
	TrackerProvider TrackerProvider
	GraphProvider   GraphProvider
}

// Build constructs the pixel command group.
func (builder *PixelCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pixelUseConstant,
		Short: pixelShortDescription,
	}

	addCommand := &cobra.Command{Use: pixelAddUseConstant, Short: pixelAddShortDescription, Args: cobra.NoArgs, RunE: builder.runAdd}
	addCommand.Flags().String(dateFlagName, "", addDateFlagDescription)
	addCommand.Flags().String(quantityFlagName, "", quantityFlagDescription)
	addCommand.Flags().String(graphFlagName, "", graphFlagDescription)

	updateCommand := &cobra.Command{Use: pixelUpdateUseConstant, Short: pixelUpdateShortDescription, Args: cobra.NoArgs, RunE: builder.runUpdate}
	updateCommand.Flags().String(dateFlagName, "", pastDateFlagDescription)
	updateCommand.Flags().String(quantityFlagName, "", quantityFlagDescription)
	updateCommand.Flags().String(graphFlagName, "", graphFlagDescription)

	deleteCommand := &cobra.Command{Use: pixelDeleteUseConstant, Short: pixelDeleteShortDescription, Args: cobra.NoArgs, RunE: builder.runDelete}
	deleteCommand.Flags().String(dateFlagName, "", pastDateFlagDescription)
	deleteCommand.Flags().String(graphFlagName, "", graphFlagDescription)

	command.AddCommand(addCommand, updateCommand, deleteCommand)
	return command, nil
}

func (builder *PixelCommandBuilder) runAdd(command *cobra.Command, _ []string) error {
	quantity, quantityError := requireQuantity(command)
	if quantityError != nil {
		return quantityError
	}
	pixelDate, dateError := resolvePixelDate(command, todayOffsetConstant)
	if dateError != nil {
		return dateError
	}
	tracker, trackerError := resolveTracker(builder.TrackerProvider, command)
	if trackerError != nil {
		return trackerError
	}

	graphID := resolveGraphID(command, builder.GraphProvider)
	if addError := tracker.AddPixel(command.Context(), graphID, pixelDate, quantity); addError != nil {
		return addError
	}
	builder.report(command, tracker, pixelAddedTemplateConstant, pixelAddUseConstant, graphID, pixelDate.Format(dateFlagLayoutConstant))
	return nil
}

func (builder *PixelCommandBuilder) runUpdate(command *cobra.Command, _ []string) error {
	quantity, quantityError := requireQuantity(command)
	if quantityError != nil {
		return quantityError
	}
	pixelDate, dateError := resolvePixelDate(command, yesterdayOffsetConstant)
	if dateError != nil {
		return dateError
	}
	tracker, trackerError := resolveTracker(builder.TrackerProvider, command)
	if trackerError != nil {
		return trackerError
	}

	graphID := resolveGraphID(command, builder.GraphProvider)
	if updateError := tracker.UpdatePixel(command.Context(), graphID, pixelDate, quantity); updateError != nil {
		return updateError
	}
	builder.report(command, tracker, pixelUpdatedTemplateConstant, pixelUpdateUseConstant, graphID, pixelDate.Format(dateFlagLayoutConstant))
	return nil
}

func (builder *PixelCommandBuilder) runDelete(command *cobra.Command, _ []string) error {
	pixelDate, dateError := resolvePixelDate(command, yesterdayOffsetConstant)
	if dateError != nil {
		return dateError
	}
	tracker, trackerError := resolveTracker(builder.TrackerProvider, command)
	if trackerError != nil {
		return trackerError
	}

	graphID := resolveGraphID(command, builder.GraphProvider)
	if deleteError := tracker.DeletePixel(command.Context(), graphID, pixelDate); deleteError != nil {
		return deleteError
	}
	builder.report(command, tracker, pixelDeletedTemplateConstant, pixelDeleteUseConstant, graphID, pixelDate.Format(dateFlagLayoutConstant))
	return nil
}

func (builder *PixelCommandBuilder) report(command *cobra.Command, tracker Tracker, template string, operation string, graphID string, formattedDate string) {
	resolveLogger(builder.LoggerProvider).Info(
		pixelChangedMessageConstant,
		zap.String(logFieldOperationConstant, operation),
		zap.String(logFieldGraphConstant, graphID),
		zap.String(logFieldDateConstant, formattedDate),
	)
	fmt.Fprintf(command.OutOrStdout(), template, formattedDate, tracker.GraphPageURL(graphID))
}
