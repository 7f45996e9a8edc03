package habit

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	groupUseConstant             = "habit"
	groupShortDescription        = "Track habits as pixels on a graph"
	groupLongDescription         = "habit manages the tracker account, its graph and the daily pixels recorded on it."
	userUseConstant              = "user"
	userShortDescription         = "Manage the tracker account"
	userCreateUseConstant        = "create"
	userCreateShortDescription   = "Register the configured username and token"
	graphUseConstant             = "graph"
	graphShortDescription        = "Manage habit graphs"
	graphCreateUseConstant       = "create"
	graphCreateShortDescription  = "Create the configured graph"
	graphNameFlagName            = "name"
	graphNameFlagDescription     = "Graph display name"
	graphUnitFlagName            = "unit"
	graphUnitFlagDescription     = "Unit of the recorded quantity"
	graphTypeFlagName            = "type"
	graphTypeFlagDescription     = "Quantity type: int or float"
	graphColorFlagName           = "color"
	graphColorFlagDescription    = "Graph color name"
	userCreatedTemplateConstant  = "User %s created\n"
	graphCreatedTemplateConstant = "Graph %s created: %s\n"
	userCreatedMessageConstant   = "Habit tracker user created"
	graphCreatedMessageConstant  = "Habit graph created"
	logFieldGraphConstant        = "graph"
)

// CommandGroupBuilder assembles the habit command hierarchy.
type CommandGroupBuilder struct {
	LoggerProvider   LoggerProvider
	TrackerProvider  TrackerProvider
	GraphProvider    GraphProvider
	UsernameProvider func() string
}

// Build constructs the habit command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	userCommand := &cobra.Command{Use: userUseConstant, Short: userShortDescription}
	userCommand.AddCommand(&cobra.Command{
		Use:   userCreateUseConstant,
		Short: userCreateShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runUserCreate,
	})
	command.AddCommand(userCommand)

	graphCreateCommand := &cobra.Command{
		Use:   graphCreateUseConstant,
		Short: graphCreateShortDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.runGraphCreate,
	}
	graphCreateCommand.Flags().String(graphFlagName, "", graphFlagDescription)
	graphCreateCommand.Flags().String(graphNameFlagName, "", graphNameFlagDescription)
	graphCreateCommand.Flags().String(graphUnitFlagName, "", graphUnitFlagDescription)
	graphCreateCommand.Flags().String(graphTypeFlagName, "", graphTypeFlagDescription)
	graphCreateCommand.Flags().String(graphColorFlagName, "", graphColorFlagDescription)
	graphCommand := &cobra.Command{Use: graphUseConstant, Short: graphShortDescription}
	graphCommand.AddCommand(graphCreateCommand)
	command.AddCommand(graphCommand)

	pixelBuilder := PixelCommandBuilder{
		LoggerProvider:  builder.LoggerProvider,
		TrackerProvider: builder.TrackerProvider,
		GraphProvider:   builder.GraphProvider,
	}
	pixelCommand, pixelError := pixelBuilder.Build()
	if pixelError == nil {
		command.AddCommand(pixelCommand)
	}

	return command, nil
}

func (builder *CommandGroupBuilder) runUserCreate(command *cobra.Command, _ []string) error {
	tracker, trackerError := resolveTracker(builder.TrackerProvider, command)
	if trackerError != nil {
		return trackerError
	}
	if createError := tracker.CreateUser(command.Context()); createError != nil {
		return createError
	}

	username := ""
	if builder.UsernameProvider != nil {
		username = builder.UsernameProvider()
	}
	resolveLogger(builder.LoggerProvider).Info(userCreatedMessageConstant)
	fmt.Fprintf(command.OutOrStdout(), userCreatedTemplateConstant, username)
	return nil
}

func (builder *CommandGroupBuilder) runGraphCreate(command *cobra.Command, _ []string) error {
	graph := resolveGraph(builder.GraphProvider)
	graph.ID = resolveGraphID(command, builder.GraphProvider)
	overrideString(command, graphNameFlagName, &graph.Name)
	overrideString(command, graphUnitFlagName, &graph.Unit)
	overrideString(command, graphTypeFlagName, &graph.Type)
	overrideString(command, graphColorFlagName, &graph.Color)

	tracker, trackerError := resolveTracker(builder.TrackerProvider, command)
	if trackerError != nil {
		return trackerError
	}
	if createError := tracker.CreateGraph(command.Context(), graph); createError != nil {
		return createError
	}

	resolveLogger(builder.LoggerProvider).Info(graphCreatedMessageConstant, zap.String(logFieldGraphConstant, graph.ID))
	fmt.Fprintf(command.OutOrStdout(), graphCreatedTemplateConstant, graph.ID, tracker.GraphPageURL(graph.ID))
	return nil
}

func overrideString(command *cobra.Command, flagName string, target *string) {
	if !command.Flags().Changed(flagName) {
		return
	}
	value, _ := command.Flags().GetString(flagName)
	*target = value
}
