package errands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/errands/internal/workflow"
)

const (
	workoutLogUseConstant         = "workout-log <description>"
	workoutLogShortDescription    = "Log a free-text workout description to the workout sheet"
	workoutLogLongDescription     = "workout-log asks the nutrition API which exercises the description mentions and appends one sheet row per exercise with its duration and calories."
	workoutLogDryRunDescription   = "Show the recognized exercises without writing rows"
	workoutLogMissingQueryMessage = "workout description required"
	workoutLogArgumentSeparator   = " "
)

// WorkoutLogCommandBuilder assembles the workout-log command.
type WorkoutLogCommandBuilder struct {
	Dependencies
}

// Build constructs the workout-log command.
func (builder *WorkoutLogCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   workoutLogUseConstant,
		Short: workoutLogShortDescription,
		Long:  workoutLogLongDescription,
		RunE:  builder.run,
	}

	command.Flags().Bool(dryRunFlagName, false, workoutLogDryRunDescription)

	return command, nil
}

func (builder *WorkoutLogCommandBuilder) run(command *cobra.Command, arguments []string) error {
	query := strings.TrimSpace(strings.Join(arguments, workoutLogArgumentSeparator))
	if len(query) == 0 {
		return errors.New(workoutLogMissingQueryMessage)
	}
	dryRun, _ := command.Flags().GetBool(dryRunFlagName)

	environment, environmentError := builder.environment(command, dryRun)
	if environmentError != nil {
		return environmentError
	}

	operation := &workflow.WorkoutLogOperation{Query: query}
	return operation.Execute(command.Context(), environment)
}
