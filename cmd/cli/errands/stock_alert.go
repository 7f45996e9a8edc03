package errands

import (
	"github.com/spf13/cobra"

	"github.com/temirov/errands/internal/workflow"
)

const (
	stockAlertUseConstant      = "stock-alert [symbol ...]"
	stockAlertShortDescription = "Text news headlines when a watched instrument moves sharply"
	stockAlertLongDescription  = "stock-alert compares the two most recent daily closes of each configured instrument and texts the top headlines when the move exceeds its threshold. Symbols narrow the run to the named instruments."
)

// StockAlertCommandBuilder assembles the stock-alert command.
type StockAlertCommandBuilder struct {
	Dependencies
}

// Build constructs the stock-alert command.
func (builder *StockAlertCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   stockAlertUseConstant,
		Short: stockAlertShortDescription,
		Long:  stockAlertLongDescription,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *StockAlertCommandBuilder) run(command *cobra.Command, arguments []string) error {
	environment, environmentError := builder.environment(command, false)
	if environmentError != nil {
		return environmentError
	}

	operation := &workflow.StockAlertOperation{Symbols: arguments}
	return operation.Execute(command.Context(), environment)
}
