package errands

import (
	"github.com/spf13/cobra"

	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/workflow"
)

const (
	flightDealsUseConstant           = "flight-deals"
	flightDealsShortDescription      = "Compare stored destination prices against current flight offers"
	flightDealsLongDescription       = "flight-deals reads destinations from the sheet, looks up the cheapest round trip for each, texts any deals and saves lowered prices."
	flightDealsOriginFlagName        = "origin"
	flightDealsOriginFlagDescription = "Origin airport code (overrides configuration)"
	dryRunFlagName                   = "dry-run"
	flightDealsDryRunDescription     = "Compare and report without sending messages or saving prices"
)

// FlightDealsCommandBuilder assembles the flight-deals command.
type FlightDealsCommandBuilder struct {
	Dependencies
}

// Build constructs the flight-deals command.
func (builder *FlightDealsCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   flightDealsUseConstant,
		Short: flightDealsShortDescription,
		Long:  flightDealsLongDescription,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(flightDealsOriginFlagName, "", flightDealsOriginFlagDescription)
	command.Flags().Bool(dryRunFlagName, false, flightDealsDryRunDescription)

	return command, nil
}

func (builder *FlightDealsCommandBuilder) run(command *cobra.Command, _ []string) error {
	origin, _ := command.Flags().GetString(flightDealsOriginFlagName)
	dryRun, _ := command.Flags().GetBool(dryRunFlagName)

	environment, environmentError := builder.environment(command, dryRun)
	if environmentError != nil {
		return environmentError
	}

	operation := &workflow.FlightDealsOperation{Origin: deals.NewAirportCode(origin), DryRun: dryRun}
	return operation.Execute(command.Context(), environment)
}
