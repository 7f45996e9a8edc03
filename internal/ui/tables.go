package ui

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/temirov/errands/internal/deals"
)

const (
	dealHeaderRowConstant         = "Row"
	dealHeaderCityConstant        = "City"
	dealHeaderCodeConstant        = "Code"
	dealHeaderPriceConstant       = "Lowest price"
	dealHeaderSavingsConstant     = "Savings"
	dealHeaderStatusConstant      = "Status"
	dealStatusDealConstant        = "deal"
	dealStatusUpdatedConstant     = "updated"
	dealStatusUnchangedConstant   = "unchanged"
	dealStatusPersistFailedSuffix = ", not saved"
	dealFooterTemplateConstant    = "%d destinations, %d updated, %d deals"
	dealFooterDryRunSuffix        = " (dry run)"
	emptyCellConstant             = ""
	amountTemplateConstant        = "%.2f"
)

// NewTable constructs a table writer mirrored to writer.
func NewTable(writer io.Writer) table.Writer {
	tableWriter := table.NewWriter()
	tableWriter.SetStyle(table.StyleRounded)
	tableWriter.Style().Format.Footer = text.FormatDefault
	tableWriter.SetOutputMirror(writer)
	return tableWriter
}

// RenderDealReport writes one line per destination summarizing the run.
func RenderDealReport(writer io.Writer, summary deals.RunSummary, dryRun bool) {
	savingsByRow := make(map[int]float64, len(summary.Comparison.Deals))
	for _, deal := range summary.Comparison.Deals {
		savingsByRow[deal.Record.RowID] = deal.Savings()
	}
	failedRows := make(map[int]struct{}, len(summary.Persistence.Failures))
	for _, failure := range summary.Persistence.Failures {
		failedRows[failure.RowID] = struct{}{}
	}

	tableWriter := NewTable(writer)
	tableWriter.AppendHeader(table.Row{
		dealHeaderRowConstant,
		dealHeaderCityConstant,
		dealHeaderCodeConstant,
		dealHeaderPriceConstant,
		dealHeaderSavingsConstant,
		dealHeaderStatusConstant,
	})

	for _, record := range summary.Comparison.Records {
		status := dealStatusUnchangedConstant
		savingsCell := emptyCellConstant
		if savings, isDeal := savingsByRow[record.RowID]; isDeal {
			status = dealStatusDealConstant
			savingsCell = fmt.Sprintf(amountTemplateConstant, savings)
		} else if record.Changed {
			status = dealStatusUpdatedConstant
		}
		if _, failed := failedRows[record.RowID]; failed {
			status += dealStatusPersistFailedSuffix
		}
		tableWriter.AppendRow(table.Row{
			record.RowID,
			record.City,
			record.AirportCode.String(),
			record.LowestPrice.String(),
			savingsCell,
			status,
		})
	}

	footer := fmt.Sprintf(dealFooterTemplateConstant, len(summary.Comparison.Records), summary.Comparison.Updated, len(summary.Comparison.Deals))
	if dryRun {
		footer += dealFooterDryRunSuffix
	}
	tableWriter.AppendFooter(table.Row{emptyCellConstant, footer})
	tableWriter.Render()
}
