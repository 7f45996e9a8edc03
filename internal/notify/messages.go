package notify

import (
	"fmt"
	"strings"

	"github.com/temirov/errands/internal/deals"
)

const (
	dealAlertHeaderConstant        = "🎉 Flight deal found! 🎉\n\n"
	dealAlertDestinationTemplate   = "Destination: %s\n"
	dealAlertPreviousPriceTemplate = "Previous price: $%.2f %s\n"
	dealAlertNewPriceTemplate      = "New price: $%.2f %s\n"
	dealAlertSavingsTemplate       = "You save: $%.2f %s!\n\n"
	dealAlertRouteTemplate         = "📍 Route: %s → %s\n"
	dealAlertDepartureTemplate     = "📅 Departure: %s\n"
	dealAlertReturnTemplate        = "📅 Return: %s\n\n"
	dealAlertSearchHintTemplate    = "🔗 Search Google Flights: %s to %s"
	dealSummaryHeaderTemplate      = "🎉 %d flight deals found! 🎉\n\n"
	dealSummaryCityTemplate        = "%d. %s\n"
	dealSummaryPriceTemplate       = "   💰 $%.2f %s (saving: $%.2f)\n"
	dealSummaryDatesTemplate       = "   📅 %s - %s\n\n"
	bookSoonReminderConstant       = "💡 Book soon before prices go up!"
	bookSoonReminderLineConstant   = bookSoonReminderConstant + "\n"
)

// FormatDealAlert renders the message announcing a single deal.
func FormatDealAlert(deal deals.Deal, currency string) string {
	var builder strings.Builder
	builder.WriteString(dealAlertHeaderConstant)
	fmt.Fprintf(&builder, dealAlertDestinationTemplate, deal.Record.City)
	fmt.Fprintf(&builder, dealAlertPreviousPriceTemplate, deal.PreviousPrice, currency)
	fmt.Fprintf(&builder, dealAlertNewPriceTemplate, deal.FoundPrice, currency)
	fmt.Fprintf(&builder, dealAlertSavingsTemplate, deal.Savings(), currency)
	fmt.Fprintf(&builder, dealAlertRouteTemplate, deal.Quote.OriginAirport, deal.Quote.DestinationAirport)
	fmt.Fprintf(&builder, dealAlertDepartureTemplate, displayDate(deal.Quote.OutboundDate))
	fmt.Fprintf(&builder, dealAlertReturnTemplate, displayDate(deal.Quote.ReturnDate))
	builder.WriteString(bookSoonReminderLineConstant)
	fmt.Fprintf(&builder, dealAlertSearchHintTemplate, deal.Quote.OriginAirport, deal.Quote.DestinationAirport)
	return builder.String()
}

// FormatDealSummary renders one message listing every deal.
func FormatDealSummary(foundDeals []deals.Deal, currency string) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, dealSummaryHeaderTemplate, len(foundDeals))
	for index, deal := range foundDeals {
		fmt.Fprintf(&builder, dealSummaryCityTemplate, index+1, deal.Record.City)
		fmt.Fprintf(&builder, dealSummaryPriceTemplate, deal.FoundPrice, currency, deal.Savings())
		fmt.Fprintf(&builder, dealSummaryDatesTemplate, displayDate(deal.Quote.OutboundDate), displayDate(deal.Quote.ReturnDate))
	}
	builder.WriteString(bookSoonReminderConstant)
	return builder.String()
}

func displayDate(date string) string {
	if len(strings.TrimSpace(date)) == 0 {
		return "n/a"
	}
	return date
}
