package deals

import (
	"strconv"
	"strings"
)

const (
	unknownValueLabelConstant = "n/a"
	priceFormatPrecision      = 2
)

// Price is an optional monetary amount.
type Price struct {
	amount float64
	known  bool
}

// KnownPrice constructs a price holding the amount.
func KnownPrice(amount float64) Price {
	return Price{amount: amount, known: true}
}

// UnknownPrice constructs an absent price.
func UnknownPrice() Price {
	return Price{}
}

// Amount returns the amount and whether the price is known.
func (price Price) Amount() (float64, bool) {
	return price.amount, price.known
}

// IsKnown reports whether the price carries an amount.
func (price Price) IsKnown() bool {
	return price.known
}

// String renders the amount with two decimals or n/a.
func (price Price) String() string {
	if !price.known {
		return unknownValueLabelConstant
	}
	return strconv.FormatFloat(price.amount, 'f', priceFormatPrecision, 64)
}

// AirportCode is an IATA airport or city code; the empty value means unknown.
type AirportCode string

// NewAirportCode normalizes a textual code.
func NewAirportCode(value string) AirportCode {
	return AirportCode(strings.ToUpper(strings.TrimSpace(value)))
}

// IsKnown reports whether the code is present.
func (code AirportCode) IsKnown() bool {
	return len(strings.TrimSpace(string(code))) > 0
}

// String renders the code or n/a.
func (code AirportCode) String() string {
	if !code.IsKnown() {
		return unknownValueLabelConstant
	}
	return string(code)
}

// DestinationRecord is one spreadsheet row tracking the lowest known fare to a city.
type DestinationRecord struct {
	RowID       int
	City        string
	AirportCode AirportCode
	LowestPrice Price
	Changed     bool
}

// Persistable reports whether the record carries enough data to be written back.
func (record DestinationRecord) Persistable() bool {
	return record.Changed && record.AirportCode.IsKnown() && record.LowestPrice.IsKnown()
}

// Quote is the cheapest itinerary found for one origin and destination pair.
type Quote struct {
	Price              Price
	OriginAirport      AirportCode
	DestinationAirport AirportCode
	OutboundDate       string
	ReturnDate         string
}

// UnavailableQuote returns the quote used when no itinerary was found.
func UnavailableQuote() Quote {
	return Quote{Price: UnknownPrice()}
}

// Available reports whether the quote carries a price.
func (quote Quote) Available() bool {
	return quote.Price.IsKnown()
}

// Deal pairs a destination with a fare strictly below its previously recorded price.
type Deal struct {
	Record        DestinationRecord
	PreviousPrice float64
	FoundPrice    float64
	Quote         Quote
}

// Savings returns the difference between the previous and the found price.
func (deal Deal) Savings() float64 {
	return deal.PreviousPrice - deal.FoundPrice
}
