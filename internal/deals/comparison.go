package deals

import (
	"context"

	"go.uber.org/zap"
)

const (
	airportCodeResolutionFailedMessageConstant = "airport code lookup failed"
	airportCodeNotFoundMessageConstant         = "airport code not found"
	airportCodeResolvedMessageConstant         = "airport code resolved"
	quoteLookupFailedMessageConstant           = "flight search failed"
	quoteUnavailableMessageConstant            = "no flights found"
	priceRecordedMessageConstant               = "no previous price recorded, storing found price"
	dealFoundMessageConstant                   = "deal found"
	priceNotLowerMessageConstant               = "found price is not lower than recorded price"
	logFieldCityConstant                       = "city"
	logFieldRowConstant                        = "row"
	logFieldAirportCodeConstant                = "airport_code"
	logFieldOriginConstant                     = "origin"
	logFieldFoundPriceConstant                 = "found_price"
	logFieldRecordedPriceConstant              = "recorded_price"
	logFieldSavingsConstant                    = "savings"
)

// FlightLookup resolves airport codes and quotes round-trip fares.
type FlightLookup interface {
	ResolveAirportCode(executionContext context.Context, cityName string) (AirportCode, error)
	CheapestRoundTrip(executionContext context.Context, origin AirportCode, destination AirportCode) (Quote, error)
}

// ComparisonResult captures the outcome of comparing every destination once.
type ComparisonResult struct {
	Records []DestinationRecord
	Deals   []Deal
	Updated int
}

// Comparer walks destination records and decides updates and deals.
type Comparer struct {
	lookup FlightLookup
	origin AirportCode
	logger *zap.Logger
}

// NewComparer constructs a Comparer quoting fares from origin.
func NewComparer(lookup FlightLookup, origin AirportCode, logger *zap.Logger) *Comparer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparer{lookup: lookup, origin: origin, logger: logger}
}

// Compare processes records in order. A record whose lookup fails is left untouched and contributes no deal.
func (comparer *Comparer) Compare(executionContext context.Context, records []DestinationRecord) ComparisonResult {
	result := ComparisonResult{Records: make([]DestinationRecord, 0, len(records))}

	for _, record := range records {
		updatedRecord, deal, updated := comparer.compareRecord(executionContext, record)
		result.Records = append(result.Records, updatedRecord)
		if updated {
			result.Updated++
		}
		if deal != nil {
			result.Deals = append(result.Deals, *deal)
		}
	}

	return result
}

func (comparer *Comparer) compareRecord(executionContext context.Context, record DestinationRecord) (DestinationRecord, *Deal, bool) {
	recordLogger := comparer.logger.With(zap.String(logFieldCityConstant, record.City), zap.Int(logFieldRowConstant, record.RowID))

	destinationCode := record.AirportCode
	if !destinationCode.IsKnown() {
		resolvedCode, resolutionError := comparer.lookup.ResolveAirportCode(executionContext, record.City)
		if resolutionError != nil {
			recordLogger.Warn(airportCodeResolutionFailedMessageConstant, zap.Error(resolutionError))
			return record, nil, false
		}
		if !resolvedCode.IsKnown() {
			recordLogger.Warn(airportCodeNotFoundMessageConstant)
			return record, nil, false
		}
		recordLogger.Info(airportCodeResolvedMessageConstant, zap.String(logFieldAirportCodeConstant, string(resolvedCode)))
		destinationCode = resolvedCode
	}

	candidate := record
	candidate.AirportCode = destinationCode

	quote, quoteError := comparer.lookup.CheapestRoundTrip(executionContext, comparer.origin, destinationCode)
	if quoteError != nil {
		recordLogger.Warn(quoteLookupFailedMessageConstant, zap.String(logFieldOriginConstant, string(comparer.origin)), zap.String(logFieldAirportCodeConstant, string(destinationCode)), zap.Error(quoteError))
		return candidate, nil, false
	}

	foundPrice, foundPriceKnown := quote.Price.Amount()
	if !foundPriceKnown {
		recordLogger.Info(quoteUnavailableMessageConstant, zap.String(logFieldOriginConstant, string(comparer.origin)), zap.String(logFieldAirportCodeConstant, string(destinationCode)))
		return candidate, nil, false
	}

	recordedPrice, recordedPriceKnown := record.LowestPrice.Amount()
	switch {
	case !recordedPriceKnown:
		recordLogger.Info(priceRecordedMessageConstant, zap.Float64(logFieldFoundPriceConstant, foundPrice))
		return applyQuote(candidate, quote, foundPrice), nil, true
	case foundPrice < recordedPrice:
		updatedRecord := applyQuote(candidate, quote, foundPrice)
		deal := &Deal{
			Record:        updatedRecord,
			PreviousPrice: recordedPrice,
			FoundPrice:    foundPrice,
			Quote:         quote,
		}
		recordLogger.Info(
			dealFoundMessageConstant,
			zap.Float64(logFieldFoundPriceConstant, foundPrice),
			zap.Float64(logFieldRecordedPriceConstant, recordedPrice),
			zap.Float64(logFieldSavingsConstant, deal.Savings()),
		)
		return updatedRecord, deal, true
	default:
		recordLogger.Info(priceNotLowerMessageConstant, zap.Float64(logFieldFoundPriceConstant, foundPrice), zap.Float64(logFieldRecordedPriceConstant, recordedPrice))
		return candidate, nil, false
	}
}

func applyQuote(record DestinationRecord, quote Quote, foundPrice float64) DestinationRecord {
	updatedRecord := record
	if quote.DestinationAirport.IsKnown() {
		updatedRecord.AirportCode = quote.DestinationAirport
	}
	updatedRecord.LowestPrice = KnownPrice(foundPrice)
	updatedRecord.Changed = true
	return updatedRecord
}

// Compare processes records against lookup quoting from origin without logging.
func Compare(executionContext context.Context, records []DestinationRecord, lookup FlightLookup, origin AirportCode) ComparisonResult {
	return NewComparer(lookup, origin, nil).Compare(executionContext, records)
}
