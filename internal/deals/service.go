package deals

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	missingStoreMessageConstant          = "destination store not configured"
	missingLookupMessageConstant         = "flight lookup not configured"
	missingNotifierMessageConstant       = "deal notifier not configured"
	fetchDestinationsTemplateConstant    = "unable to fetch destinations: %w"
	destinationsFetchedMessageConstant   = "destinations fetched"
	dealAlertSentMessageConstant         = "deal notification sent"
	dealAlertFailedMessageConstant       = "deal notification failed"
	notificationsDisabledMessageConstant = "deals found but notifications are disabled"
	noDealsMessageConstant               = "no deals found"
	noUpdatesMessageConstant             = "no updates to persist"
	dryRunMessageConstant                = "dry run, skipping persistence"
	persistFailedMessageConstant         = "destination update failed"
	persistCompletedMessageConstant      = "destination updates persisted"
	logFieldCountConstant                = "count"
	logFieldDealCountConstant            = "deals"
	logFieldFailureCountConstant         = "failures"
)

// ErrNoDestinations indicates the store returned no rows.
var ErrNoDestinations = errors.New("no destinations found in the sheet")

// Dependencies wires the collaborators of Service.
type Dependencies struct {
	Store    DestinationStore
	Lookup   FlightLookup
	Notifier DealNotifier
	Logger   *zap.Logger
}

// Options controls one run of the flight-deals errand.
type Options struct {
	Origin AirportCode
	DryRun bool
}

// RunSummary reports what a run did.
type RunSummary struct {
	Comparison     ComparisonResult
	Notified       bool
	Persistence    PersistResult
	PersistSkipped bool
}

// Service orchestrates the flight-deals errand.
type Service struct {
	store    DestinationStore
	lookup   FlightLookup
	notifier DealNotifier
	logger   *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Store == nil {
		return nil, errors.New(missingStoreMessageConstant)
	}
	if dependencies.Lookup == nil {
		return nil, errors.New(missingLookupMessageConstant)
	}
	if dependencies.Notifier == nil {
		return nil, errors.New(missingNotifierMessageConstant)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    dependencies.Store,
		lookup:   dependencies.Lookup,
		notifier: dependencies.Notifier,
		logger:   logger,
	}, nil
}

// Run fetches destinations, compares fares, notifies about deals, and persists updates.
func (service *Service) Run(executionContext context.Context, options Options) (RunSummary, error) {
	records, fetchError := service.store.FetchAll(executionContext)
	if fetchError != nil {
		return RunSummary{}, fmt.Errorf(fetchDestinationsTemplateConstant, fetchError)
	}
	if len(records) == 0 {
		return RunSummary{}, ErrNoDestinations
	}
	service.logger.Info(destinationsFetchedMessageConstant, zap.Int(logFieldCountConstant, len(records)))

	comparison := NewComparer(service.lookup, options.Origin, service.logger).Compare(executionContext, records)
	summary := RunSummary{Comparison: comparison}
	summary.Notified = service.notify(executionContext, comparison.Deals)

	if comparison.Updated == 0 {
		service.logger.Info(noUpdatesMessageConstant)
		summary.PersistSkipped = true
		return summary, nil
	}
	if options.DryRun {
		service.logger.Info(dryRunMessageConstant, zap.Int(logFieldCountConstant, comparison.Updated))
		summary.PersistSkipped = true
		return summary, nil
	}

	summary.Persistence = service.store.Persist(executionContext, comparison.Records)
	for _, failure := range summary.Persistence.Failures {
		service.logger.Warn(
			persistFailedMessageConstant,
			zap.String(logFieldCityConstant, failure.City),
			zap.Int(logFieldRowConstant, failure.RowID),
			zap.Error(failure.Error),
		)
	}
	service.logger.Info(
		persistCompletedMessageConstant,
		zap.Int(logFieldCountConstant, len(summary.Persistence.Persisted)),
		zap.Int(logFieldFailureCountConstant, len(summary.Persistence.Failures)),
	)

	return summary, nil
}

func (service *Service) notify(executionContext context.Context, foundDeals []Deal) bool {
	if len(foundDeals) == 0 {
		service.logger.Info(noDealsMessageConstant)
		return false
	}
	if !service.notifier.Enabled() {
		for _, deal := range foundDeals {
			service.logger.Warn(
				notificationsDisabledMessageConstant,
				zap.String(logFieldCityConstant, deal.Record.City),
				zap.Float64(logFieldFoundPriceConstant, deal.FoundPrice),
				zap.Float64(logFieldSavingsConstant, deal.Savings()),
			)
		}
		return false
	}

	var delivered bool
	if len(foundDeals) == 1 {
		delivered = service.notifier.SendDealAlert(executionContext, foundDeals[0])
	} else {
		delivered = service.notifier.SendDealSummary(executionContext, foundDeals)
	}
	if delivered {
		service.logger.Info(dealAlertSentMessageConstant, zap.Int(logFieldDealCountConstant, len(foundDeals)))
	} else {
		service.logger.Warn(dealAlertFailedMessageConstant, zap.Int(logFieldDealCountConstant, len(foundDeals)))
	}
	return delivered
}
