package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/errands/internal/credentials"
	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/flights"
	"github.com/temirov/errands/internal/habits"
	"github.com/temirov/errands/internal/httpclient"
	"github.com/temirov/errands/internal/market"
	"github.com/temirov/errands/internal/notify"
	"github.com/temirov/errands/internal/sheet"
	"github.com/temirov/errands/internal/workflow"
	"github.com/temirov/errands/internal/workouts"
)

const (
	flightsClientIDSettingConstant     = "errands.flight_deals.flights.client_id"
	flightsClientSecretSettingConstant = "errands.flight_deals.flights.client_secret"
	marketAPIKeySettingConstant        = "errands.stock_alert.market.api_key"
	newsAPIKeySettingConstant          = "errands.stock_alert.news.api_key"
	nutritionAppIDSettingConstant      = "errands.workouts.nutrition.app_id"
	nutritionAppKeySettingConstant     = "errands.workouts.nutrition.app_key"
	habitsTokenSettingConstant         = "errands.habits.token"
	errandSetupErrorTemplateConstant   = "unable to prepare %s: %w"
	flightDealsErrandNameConstant      = "flight-deals"
	stockAlertErrandNameConstant       = "stock-alert"
	workoutLogErrandNameConstant       = "workout-log"
	habitTrackerErrandNameConstant     = "habit tracker"
)

type referenceClock struct {
	now func() time.Time
}

func (clock referenceClock) Now() time.Time {
	return clock.now()
}

// errandFactory builds errand services from resolved configuration. Secrets are resolved only for the errand requested.
type errandFactory struct {
	configuration ApplicationConfiguration
	resolver      *credentials.Resolver
	logger        *zap.Logger
	observer      httpclient.RequestEventObserver
	clock         referenceClock
	notifier      *notify.Notifier
}

func newErrandFactory(configuration ApplicationConfiguration, resolver *credentials.Resolver, logger *zap.Logger, observer httpclient.RequestEventObserver, now func() time.Time) *errandFactory {
	if resolver == nil {
		resolver = credentials.NewResolver(nil, nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &errandFactory{
		configuration: configuration,
		resolver:      resolver,
		logger:        logger,
		observer:      observer,
		clock:         referenceClock{now: now},
	}
}

func (factory *errandFactory) httpDependencies() httpclient.Dependencies {
	return httpclient.Dependencies{Logger: factory.logger, Observer: factory.observer}
}

// FlightDeals wires the sheet, flight lookup and notifier into a deals service.
func (factory *errandFactory) FlightDeals(executionContext context.Context) (workflow.FlightDealsRunner, error) {
	flightDealsConfiguration := factory.configuration.Errands.FlightDeals

	store, storeError := sheet.NewClient(factory.sheetConfiguration(flightDealsConfiguration.Sheet), factory.httpDependencies())
	if storeError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, flightDealsErrandNameConstant, storeError)
	}

	clientID, clientIDError := factory.resolver.Require(flightsClientIDSettingConstant, flightDealsConfiguration.Flights.ClientID)
	if clientIDError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, flightDealsErrandNameConstant, clientIDError)
	}
	clientSecret, clientSecretError := factory.resolver.Require(flightsClientSecretSettingConstant, flightDealsConfiguration.Flights.ClientSecret)
	if clientSecretError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, flightDealsErrandNameConstant, clientSecretError)
	}

	lookup, lookupError := flights.NewClient(executionContext, flights.Configuration{
		BaseURL:         flightDealsConfiguration.Flights.BaseURL,
		TokenURL:        flightDealsConfiguration.Flights.TokenURL,
		ClientID:        clientID,
		ClientSecret:    clientSecret,
		Currency:        factory.configuration.Common.Currency,
		Adults:          flightDealsConfiguration.Flights.Adults,
		NonStop:         flightDealsConfiguration.Flights.NonStop,
		DepartureOffset: flightDealsConfiguration.Flights.DepartureOffset,
		ReturnOffset:    flightDealsConfiguration.Flights.ReturnOffset,
		Timeout:         factory.configuration.Common.HTTPTimeout,
	}, flights.Dependencies{Logger: factory.logger, Observer: factory.observer, Clock: factory.clock})
	if lookupError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, flightDealsErrandNameConstant, lookupError)
	}

	service, serviceError := deals.NewService(deals.Dependencies{
		Store:    store,
		Lookup:   lookup,
		Notifier: factory.smsNotifier(),
		Logger:   factory.logger,
	})
	if serviceError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, flightDealsErrandNameConstant, serviceError)
	}
	return service, nil
}

// StockAlert wires the market and news clients into a market service.
func (factory *errandFactory) StockAlert(context.Context) (workflow.StockAlertRunner, error) {
	stockAlertConfiguration := factory.configuration.Errands.StockAlert

	marketAPIKey, marketKeyError := factory.resolver.Require(marketAPIKeySettingConstant, stockAlertConfiguration.Market.APIKey)
	if marketKeyError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, stockAlertErrandNameConstant, marketKeyError)
	}
	newsAPIKey, newsKeyError := factory.resolver.Require(newsAPIKeySettingConstant, stockAlertConfiguration.News.APIKey)
	if newsKeyError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, stockAlertErrandNameConstant, newsKeyError)
	}

	prices, pricesError := market.NewPriceClient(market.ClientConfiguration{
		BaseURL: stockAlertConfiguration.Market.BaseURL,
		APIKey:  marketAPIKey,
		Timeout: factory.configuration.Common.HTTPTimeout,
	}, factory.httpDependencies())
	if pricesError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, stockAlertErrandNameConstant, pricesError)
	}
	news, newsError := market.NewNewsClient(market.ClientConfiguration{
		BaseURL: stockAlertConfiguration.News.BaseURL,
		APIKey:  newsAPIKey,
		Timeout: factory.configuration.Common.HTTPTimeout,
	}, factory.httpDependencies())
	if newsError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, stockAlertErrandNameConstant, newsError)
	}

	service, serviceError := market.NewService(market.Dependencies{Prices: prices, News: news, Sender: factory.smsNotifier(), Logger: factory.logger})
	if serviceError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, stockAlertErrandNameConstant, serviceError)
	}
	return service, nil
}

// Workouts wires the nutrition client and the workout sheet into a workouts service.
func (factory *errandFactory) Workouts(context.Context) (workflow.WorkoutLogger, error) {
	workoutsConfiguration := factory.configuration.Errands.Workouts

	appID, appIDError := factory.resolver.Require(nutritionAppIDSettingConstant, workoutsConfiguration.Nutrition.AppID)
	if appIDError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, workoutLogErrandNameConstant, appIDError)
	}
	appKey, appKeyError := factory.resolver.Require(nutritionAppKeySettingConstant, workoutsConfiguration.Nutrition.AppKey)
	if appKeyError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, workoutLogErrandNameConstant, appKeyError)
	}

	nutrition, nutritionError := workouts.NewNutritionClient(workouts.NutritionConfiguration{
		BaseURL: workoutsConfiguration.Nutrition.BaseURL,
		AppID:   appID,
		AppKey:  appKey,
		Timeout: factory.configuration.Common.HTTPTimeout,
	}, factory.httpDependencies())
	if nutritionError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, workoutLogErrandNameConstant, nutritionError)
	}

	rows, rowsError := sheet.NewClient(factory.sheetConfiguration(workoutsConfiguration.Sheet), factory.httpDependencies())
	if rowsError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, workoutLogErrandNameConstant, rowsError)
	}

	service, serviceError := workouts.NewService(workouts.Dependencies{Exercises: nutrition, Rows: rows, Clock: factory.clock, Logger: factory.logger})
	if serviceError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, workoutLogErrandNameConstant, serviceError)
	}
	return service, nil
}

// Habits returns the habit tracker client used by workflow pixel steps.
func (factory *errandFactory) Habits(executionContext context.Context) (workflow.PixelRecorder, error) {
	return factory.HabitClient(executionContext)
}

// HabitClient constructs the habit tracker client.
func (factory *errandFactory) HabitClient(context.Context) (*habits.Client, error) {
	habitsConfiguration := factory.configuration.Errands.Habits
	token, tokenError := factory.resolver.Require(habitsTokenSettingConstant, habitsConfiguration.Token)
	if tokenError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, habitTrackerErrandNameConstant, tokenError)
	}

	client, clientError := habits.NewClient(habits.Configuration{
		BaseURL:  habitsConfiguration.BaseURL,
		Username: habitsConfiguration.Username,
		Token:    token,
		Timeout:  factory.configuration.Common.HTTPTimeout,
	}, factory.httpDependencies())
	if clientError != nil {
		return nil, fmt.Errorf(errandSetupErrorTemplateConstant, habitTrackerErrandNameConstant, clientError)
	}
	return client, nil
}

// smsNotifier builds the notifier once; missing credentials leave it disabled.
func (factory *errandFactory) smsNotifier() *notify.Notifier {
	if factory.notifier != nil {
		return factory.notifier
	}

	notificationsConfiguration := factory.configuration.Notifications
	accountSID, _ := factory.resolver.Optional(notificationsConfiguration.AccountSID)
	authToken, _ := factory.resolver.Optional(notificationsConfiguration.AuthToken)
	fromNumber, _ := factory.resolver.Optional(notificationsConfiguration.FromNumber)
	toNumber, _ := factory.resolver.Optional(notificationsConfiguration.ToNumber)

	factory.notifier = notify.New(notify.Configuration{
		BaseURL:    notificationsConfiguration.BaseURL,
		AccountSID: accountSID,
		AuthToken:  authToken,
		FromNumber: fromNumber,
		ToNumber:   toNumber,
		Currency:   factory.configuration.Common.Currency,
		Timeout:    factory.configuration.Common.HTTPTimeout,
	}, notify.Dependencies{Logger: factory.logger, Observer: factory.observer})
	return factory.notifier
}

func (factory *errandFactory) sheetConfiguration(configured SheetConfiguration) sheet.Configuration {
	token, _ := factory.resolver.Optional(configured.Token)
	username, _ := factory.resolver.Optional(configured.Username)
	password, _ := factory.resolver.Optional(configured.Password)

	return sheet.Configuration{
		Endpoint:      configured.Endpoint,
		CollectionKey: configured.CollectionKey,
		ObjectName:    configured.ObjectName,
		Columns:       configured.Columns,
		Authentication: sheet.Authentication{
			Token:    token,
			Username: username,
			Password: password,
		},
		Timeout: factory.configuration.Common.HTTPTimeout,
	}
}

// defaults converts configuration into values workflow steps fall back to.
func (factory *errandFactory) defaults() workflow.Defaults {
	return workflow.Defaults{
		FlightDeals: deals.Options{
			Origin: deals.NewAirportCode(factory.configuration.Errands.FlightDeals.Origin),
			DryRun: factory.configuration.Errands.FlightDeals.DryRun,
		},
		Instruments: append([]market.Instrument{}, factory.configuration.Errands.StockAlert.Instruments...),
		Workouts: workouts.Options{
			Profile:    factory.configuration.Errands.Workouts.Profile,
			ObjectName: factory.configuration.Errands.Workouts.Sheet.ObjectName,
		},
	}
}
