package market

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const (
	missingPricesMessageConstant       = "price source not configured"
	missingNewsMessageConstant         = "article source not configured"
	missingSenderMessageConstant       = "alert sender not configured"
	insufficientClosesTemplateConstant = "%s has %d daily closes, need at least 2"
	instrumentFailedTemplateConstant   = "%s: %w"
	movementEvaluatedMessageConstant   = "price movement evaluated"
	movementQuietMessageConstant       = "price movement below threshold, no news requested"
	noArticlesMessageConstant          = "no articles found"
	alertsDisabledMessageConstant      = "significant move but text notifications are disabled"
	alertsSentMessageConstant          = "article alerts sent"
	instrumentFailedMessageConstant    = "instrument check failed"
	logFieldSymbolConstant             = "symbol"
	logFieldPercentConstant            = "percent"
	logFieldThresholdConstant          = "threshold"
	logFieldDeliveredConstant          = "delivered"
	logFieldAlertsConstant             = "alerts"
	minimumClosesConstant              = 2
)

// PriceSource provides daily closing prices.
type PriceSource interface {
	DailyCloses(executionContext context.Context, instrument Instrument) ([]DailyClose, error)
}

// ArticleSource provides news articles.
type ArticleSource interface {
	TopArticles(executionContext context.Context, query ArticleQuery, limit int) ([]Article, error)
}

// AlertSender delivers article alerts and reports how many went out.
type AlertSender interface {
	Enabled() bool
	SendArticleAlerts(executionContext context.Context, alerts []string) int
}

// Dependencies wires the collaborators of Service.
type Dependencies struct {
	Prices PriceSource
	News   ArticleSource
	Sender AlertSender
	Logger *zap.Logger
}

// InstrumentReport records what happened to one instrument.
type InstrumentReport struct {
	Instrument  Instrument
	Movement    Movement
	Significant bool
	Articles    int
	Delivered   int
	Error       error
}

// Service runs the stock-alert errand.
type Service struct {
	prices PriceSource
	news   ArticleSource
	sender AlertSender
	logger *zap.Logger
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Prices == nil {
		return nil, errors.New(missingPricesMessageConstant)
	}
	if dependencies.News == nil {
		return nil, errors.New(missingNewsMessageConstant)
	}
	if dependencies.Sender == nil {
		return nil, errors.New(missingSenderMessageConstant)
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{prices: dependencies.Prices, news: dependencies.News, sender: dependencies.Sender, logger: logger}, nil
}

// Run checks every instrument in order. A failing instrument does not stop the others; all failures are joined in the returned error.
func (service *Service) Run(executionContext context.Context, instruments []Instrument) ([]InstrumentReport, error) {
	reports := make([]InstrumentReport, 0, len(instruments))
	var failures []error
	for _, instrument := range instruments {
		report := service.check(executionContext, instrument)
		if report.Error != nil {
			service.logger.Warn(instrumentFailedMessageConstant, zap.String(logFieldSymbolConstant, report.Instrument.Symbol), zap.Error(report.Error))
			failures = append(failures, fmt.Errorf(instrumentFailedTemplateConstant, report.Instrument.Symbol, report.Error))
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(failures...)
}

func (service *Service) check(executionContext context.Context, rawInstrument Instrument) InstrumentReport {
	instrument, normalizeError := rawInstrument.Normalize()
	if normalizeError != nil {
		return InstrumentReport{Instrument: rawInstrument, Error: normalizeError}
	}
	report := InstrumentReport{Instrument: instrument}
	instrumentLogger := service.logger.With(zap.String(logFieldSymbolConstant, instrument.Symbol))

	closes, closesError := service.prices.DailyCloses(executionContext, instrument)
	if closesError != nil {
		report.Error = closesError
		return report
	}
	if len(closes) < minimumClosesConstant {
		report.Error = fmt.Errorf(insufficientClosesTemplateConstant, instrument.Symbol, len(closes))
		return report
	}

	movement, movementError := EvaluateMovement(closes[0].Close, closes[1].Close)
	if movementError != nil {
		report.Error = movementError
		return report
	}
	report.Movement = movement
	report.Significant = movement.Significant(instrument.ThresholdPercent)
	instrumentLogger.Info(
		movementEvaluatedMessageConstant,
		zap.Float64(logFieldPercentConstant, movement.Percent),
		zap.Float64(logFieldThresholdConstant, instrument.ThresholdPercent),
	)
	if !report.Significant {
		instrumentLogger.Info(movementQuietMessageConstant)
		return report
	}

	articles, articlesError := service.news.TopArticles(executionContext, ArticleQuery{
		Phrase:      instrument.CompanyName,
		InTitleOnly: instrument.NewsInTitleOnly,
		SortOrder:   instrument.NewsSortOrder,
		Language:    instrument.NewsLanguage,
	}, instrument.ArticleLimit)
	if articlesError != nil {
		report.Error = articlesError
		return report
	}
	report.Articles = len(articles)
	if len(articles) == 0 {
		instrumentLogger.Info(noArticlesMessageConstant)
		return report
	}

	alerts := make([]string, 0, len(articles))
	for _, article := range articles {
		alerts = append(alerts, FormatArticleAlert(instrument.Symbol, movement, article))
	}
	if !service.sender.Enabled() {
		instrumentLogger.Warn(alertsDisabledMessageConstant, zap.Strings(logFieldAlertsConstant, alerts))
		return report
	}

	report.Delivered = service.sender.SendArticleAlerts(executionContext, alerts)
	instrumentLogger.Info(alertsSentMessageConstant, zap.Int(logFieldDeliveredConstant, report.Delivered))
	return report
}
