package market_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/errands/internal/market"
)

const testPriceFailureReason = "rate limited"

type stubPriceSource struct {
	closes map[string][]market.DailyClose
	errors map[string]error
}

func (source *stubPriceSource) DailyCloses(_ context.Context, instrument market.Instrument) ([]market.DailyClose, error) {
	if failure, exists := source.errors[instrument.Symbol]; exists {
		return nil, failure
	}
	return source.closes[instrument.Symbol], nil
}

type stubArticleSource struct {
	articles []market.Article
	queries  []market.ArticleQuery
	limits   []int
}

func (source *stubArticleSource) TopArticles(_ context.Context, query market.ArticleQuery, limit int) ([]market.Article, error) {
	source.queries = append(source.queries, query)
	source.limits = append(source.limits, limit)
	return source.articles, nil
}

type recordingAlertSender struct {
	enabled bool
	alerts  []string
}

func (sender *recordingAlertSender) Enabled() bool {
	return sender.enabled
}

func (sender *recordingAlertSender) SendArticleAlerts(_ context.Context, alerts []string) int {
	sender.alerts = append(sender.alerts, alerts...)
	return len(alerts)
}

func closesFor(latest float64, previous float64) []market.DailyClose {
	return []market.DailyClose{{Date: "2026-10-17", Close: latest}, {Date: "2026-10-16", Close: previous}}
}

func TestServiceRunSendsAlertsForSignificantMoves(testInstance *testing.T) {
	prices := &stubPriceSource{closes: map[string][]market.DailyClose{
		"TSLA": closesFor(104.21, 99),
		"AAPL": closesFor(101, 100),
	}}
	news := &stubArticleSource{articles: []market.Article{{Title: "one", Description: "first"}, {Title: "two", Description: "second"}}}
	sender := &recordingAlertSender{enabled: true}
	service, serviceError := market.NewService(market.Dependencies{Prices: prices, News: news, Sender: sender})
	require.NoError(testInstance, serviceError)

	reports, runError := service.Run(context.Background(), []market.Instrument{
		{Symbol: "TSLA", CompanyName: "Tesla Inc", ThresholdPercent: 5, NewsInTitleOnly: true},
		{Symbol: "AAPL", CompanyName: "Apple", ThresholdPercent: 5},
	})
	require.NoError(testInstance, runError)

	require.Len(testInstance, reports, 2)
	require.True(testInstance, reports[0].Significant)
	require.Equal(testInstance, 2, reports[0].Delivered)
	require.False(testInstance, reports[1].Significant)
	require.Zero(testInstance, reports[1].Articles)

	require.Len(testInstance, news.queries, 1)
	require.Equal(testInstance, market.ArticleQuery{Phrase: "Tesla Inc", InTitleOnly: true, SortOrder: "publishedAt"}, news.queries[0])
	require.Equal(testInstance, []int{3}, news.limits)
	require.Equal(testInstance, []string{
		"TSLA: 🔺5.26%\nHeadline: one\nBrief: first",
		"TSLA: 🔺5.26%\nHeadline: two\nBrief: second",
	}, sender.alerts)
}

func TestServiceRunSkipsSendingWhenNothingToSay(testInstance *testing.T) {
	testCases := []struct {
		name     string
		articles []market.Article
		enabled  bool
	}{
		{name: "no_articles", enabled: true},
		{name: "notifications_disabled", articles: []market.Article{{Title: "one"}}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			prices := &stubPriceSource{closes: map[string][]market.DailyClose{"XRP": closesFor(0.52, 0.5)}}
			sender := &recordingAlertSender{enabled: testCase.enabled}
			service, serviceError := market.NewService(market.Dependencies{Prices: prices, News: &stubArticleSource{articles: testCase.articles}, Sender: sender})
			require.NoError(subTest, serviceError)

			reports, runError := service.Run(context.Background(), []market.Instrument{{Symbol: "XRP", Kind: market.InstrumentKindCrypto, ThresholdPercent: 0.3}})
			require.NoError(subTest, runError)
			require.True(subTest, reports[0].Significant)
			require.Zero(subTest, reports[0].Delivered)
			require.Empty(subTest, sender.alerts)
		})
	}
}

func TestServiceRunIsolatesFailingInstruments(testInstance *testing.T) {
	prices := &stubPriceSource{
		closes: map[string][]market.DailyClose{
			"AAPL": closesFor(110, 100),
			"NEW":  {{Date: "2026-10-17", Close: 10}},
		},
		errors: map[string]error{"TSLA": errors.New(testPriceFailureReason)},
	}
	sender := &recordingAlertSender{enabled: true}
	service, serviceError := market.NewService(market.Dependencies{Prices: prices, News: &stubArticleSource{articles: []market.Article{{Title: "apple"}}}, Sender: sender})
	require.NoError(testInstance, serviceError)

	reports, runError := service.Run(context.Background(), []market.Instrument{
		{Symbol: "TSLA", ThresholdPercent: 5},
		{Symbol: "NEW", ThresholdPercent: 5},
		{Symbol: "AAPL", ThresholdPercent: 5},
	})

	require.Error(testInstance, runError)
	require.ErrorContains(testInstance, runError, testPriceFailureReason)
	require.ErrorContains(testInstance, runError, "need at least 2")
	require.Len(testInstance, reports, 3)
	require.Error(testInstance, reports[0].Error)
	require.Error(testInstance, reports[1].Error)
	require.NoError(testInstance, reports[2].Error)
	require.Equal(testInstance, 1, reports[2].Delivered)
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	_, serviceError := market.NewService(market.Dependencies{Prices: &stubPriceSource{}, News: &stubArticleSource{}})
	require.Error(testInstance, serviceError)
}
