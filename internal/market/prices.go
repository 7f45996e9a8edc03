package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/temirov/errands/internal/httpclient"
)

const (
	pricesServiceNameConstant       = "market-data"
	defaultPricesBaseURLConstant    = "https://www.alphavantage.co"
	queryPathConstant               = "/query"
	stockFunctionConstant           = "TIME_SERIES_DAILY"
	cryptoFunctionConstant          = "DIGITAL_CURRENCY_DAILY"
	stockSeriesKeyConstant          = "Time Series (Daily)"
	cryptoSeriesKeyConstant         = "Time Series (Digital Currency Daily)"
	closeFieldConstant              = "4. close"
	legacyCryptoClosePrefixConstant = "4a. close"
	queryFunctionConstant           = "function"
	querySymbolConstant             = "symbol"
	queryMarketConstant             = "market"
	queryAPIKeyConstant             = "apikey"
	seriesDateLayoutConstant        = "2006-01-02"
	fetchSeriesTemplateConstant     = "unable to fetch daily closes for %s: %w"
	apiMessageTemplateConstant      = "market data API rejected %s: %s"
	missingSeriesTemplateConstant   = "market data response for %s lacks %q"
	decodeSeriesTemplateConstant    = "unable to decode daily closes for %s: %w"
	missingCloseTemplateConstant    = "daily entry %s for %s lacks a close price"
	invalidCloseTemplateConstant    = "daily entry %s for %s has invalid close %q"
)

// ErrMissingAPIKey indicates an API client without a key.
var ErrMissingAPIKey = errors.New("api key must be provided")

// apiMessageKeys lists response keys carrying errors, rate-limit notes, or informational refusals.
var apiMessageKeys = []string{"Error Message", "Note", "Information"}

// ClientConfiguration describes how to reach a market or news API.
type ClientConfiguration struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// DailyClose is the closing price of one trading day.
type DailyClose struct {
	Date  string
	Close float64
}

// PriceClient fetches daily closing prices.
type PriceClient struct {
	apiKey     string
	httpClient *resty.Client
}

// NewPriceClient constructs a client for the daily time series API.
func NewPriceClient(configuration ClientConfiguration, dependencies httpclient.Dependencies) (*PriceClient, error) {
	apiKey := strings.TrimSpace(configuration.APIKey)
	if len(apiKey) == 0 {
		return nil, ErrMissingAPIKey
	}
	baseURL := strings.TrimSpace(configuration.BaseURL)
	if len(baseURL) == 0 {
		baseURL = defaultPricesBaseURLConstant
	}
	httpClient := httpclient.New(pricesServiceNameConstant, httpclient.Configuration{BaseURL: baseURL, Timeout: configuration.Timeout}, dependencies)
	return &PriceClient{apiKey: apiKey, httpClient: httpClient}, nil
}

// DailyCloses returns the instrument's closes, newest first.
func (client *PriceClient) DailyCloses(executionContext context.Context, instrument Instrument) ([]DailyClose, error) {
	queryParameters := map[string]string{
		queryFunctionConstant: stockFunctionConstant,
		querySymbolConstant:   instrument.Symbol,
		queryAPIKeyConstant:   client.apiKey,
	}
	seriesKey := stockSeriesKeyConstant
	if instrument.Kind == InstrumentKindCrypto {
		queryParameters[queryFunctionConstant] = cryptoFunctionConstant
		queryParameters[queryMarketConstant] = instrument.Market
		seriesKey = cryptoSeriesKeyConstant
	}

	payload := map[string]json.RawMessage{}
	response, requestError := client.httpClient.R().
		SetContext(executionContext).
		SetQueryParams(queryParameters).
		SetResult(&payload).
		Get(queryPathConstant)
	if responseError := httpclient.CheckResponse(pricesServiceNameConstant, response, requestError); responseError != nil {
		return nil, fmt.Errorf(fetchSeriesTemplateConstant, instrument.Symbol, responseError)
	}

	for _, messageKey := range apiMessageKeys {
		if rawMessage, exists := payload[messageKey]; exists {
			var message string
			if json.Unmarshal(rawMessage, &message) != nil {
				message = string(rawMessage)
			}
			return nil, fmt.Errorf(apiMessageTemplateConstant, instrument.Symbol, message)
		}
	}

	rawSeries, seriesExists := payload[seriesKey]
	if !seriesExists {
		return nil, fmt.Errorf(missingSeriesTemplateConstant, instrument.Symbol, seriesKey)
	}
	var series map[string]map[string]string
	if decodeError := json.Unmarshal(rawSeries, &series); decodeError != nil {
		return nil, fmt.Errorf(decodeSeriesTemplateConstant, instrument.Symbol, decodeError)
	}

	closes := make([]DailyClose, 0, len(series))
	for date, fields := range series {
		closeValue, found := closeField(fields)
		if !found {
			return nil, fmt.Errorf(missingCloseTemplateConstant, date, instrument.Symbol)
		}
		closePrice, parseError := strconv.ParseFloat(strings.TrimSpace(closeValue), 64)
		if parseError != nil {
			return nil, fmt.Errorf(invalidCloseTemplateConstant, date, instrument.Symbol, closeValue)
		}
		closes = append(closes, DailyClose{Date: date, Close: closePrice})
	}

	sort.Slice(closes, func(left int, right int) bool {
		return seriesDate(closes[left].Date).After(seriesDate(closes[right].Date))
	})
	return closes, nil
}

func closeField(fields map[string]string) (string, bool) {
	if value, exists := fields[closeFieldConstant]; exists {
		return value, true
	}
	for key, value := range fields {
		if strings.HasPrefix(key, legacyCryptoClosePrefixConstant) {
			return value, true
		}
	}
	return "", false
}

func seriesDate(value string) time.Time {
	parsed, parseError := time.Parse(seriesDateLayoutConstant, value)
	if parseError != nil {
		return time.Time{}
	}
	return parsed
}
