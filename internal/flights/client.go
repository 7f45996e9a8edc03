package flights

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/httpclient"
)

const (
	serviceNameConstant                = "flights"
	locationsPathConstant              = "/v1/reference-data/locations"
	offersPathConstant                 = "/v2/shopping/flight-offers"
	searchDateLayoutConstant           = "2006-01-02"
	dateTimeSeparatorConstant          = "T"
	cityLocationSubTypeConstant        = "CITY"
	singleResultLimitConstant          = "1"
	queryKeywordConstant               = "keyword"
	querySubTypeConstant               = "subType"
	queryPageLimitConstant             = "page[limit]"
	queryOriginConstant                = "originLocationCode"
	queryDestinationConstant           = "destinationLocationCode"
	queryDepartureDateConstant         = "departureDate"
	queryReturnDateConstant            = "returnDate"
	queryAdultsConstant                = "adults"
	queryCurrencyConstant              = "currencyCode"
	queryMaximumConstant               = "max"
	queryNonStopConstant               = "nonStop"
	tokenExchangeTemplateConstant      = "unable to obtain flight API access token: %w"
	resolveAirportTemplateConstant     = "unable to resolve airport code for %s: %w"
	searchOffersTemplateConstant       = "unable to search flights %s to %s: %w"
	unparsablePriceTemplateConstant    = "unparsable offer price %q"
	airportCodeNotFoundMessageConstant = "no airport code matches city"
	noOffersMessageConstant            = "no flight offers returned"
	incompleteOfferMessageConstant     = "flight offer lacks itinerary segments"
	offerSearchFailedMessageConstant   = "flight offer search failed"
	logFieldCityConstant               = "city"
	logFieldOriginConstant             = "origin"
	logFieldDestinationConstant        = "destination"
)

// ErrMissingCredentials indicates the client id or secret was not configured.
var ErrMissingCredentials = errors.New("flight API client id and secret must be provided")

// Dependencies supplies optional collaborators for the client.
type Dependencies struct {
	Logger   *zap.Logger
	Observer httpclient.RequestEventObserver
	Clock    Clock
}

// Client resolves airport codes and quotes round trips.
type Client struct {
	configuration Configuration
	httpClient    *resty.Client
	logger        *zap.Logger
	clock         Clock
}

// NewClient exchanges the configured credentials for an access token and returns a ready client.
func NewClient(executionContext context.Context, configuration Configuration, dependencies Dependencies) (*Client, error) {
	sanitized := configuration.sanitize()
	if len(sanitized.ClientID) == 0 || len(sanitized.ClientSecret) == 0 {
		return nil, ErrMissingCredentials
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	httpClient := httpclient.New(
		serviceNameConstant,
		httpclient.Configuration{BaseURL: sanitized.BaseURL, Timeout: sanitized.Timeout},
		httpclient.Dependencies{Logger: logger, Observer: dependencies.Observer},
	)

	credentials := clientcredentials.Config{
		ClientID:     sanitized.ClientID,
		ClientSecret: sanitized.ClientSecret,
		TokenURL:     sanitized.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tokenContext := context.WithValue(executionContext, oauth2.HTTPClient, httpClient.GetClient())
	token, tokenError := credentials.Token(tokenContext)
	if tokenError != nil {
		return nil, fmt.Errorf(tokenExchangeTemplateConstant, tokenError)
	}
	httpClient.SetAuthToken(token.AccessToken)

	return &Client{configuration: sanitized, httpClient: httpClient, logger: logger, clock: clock}, nil
}

// ResolveAirportCode returns the city code matching cityName, or an empty code when nothing matches.
func (client *Client) ResolveAirportCode(executionContext context.Context, cityName string) (deals.AirportCode, error) {
	var payload locationsResponse
	response, requestError := client.httpClient.R().
		SetContext(executionContext).
		SetQueryParams(map[string]string{
			queryKeywordConstant:   strings.TrimSpace(cityName),
			querySubTypeConstant:   cityLocationSubTypeConstant,
			queryPageLimitConstant: singleResultLimitConstant,
		}).
		SetResult(&payload).
		Get(locationsPathConstant)
	if responseError := httpclient.CheckResponse(serviceNameConstant, response, requestError); responseError != nil {
		return "", fmt.Errorf(resolveAirportTemplateConstant, cityName, responseError)
	}

	for _, location := range payload.Data {
		code := deals.NewAirportCode(location.IATACode)
		if code.IsKnown() {
			return code, nil
		}
	}
	client.logger.Debug(airportCodeNotFoundMessageConstant, zap.String(logFieldCityConstant, cityName))
	return "", nil
}

// CheapestRoundTrip searches the single cheapest offer departing tomorrow and returning after the configured window.
// Every failure is logged and yields an unavailable quote; the returned error is always nil.
func (client *Client) CheapestRoundTrip(executionContext context.Context, origin deals.AirportCode, destination deals.AirportCode) (deals.Quote, error) {
	now := client.clock.Now()
	queryParameters := map[string]string{
		queryOriginConstant:        string(origin),
		queryDestinationConstant:   string(destination),
		queryDepartureDateConstant: now.Add(client.configuration.DepartureOffset).Format(searchDateLayoutConstant),
		queryReturnDateConstant:    now.Add(client.configuration.ReturnOffset).Format(searchDateLayoutConstant),
		queryAdultsConstant:        strconv.Itoa(client.configuration.Adults),
		queryCurrencyConstant:      client.configuration.Currency,
		queryMaximumConstant:       singleResultLimitConstant,
	}
	if client.configuration.NonStop {
		queryParameters[queryNonStopConstant] = strconv.FormatBool(true)
	}

	var payload offersResponse
	response, requestError := client.httpClient.R().
		SetContext(executionContext).
		SetQueryParams(queryParameters).
		SetResult(&payload).
		Get(offersPathConstant)
	routeFields := []zap.Field{zap.String(logFieldOriginConstant, string(origin)), zap.String(logFieldDestinationConstant, string(destination))}
	if responseError := httpclient.CheckResponse(serviceNameConstant, response, requestError); responseError != nil {
		client.logger.Warn(offerSearchFailedMessageConstant, append(routeFields, zap.Error(fmt.Errorf(searchOffersTemplateConstant, origin, destination, responseError)))...)
		return deals.UnavailableQuote(), nil
	}

	if len(payload.Data) == 0 {
		client.logger.Debug(noOffersMessageConstant, routeFields...)
		return deals.UnavailableQuote(), nil
	}

	quote, complete, quoteError := quoteFromOffer(payload.Data[0])
	if quoteError != nil {
		client.logger.Warn(offerSearchFailedMessageConstant, append(routeFields, zap.Error(fmt.Errorf(searchOffersTemplateConstant, origin, destination, quoteError)))...)
		return deals.UnavailableQuote(), nil
	}
	if !complete {
		client.logger.Debug(incompleteOfferMessageConstant, routeFields...)
		return deals.UnavailableQuote(), nil
	}
	return quote, nil
}

// quoteFromOffer reads the outbound itinerary for route and departure date; the return date comes from the
// inbound itinerary when present and from the outbound arrival otherwise.
func quoteFromOffer(offer flightOffer) (deals.Quote, bool, error) {
	if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
		return deals.Quote{}, false, nil
	}

	amount, parseError := strconv.ParseFloat(strings.TrimSpace(offer.Price.Total), 64)
	if parseError != nil {
		return deals.Quote{}, false, fmt.Errorf(unparsablePriceTemplateConstant, offer.Price.Total)
	}

	outboundSegments := offer.Itineraries[0].Segments
	firstSegment := outboundSegments[0]
	lastSegment := outboundSegments[len(outboundSegments)-1]

	returnDate := datePart(lastSegment.Arrival.At)
	if len(offer.Itineraries) > 1 && len(offer.Itineraries[1].Segments) > 0 {
		returnDate = datePart(offer.Itineraries[1].Segments[0].Departure.At)
	}

	return deals.Quote{
		Price:              deals.KnownPrice(amount),
		OriginAirport:      deals.NewAirportCode(firstSegment.Departure.IATACode),
		DestinationAirport: deals.NewAirportCode(lastSegment.Arrival.IATACode),
		OutboundDate:       datePart(firstSegment.Departure.At),
		ReturnDate:         returnDate,
	}, true, nil
}

func datePart(timestamp string) string {
	date, _, _ := strings.Cut(strings.TrimSpace(timestamp), dateTimeSeparatorConstant)
	return date
}
