package sheet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/httpclient"
)

const (
	serviceNameConstant               = "sheet"
	authorizationHeaderNameConstant   = "Authorization"
	rowPathTemplateConstant           = "/{rowID}"
	rowPathParameterConstant          = "rowID"
	unknownPriceMarkerConstant        = "N/A"
	collectionNotListTemplateConstant = "sheet collection %q is not a list of rows"
	rowNotObjectTemplateConstant      = "sheet row %d is not an object"
	rowDecodeTemplateConstant         = "unable to decode sheet row %d: %w"
	fetchRowsTemplateConstant         = "unable to fetch sheet rows: %w"
	appendRowTemplateConstant         = "unable to append sheet row: %w"
	rowsFetchedMessageConstant        = "sheet rows fetched"
	rowUnreadablePriceMessageConstant = "skipping sheet row with unreadable price"
	unreadablePriceTemplateConstant   = "%w: %q"
	rowPersistSkippedMessageConstant  = "skipping sheet row without flight data"
	rowPersistedMessageConstant       = "sheet row updated"
	rowAppendedMessageConstant        = "sheet row appended"
	logFieldRowsConstant              = "rows"
	logFieldRowIDConstant             = "row"
	logFieldObjectConstant            = "object"
	logFieldCityConstant              = "city"
	normalizedRowIDKeyConstant        = "row_id"
	normalizedCityKeyConstant         = "city"
	normalizedAirportCodeKeyConstant  = "airport_code"
	normalizedLowestPriceKeyConstant  = "lowest_price"
)

// Client reads and writes rows of one sheet.
type Client struct {
	configuration Configuration
	httpClient    *resty.Client
	logger        *zap.Logger
}

type decodedRow struct {
	RowID       int    `mapstructure:"row_id"`
	City        string `mapstructure:"city"`
	AirportCode string `mapstructure:"airport_code"`
	LowestPrice string `mapstructure:"lowest_price"`
}

// NewClient constructs a sheet client for the configured endpoint.
func NewClient(configuration Configuration, dependencies httpclient.Dependencies) (*Client, error) {
	sanitized := configuration.sanitize()
	if len(sanitized.Endpoint) == 0 {
		return nil, ErrMissingEndpoint
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := httpclient.New(serviceNameConstant, httpclient.Configuration{BaseURL: sanitized.Endpoint, Timeout: sanitized.Timeout}, dependencies)
	authentication := sanitized.Authentication
	switch {
	case authentication.usesBasicCredentials():
		httpClient.SetBasicAuth(authentication.Username, authentication.Password)
	case authentication.usesPreformattedBasicToken():
		httpClient.SetHeader(authorizationHeaderNameConstant, authentication.Token)
	case len(authentication.Token) > 0:
		httpClient.SetAuthToken(authentication.Token)
	}

	return &Client{configuration: sanitized, httpClient: httpClient, logger: logger}, nil
}

// FetchAll retrieves every destination row. A response lacking the collection or a required column fails with SchemaMismatchError.
func (client *Client) FetchAll(executionContext context.Context) ([]deals.DestinationRecord, error) {
	payload := map[string]any{}
	response, requestError := client.httpClient.R().
		SetContext(executionContext).
		SetResult(&payload).
		Get("")
	if responseError := httpclient.CheckResponse(serviceNameConstant, response, requestError); responseError != nil {
		return nil, fmt.Errorf(fetchRowsTemplateConstant, responseError)
	}

	collection, collectionExists := payload[client.configuration.CollectionKey]
	if !collectionExists {
		return nil, newSchemaMismatchError(client.configuration.CollectionKey, payload)
	}
	rows, isList := collection.([]any)
	if !isList {
		return nil, fmt.Errorf(collectionNotListTemplateConstant, client.configuration.CollectionKey)
	}

	records := make([]deals.DestinationRecord, 0, len(rows))
	for index, rawRow := range rows {
		row, isObject := rawRow.(map[string]any)
		if !isObject {
			return nil, fmt.Errorf(rowNotObjectTemplateConstant, index)
		}
		record, decodeError := client.decodeRecord(row)
		if errors.Is(decodeError, ErrUnreadablePrice) {
			client.logger.Warn(
				rowUnreadablePriceMessageConstant,
				zap.Int(logFieldRowIDConstant, record.RowID),
				zap.String(logFieldCityConstant, record.City),
				zap.Error(decodeError),
			)
			continue
		}
		if decodeError != nil {
			return nil, fmt.Errorf(rowDecodeTemplateConstant, index, decodeError)
		}
		records = append(records, record)
	}

	client.logger.Debug(rowsFetchedMessageConstant, zap.Int(logFieldRowsConstant, len(records)))
	return records, nil
}

// Persist writes every changed record back with one PUT per row. Failures are collected, never fatal.
func (client *Client) Persist(executionContext context.Context, records []deals.DestinationRecord) deals.PersistResult {
	result := deals.PersistResult{}
	for _, record := range records {
		if !record.Changed {
			continue
		}
		if !record.Persistable() {
			client.logger.Debug(rowPersistSkippedMessageConstant, zap.Int(logFieldRowIDConstant, record.RowID))
			result.Skipped = append(result.Skipped, record.RowID)
			continue
		}

		amount, _ := record.LowestPrice.Amount()
		body := map[string]any{
			client.configuration.ObjectName: map[string]any{
				client.configuration.Columns.AirportCode: string(record.AirportCode),
				client.configuration.Columns.LowestPrice: amount,
			},
		}
		response, requestError := client.httpClient.R().
			SetContext(executionContext).
			SetPathParam(rowPathParameterConstant, strconv.Itoa(record.RowID)).
			SetBody(body).
			Put(rowPathTemplateConstant)
		if responseError := httpclient.CheckResponse(serviceNameConstant, response, requestError); responseError != nil {
			result.Failures = append(result.Failures, deals.PersistFailure{RowID: record.RowID, City: record.City, Error: responseError})
			continue
		}

		client.logger.Debug(rowPersistedMessageConstant, zap.Int(logFieldRowIDConstant, record.RowID))
		result.Persisted = append(result.Persisted, record.RowID)
	}
	return result
}

// AppendRow adds a new row wrapped under objectName.
func (client *Client) AppendRow(executionContext context.Context, objectName string, fields map[string]any) error {
	response, requestError := client.httpClient.R().
		SetContext(executionContext).
		SetBody(map[string]any{objectName: fields}).
		Post("")
	if responseError := httpclient.CheckResponse(serviceNameConstant, response, requestError); responseError != nil {
		return fmt.Errorf(appendRowTemplateConstant, responseError)
	}
	client.logger.Debug(rowAppendedMessageConstant, zap.String(logFieldObjectConstant, objectName))
	return nil
}

func (client *Client) decodeRecord(row map[string]any) (deals.DestinationRecord, error) {
	columns := client.configuration.Columns
	for _, requiredColumn := range []string{columns.RowID, columns.City} {
		if _, exists := row[requiredColumn]; !exists {
			return deals.DestinationRecord{}, newSchemaMismatchError(requiredColumn, row)
		}
	}

	normalizedRow := map[string]any{
		normalizedRowIDKeyConstant:       row[columns.RowID],
		normalizedCityKeyConstant:        row[columns.City],
		normalizedAirportCodeKeyConstant: row[columns.AirportCode],
		normalizedLowestPriceKeyConstant: row[columns.LowestPrice],
	}

	var decoded decodedRow
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if decoderError != nil {
		return deals.DestinationRecord{}, decoderError
	}
	if decodeError := decoder.Decode(normalizedRow); decodeError != nil {
		return deals.DestinationRecord{}, decodeError
	}

	record := deals.DestinationRecord{
		RowID:       decoded.RowID,
		City:        strings.TrimSpace(decoded.City),
		AirportCode: deals.NewAirportCode(decoded.AirportCode),
	}
	storedPrice, priceError := parseStoredPrice(decoded.LowestPrice)
	if priceError != nil {
		return record, priceError
	}
	record.LowestPrice = storedPrice
	return record, nil
}

// parseStoredPrice treats empty, zero, and N/A cells as an absent price.
// Any other cell that is not a non-negative number is rejected so the row is never overwritten.
func parseStoredPrice(value string) (deals.Price, error) {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 || strings.EqualFold(trimmedValue, unknownPriceMarkerConstant) {
		return deals.UnknownPrice(), nil
	}
	amount, parseError := strconv.ParseFloat(trimmedValue, 64)
	if parseError != nil || amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return deals.UnknownPrice(), fmt.Errorf(unreadablePriceTemplateConstant, ErrUnreadablePrice, trimmedValue)
	}
	if amount == 0 {
		return deals.UnknownPrice(), nil
	}
	return deals.KnownPrice(amount), nil
}
