package sheet

import (
	"strings"
	"time"
)

const (
	defaultCollectionKeyConstant     = "prices"
	defaultObjectNameConstant        = "price"
	defaultCityColumnConstant        = "city"
	defaultAirportCodeColumnConstant = "iataCode"
	defaultLowestPriceColumnConstant = "lowestPrice"
	defaultRowIDColumnConstant       = "id"
	basicAuthorizationPrefixConstant = "Basic "
)

// Columns names the row fields holding each destination attribute.
type Columns struct {
	City        string `mapstructure:"city"`
	AirportCode string `mapstructure:"airport_code"`
	LowestPrice string `mapstructure:"lowest_price"`
	RowID       string `mapstructure:"row_id"`
}

// Authentication carries resolved sheet credentials. A token starting with "Basic " is sent verbatim.
type Authentication struct {
	Token    string
	Username string
	Password string
}

// Configuration describes one sheet endpoint.
type Configuration struct {
	Endpoint       string
	CollectionKey  string
	ObjectName     string
	Columns        Columns
	Authentication Authentication
	Timeout        time.Duration
}

// DefaultColumns returns the column names of the flight-deals sheet.
func DefaultColumns() Columns {
	return Columns{
		City:        defaultCityColumnConstant,
		AirportCode: defaultAirportCodeColumnConstant,
		LowestPrice: defaultLowestPriceColumnConstant,
		RowID:       defaultRowIDColumnConstant,
	}
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	sanitized.Endpoint = strings.TrimRight(strings.TrimSpace(configuration.Endpoint), "/")
	sanitized.CollectionKey = fallback(configuration.CollectionKey, defaultCollectionKeyConstant)
	sanitized.ObjectName = fallback(configuration.ObjectName, defaultObjectNameConstant)

	defaults := DefaultColumns()
	sanitized.Columns = Columns{
		City:        fallback(configuration.Columns.City, defaults.City),
		AirportCode: fallback(configuration.Columns.AirportCode, defaults.AirportCode),
		LowestPrice: fallback(configuration.Columns.LowestPrice, defaults.LowestPrice),
		RowID:       fallback(configuration.Columns.RowID, defaults.RowID),
	}
	sanitized.Authentication = Authentication{
		Token:    strings.TrimSpace(configuration.Authentication.Token),
		Username: strings.TrimSpace(configuration.Authentication.Username),
		Password: configuration.Authentication.Password,
	}
	return sanitized
}

func (authentication Authentication) usesBasicCredentials() bool {
	return len(authentication.Username) > 0 && len(authentication.Password) > 0
}

func (authentication Authentication) usesPreformattedBasicToken() bool {
	return strings.HasPrefix(authentication.Token, basicAuthorizationPrefixConstant)
}

func fallback(value string, defaultValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return defaultValue
	}
	return trimmedValue
}
