package flights

import (
	"strings"
	"time"
)

const (
	defaultBaseURLConstant         = "https://test.api.amadeus.com"
	tokenPathConstant              = "/v1/security/oauth2/token"
	defaultCurrencyConstant        = "MXN"
	defaultAdultsConstant          = 1
	defaultDepartureOffsetConstant = 24 * time.Hour
	defaultReturnOffsetConstant    = 180 * 24 * time.Hour
)

// Configuration describes how to reach the flight-offers API.
type Configuration struct {
	BaseURL         string
	TokenURL        string
	ClientID        string
	ClientSecret    string
	Currency        string
	Adults          int
	NonStop         bool
	DepartureOffset time.Duration
	ReturnOffset    time.Duration
	Timeout         time.Duration
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	sanitized.BaseURL = strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if len(sanitized.BaseURL) == 0 {
		sanitized.BaseURL = defaultBaseURLConstant
	}
	sanitized.TokenURL = strings.TrimSpace(configuration.TokenURL)
	if len(sanitized.TokenURL) == 0 {
		sanitized.TokenURL = sanitized.BaseURL + tokenPathConstant
	}
	sanitized.ClientID = strings.TrimSpace(configuration.ClientID)
	sanitized.ClientSecret = strings.TrimSpace(configuration.ClientSecret)
	sanitized.Currency = strings.ToUpper(strings.TrimSpace(configuration.Currency))
	if len(sanitized.Currency) == 0 {
		sanitized.Currency = defaultCurrencyConstant
	}
	if sanitized.Adults <= 0 {
		sanitized.Adults = defaultAdultsConstant
	}
	if sanitized.DepartureOffset <= 0 {
		sanitized.DepartureOffset = defaultDepartureOffsetConstant
	}
	if sanitized.ReturnOffset <= sanitized.DepartureOffset {
		sanitized.ReturnOffset = defaultReturnOffsetConstant
	}
	return sanitized
}
