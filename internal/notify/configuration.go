package notify

import (
	"strings"
	"time"
)

const (
	defaultBaseURLConstant  = "https://api.twilio.com"
	defaultCurrencyConstant = "MXN"
	accountSIDFieldConstant = "account_sid"
	authTokenFieldConstant  = "auth_token"
	fromNumberFieldConstant = "from_number"
	toNumberFieldConstant   = "to_number"
)

// Configuration carries resolved messaging credentials and presentation settings.
type Configuration struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
	ToNumber   string
	Currency   string
	Timeout    time.Duration
}

// Status describes whether a Notifier can deliver messages.
type Status struct {
	MissingFields []string
}

// Enabled reports whether every credential is present.
func (status Status) Enabled() bool {
	return len(status.MissingFields) == 0
}

func (configuration Configuration) sanitize() Configuration {
	sanitized := configuration
	sanitized.BaseURL = strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if len(sanitized.BaseURL) == 0 {
		sanitized.BaseURL = defaultBaseURLConstant
	}
	sanitized.AccountSID = strings.TrimSpace(configuration.AccountSID)
	sanitized.AuthToken = strings.TrimSpace(configuration.AuthToken)
	sanitized.FromNumber = strings.TrimSpace(configuration.FromNumber)
	sanitized.ToNumber = strings.TrimSpace(configuration.ToNumber)
	sanitized.Currency = strings.ToUpper(strings.TrimSpace(configuration.Currency))
	if len(sanitized.Currency) == 0 {
		sanitized.Currency = defaultCurrencyConstant
	}
	return sanitized
}

func (configuration Configuration) status() Status {
	var missingFields []string
	for _, field := range []struct {
		name  string
		value string
	}{
		{name: accountSIDFieldConstant, value: configuration.AccountSID},
		{name: authTokenFieldConstant, value: configuration.AuthToken},
		{name: fromNumberFieldConstant, value: configuration.FromNumber},
		{name: toNumberFieldConstant, value: configuration.ToNumber},
	} {
		if len(field.value) == 0 {
			missingFields = append(missingFields, field.name)
		}
	}
	return Status{MissingFields: missingFields}
}
