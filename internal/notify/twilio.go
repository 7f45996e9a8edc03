package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/temirov/errands/internal/httpclient"
)

const (
	smsServiceNameConstant      = "sms"
	messagesPathConstant        = "/2010-04-01/Accounts/{accountSID}/Messages.json"
	accountPathParameter        = "accountSID"
	formFromFieldConstant       = "From"
	formToFieldConstant         = "To"
	formBodyFieldConstant       = "Body"
	sendMessageTemplateConstant = "unable to send text message: %w"
)

// ErrEmptyMessageSID indicates the provider accepted a message without identifying it.
var ErrEmptyMessageSID = errors.New("message provider returned no message sid")

// SMSSender delivers one text message and returns the provider message identifier.
type SMSSender interface {
	Send(executionContext context.Context, from string, to string, body string) (string, error)
}

// TwilioSender posts messages to the Twilio REST API.
type TwilioSender struct {
	accountSID string
	httpClient *resty.Client
}

type messageResponse struct {
	SID string `json:"sid"`
}

// NewTwilioSender constructs a sender authenticated with the account credentials.
func NewTwilioSender(configuration Configuration, dependencies httpclient.Dependencies) *TwilioSender {
	sanitized := configuration.sanitize()
	httpClient := httpclient.New(smsServiceNameConstant, httpclient.Configuration{BaseURL: sanitized.BaseURL, Timeout: sanitized.Timeout}, dependencies)
	httpClient.SetBasicAuth(sanitized.AccountSID, sanitized.AuthToken)
	return &TwilioSender{accountSID: sanitized.AccountSID, httpClient: httpClient}
}

// Send posts the message form and returns the message sid.
func (sender *TwilioSender) Send(executionContext context.Context, from string, to string, body string) (string, error) {
	var payload messageResponse
	response, requestError := sender.httpClient.R().
		SetContext(executionContext).
		SetPathParam(accountPathParameter, sender.accountSID).
		SetFormData(map[string]string{
			formFromFieldConstant: from,
			formToFieldConstant:   to,
			formBodyFieldConstant: body,
		}).
		SetResult(&payload).
		Post(messagesPathConstant)
	if responseError := httpclient.CheckResponse(smsServiceNameConstant, response, requestError); responseError != nil {
		return "", fmt.Errorf(sendMessageTemplateConstant, responseError)
	}
	messageSID := strings.TrimSpace(payload.SID)
	if len(messageSID) == 0 {
		return "", ErrEmptyMessageSID
	}
	return messageSID, nil
}
