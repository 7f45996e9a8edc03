package httpclient

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	responseErrorTemplateConstant  = "%s %s %s returned %s"
	transportErrorTemplateConstant = "%s request failed: %w"
	maximumBodyExcerptConstant     = 512
	bodyExcerptSuffixConstant      = "..."
)

// ErrEmptyResponse indicates the exchange produced no response at all.
var ErrEmptyResponse = errors.New("empty response")

// ResponseError captures a non-2xx response.
type ResponseError struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
	Status     string
	Body       string
}

// Error describes the failed exchange.
func (responseError ResponseError) Error() string {
	return fmt.Sprintf(responseErrorTemplateConstant, responseError.Service, responseError.Method, responseError.URL, responseError.Status)
}

// CheckResponse converts a resty outcome into an error when the exchange failed or returned a non-2xx status.
func CheckResponse(serviceName string, response *resty.Response, requestError error) error {
	if requestError != nil {
		return fmt.Errorf(transportErrorTemplateConstant, serviceName, requestError)
	}
	if response == nil {
		return fmt.Errorf(transportErrorTemplateConstant, serviceName, ErrEmptyResponse)
	}
	if response.IsSuccess() {
		return nil
	}

	method := ""
	url := ""
	if response.Request != nil {
		method = response.Request.Method
		url = response.Request.URL
	}

	return ResponseError{
		Service:    serviceName,
		Method:     method,
		URL:        url,
		StatusCode: response.StatusCode(),
		Status:     response.Status(),
		Body:       excerpt(response.String()),
	}
}

// StatusCode extracts the HTTP status of a ResponseError anywhere in the chain.
func StatusCode(err error) (int, bool) {
	var responseError ResponseError
	if !errors.As(err, &responseError) {
		return 0, false
	}
	return responseError.StatusCode, true
}

func excerpt(body string) string {
	trimmedBody := strings.TrimSpace(body)
	if len(trimmedBody) <= maximumBodyExcerptConstant {
		return trimmedBody
	}
	return trimmedBody[:maximumBodyExcerptConstant] + bodyExcerptSuffixConstant
}
