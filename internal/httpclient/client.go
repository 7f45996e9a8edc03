package httpclient

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	defaultTimeoutConstant           = 30 * time.Second
	defaultUserAgentConstant         = "errands/1.0"
	userAgentHeaderNameConstant      = "User-Agent"
	requestCompletedMessageConstant  = "http request completed"
	requestFailedMessageConstant     = "http request failed"
	logFieldServiceConstant          = "service"
	logFieldMethodConstant           = "method"
	logFieldURLConstant              = "url"
	logFieldStatusCodeConstant       = "status_code"
	logFieldDurationConstant         = "duration"
	restyLoggerMessageSuffixConstant = "\n"
)

// Configuration describes how a service client reaches its API.
type Configuration struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Dependencies supplies the collaborators every client shares.
type Dependencies struct {
	Logger   *zap.Logger
	Observer RequestEventObserver
}

// New constructs a resty client for the named service.
func New(serviceName string, configuration Configuration, dependencies Dependencies) *resty.Client {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := dependencies.Observer
	if observer == nil {
		observer = noopRequestEventObserver{}
	}

	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = defaultTimeoutConstant
	}
	userAgent := strings.TrimSpace(configuration.UserAgent)
	if len(userAgent) == 0 {
		userAgent = defaultUserAgentConstant
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader(userAgentHeaderNameConstant, userAgent)
	client.SetLogger(zapRestyLogger{logger: logger.Sugar().With(logFieldServiceConstant, serviceName)})
	if baseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/"); len(baseURL) > 0 {
		client.SetBaseURL(baseURL)
	}

	client.OnAfterResponse(func(_ *resty.Client, response *resty.Response) error {
		event := RequestEvent{
			Service:    serviceName,
			Method:     response.Request.Method,
			URL:        response.Request.URL,
			StatusCode: response.StatusCode(),
			Duration:   response.Time(),
		}
		logger.Debug(
			requestCompletedMessageConstant,
			zap.String(logFieldServiceConstant, event.Service),
			zap.String(logFieldMethodConstant, event.Method),
			zap.String(logFieldURLConstant, event.URL),
			zap.Int(logFieldStatusCodeConstant, event.StatusCode),
			zap.Duration(logFieldDurationConstant, event.Duration),
		)
		observer.RequestCompleted(event)
		return nil
	})

	client.OnError(func(request *resty.Request, failure error) {
		event := RequestEvent{
			Service: serviceName,
			Method:  request.Method,
			URL:     request.URL,
		}
		logger.Debug(
			requestFailedMessageConstant,
			zap.String(logFieldServiceConstant, event.Service),
			zap.String(logFieldMethodConstant, event.Method),
			zap.String(logFieldURLConstant, event.URL),
			zap.Error(failure),
		)
		observer.RequestFailed(event, failure)
	})

	return client
}

type zapRestyLogger struct {
	logger *zap.SugaredLogger
}

func (adapter zapRestyLogger) Errorf(format string, values ...interface{}) {
	adapter.logger.Errorf(strings.TrimSuffix(format, restyLoggerMessageSuffixConstant), values...)
}

func (adapter zapRestyLogger) Warnf(format string, values ...interface{}) {
	adapter.logger.Warnf(strings.TrimSuffix(format, restyLoggerMessageSuffixConstant), values...)
}

func (adapter zapRestyLogger) Debugf(format string, values ...interface{}) {
	adapter.logger.Debugf(strings.TrimSuffix(format, restyLoggerMessageSuffixConstant), values...)
}
