package ui

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/errands/internal/httpclient"
)

const (
	requestCompletedMessageTemplateConstant = "%s %s %s answered %d in %s"
	requestRejectedMessageTemplateConstant  = "%s %s %s was rejected with status %d"
	requestFailedMessageTemplateConstant    = "%s %s %s failed: %s"
	unknownFailureMessageConstant           = "unknown error"
	queryStringSeparatorConstant            = "?"
)

// RequestEventFormatter builds human-readable messages for HTTP request events.
type RequestEventFormatter struct{}

// BuildCompletedMessage formats the message describing an exchange that produced a response.
func (formatter RequestEventFormatter) BuildCompletedMessage(event httpclient.RequestEvent) string {
	if event.StatusCode >= http.StatusBadRequest {
		return fmt.Sprintf(requestRejectedMessageTemplateConstant, event.Service, event.Method, formatter.formatLocation(event.URL), event.StatusCode)
	}
	return fmt.Sprintf(requestCompletedMessageTemplateConstant, event.Service, event.Method, formatter.formatLocation(event.URL), event.StatusCode, event.Duration.Round(time.Millisecond))
}

// BuildFailedMessage formats the message describing an exchange that never produced a response.
func (formatter RequestEventFormatter) BuildFailedMessage(event httpclient.RequestEvent, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(requestFailedMessageTemplateConstant, event.Service, event.Method, formatter.formatLocation(event.URL), failureMessage)
}

// formatLocation drops the query string, which may carry API keys.
func (formatter RequestEventFormatter) formatLocation(requestURL string) string {
	location, _, _ := strings.Cut(requestURL, queryStringSeparatorConstant)
	return location
}

// ConsoleRequestEventLogger renders request lifecycle events using a zap logger configured for human-readable output.
type ConsoleRequestEventLogger struct {
	logger    *zap.Logger
	formatter RequestEventFormatter
}

// NewConsoleRequestEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleRequestEventLogger(logger *zap.Logger) *ConsoleRequestEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleRequestEventLogger{logger: logger, formatter: RequestEventFormatter{}}
}

// RequestCompleted implements httpclient.RequestEventObserver.
func (eventLogger *ConsoleRequestEventLogger) RequestCompleted(event httpclient.RequestEvent) {
	if eventLogger == nil {
		return
	}
	if event.StatusCode >= http.StatusBadRequest {
		eventLogger.logger.Warn(eventLogger.formatter.BuildCompletedMessage(event))
		return
	}
	eventLogger.logger.Info(eventLogger.formatter.BuildCompletedMessage(event))
}

// RequestFailed implements httpclient.RequestEventObserver.
func (eventLogger *ConsoleRequestEventLogger) RequestFailed(event httpclient.RequestEvent, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.logger.Error(eventLogger.formatter.BuildFailedMessage(event, failure))
}
