package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/errands/internal/deals"
	"github.com/temirov/errands/internal/httpclient"
)

const (
	notifierDisabledMessageConstant = "text notifications disabled, missing settings"
	messageSentMessageConstant      = "text message sent"
	messageFailedMessageConstant    = "text message failed"
	messageSkippedMessageConstant   = "text notifications disabled, message not sent"
	logFieldMissingConstant         = "missing"
	logFieldMessageSIDConstant      = "sid"
)

// Dependencies supplies optional collaborators for the Notifier.
type Dependencies struct {
	Sender   SMSSender
	Logger   *zap.Logger
	Observer httpclient.RequestEventObserver
}

// Notifier formats and sends user-facing text messages.
type Notifier struct {
	configuration Configuration
	status        Status
	sender        SMSSender
	logger        *zap.Logger
}

// New constructs a Notifier; incomplete credentials yield a disabled Notifier.
func New(configuration Configuration, dependencies Dependencies) *Notifier {
	sanitized := configuration.sanitize()
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	notifier := &Notifier{configuration: sanitized, status: sanitized.status(), logger: logger}
	if !notifier.status.Enabled() {
		logger.Warn(notifierDisabledMessageConstant, zap.Strings(logFieldMissingConstant, notifier.status.MissingFields))
		return notifier
	}

	notifier.sender = dependencies.Sender
	if notifier.sender == nil {
		notifier.sender = NewTwilioSender(sanitized, httpclient.Dependencies{Logger: logger, Observer: dependencies.Observer})
	}
	return notifier
}

// Status reports whether the Notifier is enabled and what it lacks otherwise.
func (notifier *Notifier) Status() Status {
	return notifier.status
}

// Enabled reports whether messages will be delivered.
func (notifier *Notifier) Enabled() bool {
	return notifier.status.Enabled()
}

// SendText delivers body and reports success.
func (notifier *Notifier) SendText(executionContext context.Context, body string) bool {
	if !notifier.Enabled() {
		notifier.logger.Debug(messageSkippedMessageConstant)
		return false
	}
	messageSID, sendError := notifier.sender.Send(executionContext, notifier.configuration.FromNumber, notifier.configuration.ToNumber, body)
	if sendError != nil {
		notifier.logger.Warn(messageFailedMessageConstant, zap.Error(sendError))
		return false
	}
	notifier.logger.Info(messageSentMessageConstant, zap.String(logFieldMessageSIDConstant, messageSID))
	return true
}

// SendDealAlert announces a single deal.
func (notifier *Notifier) SendDealAlert(executionContext context.Context, deal deals.Deal) bool {
	return notifier.SendText(executionContext, FormatDealAlert(deal, notifier.configuration.Currency))
}

// SendDealSummary announces several deals in one message.
func (notifier *Notifier) SendDealSummary(executionContext context.Context, foundDeals []deals.Deal) bool {
	if len(foundDeals) == 0 {
		return false
	}
	return notifier.SendText(executionContext, FormatDealSummary(foundDeals, notifier.configuration.Currency))
}

// SendArticleAlerts sends one message per alert and returns how many were delivered.
func (notifier *Notifier) SendArticleAlerts(executionContext context.Context, alerts []string) int {
	delivered := 0
	for _, alert := range alerts {
		if notifier.SendText(executionContext, alert) {
			delivered++
		}
	}
	return delivered
}
