package httpclient

import "time"

// RequestEvent describes a completed or failed HTTP exchange.
type RequestEvent struct {
	Service    string
	Method     string
	URL        string
	StatusCode int
	Duration   time.Duration
}

// RequestEventObserver receives lifecycle notifications for HTTP exchanges.
type RequestEventObserver interface {
	// RequestCompleted reports an exchange that produced a response, whatever its status.
	RequestCompleted(event RequestEvent)
	// RequestFailed reports an exchange that never produced a response.
	RequestFailed(event RequestEvent, failure error)
}

type noopRequestEventObserver struct{}

func (noopRequestEventObserver) RequestCompleted(RequestEvent) {}

func (noopRequestEventObserver) RequestFailed(RequestEvent, error) {}
