// Package httpclient builds the resty clients shared by every errand API wrapper.
//
// Clients log through zap, publish request lifecycle events to an optional
// RequestEventObserver, and convert transport failures and non-2xx responses
// into ResponseError values that callers can downgrade to "no data".
package httpclient
