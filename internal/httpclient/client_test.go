package httpclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/errands/internal/httpclient"
)

const (
	testServiceNameConstant = "example"
	testUserAgentConstant   = "errands-test/0.1"
)

type recordingObserver struct {
	completed []httpclient.RequestEvent
	failed    []httpclient.RequestEvent
	failures  []error
}

func (observer *recordingObserver) RequestCompleted(event httpclient.RequestEvent) {
	observer.completed = append(observer.completed, event)
}

func (observer *recordingObserver) RequestFailed(event httpclient.RequestEvent, failure error) {
	observer.failed = append(observer.failed, event)
	observer.failures = append(observer.failures, failure)
}

func TestNewClientPublishesCompletedEvents(testInstance *testing.T) {
	var observedUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		observedUserAgent = request.Header.Get("User-Agent")
		if request.URL.Path == "/missing" {
			http.Error(responseWriter, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		responseWriter.Header().Set("Content-Type", "application/json")
		_, _ = responseWriter.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := httpclient.New(testServiceNameConstant, httpclient.Configuration{
		BaseURL:   server.URL + "/",
		Timeout:   time.Second,
		UserAgent: testUserAgentConstant,
	}, httpclient.Dependencies{Logger: zap.NewNop(), Observer: observer})

	var payload struct {
		OK bool `json:"ok"`
	}
	response, requestError := client.R().SetContext(context.Background()).SetResult(&payload).Get("/status")
	require.NoError(testInstance, httpclient.CheckResponse(testServiceNameConstant, response, requestError))
	require.True(testInstance, payload.OK)
	require.Equal(testInstance, testUserAgentConstant, observedUserAgent)

	missingResponse, missingRequestError := client.R().Get("/missing")
	checkError := httpclient.CheckResponse(testServiceNameConstant, missingResponse, missingRequestError)
	require.Error(testInstance, checkError)

	statusCode, isResponseError := httpclient.StatusCode(checkError)
	require.True(testInstance, isResponseError)
	require.Equal(testInstance, http.StatusNotFound, statusCode)

	var responseError httpclient.ResponseError
	require.True(testInstance, errors.As(checkError, &responseError))
	require.Contains(testInstance, responseError.Body, "not found")
	require.Equal(testInstance, http.MethodGet, responseError.Method)

	require.Len(testInstance, observer.completed, 2)
	require.Equal(testInstance, testServiceNameConstant, observer.completed[0].Service)
	require.Equal(testInstance, http.StatusOK, observer.completed[0].StatusCode)
	require.Equal(testInstance, http.StatusNotFound, observer.completed[1].StatusCode)
	require.Empty(testInstance, observer.failed)
}

func TestNewClientPublishesFailedEvents(testInstance *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	serverURL := server.URL
	server.Close()

	observer := &recordingObserver{}
	client := httpclient.New(testServiceNameConstant, httpclient.Configuration{BaseURL: serverURL, Timeout: time.Second}, httpclient.Dependencies{Observer: observer})

	response, requestError := client.R().Get("/unreachable")
	checkError := httpclient.CheckResponse(testServiceNameConstant, response, requestError)
	require.Error(testInstance, checkError)
	require.ErrorContains(testInstance, checkError, testServiceNameConstant+" request failed")

	_, isResponseError := httpclient.StatusCode(checkError)
	require.False(testInstance, isResponseError)
	require.Len(testInstance, observer.failed, 1)
	require.Error(testInstance, observer.failures[0])
}

func TestCheckResponseRejectsMissingResponse(testInstance *testing.T) {
	checkError := httpclient.CheckResponse(testServiceNameConstant, nil, nil)
	require.ErrorIs(testInstance, checkError, httpclient.ErrEmptyResponse)
}
