package habits_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/errands/internal/habits"
	"github.com/temirov/errands/internal/httpclient"
)

const (
	testUsernameConstant = "reader"
	testTokenConstant    = "token-123456"
	testGraphIDConstant  = "graph13"
)

type pixelaRequest struct {
	Method    string
	Path      string
	UserToken string
	Body      map[string]any
}

type pixelaServer struct {
	requests     []pixelaRequest
	rejectStatus int
}

func (server *pixelaServer) ServeHTTP(responseWriter http.ResponseWriter, request *http.Request) {
	captured := pixelaRequest{Method: request.Method, Path: request.URL.Path, UserToken: request.Header.Get("X-USER-TOKEN")}
	_ = json.NewDecoder(request.Body).Decode(&captured.Body)
	server.requests = append(server.requests, captured)

	responseWriter.Header().Set("Content-Type", "application/json")
	if server.rejectStatus != 0 {
		responseWriter.WriteHeader(server.rejectStatus)
		_, _ = responseWriter.Write([]byte(`{"message":"Please retry this request.","isSuccess":false,"isRejected":true}`))
		return
	}
	_, _ = responseWriter.Write([]byte(`{"message":"Success.","isSuccess":true}`))
}

func newHabitClient(testInstance *testing.T, server *httptest.Server) *habits.Client {
	testInstance.Helper()
	client, clientError := habits.NewClient(habits.Configuration{BaseURL: server.URL, Username: testUsernameConstant, Token: testTokenConstant}, httpclient.Dependencies{})
	require.NoError(testInstance, clientError)
	return client
}

func TestClientOperations(testInstance *testing.T) {
	pixelDate := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name              string
		invoke            func(client *habits.Client) error
		expectedMethod    string
		expectedPath      string
		expectedUserToken string
		expectedBody      map[string]any
	}{
		{
			name: "create_user",
			invoke: func(client *habits.Client) error {
				return client.CreateUser(context.Background())
			},
			expectedMethod: http.MethodPost,
			expectedPath:   "/v1/users",
			expectedBody: map[string]any{
				"token":               testTokenConstant,
				"username":            testUsernameConstant,
				"agreeTermsOfService": "yes",
				"notMinor":            "yes",
			},
		},
		{
			name: "create_graph",
			invoke: func(client *habits.Client) error {
				return client.CreateGraph(context.Background(), habits.Graph{ID: testGraphIDConstant, Name: "Reading Graph", Unit: "Pages", Type: "float", Color: "kuro"})
			},
			expectedMethod:    http.MethodPost,
			expectedPath:      "/v1/users/reader/graphs",
			expectedUserToken: testTokenConstant,
			expectedBody:      map[string]any{"id": testGraphIDConstant, "name": "Reading Graph", "unit": "Pages", "type": "float", "color": "kuro"},
		},
		{
			name: "add_pixel",
			invoke: func(client *habits.Client) error {
				return client.AddPixel(context.Background(), testGraphIDConstant, pixelDate, " 3.5 ")
			},
			expectedMethod:    http.MethodPost,
			expectedPath:      "/v1/users/reader/graphs/graph13",
			expectedUserToken: testTokenConstant,
			expectedBody:      map[string]any{"date": "20261018", "quantity": "3.5"},
		},
		{
			name: "update_pixel",
			invoke: func(client *habits.Client) error {
				return client.UpdatePixel(context.Background(), testGraphIDConstant, pixelDate, "2.0")
			},
			expectedMethod:    http.MethodPut,
			expectedPath:      "/v1/users/reader/graphs/graph13/20261018",
			expectedUserToken: testTokenConstant,
			expectedBody:      map[string]any{"quantity": "2.0"},
		},
		{
			name: "delete_pixel",
			invoke: func(client *habits.Client) error {
				return client.DeletePixel(context.Background(), testGraphIDConstant, pixelDate)
			},
			expectedMethod:    http.MethodDelete,
			expectedPath:      "/v1/users/reader/graphs/graph13/20261018",
			expectedUserToken: testTokenConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			handler := &pixelaServer{}
			server := httptest.NewServer(handler)
			defer server.Close()

			require.NoError(subTest, testCase.invoke(newHabitClient(subTest, server)))
			require.Len(subTest, handler.requests, 1)
			require.Equal(subTest, testCase.expectedMethod, handler.requests[0].Method)
			require.Equal(subTest, testCase.expectedPath, handler.requests[0].Path)
			require.Equal(subTest, testCase.expectedUserToken, handler.requests[0].UserToken)
			require.Equal(subTest, testCase.expectedBody, handler.requests[0].Body)
		})
	}
}

func TestClientReportsRejection(testInstance *testing.T) {
	handler := &pixelaServer{rejectStatus: http.StatusServiceUnavailable}
	server := httptest.NewServer(handler)
	defer server.Close()

	addError := newHabitClient(testInstance, server).AddPixel(context.Background(), testGraphIDConstant, time.Now(), "1")
	require.ErrorContains(testInstance, addError, "Please retry this request.")

	statusCode, hasStatus := httpclient.StatusCode(addError)
	require.True(testInstance, hasStatus)
	require.Equal(testInstance, http.StatusServiceUnavailable, statusCode)
}

func TestClientValidatesInput(testInstance *testing.T) {
	handler := &pixelaServer{}
	server := httptest.NewServer(handler)
	defer server.Close()
	client := newHabitClient(testInstance, server)

	require.ErrorIs(testInstance, client.AddPixel(context.Background(), " ", time.Now(), "1"), habits.ErrMissingGraphID)
	require.Error(testInstance, client.UpdatePixel(context.Background(), testGraphIDConstant, time.Now(), "lots"))
	require.ErrorIs(testInstance, client.CreateGraph(context.Background(), habits.Graph{}), habits.ErrMissingGraphID)
	require.Empty(testInstance, handler.requests)
	require.Equal(testInstance, server.URL+"/v1/users/reader/graphs/graph13.html", client.GraphPageURL(testGraphIDConstant))

	_, clientError := habits.NewClient(habits.Configuration{Username: testUsernameConstant}, httpclient.Dependencies{})
	require.ErrorIs(testInstance, clientError, habits.ErrMissingCredentials)
}
