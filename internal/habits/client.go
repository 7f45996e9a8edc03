package habits

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/temirov/errands/internal/httpclient"
)

const (
	serviceNameConstant             = "habits"
	defaultBaseURLConstant          = "https://pixe.la"
	usersPathConstant               = "/v1/users"
	graphsPathConstant              = "/v1/users/{username}/graphs"
	graphPathConstant               = "/v1/users/{username}/graphs/{graphID}"
	pixelPathConstant               = "/v1/users/{username}/graphs/{graphID}/{date}"
	graphPageTemplateConstant       = "%s/v1/users/%s/graphs/%s.html"
	usernameParameterConstant       = "username"
	graphIDParameterConstant        = "graphID"
	dateParameterConstant           = "date"
	userTokenHeaderConstant         = "X-USER-TOKEN"
	pixelDateLayoutConstant         = "20060102"
	consentValueConstant            = "yes"
	requestFailedTemplateConstant   = "%s failed: %w"
	rejectedTemplateConstant        = "%s failed (%s): %w"
	invalidQuantityTemplateConstant = "quantity %q is not a number"
	createUserOperationConstant     = "create user"
	createGraphOperationConstant    = "create graph"
	addPixelOperationConstant       = "add pixel"
	updatePixelOperationConstant    = "update pixel"
	deletePixelOperationConstant    = "delete pixel"
	operationSucceededMessage       = "habit tracker request succeeded"
	logFieldOperationConstant       = "operation"
	logFieldMessageConstant         = "message"
)

var (
	// ErrMissingCredentials indicates the username or token was not configured.
	ErrMissingCredentials = errors.New("habit tracker username and token must be provided")
	// ErrMissingGraphID indicates an operation without a graph identifier.
	ErrMissingGraphID = errors.New("graph id must be provided")
)

// Configuration describes the habit tracker account.
type Configuration struct {
	BaseURL  string
	Username string
	Token    string
	Timeout  time.Duration
}

// Graph defines a habit graph.
type Graph struct {
	ID    string `json:"id" mapstructure:"id"`
	Name  string `json:"name" mapstructure:"name"`
	Unit  string `json:"unit" mapstructure:"unit"`
	Type  string `json:"type" mapstructure:"type"`
	Color string `json:"color" mapstructure:"color"`
}

type createUserRequest struct {
	Token               string `json:"token"`
	Username            string `json:"username"`
	AgreeTermsOfService string `json:"agreeTermsOfService"`
	NotMinor            string `json:"notMinor"`
}

type pixelRequest struct {
	Date     string `json:"date,omitempty"`
	Quantity string `json:"quantity"`
}

type operationResponse struct {
	Message   string `json:"message"`
	IsSuccess bool   `json:"isSuccess"`
}

// Client talks to the habit tracker API.
type Client struct {
	baseURL    string
	username   string
	token      string
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient constructs a client for the configured account.
func NewClient(configuration Configuration, dependencies httpclient.Dependencies) (*Client, error) {
	username := strings.TrimSpace(configuration.Username)
	token := strings.TrimSpace(configuration.Token)
	if len(username) == 0 || len(token) == 0 {
		return nil, ErrMissingCredentials
	}
	baseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if len(baseURL) == 0 {
		baseURL = defaultBaseURLConstant
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := httpclient.New(serviceNameConstant, httpclient.Configuration{BaseURL: baseURL, Timeout: configuration.Timeout}, dependencies)
	httpClient.SetPathParam(usernameParameterConstant, username)

	return &Client{baseURL: baseURL, username: username, token: token, httpClient: httpClient, logger: logger}, nil
}

// CreateUser registers the configured account, accepting the terms of service.
func (client *Client) CreateUser(executionContext context.Context) error {
	request := client.httpClient.R().SetContext(executionContext).SetBody(createUserRequest{
		Token:               client.token,
		Username:            client.username,
		AgreeTermsOfService: consentValueConstant,
		NotMinor:            consentValueConstant,
	})
	return client.execute(createUserOperationConstant, request, resty.MethodPost, usersPathConstant)
}

// CreateGraph defines a new graph for the account.
func (client *Client) CreateGraph(executionContext context.Context, graph Graph) error {
	if len(strings.TrimSpace(graph.ID)) == 0 {
		return ErrMissingGraphID
	}
	request := client.authorizedRequest(executionContext).SetBody(graph)
	return client.execute(createGraphOperationConstant, request, resty.MethodPost, graphsPathConstant)
}

// AddPixel records quantity for date on the graph.
func (client *Client) AddPixel(executionContext context.Context, graphID string, date time.Time, quantity string) error {
	normalizedQuantity, quantityError := normalizeQuantity(quantity)
	if quantityError != nil {
		return quantityError
	}
	request, requestError := client.graphRequest(executionContext, graphID)
	if requestError != nil {
		return requestError
	}
	request.SetBody(pixelRequest{Date: date.Format(pixelDateLayoutConstant), Quantity: normalizedQuantity})
	return client.execute(addPixelOperationConstant, request, resty.MethodPost, graphPathConstant)
}

// UpdatePixel replaces the quantity recorded for date.
func (client *Client) UpdatePixel(executionContext context.Context, graphID string, date time.Time, quantity string) error {
	normalizedQuantity, quantityError := normalizeQuantity(quantity)
	if quantityError != nil {
		return quantityError
	}
	request, requestError := client.graphRequest(executionContext, graphID)
	if requestError != nil {
		return requestError
	}
	request.SetPathParam(dateParameterConstant, date.Format(pixelDateLayoutConstant)).SetBody(pixelRequest{Quantity: normalizedQuantity})
	return client.execute(updatePixelOperationConstant, request, resty.MethodPut, pixelPathConstant)
}

// DeletePixel removes the pixel recorded for date.
func (client *Client) DeletePixel(executionContext context.Context, graphID string, date time.Time) error {
	request, requestError := client.graphRequest(executionContext, graphID)
	if requestError != nil {
		return requestError
	}
	request.SetPathParam(dateParameterConstant, date.Format(pixelDateLayoutConstant))
	return client.execute(deletePixelOperationConstant, request, resty.MethodDelete, pixelPathConstant)
}

// GraphPageURL returns the address where the graph can be viewed.
func (client *Client) GraphPageURL(graphID string) string {
	return fmt.Sprintf(graphPageTemplateConstant, client.baseURL, client.username, strings.TrimSpace(graphID))
}

func (client *Client) authorizedRequest(executionContext context.Context) *resty.Request {
	return client.httpClient.R().SetContext(executionContext).SetHeader(userTokenHeaderConstant, client.token)
}

func (client *Client) graphRequest(executionContext context.Context, graphID string) (*resty.Request, error) {
	trimmedGraphID := strings.TrimSpace(graphID)
	if len(trimmedGraphID) == 0 {
		return nil, ErrMissingGraphID
	}
	return client.authorizedRequest(executionContext).SetPathParam(graphIDParameterConstant, trimmedGraphID), nil
}

func (client *Client) execute(operation string, request *resty.Request, method string, path string) error {
	var payload operationResponse
	response, requestError := request.SetResult(&payload).SetError(&payload).Execute(method, path)
	if responseError := httpclient.CheckResponse(serviceNameConstant, response, requestError); responseError != nil {
		if len(payload.Message) > 0 {
			return fmt.Errorf(rejectedTemplateConstant, operation, payload.Message, responseError)
		}
		return fmt.Errorf(requestFailedTemplateConstant, operation, responseError)
	}
	client.logger.Debug(operationSucceededMessage, zap.String(logFieldOperationConstant, operation), zap.String(logFieldMessageConstant, payload.Message))
	return nil
}

func normalizeQuantity(quantity string) (string, error) {
	trimmedQuantity := strings.TrimSpace(quantity)
	if _, parseError := strconv.ParseFloat(trimmedQuantity, 64); parseError != nil {
		return "", fmt.Errorf(invalidQuantityTemplateConstant, quantity)
	}
	return trimmedQuantity, nil
}
