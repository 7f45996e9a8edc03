package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/temirov/errands/internal/httpclient"
)

const (
	nutritionServiceNameConstant    = "nutrition"
	defaultNutritionBaseURLConstant = "https://trackapi.nutritionix.com"
	exercisePathConstant            = "/v2/natural/exercise"
	appIDHeaderConstant             = "x-app-id"
	appKeyHeaderConstant            = "x-app-key"
	exerciseLookupTemplateConstant  = "unable to interpret exercise %q: %w"
)

// ErrMissingCredentials indicates the nutrition application id or key was not configured.
var ErrMissingCredentials = errors.New("nutrition app id and key must be provided")

// Profile describes the person exercising; it scales calorie estimates.
type Profile struct {
	Gender            string  `mapstructure:"gender"`
	WeightKilograms   float64 `mapstructure:"weight_kg"`
	HeightCentimeters float64 `mapstructure:"height_cm"`
	Age               int     `mapstructure:"age"`
}

// Exercise is one activity recognized in a query.
type Exercise struct {
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"duration_min"`
	Calories        float64 `json:"nf_calories"`
}

// NutritionConfiguration describes how to reach the nutrition API.
type NutritionConfiguration struct {
	BaseURL string
	AppID   string
	AppKey  string
	Timeout time.Duration
}

type exerciseRequest struct {
	Query             string  `json:"query"`
	Gender            string  `json:"gender,omitempty"`
	WeightKilograms   float64 `json:"weight_kg,omitempty"`
	HeightCentimeters float64 `json:"height_cm,omitempty"`
	Age               int     `json:"age,omitempty"`
}

type exerciseResponse struct {
	Exercises []Exercise `json:"exercises"`
}

// NutritionClient interprets exercise sentences.
type NutritionClient struct {
	httpClient *resty.Client
}

// NewNutritionClient constructs an authenticated nutrition client.
func NewNutritionClient(configuration NutritionConfiguration, dependencies httpclient.Dependencies) (*NutritionClient, error) {
	appID := strings.TrimSpace(configuration.AppID)
	appKey := strings.TrimSpace(configuration.AppKey)
	if len(appID) == 0 || len(appKey) == 0 {
		return nil, ErrMissingCredentials
	}
	baseURL := strings.TrimSpace(configuration.BaseURL)
	if len(baseURL) == 0 {
		baseURL = defaultNutritionBaseURLConstant
	}
	httpClient := httpclient.New(nutritionServiceNameConstant, httpclient.Configuration{BaseURL: baseURL, Timeout: configuration.Timeout}, dependencies)
	httpClient.SetHeader(appIDHeaderConstant, appID)
	httpClient.SetHeader(appKeyHeaderConstant, appKey)
	return &NutritionClient{httpClient: httpClient}, nil
}

// Exercises returns the activities recognized in query.
func (client *NutritionClient) Exercises(executionContext context.Context, query string, profile Profile) ([]Exercise, error) {
	var payload exerciseResponse
	response, requestError := client.httpClient.R().
		SetContext(executionContext).
		SetBody(exerciseRequest{
			Query:             query,
			Gender:            strings.TrimSpace(profile.Gender),
			WeightKilograms:   profile.WeightKilograms,
			HeightCentimeters: profile.HeightCentimeters,
			Age:               profile.Age,
		}).
		SetResult(&payload).
		Post(exercisePathConstant)
	if responseError := httpclient.CheckResponse(nutritionServiceNameConstant, response, requestError); responseError != nil {
		return nil, fmt.Errorf(exerciseLookupTemplateConstant, query, responseError)
	}
	return payload.Exercises, nil
}
