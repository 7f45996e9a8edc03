package cli

import (
	"time"

	"github.com/temirov/errands/internal/habits"
	"github.com/temirov/errands/internal/market"
	"github.com/temirov/errands/internal/sheet"
	"github.com/temirov/errands/internal/workouts"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common        ApplicationCommonConfiguration `mapstructure:"common"`
	Errands       ErrandsConfiguration           `mapstructure:"errands"`
	Notifications NotificationsConfiguration     `mapstructure:"notifications"`
}

// ApplicationCommonConfiguration stores settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Currency    string        `mapstructure:"currency"`
}

// ErrandsConfiguration groups per-errand settings.
type ErrandsConfiguration struct {
	FlightDeals FlightDealsConfiguration `mapstructure:"flight_deals"`
	StockAlert  StockAlertConfiguration  `mapstructure:"stock_alert"`
	Workouts    WorkoutsConfiguration    `mapstructure:"workouts"`
	Habits      HabitsConfiguration      `mapstructure:"habits"`
}

// FlightDealsConfiguration configures the flight-deals errand.
type FlightDealsConfiguration struct {
	Origin  string               `mapstructure:"origin"`
	DryRun  bool                 `mapstructure:"dry_run"`
	Sheet   SheetConfiguration   `mapstructure:"sheet"`
	Flights FlightsConfiguration `mapstructure:"flights"`
}

// SheetConfiguration points at a spreadsheet endpoint. Token, username and password are secret references.
type SheetConfiguration struct {
	Endpoint      string        `mapstructure:"endpoint"`
	CollectionKey string        `mapstructure:"collection_key"`
	ObjectName    string        `mapstructure:"object_name"`
	Columns       sheet.Columns `mapstructure:"columns"`
	Token         string        `mapstructure:"token"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
}

// FlightsConfiguration configures the flight-offers API. Client id and secret are secret references.
type FlightsConfiguration struct {
	BaseURL         string        `mapstructure:"base_url"`
	TokenURL        string        `mapstructure:"token_url"`
	ClientID        string        `mapstructure:"client_id"`
	ClientSecret    string        `mapstructure:"client_secret"`
	Adults          int           `mapstructure:"adults"`
	NonStop         bool          `mapstructure:"non_stop"`
	DepartureOffset time.Duration `mapstructure:"departure_offset"`
	ReturnOffset    time.Duration `mapstructure:"return_offset"`
}

// APIConfiguration describes a keyed HTTP API. APIKey is a secret reference.
type APIConfiguration struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// StockAlertConfiguration configures the stock-alert errand.
type StockAlertConfiguration struct {
	Market      APIConfiguration    `mapstructure:"market"`
	News        APIConfiguration    `mapstructure:"news"`
	Instruments []market.Instrument `mapstructure:"instruments"`
}

// NutritionConfiguration configures the exercise API. App id and key are secret references.
type NutritionConfiguration struct {
	BaseURL string `mapstructure:"base_url"`
	AppID   string `mapstructure:"app_id"`
	AppKey  string `mapstructure:"app_key"`
}

// WorkoutsConfiguration configures the workout-log errand.
type WorkoutsConfiguration struct {
	Profile   workouts.Profile       `mapstructure:"profile"`
	Nutrition NutritionConfiguration `mapstructure:"nutrition"`
	Sheet     SheetConfiguration     `mapstructure:"sheet"`
}

// HabitsConfiguration configures the habit tracker. Token is a secret reference.
type HabitsConfiguration struct {
	BaseURL  string       `mapstructure:"base_url"`
	Username string       `mapstructure:"username"`
	Token    string       `mapstructure:"token"`
	Graph    habits.Graph `mapstructure:"graph"`
}

// NotificationsConfiguration configures SMS delivery. Every field except BaseURL is a secret reference.
type NotificationsConfiguration struct {
	BaseURL    string `mapstructure:"base_url"`
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
	ToNumber   string `mapstructure:"to_number"`
}
