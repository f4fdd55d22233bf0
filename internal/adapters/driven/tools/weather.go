package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
)

// Default configuration values for the weather tool.
const (
	DefaultWeatherBaseURL = "https://api.weatherapi.com/v1"
	DefaultWeatherTimeout = 10 * time.Second

	// defaultWeatherRequestsPerMinute keeps lookups under the free-tier
	// quota of the provider.
	defaultWeatherRequestsPerMinute = 30
)

// WeatherConfig holds configuration for the weather tool.
type WeatherConfig struct {
	// APIKey is the weatherapi.com API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.weatherapi.com/v1).
	BaseURL string

	// Timeout is the request timeout (default: 10s).
	Timeout time.Duration
}

// WeatherTool fetches current conditions from weatherapi.com.
type WeatherTool struct {
	client  *http.Client
	baseURL string
	apiKey  string
	limiter *rate.Limiter
}

// currentResponse is the weatherapi.com /current.json response format,
// reduced to the fields the tool reports.
type currentResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		Humidity  int     `json:"humidity"`
		WindKph   float64 `json:"wind_kph"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewWeatherTool creates a new weather tool.
func NewWeatherTool(cfg WeatherConfig) (*WeatherTool, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("weather: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultWeatherBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultWeatherTimeout
	}

	return &WeatherTool{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		limiter: rate.NewLimiter(rate.Limit(defaultWeatherRequestsPerMinute/60.0), 4),
	}, nil
}

// Spec returns the tool's declared schema.
func (t *WeatherTool) Spec() driven.ToolSpec {
	return driven.ToolSpec{
		Name:        "weather",
		Description: "Current weather conditions for a city",
		Params: []driven.ToolParam{
			{Name: "city", Type: "string", Description: "City name, e.g. London", Required: true},
		},
	}
}

// Handle fetches current conditions for the city argument.
func (t *WeatherTool) Handle(ctx context.Context, args map[string]any) (string, error) {
	city, _ := args["city"].(string)
	if city == "" {
		return "", fmt.Errorf("city is required")
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s/current.json?key=%s&q=%s",
		t.baseURL, url.QueryEscape(t.apiKey), url.QueryEscape(city))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var current currentResponse
	if err := json.Unmarshal(body, &current); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if current.Error != nil {
		return "", fmt.Errorf("weatherapi error: %s", current.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weatherapi error (status %d)", resp.StatusCode)
	}

	return fmt.Sprintf("Weather in %s, %s: %.1f°C, %s, humidity %d%%, wind %.1f kph",
		current.Location.Name, current.Location.Country,
		current.Current.TempC, current.Current.Condition.Text,
		current.Current.Humidity, current.Current.WindKph), nil
}
