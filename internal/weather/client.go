// Package weather talks to the Open-Meteo forecast API and caches its
// answers per coordinate bucket.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weatherbot/internal/domain"
)

const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

var ErrProviderUnavailable = errors.New("weather provider unavailable")

// Current is the provider's current-conditions block.
type Current struct {
	Temperature int
	Code        int
	WindSpeed   float64
	IsDay       bool
	At          time.Time
}

// DayForecast is one entry of the daily forecast (1-3 entries).
type DayForecast struct {
	Date    string // "2006-01-02" as returned by the provider
	MaxTemp int
	MinTemp int
	Code    int
}

// Snapshot is one complete provider answer.
type Snapshot struct {
	Current Current
	Daily   []DayForecast
}

type Client struct {
	baseURL string
	http    *http.Client
	days    int
}

// NewClient builds a provider client. timeout bounds every fetch so a slow
// provider cannot stall a scheduler tick indefinitely.
func NewClient(baseURL string, timeout time.Duration, forecastDays int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if forecastDays < 1 || forecastDays > 3 {
		forecastDays = 3
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		days:    forecastDays,
	}
}

type apiResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
		IsDay       int     `json:"is_day"`
	} `json:"current_weather"`
	Daily struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"daily"`
}

// Fetch retrieves current weather plus the daily forecast for the given
// coordinates.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	if err := domain.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("current_weather", "true")
	q.Set("daily", "temperature_2m_max,temperature_2m_min,weathercode")
	q.Set("timezone", "auto")
	q.Set("forecast_days", strconv.Itoa(c.days))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrProviderUnavailable, err)
	}
	if body.CurrentWeather == nil {
		return nil, fmt.Errorf("%w: empty current weather", ErrProviderUnavailable)
	}

	snap := &Snapshot{
		Current: Current{
			Temperature: roundTemp(body.CurrentWeather.Temperature),
			Code:        body.CurrentWeather.WeatherCode,
			WindSpeed:   body.CurrentWeather.WindSpeed,
			IsDay:       body.CurrentWeather.IsDay == 1,
			At:          time.Now(),
		},
	}

	for i := 0; i < len(body.Daily.Time) && i < c.days; i++ {
		d := DayForecast{Date: body.Daily.Time[i]}
		if i < len(body.Daily.TempMax) {
			d.MaxTemp = roundTemp(body.Daily.TempMax[i])
		}
		if i < len(body.Daily.TempMin) {
			d.MinTemp = roundTemp(body.Daily.TempMin[i])
		}
		if i < len(body.Daily.WeatherCode) {
			d.Code = body.Daily.WeatherCode[i]
		}
		snap.Daily = append(snap.Daily, d)
	}
	return snap, nil
}

func roundTemp(v float64) int {
	return int(math.Round(v))
}
