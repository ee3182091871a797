package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	yaml "go.yaml.in/yaml/v3"
)

// Config is the whole bot configuration. Duration-typed settings are Go
// duration strings (e.g. "10s", "1m").
type Config struct {
	Telegram  TelegramConfig  `json:"telegram"`
	Logging   LoggingConfig   `json:"logging"`
	Storage   StorageConfig   `json:"storage"`
	Weather   WeatherConfig   `json:"weather"`
	Scheduler SchedulerConfig `json:"scheduler"`
	Janitor   JanitorConfig   `json:"janitor,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"`
	// PollTimeout is the long-poll timeout, default "10s".
	PollTimeout string `json:"poll_timeout,omitempty"`
	// RatePerSec caps outbound sends, default 25.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file,omitempty"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

type StorageConfig struct {
	// UsersPath is the JSON user-profile store.
	UsersPath string `json:"users_path"`
	// HistoryPath is the SQLite delivery log. Empty disables it.
	HistoryPath string `json:"history_path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"`
}

type WeatherConfig struct {
	// BaseURL overrides the Open-Meteo endpoint (tests, proxies).
	BaseURL      string `json:"base_url,omitempty"`
	FetchTimeout string `json:"fetch_timeout,omitempty"` // default "10s"
	CacheTTL     string `json:"cache_ttl,omitempty"`     // default "10m"
	ForecastDays int    `json:"forecast_days,omitempty"` // 1..3, default 3
}

type SchedulerConfig struct {
	TickInterval string `json:"tick_interval,omitempty"` // default "60s"
}

type JanitorConfig struct {
	// SweepEvery schedules the cache sweep + history prune, default "5m".
	SweepEvery string `json:"sweep_every,omitempty"`
	// HistoryRetention bounds the delivery log, default "2160h" (90 days).
	HistoryRetention string `json:"history_retention,omitempty"`
}

// Validate checks the fields that would otherwise only fail deep inside a
// service at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return errors.New("telegram.token is required")
	}
	if strings.TrimSpace(c.Storage.UsersPath) == "" {
		return errors.New("storage.users_path is required")
	}
	if d := c.Weather.ForecastDays; d != 0 && (d < 1 || d > 3) {
		return fmt.Errorf("weather.forecast_days must be 1..3, got %d", d)
	}
	for path, raw := range map[string]string{
		"telegram.poll_timeout":     c.Telegram.PollTimeout,
		"storage.busy_timeout":      c.Storage.BusyTimeout,
		"weather.fetch_timeout":     c.Weather.FetchTimeout,
		"weather.cache_ttl":         c.Weather.CacheTTL,
		"scheduler.tick_interval":   c.Scheduler.TickInterval,
		"janitor.sweep_every":       c.Janitor.SweepEvery,
		"janitor.history_retention": c.Janitor.HistoryRetention,
	} {
		if _, err := ParseDurationField(path, raw); err != nil {
			return err
		}
	}
	return nil
}

// ParseDurationField parses an optional Go duration string; empty means 0.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField with a fallback for
// omitted/zero values.
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}

// decode parses YAML or JSON config bytes strictly: unknown keys are
// rejected so typos surface at startup instead of silently defaulting.
func decode(path string, data []byte) (*Config, error) {
	jb, err := coerceToJSONBytes(path, data)
	if err != nil {
		return nil, err
	}
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, errors.New("invalid config: trailing data")
		}
		return nil, err
	}
	return &cfg, nil
}

// coerceToJSONBytes converts YAML config to JSON bytes so the same strict
// JSON decoder serves both formats.
func coerceToJSONBytes(path string, data []byte) ([]byte, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return data, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	v = normalizeYAML(v)
	j, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yaml->json marshal: %w", err)
	}
	return j, nil
}

// normalizeYAML ensures all map keys are strings so the result can be
// JSON-marshaled.
func normalizeYAML(in any) any {
	switch x := in.(type) {
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, v := range x {
			m[k] = normalizeYAML(v)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalizeYAML(x[i])
		}
		return x
	default:
		return in
	}
}
