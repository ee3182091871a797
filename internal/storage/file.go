package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"weatherbot/internal/domain"
)

// FileGateway persists the whole user map as one JSON document keyed by
// stringified user id. Writes go through a temp file + rename so a crash
// mid-save never leaves a torn file behind.
type FileGateway struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

func NewFileGateway(path string, log zerolog.Logger) (*FileGateway, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	return &FileGateway{path: path, log: log}, nil
}

func (g *FileGateway) Load() (map[int64]domain.UserProfile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	b, err := os.ReadFile(g.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[int64]domain.UserProfile{}, nil
		}
		return nil, fmt.Errorf("read user store: %w", err)
	}
	if len(b) == 0 {
		return map[int64]domain.UserProfile{}, nil
	}

	var raw map[string]userRecord
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal user store: %w", err)
	}

	users := make(map[int64]domain.UserProfile, len(raw))
	for idStr, rec := range raw {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			g.log.Warn().Str("key", idStr).Msg("skipping user with non-numeric id")
			continue
		}
		p := domain.UserProfile{
			ID:          id,
			Lat:         rec.Lat,
			Lon:         rec.Lon,
			HasLocation: rec.HasLocation,
			TZOffset:    rec.TZOffset,
		}
		for _, s := range rec.Schedules {
			t, err := domain.ParseTrigger(s)
			if err != nil {
				// Keep the rest of the profile usable.
				g.log.Warn().Int64("user", id).Str("entry", s).Msg("skipping unparseable schedule entry")
				continue
			}
			p.Schedules = append(p.Schedules, t)
		}
		p.SortSchedules()
		users[id] = p
	}
	return users, nil
}

func (g *FileGateway) Save(users map[int64]domain.UserProfile) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	raw := make(map[string]userRecord, len(users))
	for id, p := range users {
		rec := userRecord{
			Lat:         p.Lat,
			Lon:         p.Lon,
			HasLocation: p.HasLocation,
			TZOffset:    p.TZOffset,
			Schedules:   make([]string, 0, len(p.Schedules)),
		}
		for _, t := range p.Schedules {
			rec.Schedules = append(rec.Schedules, t.String())
		}
		raw[strconv.FormatInt(id, 10)] = rec
	}

	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal user store: %w", err)
	}

	if dir := filepath.Dir(g.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	tmp := g.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write user store: %w", err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		return fmt.Errorf("replace user store: %w", err)
	}
	return nil
}
