package storage

import (
	"errors"

	"weatherbot/internal/domain"
)

var ErrDisabled = errors.New("storage disabled")

// Gateway is the durability boundary for user profiles.
//
// Load runs once at startup; Save rewrites the whole state after every
// registry mutation. Save errors are reported to the caller for logging
// but never abort the mutation.
type Gateway interface {
	Load() (map[int64]domain.UserProfile, error)
	Save(map[int64]domain.UserProfile) error
}

// userRecord is the on-disk shape of one profile. Schedule entries
// serialize as zero-padded 24-hour "HH:MM" strings.
type userRecord struct {
	Lat         float64  `json:"lat,omitempty"`
	Lon         float64  `json:"lon,omitempty"`
	HasLocation bool     `json:"has_location"`
	TZOffset    int      `json:"tz_offset,omitempty"`
	Schedules   []string `json:"schedules"`
}
