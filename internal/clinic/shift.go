// Package clinic holds clinic-level configuration: the working shift that
// drives slot generation. The shift lives in Redis so the front desk can
// adjust hours without a redeploy; without Redis the env-derived default
// applies.
package clinic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/blclinic/appointments/internal/config"
	"github.com/blclinic/appointments/internal/schedule"
)

const shiftKey = "clinic:shift"

// ShiftProvider yields the active shift definition.
type ShiftProvider interface {
	Shift(ctx context.Context) (schedule.Shift, error)
}

// StaticShift is a fixed-shift provider used when Redis is not configured.
type StaticShift struct {
	shift schedule.Shift
}

// NewStaticShift wraps a shift value.
func NewStaticShift(s schedule.Shift) *StaticShift {
	return &StaticShift{shift: s}
}

// Shift returns the fixed shift.
func (p *StaticShift) Shift(ctx context.Context) (schedule.Shift, error) {
	return p.shift, nil
}

// Store persists the shift in Redis, falling back to a default when the
// key is absent.
type Store struct {
	redis    *redis.Client
	fallback schedule.Shift
}

// NewStore creates a Redis-backed shift store.
func NewStore(client *redis.Client, fallback schedule.Shift) *Store {
	if client == nil {
		panic("clinic: redis client required")
	}
	return &Store{redis: client, fallback: fallback}
}

// Shift loads the stored shift, or the fallback when none is stored.
func (s *Store) Shift(ctx context.Context) (schedule.Shift, error) {
	data, err := s.redis.Get(ctx, shiftKey).Bytes()
	if err == redis.Nil {
		return s.fallback, nil
	}
	if err != nil {
		return schedule.Shift{}, fmt.Errorf("clinic: get shift: %w", err)
	}

	var shift schedule.Shift
	if err := json.Unmarshal(data, &shift); err != nil {
		return schedule.Shift{}, fmt.Errorf("clinic: unmarshal shift: %w", err)
	}
	return shift, nil
}

// SetShift stores a new shift definition.
func (s *Store) SetShift(ctx context.Context, shift schedule.Shift) error {
	if shift.SlotMinutes <= 0 {
		return fmt.Errorf("clinic: slot length must be positive, got %d", shift.SlotMinutes)
	}
	data, err := json.Marshal(shift)
	if err != nil {
		return fmt.Errorf("clinic: marshal shift: %w", err)
	}
	if err := s.redis.Set(ctx, shiftKey, data, 0).Err(); err != nil {
		return fmt.Errorf("clinic: set shift: %w", err)
	}
	return nil
}

// ShiftFromConfig builds the default shift from environment configuration.
// Unrecognized weekday names are ignored.
func ShiftFromConfig(cfg *config.Config) schedule.Shift {
	shift := schedule.Shift{
		OpenHour:    cfg.ClinicOpenHour,
		CloseHour:   cfg.ClinicCloseHour,
		SlotMinutes: cfg.ClinicSlotMinutes,
	}
	for _, name := range cfg.ClinicClosedWeekdays {
		if day, ok := parseWeekday(name); ok {
			shift.ClosedWeekdays = append(shift.ClosedWeekdays, day)
		}
	}
	return shift
}

func parseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, true
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	default:
		return time.Sunday, false
	}
}
