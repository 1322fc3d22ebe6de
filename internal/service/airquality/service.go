package airquality

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sinawise/sinawise-server/internal/logger"
	repo "github.com/sinawise/sinawise-server/internal/repository/airquality"
)

const (
	// StatusGreen, StatusYellow and StatusRed are the classification bands.
	StatusGreen  = "green"
	StatusYellow = "yellow"
	StatusRed    = "red"
	// StatusUnknown is reported before the first measurement arrives.
	StatusUnknown = "unknown"
)

// band labels shown to clients.
const (
	labelGreen   = "aman"
	labelYellow  = "waspada"
	labelRed     = "bahaya"
	labelUnknown = "tidak diketahui"
)

// Service classifies air-quality measurements and keeps the latest reading.
type Service struct {
	// repo persists the latest reading.
	repo repo.Repository
	// greenMax and yellowMax are the inclusive upper bounds of the bands, ug/m3.
	greenMax  float64
	yellowMax float64
	// mu serializes ingest read-modify-write cycles.
	mu sync.Mutex
}

// NewService creates a service with the provided classification thresholds.
func NewService(repository repo.Repository, greenMax, yellowMax float64) *Service {
	return &Service{
		repo:      repository,
		greenMax:  greenMax,
		yellowMax: yellowMax,
	}
}

// Ingest classifies and stores a new measurement, returning the stored reading.
func (s *Service) Ingest(ctx context.Context, pm25 float64, pm10, pm1 *float64, deviceID string) (*repo.Reading, error) {
	status, label := s.Classify(pm25)

	reading := &repo.Reading{
		PM25:      pm25,
		PM10:      pm10,
		PM1:       pm1,
		Status:    status,
		Label:     label,
		DeviceID:  deviceID,
		UpdatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(ctx, reading); err != nil {
		return nil, fmt.Errorf("persist reading: %w", err)
	}

	logger.InfoKV(ctx, "Air quality updated", "pm25", pm25, "status", status, "device_id", deviceID)

	return reading, nil
}

// Latest returns the most recent reading, or an unknown placeholder when
// nothing has been ingested yet.
func (s *Service) Latest(ctx context.Context) (*repo.Reading, error) {
	reading, err := s.repo.Load(ctx)

	switch {
	case err == nil:
		return reading, nil
	case errors.Is(err, repo.ErrNotFound):
		return &repo.Reading{
			Status:    StatusUnknown,
			Label:     labelUnknown,
			UpdatedAt: time.Now().UTC(),
		}, nil
	default:
		return nil, fmt.Errorf("load reading: %w", err)
	}
}

// Classify maps a PM2.5 concentration onto a band and its label.
func (s *Service) Classify(pm25 float64) (status, label string) {
	switch {
	case pm25 <= s.greenMax:
		return StatusGreen, labelGreen
	case pm25 <= s.yellowMax:
		return StatusYellow, labelYellow
	default:
		return StatusRed, labelRed
	}
}
