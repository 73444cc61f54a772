package services

import (
	"context"
	"fmt"
	"time"

	"resort-picker/internal/cache"
	"resort-picker/internal/models"

	"go.uber.org/zap"
)

type transportClient interface {
	Journey(ctx context.Context, from, to string, travelDate time.Time, depTime string) (*models.Journey, error)
}

// TransportService adapts the Swiss transport client to the
// TransportProvider contract. Timetables are stable, so journeys get
// the longest TTL of the three domains.
type TransportService struct {
	client        transportClient
	cache         *cache.TTLCache[*models.Journey]
	ttl           time.Duration
	concurrency   int
	startLocation string
	logger        *zap.Logger
}

func NewTransportService(client transportClient, c *cache.TTLCache[*models.Journey], ttl time.Duration, concurrency int, startLocation string, logger *zap.Logger) *TransportService {
	return &TransportService{
		client:        client,
		cache:         c,
		ttl:           ttl,
		concurrency:   concurrency,
		startLocation: startLocation,
		logger:        logger,
	}
}

// FetchOne resolves the best journey to a resort, trying the resort
// name first and the nearest railway station as a fallback. When the
// resort needs a PostBus leg from the station, that time is added to
// the journey duration.
func (s *TransportService) FetchOne(ctx context.Context, resort models.Resort, travelDate time.Time) (*models.Journey, error) {
	key := fmt.Sprintf("transport:%s:%s:%s", s.startLocation, resort.ID, travelDate.Format("2006-01-02"))

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	journey, err := s.client.Journey(ctx, s.startLocation, resort.Name, travelDate, "08:00")
	if err != nil {
		s.logger.Warn("Transport fetch failed",
			zap.String("resort", resort.ID),
			zap.Error(err))
		return nil, err
	}

	if journey == nil && resort.Access.NearestStation != "" {
		journey, err = s.client.Journey(ctx, s.startLocation, resort.Access.NearestStation, travelDate, "08:00")
		if err != nil {
			s.logger.Warn("Transport fallback fetch failed",
				zap.String("resort", resort.ID),
				zap.String("station", resort.Access.NearestStation),
				zap.Error(err))
			return nil, err
		}
		if journey != nil && resort.Access.PostbusDurationMinutes != nil {
			journey.DurationMinutes += *resort.Access.PostbusDurationMinutes
		}
	}

	if journey == nil {
		s.logger.Debug("No transport route found", zap.String("resort", resort.ID))
		return nil, fmt.Errorf("no route to %s", resort.ID)
	}

	if s.cache != nil {
		s.cache.Set(key, journey, s.ttl)
	}
	return journey, nil
}

func (s *TransportService) FetchBatch(ctx context.Context, resorts []models.Resort, travelDate time.Time, onProgress ProgressFunc) map[string]*models.Journey {
	return fetchBatch(ctx, resorts, s.concurrency, onProgress,
		func(ctx context.Context, resort models.Resort) (*models.Journey, error) {
			return s.FetchOne(ctx, resort, travelDate)
		})
}
