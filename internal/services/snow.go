package services

import (
	"context"
	"fmt"
	"time"

	"resort-picker/internal/cache"
	"resort-picker/internal/models"

	"go.uber.org/zap"
)

type snowClient interface {
	Conditions(ctx context.Context, resortID string, lat, lon float64, elevation int) (*models.SnowConditions, error)
}

// SnowService adapts the Open-Meteo snow client to the SnowProvider
// contract. Snow depth changes slowly, so conditions are cached longer
// than weather.
type SnowService struct {
	client      snowClient
	cache       *cache.TTLCache[*models.SnowConditions]
	ttl         time.Duration
	concurrency int
	logger      *zap.Logger
}

func NewSnowService(client snowClient, c *cache.TTLCache[*models.SnowConditions], ttl time.Duration, concurrency int, logger *zap.Logger) *SnowService {
	return &SnowService{
		client:      client,
		cache:       c,
		ttl:         ttl,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *SnowService) FetchOne(ctx context.Context, resort models.Resort, _ time.Time) (*models.SnowConditions, error) {
	key := fmt.Sprintf("snow:%s", resort.ID)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	conditions, err := s.client.Conditions(ctx, resort.ID,
		resort.Coordinates.Latitude, resort.Coordinates.Longitude, resort.ElevationTop)
	if err != nil {
		s.logger.Warn("Snow fetch failed",
			zap.String("resort", resort.ID),
			zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, conditions, s.ttl)
	}
	return conditions, nil
}

func (s *SnowService) FetchBatch(ctx context.Context, resorts []models.Resort, targetDate time.Time, onProgress ProgressFunc) map[string]*models.SnowConditions {
	return fetchBatch(ctx, resorts, s.concurrency, onProgress,
		func(ctx context.Context, resort models.Resort) (*models.SnowConditions, error) {
			return s.FetchOne(ctx, resort, targetDate)
		})
}
