package services

import (
	"context"
	"fmt"
	"time"

	"resort-picker/internal/cache"
	"resort-picker/internal/models"

	"go.uber.org/zap"
)

type weatherClient interface {
	ForecastForDate(ctx context.Context, lat, lon float64, targetDate time.Time) (*models.WeatherRecord, error)
}

// WeatherService adapts the OpenWeather client to the WeatherProvider
// contract and owns the weather cache. Forecasts change often, so the
// TTL is the shortest of the three domains.
type WeatherService struct {
	client      weatherClient
	cache       *cache.TTLCache[*models.WeatherRecord]
	ttl         time.Duration
	concurrency int
	logger      *zap.Logger
}

func NewWeatherService(client weatherClient, c *cache.TTLCache[*models.WeatherRecord], ttl time.Duration, concurrency int, logger *zap.Logger) *WeatherService {
	return &WeatherService{
		client:      client,
		cache:       c,
		ttl:         ttl,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (s *WeatherService) FetchOne(ctx context.Context, resort models.Resort, targetDate time.Time) (*models.WeatherRecord, error) {
	key := fmt.Sprintf("weather:%s:%s", resort.ID, targetDate.Format("2006-01-02"))

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			return cached, nil
		}
	}

	record, err := s.client.ForecastForDate(ctx, resort.Coordinates.Latitude, resort.Coordinates.Longitude, targetDate)
	if err != nil {
		s.logger.Warn("Weather fetch failed",
			zap.String("resort", resort.ID),
			zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, record, s.ttl)
	}
	return record, nil
}

func (s *WeatherService) FetchBatch(ctx context.Context, resorts []models.Resort, targetDate time.Time, onProgress ProgressFunc) map[string]*models.WeatherRecord {
	return fetchBatch(ctx, resorts, s.concurrency, onProgress,
		func(ctx context.Context, resort models.Resort) (*models.WeatherRecord, error) {
			return s.FetchOne(ctx, resort, targetDate)
		})
}
