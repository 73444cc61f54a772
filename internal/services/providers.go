package services

import (
	"context"
	"sync"
	"time"

	"resort-picker/internal/models"
)

// ProgressFunc receives (completed, total) as batch fetches finish.
type ProgressFunc func(completed, total int)

// WeatherProvider fetches the forecast for one resort and one date.
type WeatherProvider interface {
	FetchOne(ctx context.Context, resort models.Resort, targetDate time.Time) (*models.WeatherRecord, error)
	FetchBatch(ctx context.Context, resorts []models.Resort, targetDate time.Time, onProgress ProgressFunc) map[string]*models.WeatherRecord
}

// SnowProvider fetches current snowpack conditions for one resort.
type SnowProvider interface {
	FetchOne(ctx context.Context, resort models.Resort, targetDate time.Time) (*models.SnowConditions, error)
	FetchBatch(ctx context.Context, resorts []models.Resort, targetDate time.Time, onProgress ProgressFunc) map[string]*models.SnowConditions
}

// TransportProvider fetches the best journey from the configured start
// location to one resort.
type TransportProvider interface {
	FetchOne(ctx context.Context, resort models.Resort, travelDate time.Time) (*models.Journey, error)
	FetchBatch(ctx context.Context, resorts []models.Resort, travelDate time.Time, onProgress ProgressFunc) map[string]*models.Journey
}

// fetchBatch fans out fetchOne over all resorts with at most limit
// in-flight fetches. Individual failures become nil entries; the batch
// itself never fails. Results are keyed by resort ID so completion
// order does not matter. Dispatch stops once ctx is cancelled, and
// already-issued fetches are abandoned to their own ctx handling.
func fetchBatch[R any](
	ctx context.Context,
	resorts []models.Resort,
	limit int,
	onProgress ProgressFunc,
	fetchOne func(context.Context, models.Resort) (*R, error),
) map[string]*R {
	if limit <= 0 {
		limit = 1
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
	)
	results := make(map[string]*R, len(resorts))
	total := len(resorts)
	sem := make(chan struct{}, limit)

	for _, resort := range resorts {
		select {
		case <-ctx.Done():
			return results
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(resort models.Resort) {
			defer wg.Done()
			defer func() { <-sem }()

			record, err := fetchOne(ctx, resort)
			if err != nil {
				record = nil
			}

			mu.Lock()
			results[resort.ID] = record
			completed++
			done := completed
			mu.Unlock()

			if onProgress != nil {
				onProgress(done, total)
			}
		}(resort)
	}

	wg.Wait()
	return results
}
