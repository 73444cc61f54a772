package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"resort-picker/internal/models"
	"resort-picker/internal/progress"
	"resort-picker/internal/scoring"

	"go.uber.org/zap"
)

// Catalog is the read-only resort source the recommender draws from.
type Catalog interface {
	All() ([]models.Resort, error)
	ByID(id string) (*models.Resort, error)
}

// Request describes one recommendation run. Zero values fall back to
// the configured defaults (upcoming Saturday, default result count).
type Request struct {
	TargetDate time.Time
	Limit      int
}

// Recommender orchestrates a full recommendation run: catalog load,
// concurrent fan-out to the three data domains, scoring, ranking, and
// summary generation. Provider failures degrade scores; only a missing
// catalog or a cancelled context fail the run.
type Recommender struct {
	catalog      Catalog
	weather      WeatherProvider
	snow         SnowProvider
	transport    TransportProvider
	summarizer   Summarizer
	engine       *scoring.Engine
	defaultLimit int
	logger       *zap.Logger
}

func NewRecommender(
	catalog Catalog,
	weather WeatherProvider,
	snow SnowProvider,
	transport TransportProvider,
	summarizer Summarizer,
	defaultLimit int,
	logger *zap.Logger,
) *Recommender {
	if defaultLimit <= 0 {
		defaultLimit = 5
	}
	return &Recommender{
		catalog:      catalog,
		weather:      weather,
		snow:         snow,
		transport:    transport,
		summarizer:   summarizer,
		engine:       scoring.NewEngine(),
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// Recommend runs the full pipeline, reporting progress to sink. The
// three fetch stages are announced in their fixed order and then run
// concurrently; their sub-progress events may interleave, but every
// stage transition is observed exactly once, in order.
func (r *Recommender) Recommend(ctx context.Context, req Request, sink progress.Sink) (*models.RecommendationsResponse, error) {
	saturday := req.TargetDate
	if saturday.IsZero() {
		saturday = NextSaturday(time.Now())
	}
	limit := req.Limit
	if limit <= 0 {
		limit = r.defaultLimit
	}

	sink.Emit(progress.Event{
		Stage:   progress.StageLoadingResorts,
		Message: "Loading resort data...",
	})

	resorts, err := r.catalog.All()
	if err != nil {
		return nil, err
	}
	total := len(resorts)

	r.logger.Info("Generating recommendations",
		zap.Time("target_date", saturday),
		zap.Int("resorts", total),
		zap.Int("limit", limit))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Announce the fetch stages in their fixed logical order before the
	// batches start; the work itself overlaps.
	for _, stage := range []progress.Stage{
		progress.StageFetchingWeather,
		progress.StageScrapingSnow,
		progress.StageFetchingTransport,
	} {
		sink.Emit(progress.Event{
			Stage:   stage,
			Message: progress.SubProgressMessage(stage, 0, total),
			Total:   total,
		})
	}

	var (
		wg            sync.WaitGroup
		weatherData   map[string]*models.WeatherRecord
		snowData      map[string]*models.SnowConditions
		transportData map[string]*models.Journey
	)

	subProgress := func(stage progress.Stage) ProgressFunc {
		return func(current, total int) {
			sink.Emit(progress.Event{
				Stage:   stage,
				Message: progress.SubProgressMessage(stage, current, total),
				Current: current,
				Total:   total,
			})
		}
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		weatherData = r.weather.FetchBatch(ctx, resorts, saturday, subProgress(progress.StageFetchingWeather))
	}()
	go func() {
		defer wg.Done()
		snowData = r.snow.FetchBatch(ctx, resorts, saturday, subProgress(progress.StageScrapingSnow))
	}()
	go func() {
		defer wg.Done()
		transportData = r.transport.FetchBatch(ctx, resorts, saturday, subProgress(progress.StageFetchingTransport))
	}()
	wg.Wait()

	// A cancelled request discards whatever was collected.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.logger.Info("Provider data fetched",
		zap.Int("weather", countPresent(weatherData)),
		zap.Int("snow", countPresent(snowData)),
		zap.Int("transport", countPresent(transportData)))

	sink.Emit(progress.Event{
		Stage:   progress.StageScoring,
		Message: "Scoring resorts...",
	})

	recommendations := make([]models.Recommendation, 0, total)
	for _, resort := range resorts {
		recommendations = append(recommendations,
			r.buildRecommendation(resort, weatherData[resort.ID], snowData[resort.ID], transportData[resort.ID]))
	}

	rankRecommendations(recommendations)

	if limit > len(recommendations) {
		limit = len(recommendations)
	}
	top := recommendations[:limit]

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sink.Emit(progress.Event{
		Stage:   progress.StageGeneratingSummary,
		Message: "Generating AI summary...",
	})

	targetWeekend := WeekendLabel(saturday)

	summary, err := r.summarizer.Summarize(ctx, top, targetWeekend)
	if err != nil {
		// The summary is enrichment, not a correctness requirement.
		r.logger.Warn("Summary generation failed, using fallback", zap.Error(err))
		summary = FallbackSummary(top)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sink.Emit(progress.Event{
		Stage:   progress.StageComplete,
		Message: "Complete!",
	})

	return &models.RecommendationsResponse{
		Recommendations: top,
		AISummary:       summary,
		GeneratedAt:     time.Now(),
		TargetWeekend:   targetWeekend,
	}, nil
}

// ResortDetails produces a single-resort recommendation. A nil result
// with nil error means the resort ID is unknown.
func (r *Recommender) ResortDetails(ctx context.Context, resortID string, targetDate time.Time) (*models.Recommendation, error) {
	resort, err := r.catalog.ByID(resortID)
	if err != nil {
		return nil, err
	}
	if resort == nil {
		return nil, nil
	}

	if targetDate.IsZero() {
		targetDate = NextSaturday(time.Now())
	}

	weather, err := r.weather.FetchOne(ctx, *resort, targetDate)
	if err != nil {
		weather = nil
	}
	snow, err := r.snow.FetchOne(ctx, *resort, targetDate)
	if err != nil {
		snow = nil
	}
	journey, err := r.transport.FetchOne(ctx, *resort, targetDate)
	if err != nil {
		journey = nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := r.buildRecommendation(*resort, weather, snow, journey)
	return &rec, nil
}

func (r *Recommender) buildRecommendation(resort models.Resort, weather *models.WeatherRecord, snow *models.SnowConditions, journey *models.Journey) models.Recommendation {
	result := r.engine.Score(weather, snow, journey)

	return models.Recommendation{
		Resort:          resort,
		Score:           result.Total,
		WeatherScore:    result.Weather,
		SnowScore:       result.Snow,
		TransportScore:  result.Transport,
		WeatherForecast: weather,
		SnowConditions:  snow,
		Journey:         journey,
		Highlights:      capStrings(result.Highlights, 5),
		Concerns:        capStrings(result.Concerns, 5),
		Reasoning:       r.engine.Reasoning(resort.Name, result),
	}
}

// rankRecommendations orders by total score descending with resort ID
// ascending as the tie-break, making ranking a strict total order.
func rankRecommendations(recs []models.Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Resort.ID < recs[j].Resort.ID
	})
}

// NextSaturday returns the upcoming Saturday, or today when today is
// Saturday.
func NextSaturday(today time.Time) time.Time {
	days := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
	saturday := today.AddDate(0, 0, days)
	return time.Date(saturday.Year(), saturday.Month(), saturday.Day(), 0, 0, 0, 0, today.Location())
}

// WeekendLabel formats a Saturday into the "Jan 02 - Jan 03" weekend
// caption used in responses and prompts.
func WeekendLabel(saturday time.Time) string {
	sunday := saturday.AddDate(0, 0, 1)
	return fmt.Sprintf("%s - %s", saturday.Format("Jan 02"), sunday.Format("Jan 02"))
}

func capStrings(strs []string, max int) []string {
	if len(strs) > max {
		return strs[:max]
	}
	return strs
}

func countPresent[R any](records map[string]*R) int {
	n := 0
	for _, r := range records {
		if r != nil {
			n++
		}
	}
	return n
}
