package scheduler

import (
	"context"
	"sync"
	"time"

	"resort-picker/internal/models"
	"resort-picker/internal/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Catalog is the resort source the prewarmer iterates over.
type Catalog interface {
	All() ([]models.Resort, error)
}

// Prewarmer refreshes the provider caches on a cron schedule so that
// interactive recommendation runs mostly hit warm data. Overlapping
// runs are skipped.
type Prewarmer struct {
	catalog   Catalog
	weather   services.WeatherProvider
	snow      services.SnowProvider
	transport services.TransportProvider
	cron      *cron.Cron
	spec      string
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

func NewPrewarmer(
	catalog Catalog,
	weather services.WeatherProvider,
	snow services.SnowProvider,
	transport services.TransportProvider,
	spec string,
	logger *zap.Logger,
) *Prewarmer {
	return &Prewarmer{
		catalog:   catalog,
		weather:   weather,
		snow:      snow,
		transport: transport,
		cron:      cron.New(),
		spec:      spec,
		logger:    logger,
	}
}

// Start registers the cron entry and begins scheduling. The first
// prewarm runs immediately so the caches are warm before the first
// request.
func (p *Prewarmer) Start() error {
	if _, err := p.cron.AddFunc(p.spec, p.runPrewarm); err != nil {
		return err
	}

	p.cron.Start()
	p.logger.Info("Cache prewarmer started", zap.String("schedule", p.spec))

	go p.runPrewarm()
	return nil
}

func (p *Prewarmer) Stop() {
	ctx := p.cron.Stop()
	<-ctx.Done()
	p.logger.Info("Cache prewarmer stopped")
}

func (p *Prewarmer) runPrewarm() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		p.logger.Debug("Skipping prewarm, previous run still in progress")
		return
	}
	p.running = true
	p.lastRun = time.Now()
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	startTime := time.Now()

	resorts, err := p.catalog.All()
	if err != nil {
		p.logger.Error("Prewarm skipped, catalog unavailable", zap.Error(err))
		return
	}

	targetDate := services.NextSaturday(time.Now())
	p.logger.Info("Starting cache prewarm",
		zap.Int("resorts", len(resorts)),
		zap.Time("target_date", targetDate))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		p.weather.FetchBatch(ctx, resorts, targetDate, nil)
	}()
	go func() {
		defer wg.Done()
		p.snow.FetchBatch(ctx, resorts, targetDate, nil)
	}()
	go func() {
		defer wg.Done()
		p.transport.FetchBatch(ctx, resorts, targetDate, nil)
	}()
	wg.Wait()

	p.logger.Info("Cache prewarm completed",
		zap.Duration("duration", time.Since(startTime)))
}

// Status reports the scheduler state for diagnostics.
func (p *Prewarmer) Status() map[string]interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()

	return map[string]interface{}{
		"schedule": p.spec,
		"running":  p.running,
		"last_run": p.lastRun,
	}
}
