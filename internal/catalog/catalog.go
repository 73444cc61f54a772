package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"resort-picker/internal/models"

	"go.uber.org/zap"
)

// ErrUnavailable marks a catalog that could not be loaded. It is the
// one unrecoverable error class of a recommendation request.
var ErrUnavailable = errors.New("resort catalog unavailable")

// Service loads and serves the immutable resort catalog.
type Service struct {
	dataFile string
	logger   *zap.Logger

	mu      sync.Mutex
	resorts []models.Resort
	loaded  bool
}

type catalogFile struct {
	Resorts []models.Resort `json:"resorts"`
}

func NewService(dataFile string, logger *zap.Logger) *Service {
	return &Service{
		dataFile: dataFile,
		logger:   logger,
	}
}

// Load reads the catalog file. It is idempotent; subsequent calls after
// a successful load are no-ops.
func (s *Service) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return nil
	}

	raw, err := os.ReadFile(s.dataFile)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrUnavailable, s.dataFile, err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrUnavailable, s.dataFile, err)
	}

	if len(file.Resorts) == 0 {
		return fmt.Errorf("%w: %s contains no resorts", ErrUnavailable, s.dataFile)
	}

	s.resorts = file.Resorts
	s.loaded = true

	s.logger.Info("Resort catalog loaded",
		zap.Int("resorts", len(s.resorts)),
		zap.String("file", s.dataFile))

	return nil
}

// All returns every resort, loading the catalog on first use.
func (s *Service) All() ([]models.Resort, error) {
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s.resorts, nil
}

// ByID returns the resort with the given identifier, or nil.
func (s *Service) ByID(id string) (*models.Resort, error) {
	resorts, err := s.All()
	if err != nil {
		return nil, err
	}

	for i := range resorts {
		if resorts[i].ID == id {
			return &resorts[i], nil
		}
	}
	return nil, nil
}

// ByRegion returns resorts whose region matches, case-insensitively.
func (s *Service) ByRegion(region string) ([]models.Resort, error) {
	resorts, err := s.All()
	if err != nil {
		return nil, err
	}

	var out []models.Resort
	for _, r := range resorts {
		if strings.EqualFold(r.Region, region) {
			out = append(out, r)
		}
	}
	return out, nil
}
