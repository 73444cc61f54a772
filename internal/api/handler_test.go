package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resort-picker/internal/catalog"
	"resort-picker/internal/models"
	"resort-picker/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type stubWeather struct{}

func (stubWeather) FetchOne(_ context.Context, resort models.Resort, targetDate time.Time) (*models.WeatherRecord, error) {
	if resort.ID == "leysin" {
		return &models.WeatherRecord{Date: targetDate, TemperatureMin: -6, TemperatureMax: -2, Conditions: "snow"}, nil
	}
	return nil, errors.New("weather unavailable")
}

func (s stubWeather) FetchBatch(ctx context.Context, resorts []models.Resort, targetDate time.Time, onProgress services.ProgressFunc) map[string]*models.WeatherRecord {
	results := make(map[string]*models.WeatherRecord, len(resorts))
	for _, resort := range resorts {
		rec, _ := s.FetchOne(ctx, resort, targetDate)
		results[resort.ID] = rec
	}
	return results
}

type stubSnow struct{}

func (stubSnow) FetchOne(_ context.Context, _ models.Resort, _ time.Time) (*models.SnowConditions, error) {
	return nil, errors.New("snow unavailable")
}

func (s stubSnow) FetchBatch(_ context.Context, resorts []models.Resort, _ time.Time, _ services.ProgressFunc) map[string]*models.SnowConditions {
	results := make(map[string]*models.SnowConditions, len(resorts))
	for _, resort := range resorts {
		results[resort.ID] = nil
	}
	return results
}

type stubTransport struct{}

func (stubTransport) FetchOne(_ context.Context, resort models.Resort, _ time.Time) (*models.Journey, error) {
	if resort.ID == "leysin" {
		return &models.Journey{DurationMinutes: 110, Changes: 1}, nil
	}
	return nil, errors.New("no route")
}

func (s stubTransport) FetchBatch(ctx context.Context, resorts []models.Resort, travelDate time.Time, _ services.ProgressFunc) map[string]*models.Journey {
	results := make(map[string]*models.Journey, len(resorts))
	for _, resort := range resorts {
		journey, _ := s.FetchOne(ctx, resort, travelDate)
		results[resort.ID] = journey
	}
	return results
}

type stubSummarizer struct{}

func (stubSummarizer) Summarize(_ context.Context, _ []models.Recommendation, _ string) (string, error) {
	return "Leysin is the pick this weekend.", nil
}

const apiTestCatalog = `{
	"resorts": [
		{"id": "leysin", "name": "Leysin", "region": "Vaud", "country": "Switzerland",
		 "coordinates": {"latitude": 46.35, "longitude": 7.01},
		 "elevation_base": 1260, "elevation_top": 2205,
		 "access": {"nearest_station": "Leysin", "postbus_required": false},
		 "magic_pass_valid": true},
		{"id": "charmey", "name": "Charmey", "region": "Fribourg", "country": "Switzerland",
		 "coordinates": {"latitude": 46.62, "longitude": 7.16},
		 "elevation_base": 900, "elevation_top": 1630,
		 "access": {"nearest_station": "Bulle", "postbus_required": true},
		 "magic_pass_valid": true}
	]
}`

func newTestCatalog(t *testing.T) *catalog.Service {
	t.Helper()

	path := filepath.Join(t.TempDir(), "resorts.json")
	if err := os.WriteFile(path, []byte(apiTestCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	cat := catalog.NewService(path, zap.NewNop())
	if err := cat.Load(); err != nil {
		t.Fatal(err)
	}
	return cat
}

func newTestHandler(t *testing.T, summarizer services.Summarizer) *Handler {
	t.Helper()

	logger := zap.NewNop()
	cat := newTestCatalog(t)
	recommender := services.NewRecommender(cat, stubWeather{}, stubSnow{}, stubTransport{}, summarizer, 5, logger)
	return NewHandler(recommender, cat, stubWeather{}, stubTransport{}, logger)
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	SetupRoutes(app, newTestHandler(t, stubSummarizer{}), "*", zap.NewNop())
	return app
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Resorts int    `json:"resorts"`
	}
	decodeJSON(t, resp, &body)
	if body.Status != "ok" || body.Resorts != 2 {
		t.Errorf("health = %+v", body)
	}
}

func TestListResorts(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resorts", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Resorts []models.Resort `json:"resorts"`
	}
	decodeJSON(t, resp, &body)
	if len(body.Resorts) != 2 {
		t.Errorf("got %d resorts", len(body.Resorts))
	}
}

func TestListResortsByRegion(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resorts?region=vaud", nil))
	if err != nil {
		t.Fatal(err)
	}

	var body struct {
		Resorts []models.Resort `json:"resorts"`
	}
	decodeJSON(t, resp, &body)
	if len(body.Resorts) != 1 || body.Resorts[0].ID != "leysin" {
		t.Errorf("region filter returned %+v", body.Resorts)
	}
}

func TestGetResortNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resorts/zermatt", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	app := newTestApp(t)

	payload := bytes.NewBufferString(`{"target_date": "2026-01-17", "limit": 2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body models.RecommendationsResponse
	decodeJSON(t, resp, &body)
	if len(body.Recommendations) != 2 {
		t.Fatalf("got %d recommendations", len(body.Recommendations))
	}
	if body.Recommendations[0].Resort.ID != "leysin" {
		t.Errorf("top resort = %s, want the one with data", body.Recommendations[0].Resort.ID)
	}
	if body.AISummary == "" {
		t.Error("missing summary")
	}
	if body.TargetWeekend != "Jan 17 - Jan 18" {
		t.Errorf("target weekend = %q", body.TargetWeekend)
	}
}

func TestRecommendationsEmptyBodyUsesDefaults(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", nil)
	resp, err := app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body models.RecommendationsResponse
	decodeJSON(t, resp, &body)
	if len(body.Recommendations) != 2 {
		t.Errorf("got %d recommendations, want every resort", len(body.Recommendations))
	}
}

func TestRecommendationsInvalidDate(t *testing.T) {
	app := newTestApp(t)

	payload := bytes.NewBufferString(`{"target_date": "17.01.2026"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRecommendationsLimitOutOfRange(t *testing.T) {
	app := newTestApp(t)

	payload := bytes.NewBufferString(`{"limit": 50}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestResortRecommendation(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resorts/leysin/recommendation", nil), 5000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var rec models.Recommendation
	decodeJSON(t, resp, &rec)
	if rec.Resort.ID != "leysin" {
		t.Errorf("resort = %s", rec.Resort.ID)
	}
	if rec.Score <= 0 {
		t.Errorf("score = %v", rec.Score)
	}
}

func TestResortWeatherUnavailable(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/resorts/charmey/weather", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v2/resorts", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &body)
	if body.Error == "" {
		t.Error("missing error payload")
	}
}
