package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resort-picker/internal/models"

	"go.uber.org/zap"
)

type fakeLLMClient struct {
	configured bool
	reply      string
	err        error
	prompts    []string
}

func (c *fakeLLMClient) Configured() bool { return c.configured }

func (c *fakeLLMClient) Complete(_ context.Context, _, userPrompt string, _ int) (string, error) {
	c.prompts = append(c.prompts, userPrompt)
	return c.reply, c.err
}

func sampleRecommendations() []models.Recommendation {
	base := 120
	fresh := 15
	return []models.Recommendation{
		{
			Resort: models.Resort{ID: "grimentz-zinal", Name: "Grimentz-Zinal", Region: "Valais"},
			Score:  8.2,
			WeatherForecast: &models.WeatherRecord{
				Conditions: "light snow", TemperatureMin: -9, TemperatureMax: -3,
				Visibility: "Good", WindSpeed: 12,
			},
			SnowConditions: &models.SnowConditions{
				SnowBase: &base, NewSnow24H: &fresh, SnowQuality: models.SnowQualityPowder,
			},
			Journey:    &models.Journey{DurationMinutes: 165, Changes: 1},
			Highlights: []string{"Fresh powder! (15cm in 24h)"},
		},
		{
			Resort: models.Resort{ID: "charmey", Name: "Charmey", Region: "Fribourg"},
			Score:  4.0,
		},
	}
}

func TestLLMSummarizerUsesClient(t *testing.T) {
	client := &fakeLLMClient{configured: true, reply: "Head to Grimentz."}
	s := NewLLMSummarizer(client, time.Second, zap.NewNop())

	summary, err := s.Summarize(context.Background(), sampleRecommendations(), "Jan 17 - Jan 18")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary != "Head to Grimentz." {
		t.Errorf("summary = %q", summary)
	}

	if len(client.prompts) != 1 {
		t.Fatalf("got %d prompts", len(client.prompts))
	}
	prompt := client.prompts[0]
	for _, want := range []string{"Grimentz-Zinal", "Jan 17 - Jan 18", "Score: 8.2/10", "2h 45min"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestLLMSummarizerUnconfiguredFallsBack(t *testing.T) {
	client := &fakeLLMClient{configured: false}
	s := NewLLMSummarizer(client, time.Second, zap.NewNop())

	summary, err := s.Summarize(context.Background(), sampleRecommendations(), "Jan 17 - Jan 18")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if !strings.Contains(summary, "Grimentz-Zinal") {
		t.Errorf("fallback summary = %q", summary)
	}
	if len(client.prompts) != 0 {
		t.Error("unconfigured client must not be called")
	}
}

func TestLLMSummarizerPropagatesErrors(t *testing.T) {
	client := &fakeLLMClient{configured: true, err: errors.New("rate limited")}
	s := NewLLMSummarizer(client, time.Second, zap.NewNop())

	if _, err := s.Summarize(context.Background(), sampleRecommendations(), "Jan 17 - Jan 18"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLLMSummarizerEmptyRecommendations(t *testing.T) {
	client := &fakeLLMClient{configured: true, reply: "unused"}
	s := NewLLMSummarizer(client, time.Second, zap.NewNop())

	summary, err := s.Summarize(context.Background(), nil, "Jan 17 - Jan 18")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary == "" {
		t.Error("expected a stock message for empty input")
	}
	if len(client.prompts) != 0 {
		t.Error("client must not be called for empty input")
	}
}

func TestFallbackSummary(t *testing.T) {
	summary := FallbackSummary(sampleRecommendations())

	for _, want := range []string{"Grimentz-Zinal", "8.2", "light snow", "2h 45min"} {
		if !strings.Contains(summary, want) {
			t.Errorf("fallback summary %q missing %q", summary, want)
		}
	}

	if got := FallbackSummary(nil); got == "" {
		t.Error("expected a stock message for empty input")
	}
}
