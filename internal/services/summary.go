package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"resort-picker/internal/models"

	"go.uber.org/zap"
)

// Summarizer turns a ranked list into a short natural-language
// recommendation. Implementations may fail; the recommender falls back
// to a template summary rather than failing the request.
type Summarizer interface {
	Summarize(ctx context.Context, recommendations []models.Recommendation, targetWeekend string) (string, error)
}

type llmClient interface {
	Configured() bool
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// LLMSummarizer generates the summary through an OpenAI-compatible
// chat endpoint with its own timeout.
type LLMSummarizer struct {
	client  llmClient
	timeout time.Duration
	logger  *zap.Logger
}

func NewLLMSummarizer(client llmClient, timeout time.Duration, logger *zap.Logger) *LLMSummarizer {
	return &LLMSummarizer{
		client:  client,
		timeout: timeout,
		logger:  logger,
	}
}

const summarizerSystemPrompt = "You are a helpful ski trip planning assistant for Magic Pass holders " +
	"in Switzerland. You help people decide which resort to visit based on weather, snow conditions, " +
	"and travel logistics from Geneva."

func (s *LLMSummarizer) Summarize(ctx context.Context, recommendations []models.Recommendation, targetWeekend string) (string, error) {
	if len(recommendations) == 0 {
		return "Unfortunately, I couldn't generate recommendations at this time. Please try again later.", nil
	}

	if !s.client.Configured() {
		s.logger.Debug("LLM not configured, using fallback summary")
		return FallbackSummary(recommendations), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := buildSummaryPrompt(recommendations, targetWeekend)

	summary, err := s.client.Complete(ctx, summarizerSystemPrompt, prompt, 500)
	if err != nil {
		return "", fmt.Errorf("generating summary: %w", err)
	}

	s.logger.Info("Generated AI recommendation summary")
	return summary, nil
}

func buildSummaryPrompt(recommendations []models.Recommendation, targetWeekend string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a friendly ski trip planning assistant helping someone plan their weekend "+
		"snowboarding trip from Geneva.\n\n"+
		"Based on the following data for Magic Pass resorts this weekend (%s), provide a brief "+
		"recommendation (2-3 paragraphs) on where to go.\n\n", targetWeekend)

	limit := len(recommendations)
	if limit > 5 {
		limit = 5
	}

	for i, rec := range recommendations[:limit] {
		fmt.Fprintf(&b, "%d. **%s** (Score: %.1f/10)\n", i+1, rec.Resort.Name, rec.Score)
		fmt.Fprintf(&b, "   Region: %s\n", rec.Resort.Region)

		if wf := rec.WeatherForecast; wf != nil {
			fmt.Fprintf(&b, "   Weather: %s, %.0f to %.0fC\n", wf.Conditions, wf.TemperatureMin, wf.TemperatureMax)
			if wf.SnowfallCM != nil && *wf.SnowfallCM > 0 {
				fmt.Fprintf(&b, "   Expected snowfall: %.0fcm\n", *wf.SnowfallCM)
			}
			fmt.Fprintf(&b, "   Visibility: %s, Wind: %.0fkm/h\n", wf.Visibility, wf.WindSpeed)
		}

		if sc := rec.SnowConditions; sc != nil {
			if sc.SnowBase != nil {
				fmt.Fprintf(&b, "   Snow base: %dcm\n", *sc.SnowBase)
			}
			if sc.SnowSummit != nil {
				fmt.Fprintf(&b, "   Snow summit: %dcm\n", *sc.SnowSummit)
			}
			if sc.NewSnow24H != nil {
				fmt.Fprintf(&b, "   Fresh snow (24h): %dcm\n", *sc.NewSnow24H)
			}
			fmt.Fprintf(&b, "   Snow quality: %s\n", sc.SnowQuality)
		}

		if j := rec.Journey; j != nil {
			fmt.Fprintf(&b, "   Travel from Geneva: %dh %dmin (%d changes)\n",
				j.DurationMinutes/60, j.DurationMinutes%60, j.Changes)
		}

		if len(rec.Highlights) > 0 {
			fmt.Fprintf(&b, "   Highlights: %s\n", strings.Join(rec.Highlights, ", "))
		}
		if len(rec.Concerns) > 0 {
			fmt.Fprintf(&b, "   Concerns: %s\n", strings.Join(rec.Concerns, ", "))
		}

		b.WriteString("\n")
	}

	b.WriteString("Guidelines:\n" +
		"- Be conversational and enthusiastic but not over the top\n" +
		"- Focus on the top 1-2 recommendations with clear reasoning\n" +
		"- Mention weather conditions and what to expect\n" +
		"- Note travel times and any practical tips\n" +
		"- If conditions aren't great everywhere, be honest but still helpful\n" +
		"- Keep it concise and actionable\n" +
		"- Don't use excessive emojis")

	return b.String()
}

// FallbackSummary is the template summary used when the LLM is
// unavailable or fails.
func FallbackSummary(recommendations []models.Recommendation) string {
	if len(recommendations) == 0 {
		return "Unable to generate recommendations at this time."
	}

	top := recommendations[0]

	var b strings.Builder
	fmt.Fprintf(&b, "Based on current conditions, %s looks like the best choice with a score of %.1f/10. ",
		top.Resort.Name, top.Score)

	if top.WeatherForecast != nil {
		fmt.Fprintf(&b, "Weather forecast shows %s. ", top.WeatherForecast.Conditions)
	}

	if top.Journey != nil {
		fmt.Fprintf(&b, "Travel time from Geneva is approximately %dh %dmin.",
			top.Journey.DurationMinutes/60, top.Journey.DurationMinutes%60)
	}

	return strings.TrimSpace(b.String())
}
