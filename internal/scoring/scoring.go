package scoring

import (
	"fmt"
	"math"
	"strings"

	"resort-picker/internal/models"
)

// Weights of the three domains in the total score.
const (
	WeatherWeight   = 0.4
	SnowWeight      = 0.4
	TransportWeight = 0.2
)

// NeutralScore is used when weather or snow data is missing: absence of
// a forecast should neither penalize nor inflate a resort.
const NeutralScore = 5.0

// UnreachableScore is used when no transport route exists. Unlike
// missing weather or snow data, unreachability is a real negative.
const UnreachableScore = 0.0

// Result bundles the sub-scores and total for one resort along with the
// derived highlight and concern strings.
type Result struct {
	Total      float64
	Weather    float64
	Snow       float64
	Transport  float64
	Highlights []string
	Concerns   []string
}

// Engine scores resorts from their raw domain records. It is pure and
// deterministic: identical inputs always produce identical results, and
// every score lies in [0, 10].
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Score evaluates one resort for one target date. Any of the three
// records may be nil.
func (e *Engine) Score(weather *models.WeatherRecord, snow *models.SnowConditions, journey *models.Journey) Result {
	weatherScore, weatherHighlights, weatherConcerns := e.scoreWeather(weather)
	snowScore, snowHighlights, snowConcerns := e.scoreSnow(snow)
	transportScore, transportHighlights, transportConcerns := e.scoreTransport(journey)

	total := weatherScore*WeatherWeight + snowScore*SnowWeight + transportScore*TransportWeight

	var highlights []string
	highlights = append(highlights, weatherHighlights...)
	highlights = append(highlights, snowHighlights...)
	highlights = append(highlights, transportHighlights...)

	var concerns []string
	concerns = append(concerns, weatherConcerns...)
	concerns = append(concerns, snowConcerns...)
	concerns = append(concerns, transportConcerns...)

	return Result{
		Total:      round1(clamp(total)),
		Weather:    weatherScore,
		Snow:       snowScore,
		Transport:  transportScore,
		Highlights: highlights,
		Concerns:   concerns,
	}
}

// scoreWeather rates the forecast. Ideal: sunny, -12 to -3C, fresh snow
// expected, low wind.
func (e *Engine) scoreWeather(forecast *models.WeatherRecord) (float64, []string, []string) {
	if forecast == nil {
		return NeutralScore, nil, []string{"Weather data unavailable"}
	}

	var highlights, concerns []string
	score := 5.0

	avgTemp := (forecast.TemperatureMin + forecast.TemperatureMax) / 2
	switch {
	case avgTemp >= -12 && avgTemp <= -3:
		score += 2.0
		highlights = append(highlights, fmt.Sprintf("Perfect ski temperature (%.0fC)", avgTemp))
	case (avgTemp >= -15 && avgTemp < -3) || (avgTemp > -3 && avgTemp <= 0):
		score += 1.0
		highlights = append(highlights, fmt.Sprintf("Good temperature (%.0fC)", avgTemp))
	case avgTemp > 2:
		score -= 2.0
		concerns = append(concerns, fmt.Sprintf("Warm temperatures (%.0fC) - possible slushy snow", avgTemp))
	case avgTemp < -15:
		score -= 1.0
		concerns = append(concerns, fmt.Sprintf("Very cold (%.0fC)", avgTemp))
	}

	snowfall := 0.0
	if forecast.SnowfallCM != nil {
		snowfall = clampRange(*forecast.SnowfallCM, 0, 500)
	}
	switch {
	case snowfall >= 20:
		score += 3.5
		highlights = append(highlights, fmt.Sprintf("Heavy snowfall expected (%.0fcm)", snowfall))
	case snowfall >= 10:
		score += 2.5
		highlights = append(highlights, fmt.Sprintf("Good snowfall expected (%.0fcm)", snowfall))
	case snowfall >= 5:
		score += 1.0
		highlights = append(highlights, fmt.Sprintf("Some fresh snow expected (%.0fcm)", snowfall))
	}

	cloudCover := int(clampRange(float64(forecast.CloudCover), 0, 100))
	switch {
	case cloudCover < 30:
		if snowfall >= 5 {
			score += 1.5
			highlights = append(highlights, "Sunny conditions expected")
		} else {
			score += 0.5
			highlights = append(highlights, "Sunny conditions expected")
			concerns = append(concerns, "Dry conditions - no fresh snow forecast")
		}
	case cloudCover < 50:
		score += 0.5
		highlights = append(highlights, "Partly cloudy")
	case cloudCover > 80:
		score -= 1.0
		concerns = append(concerns, "Overcast conditions")
	}

	wind := clampRange(forecast.WindSpeed, 0, 300)
	switch {
	case wind < 20:
		score += 0.5
	case wind > 50:
		score -= 2.0
		concerns = append(concerns, fmt.Sprintf("Strong winds (%.0fkm/h)", wind))
	case wind > 35:
		score -= 1.0
		concerns = append(concerns, fmt.Sprintf("Moderate winds (%.0fkm/h)", wind))
	}

	// Rain without snowfall above freezing is the worst case.
	if forecast.PrecipitationMM > 0 && snowfall == 0 && avgTemp > 0 {
		score -= 3.0
		concerns = append(concerns, "Rain expected")
	}

	return round1(clamp(score)), highlights, concerns
}

// scoreSnow rates the snowpack. Ideal: 150+ cm base, 20+ cm fresh, powder.
func (e *Engine) scoreSnow(conditions *models.SnowConditions) (float64, []string, []string) {
	if conditions == nil {
		return NeutralScore, nil, []string{"Snow data unavailable - conditions unknown"}
	}

	var highlights, concerns []string
	score := 5.0

	if conditions.SnowBase != nil {
		base := int(clampRange(float64(*conditions.SnowBase), 0, 1000))
		switch {
		case base >= 150:
			score += 2.5
			highlights = append(highlights, fmt.Sprintf("Excellent base depth (%dcm)", base))
		case base >= 100:
			score += 1.5
			highlights = append(highlights, fmt.Sprintf("Good base depth (%dcm)", base))
		case base >= 60:
			score += 0.5
		case base < 40:
			score -= 2.0
			concerns = append(concerns, fmt.Sprintf("Low snow base (%dcm)", base))
		}
	}

	if conditions.NewSnow24H != nil {
		fresh := int(clampRange(float64(*conditions.NewSnow24H), 0, 500))
		switch {
		case fresh >= 20:
			score += 3.0
			highlights = append(highlights, fmt.Sprintf("Fresh powder! (%dcm in 24h)", fresh))
		case fresh >= 10:
			score += 2.0
			highlights = append(highlights, fmt.Sprintf("Fresh snow (%dcm in 24h)", fresh))
		case fresh >= 5:
			score += 1.0
		}
	}

	if conditions.NewSnow7D != nil {
		week := int(clampRange(float64(*conditions.NewSnow7D), 0, 1000))
		switch {
		case week >= 50:
			score += 1.0
			highlights = append(highlights, fmt.Sprintf("Great week of snow (%dcm)", week))
		case week >= 20:
			score += 0.5
		}
	}

	switch strings.ToLower(conditions.SnowQuality) {
	case "powder", "fresh":
		score += 1.5
		highlights = append(highlights, "Powder conditions")
	case "packed", "groomed":
		score += 0.5
		highlights = append(highlights, "Well-groomed slopes")
	case "icy", "hard":
		score -= 2.0
		concerns = append(concerns, "Icy conditions reported")
	case "wet", "spring":
		score -= 1.0
		concerns = append(concerns, "Wet/spring snow")
	}

	return round1(clamp(score)), highlights, concerns
}

// scoreTransport rates accessibility as a decreasing step function of
// journey duration. A missing journey means the resort is unreachable
// by public transport and scores the floor, not a neutral default.
func (e *Engine) scoreTransport(journey *models.Journey) (float64, []string, []string) {
	if journey == nil {
		return UnreachableScore, nil, []string{"No public transport route found"}
	}

	var highlights, concerns []string

	minutes := clampRange(float64(journey.DurationMinutes), 0, 24*60)
	hours := minutes / 60

	var score float64
	switch {
	case hours < 2:
		score = 10.0
		highlights = append(highlights, fmt.Sprintf("Quick journey (%.1fh)", hours))
	case hours < 2.5:
		score = 8.5
		highlights = append(highlights, fmt.Sprintf("Good travel time (%.1fh)", hours))
	case hours < 3:
		score = 7.0
		highlights = append(highlights, fmt.Sprintf("Reasonable travel time (%.1fh)", hours))
	case hours < 3.5:
		score = 5.5
	case hours < 4:
		score = 4.0
		concerns = append(concerns, fmt.Sprintf("Long journey (%.1fh)", hours))
	default:
		score = 2.0
		concerns = append(concerns, fmt.Sprintf("Very long journey (%.1fh)", hours))
	}

	switch {
	case journey.Changes == 0:
		score += 0.5
		highlights = append(highlights, "Direct connection")
	case journey.Changes == 2:
		score -= 0.5
	case journey.Changes >= 3:
		score -= 1.0
		concerns = append(concerns, fmt.Sprintf("Multiple changes (%d)", journey.Changes))
	}

	return round1(clamp(score)), highlights, concerns
}

// Reasoning builds a one-line explanation from the sub-scores.
func (e *Engine) Reasoning(resortName string, result Result) string {
	var parts []string

	switch {
	case result.Total >= 8:
		parts = append(parts, fmt.Sprintf("%s looks excellent this weekend", resortName))
	case result.Total >= 6:
		parts = append(parts, fmt.Sprintf("%s is a solid choice", resortName))
	case result.Total >= 4:
		parts = append(parts, fmt.Sprintf("%s is an option worth considering", resortName))
	default:
		parts = append(parts, fmt.Sprintf("%s may not be ideal this weekend", resortName))
	}

	var factors []string
	if result.Weather >= 7 {
		factors = append(factors, "great weather")
	} else if result.Weather < 4 {
		factors = append(factors, "challenging weather")
	}
	if result.Snow >= 7 {
		factors = append(factors, "excellent snow conditions")
	} else if result.Snow < 4 {
		factors = append(factors, "limited snow")
	}
	if result.Transport >= 7 {
		factors = append(factors, "easy access")
	} else if result.Transport < 4 {
		factors = append(factors, "long travel time")
	}

	if len(factors) > 0 {
		parts = append(parts, "with "+strings.Join(factors, ", "))
	}

	return strings.Join(parts, ". ") + "."
}

func clamp(score float64) float64 {
	return clampRange(score, 0, 10)
}

// clampRange pins untrusted provider numbers into a physical range
// instead of rejecting them.
func clampRange(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
