package models

import "time"

// Recommendation is a scored resort together with the raw records the
// scores were derived from. Record pointers are nil when the matching
// provider had no data; the resort is still ranked.
type Recommendation struct {
	Resort          Resort          `json:"resort"`
	Score           float64         `json:"score"`
	WeatherScore    float64         `json:"weather_score"`
	SnowScore       float64         `json:"snow_score"`
	TransportScore  float64         `json:"transport_score"`
	WeatherForecast *WeatherRecord  `json:"weather_forecast,omitempty"`
	SnowConditions  *SnowConditions `json:"snow_conditions,omitempty"`
	Journey         *Journey        `json:"journey,omitempty"`
	Highlights      []string        `json:"highlights"`
	Concerns        []string        `json:"concerns"`
	Reasoning       string          `json:"reasoning"`
}

// RecommendationsResponse is the final ranked result of one request.
type RecommendationsResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	AISummary       string           `json:"ai_summary"`
	GeneratedAt     time.Time        `json:"generated_at"`
	TargetWeekend   string           `json:"target_weekend"`
}
