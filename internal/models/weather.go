package models

import "time"

// WeatherRecord is a per-resort, per-date forecast. SnowfallCM is nil
// when the provider reported no snowfall at all, as opposed to a
// measured zero.
type WeatherRecord struct {
	Date            time.Time `json:"date"`
	TemperatureMin  float64   `json:"temperature_min"`
	TemperatureMax  float64   `json:"temperature_max"`
	PrecipitationMM float64   `json:"precipitation_mm"`
	SnowfallCM      *float64  `json:"snowfall_cm,omitempty"`
	WindSpeed       float64   `json:"wind_speed"`
	WindDirection   string    `json:"wind_direction"`
	CloudCover      int       `json:"cloud_cover"`
	Visibility      string    `json:"visibility"`
	Conditions      string    `json:"conditions"`
	Icon            string    `json:"icon"`
}
