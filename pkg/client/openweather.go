package client

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"resort-picker/internal/models"

	"go.uber.org/zap"
)

// OpenWeatherClient fetches the 5-day/3-hour forecast from the
// OpenWeather API and condenses the slices of one calendar day into a
// single daily record.
type OpenWeatherClient struct {
	*BaseClient
	baseURL string
	apiKey  string
}

type openWeatherForecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Rain struct {
			ThreeH float64 `json:"3h"`
		} `json:"rain"`
		Snow struct {
			ThreeH float64 `json:"3h"`
		} `json:"snow"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

func NewOpenWeatherClient(baseURL, apiKey string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	return &OpenWeatherClient{
		BaseClient: NewBaseClient("openweather", config, logger),
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// ForecastForDate returns the aggregated forecast for the given
// coordinates on targetDate, or an error when the forecast horizon does
// not cover that date.
func (c *OpenWeatherClient) ForecastForDate(ctx context.Context, lat, lon float64, targetDate time.Time) (*models.WeatherRecord, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	var resp openWeatherForecastResponse
	if err := c.GetJSON(ctx, c.baseURL+"/forecast?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}

	return buildDailyRecord(resp, targetDate)
}

func buildDailyRecord(resp openWeatherForecastResponse, targetDate time.Time) (*models.WeatherRecord, error) {
	y, m, d := targetDate.Date()

	var (
		temps       []float64
		rainMM      float64
		snowMM      float64
		windSum     float64
		cloudSum    int
		conditions  []string
		icon        string
		windDeg     float64
		sliceCount  int
		haveWindDeg bool
	)

	for _, item := range resp.List {
		ts := time.Unix(item.Dt, 0)
		iy, im, id := ts.Date()
		if iy != y || im != m || id != d {
			continue
		}

		sliceCount++
		temps = append(temps, item.Main.Temp)
		rainMM += item.Rain.ThreeH
		snowMM += item.Snow.ThreeH
		windSum += item.Wind.Speed
		cloudSum += item.Clouds.All
		if !haveWindDeg {
			windDeg = item.Wind.Deg
			haveWindDeg = true
		}
		if len(item.Weather) > 0 {
			conditions = append(conditions, item.Weather[0].Description)
			if icon == "" {
				icon = item.Weather[0].Icon
			}
		}
	}

	if sliceCount == 0 {
		return nil, fmt.Errorf("no forecast available for %s", targetDate.Format("2006-01-02"))
	}

	tempMin, tempMax := temps[0], temps[0]
	for _, t := range temps[1:] {
		if t < tempMin {
			tempMin = t
		}
		if t > tempMax {
			tempMax = t
		}
	}

	avgClouds := cloudSum / sliceCount

	record := &models.WeatherRecord{
		Date:            time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		TemperatureMin:  round1(tempMin),
		TemperatureMax:  round1(tempMax),
		PrecipitationMM: round1(rainMM),
		WindSpeed:       round1(windSum / float64(sliceCount) * 3.6), // m/s to km/h
		WindDirection:   degreesToDirection(windDeg),
		CloudCover:      avgClouds,
		Visibility:      visibilityFromClouds(avgClouds),
		Conditions:      mostCommonString(conditions),
		Icon:            icon,
	}

	if snowMM > 0 {
		snowCM := round1(snowMM / 10)
		record.SnowfallCM = &snowCM
	}

	return record, nil
}

func degreesToDirection(degrees float64) string {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	idx := int((degrees+22.5)/45) % 8
	if idx < 0 {
		idx += 8
	}
	return directions[idx]
}

func visibilityFromClouds(cloudCover int) string {
	switch {
	case cloudCover < 30:
		return "Good"
	case cloudCover < 70:
		return "Moderate"
	default:
		return "Poor"
	}
}

func mostCommonString(strs []string) string {
	counts := make(map[string]int)
	for _, s := range strs {
		counts[s]++
	}

	var mostCommon string
	maxCount := 0
	for s, count := range counts {
		if count > maxCount {
			mostCommon = s
			maxCount = count
		}
	}

	return mostCommon
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
