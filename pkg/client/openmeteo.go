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

// OpenMeteoSnowClient derives snowpack conditions from the Open-Meteo
// daily snowfall and snow-depth series. Open-Meteo needs no API key and
// covers every coordinate, which makes it the universal snow source.
type OpenMeteoSnowClient struct {
	*BaseClient
	baseURL string
}

type openMeteoDailyResponse struct {
	Daily struct {
		Time         []string   `json:"time"`
		SnowfallSum  []*float64 `json:"snowfall_sum"`
		SnowDepthMax []*float64 `json:"snow_depth_max"`
	} `json:"daily"`
}

func NewOpenMeteoSnowClient(baseURL string, config ClientConfig, logger *zap.Logger) *OpenMeteoSnowClient {
	return &OpenMeteoSnowClient{
		BaseClient: NewBaseClient("openmeteo-snow", config, logger),
		baseURL:    baseURL,
	}
}

// Conditions fetches the last 7 days of snowfall plus the current snow
// depth for the given coordinates. elevation, when positive, shifts the
// model grid to the resort's summit for more representative depths.
func (c *OpenMeteoSnowClient) Conditions(ctx context.Context, resortID string, lat, lon float64, elevation int) (*models.SnowConditions, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("daily", "snowfall_sum,snow_depth_max")
	q.Set("past_days", "7")
	q.Set("forecast_days", "1")
	q.Set("timezone", "auto")
	if elevation > 0 {
		q.Set("elevation", fmt.Sprintf("%d", elevation))
	}

	var resp openMeteoDailyResponse
	if err := c.GetJSON(ctx, c.baseURL+"/forecast?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetching snow data: %w", err)
	}

	conditions := parseSnowSeries(resp, resortID)
	if conditions == nil {
		return nil, fmt.Errorf("no snow data for %s", resortID)
	}
	return conditions, nil
}

func parseSnowSeries(resp openMeteoDailyResponse, resortID string) *models.SnowConditions {
	var snowfall, depths []float64
	for _, v := range resp.Daily.SnowfallSum {
		if v != nil {
			snowfall = append(snowfall, *v)
		}
	}
	for _, v := range resp.Daily.SnowDepthMax {
		if v != nil {
			depths = append(depths, *v)
		}
	}

	var snowBase, newSnow24h, newSnow7d *int

	if len(depths) > 0 {
		base := int(math.Round(depths[len(depths)-1]))
		if base > 0 {
			snowBase = &base
		}
	}

	if len(snowfall) > 0 {
		last := int(math.Round(snowfall[len(snowfall)-1]))
		if last > 0 {
			newSnow24h = &last
		}

		start := 0
		if len(snowfall) > 7 {
			start = len(snowfall) - 7
		}
		var weekSum float64
		for _, v := range snowfall[start:] {
			weekSum += v
		}
		week := int(math.Round(weekSum))
		if week > 0 {
			newSnow7d = &week
		}
	}

	if snowBase == nil && newSnow24h == nil && newSnow7d == nil {
		return nil
	}

	return &models.SnowConditions{
		ResortID:    resortID,
		DateUpdated: time.Now(),
		SnowBase:    snowBase,
		NewSnow24H:  newSnow24h,
		NewSnow7D:   newSnow7d,
		SnowQuality: classifySnowQuality(snowBase, newSnow24h, newSnow7d),
	}
}

// classifySnowQuality maps depth and recent snowfall to the ordered
// quality categories used by scoring.
func classifySnowQuality(snowBase, newSnow24h, newSnow7d *int) string {
	if newSnow24h != nil && *newSnow24h >= 15 {
		return models.SnowQualityPowder
	}
	if newSnow24h != nil && *newSnow24h >= 5 {
		return models.SnowQualityFresh
	}
	if newSnow7d != nil && *newSnow7d >= 20 {
		return models.SnowQualityFresh
	}

	if snowBase != nil && *snowBase >= 30 {
		if newSnow7d == nil || *newSnow7d < 5 {
			return models.SnowQualityPacked
		}
		return models.SnowQualityVariable
	}

	if snowBase != nil && *snowBase < 30 {
		return models.SnowQualityVariable
	}

	return models.SnowQualityUnknown
}
