package models

import "time"

// Snow quality categories, ordered best to worst for scoring purposes.
const (
	SnowQualityPowder   = "Powder"
	SnowQualityFresh    = "Fresh"
	SnowQualityPacked   = "Packed"
	SnowQualityVariable = "Variable"
	SnowQualityIcy      = "Icy"
	SnowQualityUnknown  = "Unknown"
)

// SnowConditions describes the snowpack at a resort. All depth fields
// are optional; providers frequently report only a subset and a missing
// value must stay distinguishable from zero.
type SnowConditions struct {
	ResortID    string    `json:"resort_id"`
	DateUpdated time.Time `json:"date_updated"`
	SnowBase    *int      `json:"snow_base,omitempty"`
	SnowSummit  *int      `json:"snow_summit,omitempty"`
	NewSnow24H  *int      `json:"new_snow_24h,omitempty"`
	NewSnow7D   *int      `json:"new_snow_7d,omitempty"`
	SnowQuality string    `json:"snow_quality"`
	LiftsOpen   *int      `json:"lifts_open,omitempty"`
	RunsOpen    *int      `json:"runs_open,omitempty"`
}
