package models

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AccessInfo describes how to reach a resort from its nearest railway station.
type AccessInfo struct {
	NearestStation         string `json:"nearest_station"`
	PostbusRequired        bool   `json:"postbus_required"`
	PostbusDurationMinutes *int   `json:"postbus_duration_minutes,omitempty"`
}

// Resort is one immutable catalog entry. The catalog is loaded once at
// startup and never mutated afterwards.
type Resort struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Region           string      `json:"region"`
	Canton           *string     `json:"canton,omitempty"`
	Country          string      `json:"country"`
	Coordinates      Coordinates `json:"coordinates"`
	ElevationBase    int         `json:"elevation_base"`
	ElevationTop     int         `json:"elevation_top"`
	Access           AccessInfo  `json:"access"`
	Website          string      `json:"website"`
	MagicPassValid   bool        `json:"magic_pass_valid"`
	SnowForecastSlug *string     `json:"snow_forecast_slug,omitempty"`
	SkiableTerrainKM *float64    `json:"skiable_terrain_km,omitempty"`
}
