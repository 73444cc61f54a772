package models

import "time"

// JourneySegment is one leg of a public-transport connection.
type JourneySegment struct {
	Type        string    `json:"type"` // "train" or "bus"
	FromStation string    `json:"from_station"`
	ToStation   string    `json:"to_station"`
	Departure   time.Time `json:"departure"`
	Arrival     time.Time `json:"arrival"`
	Line        string    `json:"line"`
}

// Journey is the best public-transport connection to a resort.
type Journey struct {
	DepartureTime   time.Time        `json:"departure_time"`
	ArrivalTime     time.Time        `json:"arrival_time"`
	DurationMinutes int              `json:"duration_minutes"`
	Changes         int              `json:"changes"`
	Segments        []JourneySegment `json:"segments"`
}
