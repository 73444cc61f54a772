package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"resort-picker/internal/models"

	"go.uber.org/zap"
)

// TransportClient queries the Swiss public-transport open-data API for
// connections between two stops.
type TransportClient struct {
	*BaseClient
	baseURL string
}

type transportConnectionsResponse struct {
	Connections []struct {
		From struct {
			Departure string `json:"departure"`
		} `json:"from"`
		To struct {
			Arrival string `json:"arrival"`
		} `json:"to"`
		Duration  string `json:"duration"`
		Transfers int    `json:"transfers"`
		Sections  []struct {
			Journey *struct {
				Name     string `json:"name"`
				Category string `json:"category"`
			} `json:"journey"`
			Departure struct {
				Station struct {
					Name string `json:"name"`
				} `json:"station"`
				Departure string `json:"departure"`
			} `json:"departure"`
			Arrival struct {
				Station struct {
					Name string `json:"name"`
				} `json:"station"`
				Arrival string `json:"arrival"`
			} `json:"arrival"`
		} `json:"sections"`
	} `json:"connections"`
}

func NewTransportClient(baseURL string, config ClientConfig, logger *zap.Logger) *TransportClient {
	return &TransportClient{
		BaseClient: NewBaseClient("transport", config, logger),
		baseURL:    baseURL,
	}
}

// Journey returns the best connection between two locations on
// travelDate, departing around depTime (HH:MM). A nil journey with nil
// error means the API knows no route.
func (c *TransportClient) Journey(ctx context.Context, from, to string, travelDate time.Time, depTime string) (*models.Journey, error) {
	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	q.Set("date", travelDate.Format("2006-01-02"))
	q.Set("time", depTime)
	q.Set("limit", "3")

	var resp transportConnectionsResponse
	if err := c.GetJSON(ctx, c.baseURL+"/connections?"+q.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetching connections: %w", err)
	}

	if len(resp.Connections) == 0 {
		return nil, nil
	}

	return parseConnection(resp, 0)
}

func parseConnection(resp transportConnectionsResponse, idx int) (*models.Journey, error) {
	conn := resp.Connections[idx]

	departure, err := parseTransportTime(conn.From.Departure)
	if err != nil {
		return nil, fmt.Errorf("parsing departure: %w", err)
	}
	arrival, err := parseTransportTime(conn.To.Arrival)
	if err != nil {
		return nil, fmt.Errorf("parsing arrival: %w", err)
	}

	journey := &models.Journey{
		DepartureTime:   departure,
		ArrivalTime:     arrival,
		DurationMinutes: parseTransportDuration(conn.Duration),
		Changes:         conn.Transfers,
	}

	for _, section := range conn.Sections {
		// Walking sections carry no journey block and are skipped.
		if section.Journey == nil {
			continue
		}

		segDep, err := parseTransportTime(section.Departure.Departure)
		if err != nil {
			continue
		}
		segArr, err := parseTransportTime(section.Arrival.Arrival)
		if err != nil {
			continue
		}

		journey.Segments = append(journey.Segments, models.JourneySegment{
			Type:        transportType(section.Journey.Category),
			FromStation: section.Departure.Station.Name,
			ToStation:   section.Arrival.Station.Name,
			Departure:   segDep,
			Arrival:     segArr,
			Line:        section.Journey.Name,
		})
	}

	return journey, nil
}

func transportType(category string) string {
	switch category {
	case "B", "BUS", "NFB", "PB":
		return "bus"
	default:
		return "train"
	}
}

// parseTransportTime handles the API's RFC3339-like timestamps whose
// zone offset lacks a colon ("+0100" instead of "+01:00").
func parseTransportTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02T15:04:05-0700", s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}

// parseTransportDuration converts strings like "00d02:45:00" to minutes.
func parseTransportDuration(s string) int {
	days := 0
	timePart := s
	if i := strings.Index(s, "d"); i >= 0 {
		days, _ = strconv.Atoi(s[:i])
		timePart = s[i+1:]
	}

	parts := strings.Split(timePart, ":")
	if len(parts) < 2 {
		return 0
	}
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])

	return days*24*60 + hours*60 + minutes
}
