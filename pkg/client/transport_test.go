package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeHTTPClient struct {
	statuses []int
	bodies   []string
	calls    int
}

func (f *fakeHTTPClient) Do(_ *http.Request) (*http.Response, error) {
	idx := f.calls
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	f.calls++

	body := ""
	if idx < len(f.bodies) {
		body = f.bodies[idx]
	}

	return &http.Response{
		StatusCode: f.statuses[idx],
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}, nil
}

func newFakeTransportClient(body string) (*TransportClient, *fakeHTTPClient) {
	fake := &fakeHTTPClient{statuses: []int{200}, bodies: []string{body}}
	c := NewTransportClient("http://transport.test/v1", ClientConfig{MaxRetries: 1, RetryDelay: time.Millisecond, Multiplier: 2}, zap.NewNop())
	c.client = fake
	return c, fake
}

const connectionsJSON = `{
	"connections": [
		{
			"from": {"departure": "2026-01-17T08:10:00+0100"},
			"to": {"arrival": "2026-01-17T10:55:00+0100"},
			"duration": "00d02:45:00",
			"transfers": 1,
			"sections": [
				{
					"journey": {"name": "IR 90", "category": "IR"},
					"departure": {"station": {"name": "Geneva"}, "departure": "2026-01-17T08:10:00+0100"},
					"arrival": {"station": {"name": "Sierre"}, "arrival": "2026-01-17T10:05:00+0100"}
				},
				{
					"journey": null,
					"departure": {"station": {"name": "Sierre"}, "departure": "2026-01-17T10:05:00+0100"},
					"arrival": {"station": {"name": "Sierre, gare"}, "arrival": "2026-01-17T10:10:00+0100"}
				},
				{
					"journey": {"name": "B 452", "category": "PB"},
					"departure": {"station": {"name": "Sierre, gare"}, "departure": "2026-01-17T10:15:00+0100"},
					"arrival": {"station": {"name": "Grimentz"}, "arrival": "2026-01-17T10:55:00+0100"}
				}
			]
		}
	]
}`

func TestJourneyParsesConnection(t *testing.T) {
	c, _ := newFakeTransportClient(connectionsJSON)

	journey, err := c.Journey(context.Background(), "Geneva", "Grimentz",
		time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC), "08:00")
	if err != nil {
		t.Fatalf("Journey: %v", err)
	}
	if journey == nil {
		t.Fatal("expected a journey")
	}

	if journey.DurationMinutes != 165 {
		t.Errorf("duration = %d, want 165", journey.DurationMinutes)
	}
	if journey.Changes != 1 {
		t.Errorf("changes = %d, want 1", journey.Changes)
	}

	// Walking sections carry no journey block and are dropped.
	if len(journey.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(journey.Segments))
	}
	if journey.Segments[0].Type != "train" || journey.Segments[0].Line != "IR 90" {
		t.Errorf("first segment = %+v", journey.Segments[0])
	}
	if journey.Segments[1].Type != "bus" {
		t.Errorf("PB category should map to bus, got %q", journey.Segments[1].Type)
	}
	if journey.Segments[1].FromStation != "Sierre, gare" || journey.Segments[1].ToStation != "Grimentz" {
		t.Errorf("second segment stations = %+v", journey.Segments[1])
	}
}

func TestJourneyNoConnections(t *testing.T) {
	c, _ := newFakeTransportClient(`{"connections": []}`)

	journey, err := c.Journey(context.Background(), "Geneva", "Atlantis",
		time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC), "08:00")
	if err != nil {
		t.Fatalf("Journey: %v", err)
	}
	if journey != nil {
		t.Error("expected nil journey when the API knows no route")
	}
}

func TestParseTransportDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00d02:45:00", 165},
		{"00d00:55:00", 55},
		{"01d01:30:00", 1530},
		{"02:05:00", 125},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := parseTransportDuration(tt.in); got != tt.want {
			t.Errorf("parseTransportDuration(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseTransportTime(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"2026-01-17T08:10:00+01:00", false},
		{"2026-01-17T08:10:00+0100", false},
		{"2026-01-17T08:10:00", false},
		{"", true},
		{"not a time", true},
	}

	for _, tt := range tests {
		ts, err := parseTransportTime(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseTransportTime(%q) = %v, want error", tt.in, ts)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseTransportTime(%q): %v", tt.in, err)
			continue
		}
		if ts.Hour() != 8 || ts.Minute() != 10 {
			t.Errorf("parseTransportTime(%q) = %v", tt.in, ts)
		}
	}
}

func TestTransportType(t *testing.T) {
	for _, category := range []string{"B", "BUS", "NFB", "PB"} {
		if got := transportType(category); got != "bus" {
			t.Errorf("transportType(%q) = %q, want bus", category, got)
		}
	}
	for _, category := range []string{"IR", "IC", "R", "S", ""} {
		if got := transportType(category); got != "train" {
			t.Errorf("transportType(%q) = %q, want train", category, got)
		}
	}
}
