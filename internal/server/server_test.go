package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adhruv/bms-events/internal/event"
	"github.com/adhruv/bms-events/internal/tracker"
)

type fakeRefresher struct {
	events     []event.Event
	eventsErr  error
	result     tracker.Result
	refreshErr error

	refreshedCity string
}

func (f *fakeRefresher) RefreshCity(ctx context.Context, city string) (tracker.Result, error) {
	f.refreshedCity = city
	return f.result, f.refreshErr
}

func (f *fakeRefresher) Events(ctx context.Context, city string) ([]event.Event, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	if city == "" {
		return f.events, nil
	}
	var out []event.Event
	for _, ev := range f.events {
		if ev.City == city {
			out = append(out, ev)
		}
	}
	return out, nil
}

var testCities = []string{"jaipur", "mumbai", "delhi"}

func doRequest(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

func TestCities(t *testing.T) {
	srv := New(&fakeRefresher{}, testCities)
	rec := doRequest(t, srv, http.MethodGet, "/cities")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Cities []string `json:"cities"`
	}
	decodeBody(t, rec, &body)
	if len(body.Cities) != 3 || body.Cities[0] != "jaipur" {
		t.Errorf("cities = %v", body.Cities)
	}
}

func TestEvents(t *testing.T) {
	ref := &fakeRefresher{events: []event.Event{
		{Name: "Comedy Night", City: "jaipur", Venue: "Laugh Club", SourceURL: "https://x/et1"},
		{Name: "Delhi Show", City: "delhi", Venue: "Arena", SourceURL: "https://x/et2"},
	}}
	srv := New(ref, testCities)

	rec := doRequest(t, srv, http.MethodGet, "/events?city=Jaipur")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Events []event.Event `json:"events"`
	}
	decodeBody(t, rec, &body)
	if len(body.Events) != 1 || body.Events[0].Name != "Comedy Night" {
		t.Errorf("events = %+v", body.Events)
	}
}

func TestEventsEmptySetIsArray(t *testing.T) {
	srv := New(&fakeRefresher{}, testCities)
	rec := doRequest(t, srv, http.MethodGet, "/events")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]json.RawMessage
	decodeBody(t, rec, &body)
	if string(body["events"]) != "[]" {
		t.Errorf("events payload = %s, want empty array not null", body["events"])
	}
}

func TestEventsStorageError(t *testing.T) {
	srv := New(&fakeRefresher{eventsErr: errors.New("disk gone")}, testCities)
	rec := doRequest(t, srv, http.MethodGet, "/events")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestRefresh(t *testing.T) {
	ref := &fakeRefresher{result: tracker.Result{
		Events: []event.Event{{Name: "Comedy Night", City: "jaipur", Venue: "Laugh Club"}},
		Source: tracker.SourceScrape,
	}}
	srv := New(ref, testCities)

	rec := doRequest(t, srv, http.MethodPost, "/refresh-events?city=JAIPUR")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ref.refreshedCity != "jaipur" {
		t.Errorf("refreshed city = %q, want lowercased jaipur", ref.refreshedCity)
	}

	var body struct {
		Refreshed int    `json:"refreshed"`
		Source    string `json:"source"`
	}
	decodeBody(t, rec, &body)
	if body.Refreshed != 1 || body.Source != tracker.SourceScrape {
		t.Errorf("body = %+v", body)
	}
}

func TestRefreshUnknownCity(t *testing.T) {
	srv := New(&fakeRefresher{}, testCities)
	for _, target := range []string{"/refresh-events", "/refresh-events?city=atlantis"} {
		rec := doRequest(t, srv, http.MethodPost, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestRefreshMethodNotAllowed(t *testing.T) {
	srv := New(&fakeRefresher{}, testCities)
	rec := doRequest(t, srv, http.MethodGet, "/refresh-events?city=jaipur")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestRefreshPersistFailureStillServes(t *testing.T) {
	// Save failed but the reconciled events are in the result; the API
	// serves them instead of erroring.
	ref := &fakeRefresher{
		result: tracker.Result{
			Events: []event.Event{{Name: "Comedy Night", City: "jaipur", Venue: "Laugh Club"}},
			Source: tracker.SourceScrape,
		},
		refreshErr: errors.New("disk full"),
	}
	srv := New(ref, testCities)

	rec := doRequest(t, srv, http.MethodPost, "/refresh-events?city=jaipur")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 when events are available", rec.Code)
	}
}

func TestRefreshTotalFailure(t *testing.T) {
	ref := &fakeRefresher{refreshErr: errors.New("scrape and cache both failed")}
	srv := New(ref, testCities)

	rec := doRequest(t, srv, http.MethodPost, "/refresh-events?city=jaipur")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestAnalytics(t *testing.T) {
	ref := &fakeRefresher{events: []event.Event{
		{Name: "A", City: "jaipur", Date: "2026-03-01", Category: "Comedy", Status: event.StatusUpcoming},
		{Name: "B", City: "jaipur", Date: "2026-01-01", Category: "Comedy", Status: event.StatusExpired},
		{Name: "C", City: "delhi", Status: event.StatusUpcoming},
	}}
	srv := New(ref, testCities)

	rec := doRequest(t, srv, http.MethodGet, "/analytics")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got Analytics
	decodeBody(t, rec, &got)
	if got.Total != 3 || got.Upcoming != 2 || got.Expired != 1 {
		t.Errorf("counts = %+v", got)
	}
	if got.WithDate != 2 || got.Cities != 2 {
		t.Errorf("withDate = %d, cities = %d", got.WithDate, got.Cities)
	}
	if len(got.ByCity) == 0 || got.ByCity[0].City != "jaipur" || got.ByCity[0].Count != 2 {
		t.Errorf("byCity = %+v", got.ByCity)
	}
	if len(got.ByCategory) == 0 || got.ByCategory[0].Category != "Comedy" {
		t.Errorf("byCategory = %+v", got.ByCategory)
	}
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	a := computeAnalytics(nil)
	if a.Total != 0 || a.Upcoming != 0 || a.Expired != 0 || a.Cities != 0 {
		t.Errorf("analytics of empty set = %+v", a)
	}
}

func TestComputeAnalyticsCategoryCap(t *testing.T) {
	var events []event.Event
	for _, c := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		events = append(events, event.Event{Name: c, City: "jaipur", Category: c})
	}
	a := computeAnalytics(events)
	if len(a.ByCategory) != topCategories {
		t.Errorf("byCategory has %d entries, want capped at %d", len(a.ByCategory), topCategories)
	}
}
