package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/line-counter/internal/fsm"
	"github.com/sweeney/line-counter/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:   50,
		SaveMs:   5000,
		MaxCount: 9999,
		Broker:   "tcp://192.168.1.200:1883",
		HTTPAddr: ":8080",
		DataDir:  "/var/lib/line-counter",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(fsm.Production, fsm.Active, fsm.Synchronized,
		status.Counts{Session: 5, Total: 20, Hourly: 5, Cumulative: 25},
		status.Availability{Storage: true, Clock: true, Display: true}, 0, 42, 3)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.State != "PRODUCTION" {
		t.Errorf("State: got %q, want PRODUCTION", sj.Status.State)
	}
	if sj.Status.Production != "ACTIVE" {
		t.Errorf("Production: got %q, want ACTIVE", sj.Status.Production)
	}
	if sj.Status.Counts.Session != 5 {
		t.Errorf("Counts.Session: got %d, want 5", sj.Status.Counts.Session)
	}
	if !sj.Status.Avail.Storage {
		t.Error("expected availability.storage=true")
	}
	if sj.Status.Config.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("Config.Broker: got %q", sj.Status.Config.Broker)
	}
	if sj.Status.Config.MaxCount != 9999 {
		t.Errorf("Config.MaxCount: got %d, want 9999", sj.Status.Config.MaxCount)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(fsm.Ready, fsm.Idle, fsm.Synchronized, status.Counts{}, status.Availability{}, 0, 1, 1)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "READY") {
		t.Error("expected state READY in HTML body")
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	resp1, _ := http.Get(ts.URL + "/index.json")
	var sj1 status.StatusJSON
	json.NewDecoder(resp1.Body).Decode(&sj1)
	resp1.Body.Close()
	if sj1.Status.State != "INITIALIZATION" {
		t.Errorf("initial State: got %q, want INITIALIZATION", sj1.Status.State)
	}

	tr.Update(fsm.Production, fsm.Active, fsm.Synchronized,
		status.Counts{Session: 7}, status.Availability{Storage: true}, 1, 10, 2)

	resp2, _ := http.Get(ts.URL + "/index.json")
	var sj2 status.StatusJSON
	json.NewDecoder(resp2.Body).Decode(&sj2)
	resp2.Body.Close()

	if sj2.Status.State != "PRODUCTION" {
		t.Errorf("State after update: got %q, want PRODUCTION", sj2.Status.State)
	}
	if sj2.Status.Counts.Session != 7 {
		t.Errorf("Counts.Session: got %d, want 7", sj2.Status.Counts.Session)
	}
	if sj2.Status.DroppedEvents != 1 {
		t.Errorf("DroppedEvents: got %d, want 1", sj2.Status.DroppedEvents)
	}
}
