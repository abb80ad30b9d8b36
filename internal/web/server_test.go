package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atouliatos/press-controller/internal/press"
	"github.com/atouliatos/press-controller/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Now().Add(-42 * time.Second)
	cfg := status.Config{
		PollMs:      20,
		DebounceMs:  50,
		BlinkMs:     500,
		HeartbeatMs: 5000,
		RefreshMs:   600000,
		Broker:      "tcp://192.168.0.52:1883",
		BackendURL:  "http://192.168.0.52:8000",
		HTTPAddr:    ":8080",
		DeviceID:    "Press-Simulator-01",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func TestStatusEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetState(press.StateRunning)

	resp, err := http.Get(ts.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.DeviceID != "Press-Simulator-01" {
		t.Errorf("device_id: got %q", sj.DeviceID)
	}
	if sj.Press1 != "RUNNING" {
		t.Errorf("press1: got %q, want RUNNING", sj.Press1)
	}
	if sj.Uptime < 42 || sj.Uptime > 43 {
		t.Errorf("uptime: got %d, want ~42", sj.Uptime)
	}
}

func TestRootServesStatus(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	var sj StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if sj.Press1 != "IDLE" {
		t.Errorf("press1: got %q, want IDLE", sj.Press1)
	}
}

func TestStatusEndpointHasNoSideEffects(t *testing.T) {
	ts, tr := newTestServer(t)

	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/status")
		if err != nil {
			t.Fatalf("GET /status: %v", err)
		}
		resp.Body.Close()
	}

	if got := tr.Snapshot().State; got != press.StateIdle {
		t.Errorf("state after reads: got %s, want %s", got, press.StateIdle)
	}
}

func TestDebugEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetState(press.StateWaitingForReason)
	tr.SetMQTTConnected(true)
	tr.SetAuthenticated(true)
	tr.SetIP("192.168.0.77")

	resp, err := http.Get(ts.URL + "/debug.json")
	if err != nil {
		t.Fatalf("GET /debug.json: %v", err)
	}
	defer resp.Body.Close()

	var dj DebugJSON
	if err := json.NewDecoder(resp.Body).Decode(&dj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if dj.Press1 != "WAITING_FOR_REASON" {
		t.Errorf("press1: got %q", dj.Press1)
	}
	if !dj.MQTTConnected || !dj.Authenticated {
		t.Errorf("flags: got mqtt=%v auth=%v, want both true", dj.MQTTConnected, dj.Authenticated)
	}
	if dj.IP != "192.168.0.77" {
		t.Errorf("ip: got %q", dj.IP)
	}
	if dj.Config.Broker != "tcp://192.168.0.52:1883" {
		t.Errorf("config broker: got %q", dj.Config.Broker)
	}
}
