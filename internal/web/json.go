package web

import (
	"encoding/json"
	"time"

	"github.com/atouliatos/press-controller/internal/status"
)

// StatusJSON is the diagnostic endpoint payload.
type StatusJSON struct {
	DeviceID string `json:"device_id"`
	Press1   string `json:"press1"`
	Uptime   int64  `json:"uptime"`
}

// DebugJSON is the full daemon state for the debug endpoint.
type DebugJSON struct {
	DeviceID      string     `json:"device_id"`
	Press1        string     `json:"press1"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	IP            string     `json:"ip"`
	MQTTConnected bool       `json:"mqtt_connected"`
	Authenticated bool       `json:"authenticated"`
	Config        ConfigJSON `json:"config"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	BlinkMs     int64  `json:"blink_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	RefreshMs   int64  `json:"refresh_ms"`
	Broker      string `json:"broker"`
	BackendURL  string `json:"backend_url"`
	HTTPAddr    string `json:"http_addr"`
}

func formatStatus(snap status.Snapshot) []byte {
	data, _ := json.Marshal(StatusJSON{
		DeviceID: snap.Config.DeviceID,
		Press1:   string(snap.State),
		Uptime:   int64(snap.Uptime().Truncate(time.Second).Seconds()),
	})
	return data
}

func formatDebug(snap status.Snapshot) []byte {
	data, _ := json.MarshalIndent(DebugJSON{
		DeviceID:      snap.Config.DeviceID,
		Press1:        string(snap.State),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		IP:            snap.IP,
		MQTTConnected: snap.MQTTConnected,
		Authenticated: snap.Authenticated,
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			BlinkMs:     snap.Config.BlinkMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			RefreshMs:   snap.Config.RefreshMs,
			Broker:      snap.Config.Broker,
			BackendURL:  snap.Config.BackendURL,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}, "", "  ")
	return data
}
