package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	State         string     `json:"state"`
	Production    string     `json:"production"`
	Time          string     `json:"time_sync"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Counts        CountsJSON `json:"counts"`
	Avail         AvailJSON  `json:"availability"`
	DroppedEvents uint32     `json:"dropped_events"`
	Events        uint32     `json:"events"`
	Transitions   uint32     `json:"transitions"`
	Config        ConfigJSON `json:"config"`
}

// CountsJSON is the JSON representation of the production counters.
type CountsJSON struct {
	Session    int `json:"session"`
	Total      int `json:"total"`
	Hourly     int `json:"hourly"`
	Cumulative int `json:"cumulative"`
}

// AvailJSON is the JSON representation of collaborator availability.
type AvailJSON struct {
	Storage bool `json:"storage"`
	Clock   bool `json:"clock"`
	Display bool `json:"display"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs     int64  `json:"poll_ms"`
	SaveMs     int64  `json:"save_ms"`
	MaxCount   int    `json:"max_count"`
	Broker     string `json:"broker"`
	HTTPAddr   string `json:"http_addr"`
	DataDir    string `json:"data_dir"`
	PinCounter int    `json:"pin_counter"`
	PinLatch   int    `json:"pin_latch"`
	PinDiag    int    `json:"pin_diagnostic"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.State)
	if state == "" {
		state = "UNKNOWN"
	}

	return StatusInner{
		State:         state,
		Production:    string(snap.Production),
		Time:          string(snap.Time),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Counts: CountsJSON{
			Session:    snap.Counts.Session,
			Total:      snap.Counts.Total,
			Hourly:     snap.Counts.Hourly,
			Cumulative: snap.Counts.Cumulative,
		},
		Avail: AvailJSON{
			Storage: snap.Avail.Storage,
			Clock:   snap.Avail.Clock,
			Display: snap.Avail.Display,
		},
		DroppedEvents: snap.Dropped,
		Events:        snap.Events,
		Transitions:   snap.Transitions,
		Config: ConfigJSON{
			PollMs:     snap.Config.PollMs,
			SaveMs:     snap.Config.SaveMs,
			MaxCount:   snap.Config.MaxCount,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
			DataDir:    snap.Config.DataDir,
			PinCounter: snap.Config.PinCounter,
			PinLatch:   snap.Config.PinLatch,
			PinDiag:    snap.Config.PinDiag,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
