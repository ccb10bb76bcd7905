package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"voiceatis/pkg/atis"
	"voiceatis/pkg/core"
	"voiceatis/pkg/directory"
	"voiceatis/pkg/model"
	"voiceatis/pkg/network"
	"voiceatis/pkg/playback"
)

// LoopSource supplies the last control loop cycle.
type LoopSource interface {
	Status() core.Status
}

// PlaybackSource supplies the playback state.
type PlaybackSource interface {
	State() playback.State
}

// DirectorySource supplies the airport directory snapshot.
type DirectorySource interface {
	Snapshot() *directory.Snapshot
}

// NetworkSource supplies the online station snapshot.
type NetworkSource interface {
	Snapshot() *network.Snapshot
}

// RadioStatus is one tuned receiver in the status response.
type RadioStatus struct {
	Radio     string `json:"radio"`
	Frequency string `json:"frequency"`
	Receiving bool   `json:"receiving"`
}

// BroadcastStatus describes the currently resolved broadcast.
type BroadcastStatus struct {
	Kind       string `json:"kind"`
	Station    string `json:"station,omitempty"`
	Airport    string `json:"airport,omitempty"`
	Name       string `json:"name,omitempty"`
	InfoLetter string `json:"info_letter,omitempty"`
	Playback   string `json:"playback"`
}

// SnapshotStatus describes the freshness of a background dataset.
type SnapshotStatus struct {
	Count      int    `json:"count"`
	AgeSeconds int    `json:"age_seconds"`
	Stamp      string `json:"stamp,omitempty"`
}

// StatusResponse is the full /api/status payload.
type StatusResponse struct {
	TelemetryOK bool            `json:"telemetry_ok"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	OnGround    bool            `json:"on_ground"`
	Radios      []RadioStatus   `json:"radios"`
	Broadcast   BroadcastStatus `json:"broadcast"`
	Directory   SnapshotStatus  `json:"directory"`
	Network     SnapshotStatus  `json:"network"`
}

// StatusHandler serves the consolidated status endpoint.
type StatusHandler struct {
	loop LoopSource
	pb   PlaybackSource
	dir  DirectorySource
	net  NetworkSource
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(loop LoopSource, pb PlaybackSource, dir DirectorySource, net NetworkSource) *StatusHandler {
	return &StatusHandler{loop: loop, pb: pb, dir: dir, net: net}
}

// HandleStatus writes the status JSON.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	st := h.loop.Status()

	resp := StatusResponse{
		TelemetryOK: st.TelemetryOK,
		Latitude:    st.Telemetry.Latitude,
		Longitude:   st.Telemetry.Longitude,
		OnGround:    st.Telemetry.IsOnGround,
		Radios:      make([]RadioStatus, 0, len(st.Radios)),
		Broadcast:   broadcastStatus(st.Resolved, h.pb.State()),
	}

	for _, radio := range st.Radios {
		resp.Radios = append(resp.Radios, RadioStatus{
			Radio:     string(radio.Radio),
			Frequency: model.FormatKHz(radio.KHz),
			Receiving: radio.Receiving,
		})
	}

	if snap := h.dir.Snapshot(); snap != nil {
		resp.Directory = SnapshotStatus{
			Count:      snap.Count(),
			AgeSeconds: int(time.Since(snap.BuiltAt).Seconds()),
			Stamp:      snap.BuiltAt.UTC().Format(time.RFC3339),
		}
	}
	if snap := h.net.Snapshot(); snap != nil {
		resp.Network = SnapshotStatus{
			Count:      snap.Count(),
			AgeSeconds: int(snap.Age().Seconds()),
			Stamp:      snap.UpdatedAt.UTC().Format(time.RFC3339),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode status response", "error", err)
	}
}

func broadcastStatus(resolved model.ResolvedBroadcast, state playback.State) BroadcastStatus {
	bs := BroadcastStatus{
		Kind:     resolved.Kind.String(),
		Playback: string(state),
	}
	if resolved.Station != nil {
		bs.Station = resolved.Station.Callsign
		parsed := atis.Parse(resolved.Station.AtisLines, atis.DetectDialect(resolved.Station))
		bs.InfoLetter = parsed.InfoLetter
	}
	if resolved.Airport != nil {
		bs.Airport = resolved.Airport.ICAO
		bs.Name = resolved.Airport.Name
	}
	return bs
}
