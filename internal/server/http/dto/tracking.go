package dto

import (
	"time"

	"github.com/polkiloo/cherrytrack/internal/domain/model"
)

// TrackingEvent is one line of the courier trace.
type TrackingEvent struct {
	Time    string `json:"time"`
	Context string `json:"context"`
}

// TrackingResponse is the on-demand tracking body.
type TrackingResponse struct {
	Success        bool            `json:"success"`
	TrackingNumber string          `json:"tracking_number"`
	State          string          `json:"state"`
	StateText      string          `json:"state_text"`
	Data           []TrackingEvent `json:"data"`
	Company        string          `json:"company"`
}

// TrackingFailureResponse is returned when the provider has no trace yet.
type TrackingFailureResponse struct {
	Success        bool   `json:"success"`
	Error          string `json:"error"`
	TrackingNumber string `json:"tracking_number"`
}

// ReconcileFailure names an order the reconciliation could not check.
type ReconcileFailure struct {
	OrderID int64  `json:"order_id"`
	Error   string `json:"error"`
}

// ReconcileResponse summarizes one reconciliation pass.
type ReconcileResponse struct {
	Checked   int                `json:"checked"`
	Updated   int                `json:"updated"`
	Errors    int                `json:"errors"`
	Failures  []ReconcileFailure `json:"failures"`
	Timestamp string             `json:"timestamp"`
}

// NewTrackingFailureResponse converts a soft provider failure.
func NewTrackingFailureResponse(r model.TrackingResult) TrackingFailureResponse {
	return TrackingFailureResponse{Success: false, Error: r.Error, TrackingNumber: r.TrackingNumber}
}

// NewTrackingResponse converts a successful tracking result.
func NewTrackingResponse(r model.TrackingResult) TrackingResponse {
	events := make([]TrackingEvent, 0, len(r.Events))
	for _, e := range r.Events {
		events = append(events, TrackingEvent{Time: e.Time, Context: e.Description})
	}
	return TrackingResponse{
		Success:        true,
		TrackingNumber: r.TrackingNumber,
		State:          string(r.State),
		StateText:      r.StateText,
		Data:           events,
		Company:        r.CarrierName,
	}
}

// NewReconcileResponse converts a reconciliation summary.
func NewReconcileResponse(s model.ReconcileSummary) ReconcileResponse {
	failures := make([]ReconcileFailure, 0, len(s.Failures))
	for _, f := range s.Failures {
		failures = append(failures, ReconcileFailure{OrderID: f.OrderID, Error: f.Error})
	}
	return ReconcileResponse{
		Checked:   s.Checked,
		Updated:   s.Updated,
		Errors:    s.Errors,
		Failures:  failures,
		Timestamp: s.Timestamp.UTC().Format(time.RFC3339),
	}
}
