package model

// TrackingState is the courier progress code reported by the tracking provider.
type TrackingState string

const (
	TrackingStateInTransit      TrackingState = "0"
	TrackingStatePickedUp       TrackingState = "1"
	TrackingStateException      TrackingState = "2"
	TrackingStateDelivered      TrackingState = "3"
	TrackingStateReturnSigned   TrackingState = "4"
	TrackingStateOutForDelivery TrackingState = "5"
	TrackingStateReturned       TrackingState = "6"
)

var trackingStateText = map[TrackingState]string{
	TrackingStateInTransit:      "运输中",
	TrackingStatePickedUp:       "已揽收",
	TrackingStateException:      "疑难件",
	TrackingStateDelivered:      "已签收",
	TrackingStateReturnSigned:   "退签",
	TrackingStateOutForDelivery: "派送中",
	TrackingStateReturned:       "退回",
}

// Text returns the localized label, "未知状态" for codes outside 0..6.
func (s TrackingState) Text() string {
	if text, ok := trackingStateText[s]; ok {
		return text
	}
	return "未知状态"
}

// TrackingEvent is one entry of the courier trace.
type TrackingEvent struct {
	Time        string
	Description string
}

// TrackingResult is the normalized provider reply.
//
// Success=false is the provider's "no data yet" answer: it is a normal
// result, not an error, and only Error and TrackingNumber are set.
type TrackingResult struct {
	Success        bool
	TrackingNumber string
	State          TrackingState
	StateText      string
	Events         []TrackingEvent
	CarrierName    string
	Error          string
}

// Delivered reports whether the provider considers the parcel signed for.
func (r TrackingResult) Delivered() bool {
	return r.Success && r.State == TrackingStateDelivered
}
