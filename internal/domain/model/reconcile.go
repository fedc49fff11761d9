package model

import "time"

// ReconcileFailure records why one order could not be checked.
type ReconcileFailure struct {
	OrderID int64
	Error   string
}

// ReconcileSummary reports one delivery reconciliation run.
type ReconcileSummary struct {
	Checked   int
	Updated   int
	Errors    int
	Failures  []ReconcileFailure
	Timestamp time.Time
}
