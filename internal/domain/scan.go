package domain

import (
	"time"

	"github.com/google/uuid"
)

// AnonymousUser is recorded for scans made without a user identity
const AnonymousUser = "anonymous"

// Scan is a persisted scoring event
type Scan struct {
	ID        uuid.UUID         `json:"id"`
	UserID    string            `json:"userId"`
	Product   ProductAttributes `json:"product"`
	Breakdown EcoScoreBreakdown `json:"breakdown"`
	ScannedAt time.Time         `json:"scannedAt"`
}

// ScanResult is what a scan request returns to the caller
type ScanResult struct {
	Scan
	// Recorded is false when the scan could not be persisted
	Recorded bool `json:"recorded"`
}

// UserStats summarizes a user's scan history
type UserStats struct {
	UserID         string  `json:"userId"`
	TotalScans     int     `json:"totalScans"`
	AverageScore   float64 `json:"averageScore"`
	BestScore      int     `json:"bestScore"`
	AIScans        int     `json:"aiScans"`
	HeuristicScans int     `json:"heuristicScans"`
}
