package schema

import "time"

// Alert is one notification event derived from a behavior profile diff.
// Alerts are created on re-check only; a first analysis has nothing to diff
// against. Immutable after creation except ReadAt, which transitions once
// from nil to a timestamp.
type Alert struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	AnalysisID  string        `json:"analysis_id"`
	Category    AlertCategory `json:"category"`
	Severity    AlertSeverity `json:"severity"`
	Title       string        `json:"title"`
	Body        string        `json:"body"`
	WhatChanged string        `json:"what_changed,omitempty"`
	NextStep    string        `json:"next_step,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	ReadAt      *time.Time    `json:"read_at,omitempty"`
}
