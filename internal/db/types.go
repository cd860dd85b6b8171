package db

import (
	"time"

	"github.com/google/uuid"
)

// Report is a stored report artifact.
type Report struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Kind      string    `json:"kind"`
	Client    string    `json:"client"`
	FileName  string    `json:"file_name"`
	Pages     int       `json:"pages"`
	Warnings  []string  `json:"warnings"`
	PlanText  string    `json:"plan_text,omitempty"`
	Content   []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportSummary is a Report without its content and plan text.
type ReportSummary struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Client    string    `json:"client"`
	FileName  string    `json:"file_name"`
	Pages     int       `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportFilters narrows ListReports. Zero values mean no filter.
type ReportFilters struct {
	Client string
	Kind   string
	Limit  int
	Offset int
}
