package models

import "time"

// ReportInput is the payload for submitting an issue report.
type ReportInput struct {
	OrderID     int    `json:"order_id,omitempty"`
	IssueType   string `json:"issue_type"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
}

// Report represents a submitted issue report.
type Report struct {
	ID          string    `json:"id"`
	OrderID     int       `json:"order_id,omitempty"`
	IssueType   string    `json:"issue_type"`
	Subject     string    `json:"subject"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
