package dto

import "github.com/noah-isme/course-registration-api/internal/models"

// SummaryFilter narrows the pivot summary. Empty fields match everything.
type SummaryFilter struct {
	Course string `form:"course"`
	Date   string `form:"date"`
	Time   string `form:"time"`
}

// SummaryRow is one course|date|time group.
type SummaryRow struct {
	Course      models.CourseLevel `json:"course"`
	SessionDate string             `json:"sessionDate"`
	SessionTime string             `json:"sessionTime"`
	Count       int                `json:"count"`
}

// SummaryOptions lists the filter values present before filtering.
type SummaryOptions struct {
	Courses []string `json:"courses"`
	Dates   []string `json:"dates"`
	Times   []string `json:"times"`
}

// RegistrationSummary is the response of GET /registrations/summary.
type RegistrationSummary struct {
	Rows           []SummaryRow   `json:"rows"`
	Total          int            `json:"total"`
	UniqueSessions int            `json:"uniqueSessions"`
	Options        SummaryOptions `json:"options"`
	Filter         SummaryFilter  `json:"filter"`
}
