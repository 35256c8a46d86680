package models

import "time"

// PaymentStatus mirrors the spreadsheet "paymentProcessed" column.
type PaymentStatus string

// Payment statuses. Confirmation happens outside this service, so new
// records always start as PaymentStatusNo.
const (
	PaymentStatusYes PaymentStatus = "Yes"
	PaymentStatusNo  PaymentStatus = "No"
)

// StudentInfo is the validated form submission.
type StudentInfo struct {
	StudentName string `json:"studentName"`
	ParentEmail string `json:"parentEmail"`
	ParentPhone string `json:"parentPhone"`
}

// RosterEntry is one seat under a capacity key.
type RosterEntry struct {
	StudentInfo
	Timestamp time.Time `json:"timestamp"`
}

// EnrollmentRecord is an accepted registration. It is immutable once created
// and its JSON shape is the payload of both the durable copy and the remote sink.
type EnrollmentRecord struct {
	StudentName      string        `json:"studentName"`
	ParentEmail      string        `json:"parentEmail"`
	ParentPhone      string        `json:"parentPhone"`
	Timestamp        time.Time     `json:"timestamp"`
	SessionDate      string        `json:"sessionDate"`
	SessionTime      string        `json:"sessionTime"`
	Course           CourseLevel   `json:"course"`
	IsSeries         bool          `json:"isSeries"`
	PaymentProcessed PaymentStatus `json:"paymentProcessed"`
}

// SeriesLabel renders the ledger "Is Series" column.
func (r EnrollmentRecord) SeriesLabel() string {
	if r.IsSeries {
		return "Yes (3-Week Series)"
	}
	return "No (Workshop)"
}

// Payment returns the payment flag, defaulting to "No".
func (r EnrollmentRecord) Payment() PaymentStatus {
	if r.PaymentProcessed == "" {
		return PaymentStatusNo
	}
	return r.PaymentProcessed
}

// RecordFilter narrows ledger listings.
type RecordFilter struct {
	Course   CourseLevel
	Page     int
	PageSize int
}

// Pagination describes a paged listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
