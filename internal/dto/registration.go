package dto

import (
	"strings"

	"github.com/noah-isme/course-registration-api/internal/models"
)

// RegisterRequest captures POST /registrations payload.
type RegisterRequest struct {
	SessionID   string `json:"sessionId" validate:"required"`
	StudentName string `json:"studentName" validate:"required"`
	ParentEmail string `json:"parentEmail" validate:"required,email"`
	ParentPhone string `json:"parentPhone" validate:"required,min=7"`
}

// Normalize trims every field in place.
func (r *RegisterRequest) Normalize() {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.StudentName = strings.TrimSpace(r.StudentName)
	r.ParentEmail = strings.TrimSpace(r.ParentEmail)
	r.ParentPhone = strings.TrimSpace(r.ParentPhone)
}

// StudentInfo extracts the student details.
func (r RegisterRequest) StudentInfo() models.StudentInfo {
	return models.StudentInfo{
		StudentName: r.StudentName,
		ParentEmail: r.ParentEmail,
		ParentPhone: r.ParentPhone,
	}
}

// RegistrationResult is returned after a successful registration.
type RegistrationResult struct {
	Record      models.EnrollmentRecord `json:"record"`
	CapacityKey string                  `json:"capacityKey"`
	Occupancy   int                     `json:"occupancy"`
	Capacity    int                     `json:"capacity"`
	Persisted   bool                    `json:"-"`
	SyncQueued  bool                    `json:"-"`
}

// RegistrationListRequest captures GET /registrations query parameters.
type RegistrationListRequest struct {
	Course   string `form:"course"`
	Page     int    `form:"page"`
	PageSize int    `form:"limit"`
}
