package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type registrationService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.RegistrationResult, error)
	List(req dto.RegistrationListRequest) ([]models.EnrollmentRecord, *models.Pagination, error)
}

type summaryService interface {
	Summary(filter dto.SummaryFilter) dto.RegistrationSummary
}

type exportService interface {
	Export(req dto.ExportRequest) (*dto.ExportFile, error)
}

// RegistrationHandler exposes submission, ledger, summary and export endpoints.
type RegistrationHandler struct {
	registrations registrationService
	summaries     summaryService
	exports       exportService
}

// NewRegistrationHandler constructs handler.
func NewRegistrationHandler(registrations registrationService, summaries summaryService, exports exportService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, summaries: summaries, exports: exports}
}

// Register godoc
// @Summary Register a student for a session
// @Description Seats the student in the session's capacity bucket. Series sessions register through their week 1 date.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrMalformedInput.Code, appErrors.ErrMalformedInput.Status, "invalid registration payload"))
		return
	}
	result, err := h.registrations.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil, map[string]interface{}{
		"persisted":  result.Persisted,
		"syncQueued": result.SyncQueued,
	})
}

// List godoc
// @Summary Registration ledger
// @Tags Registrations
// @Produce json
// @Param course query string false "Course level name or slug"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	var req dto.RegistrationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	records, pagination, err := h.registrations.List(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Summary godoc
// @Summary Registrations grouped by course, date and time
// @Tags Registrations
// @Produce json
// @Param course query string false "Course filter"
// @Param date query string false "Session date filter (YYYY-MM-DD)"
// @Param time query string false "Session time filter (e.g. 4:00 PM)"
// @Success 200 {object} response.Envelope
// @Router /registrations/summary [get]
func (h *RegistrationHandler) Summary(c *gin.Context) {
	var filter dto.SummaryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	response.JSON(c, http.StatusOK, h.summaries.Summary(filter), nil)
}

// Export godoc
// @Summary Download the ledger or the summary
// @Tags Registrations
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param view query string false "ledger or summary" default(ledger)
// @Param course query string false "Summary course filter"
// @Param date query string false "Summary date filter"
// @Param time query string false "Summary time filter"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /registrations/export [get]
func (h *RegistrationHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	file, err := h.exports.Export(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}
