package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/response"
)

type calendarService interface {
	Month(month models.YearMonth) dto.CalendarMonth
	Session(id string) (dto.SessionDetail, error)
}

// CalendarHandler exposes the month grid and session lookups.
type CalendarHandler struct {
	calendar     calendarService
	defaultMonth models.YearMonth
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendar calendarService, defaultMonth models.YearMonth) *CalendarHandler {
	return &CalendarHandler{calendar: calendar, defaultMonth: defaultMonth}
}

// Month godoc
// @Summary Calendar month grid
// @Description Sunday-to-Saturday weeks with the generated sessions and their live enrollment state
// @Tags Calendar
// @Produce json
// @Param month query string false "Month as YYYY-MM"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	month := h.defaultMonth
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := models.ParseYearMonth(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
			return
		}
		month = parsed
	}
	response.JSON(c, http.StatusOK, h.calendar.Month(month), nil)
}

// Session godoc
// @Summary Session detail
// @Tags Calendar
// @Produce json
// @Param id path string true "Session ID (YYYY-MM-DD-suffix)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *CalendarHandler) Session(c *gin.Context) {
	detail, err := h.calendar.Session(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
