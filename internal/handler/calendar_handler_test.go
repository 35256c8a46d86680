package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type calendarServiceMock struct {
	requested models.YearMonth
	detail    dto.SessionDetail
	detailErr error
}

func (m *calendarServiceMock) Month(month models.YearMonth) dto.CalendarMonth {
	m.requested = month
	return dto.CalendarMonth{Month: month.String()}
}

func (m *calendarServiceMock) Session(string) (dto.SessionDetail, error) {
	return m.detail, m.detailErr
}

var defaultMonth = models.YearMonth{Year: 2026, Month: time.February}

func TestCalendarHandlerMonthDefaultsAndParses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &calendarServiceMock{}
	h := NewCalendarHandler(mock, defaultMonth)

	c, w := newGinContext(http.MethodGet, "/calendar", nil)
	h.Month(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultMonth, mock.requested)

	c, w = newGinContext(http.MethodGet, "/calendar?month=2026-03", nil)
	h.Month(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.March, mock.requested.Month)

	var month dto.CalendarMonth
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &month))
	assert.Equal(t, "2026-03", month.Month)
}

func TestCalendarHandlerMonthInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCalendarHandler(&calendarServiceMock{}, defaultMonth)

	c, w := newGinContext(http.MethodGet, "/calendar?month=February", nil)
	h.Month(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, w).Error.Code)
}

func TestCalendarHandlerSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &calendarServiceMock{detail: dto.SessionDetail{SessionView: dto.SessionView{ID: "2026-02-02-l1"}, NextSpot: "Spot 1 of 4"}}
	h := NewCalendarHandler(mock, defaultMonth)

	c, w := newGinContext(http.MethodGet, "/sessions/2026-02-02-l1", nil)
	c.Params = gin.Params{{Key: "id", Value: "2026-02-02-l1"}}
	h.Session(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Spot 1 of 4")

	mock.detailErr = appErrors.Clone(appErrors.ErrNotFound, "session not found")
	c, w = newGinContext(http.MethodGet, "/sessions/nope", nil)
	h.Session(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
