package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/export"
)

// Column headers of the ledger export.
var ledgerHeaders = []string{"Timestamp", "Student", "Email", "Phone", "Course", "Start Date", "Session Time", "Is Series", "Payment"}

var summaryHeaders = []string{"Course", "Start Date", "Session Time", "Registrations"}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportService renders the ledger and the pivot summary as downloads.
type ExportService struct {
	source    recordSource
	renderers map[string]datasetRenderer
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// pkg/export implementations.
func NewExportService(source recordSource, loc *time.Location, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		source: source,
		renderers: map[string]datasetRenderer{
			dto.ExportFormatCSV: csv,
			dto.ExportFormatPDF: pdf,
		},
		loc:    loc,
		logger: logger,
		now:    time.Now,
	}
}

// Export renders the requested view in the requested format.
func (s *ExportService) Export(req dto.ExportRequest) (*dto.ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = dto.ExportFormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}

	view := strings.ToLower(strings.TrimSpace(req.View))
	if view == "" {
		view = dto.ExportViewLedger
	}

	var data export.Dataset
	switch view {
	case dto.ExportViewLedger:
		data = s.ledgerDataset()
	case dto.ExportViewSummary:
		data = s.summaryDataset(req.SummaryFilter)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export view %q", req.View))
	}

	content, err := renderer.Render(data)
	if err != nil {
		s.logger.Error("render export failed", zap.String("format", format), zap.String("view", view), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &dto.ExportFile{
		Filename:    fmt.Sprintf("registrations-%s-%s.%s", view, s.now().In(s.loc).Format("20060102-150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func (s *ExportService) ledgerDataset() export.Dataset {
	records := s.source.Records()
	rows := make([][]string, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		rows = append(rows, []string{
			r.Timestamp.In(s.loc).Format("2006-01-02 15:04"),
			r.StudentName,
			r.ParentEmail,
			r.ParentPhone,
			string(r.Course),
			r.SessionDate,
			r.SessionTime,
			r.SeriesLabel(),
			string(r.Payment()),
		})
	}
	return export.Dataset{Title: "Registration Ledger", Headers: ledgerHeaders, Rows: rows}
}

func (s *ExportService) summaryDataset(filter dto.SummaryFilter) export.Dataset {
	summary := Summarize(s.source.Records(), filter)
	rows := make([][]string, 0, len(summary.Rows)+1)
	for _, row := range summary.Rows {
		rows = append(rows, []string{string(row.Course), row.SessionDate, row.SessionTime, strconv.Itoa(row.Count)})
	}
	rows = append(rows, []string{"Total", "", "", strconv.Itoa(summary.Total)})
	return export.Dataset{Title: "Registration Summary", Headers: summaryHeaders, Rows: rows}
}
