package dto

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// Export views.
const (
	ExportViewLedger  = "ledger"
	ExportViewSummary = "summary"
)

// ExportRequest captures GET /registrations/export query parameters.
type ExportRequest struct {
	Format string `form:"format"`
	View   string `form:"view"`
	SummaryFilter
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
