package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	// Generate Month Pay Report
	GenerateMonthPayReport(ctx context.Context, req MonthPayReportRequest) (MonthPayReport, error)

	// Export Month Pay Report as an xlsx workbook; returns the file
	// contents and a suggested filename
	ExportMonthPayWorkbook(ctx context.Context, req MonthPayReportRequest) ([]byte, string, error)
}
