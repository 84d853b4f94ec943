package report

import "errors"

var (
	ErrNoDataFound            = errors.New("no payroll data recorded for the requested month")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
