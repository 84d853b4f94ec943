package http

import (
	"fmt"
	"net/http"

	"github.com/agrilabor/fieldpay-backend/internal/domain/report"
	"github.com/agrilabor/fieldpay-backend/internal/handler/http/response"
)

type ReportHandler interface {
	// Month Pay Register
	GetMonthPayReport(w http.ResponseWriter, r *http.Request)
	ExportMonthPayReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMonthPayReport handles GET /reports/pay-register
func (h *reportHandlerImpl) GetMonthPayReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "month parameter is required", nil)
		return
	}

	req := report.MonthPayReportRequest{
		MonthYear: month,
	}

	result, err := h.reportService.GenerateMonthPayReport(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthPayReport handles GET /reports/pay-register/export
func (h *reportHandlerImpl) ExportMonthPayReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "month parameter is required", nil)
		return
	}

	req := report.MonthPayReportRequest{
		MonthYear: month,
	}

	content, filename, err := h.reportService.ExportMonthPayWorkbook(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(content)
}
