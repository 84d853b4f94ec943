package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/divan/num2words"
	"github.com/shopspring/decimal"

	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
	"github.com/agrilabor/fieldpay-backend/internal/domain/payledger"
	"github.com/agrilabor/fieldpay-backend/internal/domain/report"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/xlsx"
)

type ReportServiceImpl struct {
	reportRepo report.ReportRepository
	ledgerRepo payledger.PayLedgerRepository
}

func NewReportService(reportRepo report.ReportRepository, ledgerRepo payledger.PayLedgerRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo: reportRepo,
		ledgerRepo: ledgerRepo,
	}
}

// GenerateMonthPayReport generates the month pay report
func (s *ReportServiceImpl) GenerateMonthPayReport(ctx context.Context, req report.MonthPayReportRequest) (report.MonthPayReport, error) {
	// Validate request
	if err := req.Validate(); err != nil {
		return report.MonthPayReport{}, err
	}

	// The month header carries the authoritative overall total
	header, err := s.ledgerRepo.GetByMonth(ctx, req.MonthYear)
	if err != nil {
		if errors.Is(err, payledger.ErrCalculationNotFound) {
			return report.MonthPayReport{}, report.ErrNoDataFound
		}
		return report.MonthPayReport{}, fmt.Errorf("failed to get pay calculation: %w", err)
	}

	rows, err := s.reportRepo.GetMonthPayRows(ctx, req.MonthYear)
	if err != nil {
		return report.MonthPayReport{}, fmt.Errorf("failed to get pay rows: %w", err)
	}

	start, end, err := payledger.MonthWindow(req.MonthYear)
	if err != nil {
		return report.MonthPayReport{}, err
	}
	stats, err := s.reportRepo.GetMonthOrderStats(ctx, start, end)
	if err != nil {
		return report.MonthPayReport{}, fmt.Errorf("failed to get order stats: %w", err)
	}

	// Calculate totals and spell out net amounts
	rpt := report.MonthPayReport{
		MonthYear:       req.MonthYear,
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		OverallTotal:    header.OverallTotal,
		WorkerCount:     len(rows),
		DeductionTotals: make(map[string]deduction.Amounts),
		Orders:          stats,
	}
	for i := range rows {
		rows[i].NetInWords = amountInWords(rows[i].NetSalary, rows[i].Currency)
		rpt.TotalGross = rpt.TotalGross.Add(rows[i].GrossSalary)
		rpt.TotalWorkerDeductions = rpt.TotalWorkerDeductions.Add(rows[i].WorkerDeductions)
		rpt.TotalEmployerDeductions = rpt.TotalEmployerDeductions.Add(rows[i].EmployerDeductions)
		rpt.TotalNet = rpt.TotalNet.Add(rows[i].NetSalary)

		for code, amounts := range rows[i].DeductionBreakdown {
			sum := rpt.DeductionTotals[code]
			sum.Worker = sum.Worker.Add(amounts.Worker)
			sum.Employer = sum.Employer.Add(amounts.Employer)
			rpt.DeductionTotals[code] = sum
		}
	}
	rpt.Rows = rows

	return rpt, nil
}

// ExportMonthPayWorkbook renders the month pay report as an xlsx workbook
func (s *ReportServiceImpl) ExportMonthPayWorkbook(ctx context.Context, req report.MonthPayReportRequest) ([]byte, string, error) {
	rpt, err := s.GenerateMonthPayReport(ctx, req)
	if err != nil {
		return nil, "", err
	}

	register := xlsx.Sheet{
		Name: "Pay Register",
		Headers: []string{
			"Worker Code", "Worker Name", "Gross Salary",
			"Worker Deductions", "Employer Deductions", "Net Salary",
			"Currency", "Net In Words",
		},
		Widths: map[string]float64{
			"A": 14, "B": 28, "C": 16, "D": 18, "E": 18, "F": 16, "G": 10, "H": 60,
		},
	}
	for _, row := range rpt.Rows {
		register.Rows = append(register.Rows, []interface{}{
			row.WorkerCode,
			row.WorkerName,
			row.GrossSalary.InexactFloat64(),
			row.WorkerDeductions.InexactFloat64(),
			row.EmployerDeductions.InexactFloat64(),
			row.NetSalary.InexactFloat64(),
			row.Currency,
			row.NetInWords,
		})
	}
	register.Footers = [][]interface{}{
		{
			"Totals", "",
			rpt.TotalGross.InexactFloat64(),
			rpt.TotalWorkerDeductions.InexactFloat64(),
			rpt.TotalEmployerDeductions.InexactFloat64(),
			rpt.TotalNet.InexactFloat64(),
		},
		{"Overall Total (net)", "", rpt.OverallTotal.InexactFloat64()},
	}

	deductions := xlsx.Sheet{
		Name:    "Deductions",
		Headers: []string{"Code", "Worker Total", "Employer Total"},
		Widths:  map[string]float64{"A": 16, "B": 16, "C": 16},
	}
	codes := make([]string, 0, len(rpt.DeductionTotals))
	for code := range rpt.DeductionTotals {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		sum := rpt.DeductionTotals[code]
		deductions.Rows = append(deductions.Rows, []interface{}{
			code,
			sum.Worker.InexactFloat64(),
			sum.Employer.InexactFloat64(),
		})
	}

	orders := xlsx.Sheet{
		Name:    "Work Orders",
		Headers: []string{"Metric", "Count"},
		Rows: [][]interface{}{
			{"Total orders", rpt.Orders.TotalOrders},
			{"Processed for payroll", rpt.Orders.ProcessedOrders},
			{"Ongoing", rpt.Orders.Ongoing},
			{"Pending", rpt.Orders.Pending},
			{"Completed", rpt.Orders.Completed},
			{"Rejected", rpt.Orders.Rejected},
			{"Amendment required", rpt.Orders.AmendmentRequired},
		},
		Widths: map[string]float64{"A": 26, "B": 10},
	}

	content, err := xlsx.Build(register, deductions, orders)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	filename := fmt.Sprintf("pay-register-%s.xlsx", rpt.MonthYear)
	return content, filename, nil
}

// amountInWords spells out a monetary amount, keeping cents as a
// fraction ("one thousand and 75/100 LKR").
func amountInWords(amount decimal.Decimal, currency string) string {
	units := amount.IntPart()
	cents := amount.Sub(decimal.NewFromInt(units)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents < 0 {
		cents = -cents
	}

	words := num2words.Convert(int(units))
	if cents > 0 {
		return fmt.Sprintf("%s and %02d/100 %s", words, cents, currency)
	}
	return fmt.Sprintf("%s %s", words, currency)
}
