// handlers/export.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"p9e.in/fieldvisits/config"
	"p9e.in/fieldvisits/middleware"
	"p9e.in/fieldvisits/models"
	"p9e.in/fieldvisits/pkg/reporting"
)

var exportHeaders = []string{
	"Serial No", "Date", "Reported By", "Company", "Contact", "Contact Number",
	"Designation", "Production Line", "Purpose", "Outcome", "Item Discussed",
	"Order Quoted", "Order Amount", "Reason (No Order)",
	"Payment Collected", "Payment Amount", "Reason (No Payment)",
}

func exportFilter(r *http.Request, kind models.ReportKind) (reporting.ReportFilter, error) {
	filter := reporting.ReportFilter{Kind: kind}
	if role := middleware.GetRole(r); role == models.RoleStaff {
		userID, err := uuid.Parse(middleware.GetUserID(r))
		if err != nil {
			return filter, err
		}
		filter.UserID = &userID
	}
	if raw := r.URL.Query().Get("created_date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.CreatedDate = &day
	}
	return filter, nil
}

func exportRow(report *models.VisitReport) []interface{} {
	var serial int64
	var date string
	if report.DailyForm != nil {
		serial = report.DailyForm.SerialNumber
		date = time.Time(report.DailyForm.Date).Format("2006-01-02")
	}
	reportedBy := ""
	if report.AddedBy != nil {
		reportedBy = report.AddedBy.FullName()
	}
	company := ""
	if report.Customer != nil {
		company = report.Customer.CompanyName
	}
	contact := ""
	if report.Contact != nil {
		contact = report.Contact.ContactName
	}
	orderAmount := ""
	if report.OrderAmount != nil {
		orderAmount = report.OrderAmount.StringFixed(2)
	}
	paymentAmount := ""
	if report.PaymentAmount != nil {
		paymentAmount = report.PaymentAmount.StringFixed(2)
	}
	return []interface{}{
		serial, date, reportedBy, company, contact, report.ContactNumber,
		report.Designation, report.ProductionLine, report.MeetingPurpose,
		report.MeetingOutcome, report.ItemDiscussed,
		report.IsOrderQuoted, orderAmount, report.ReasonNoOrder,
		report.IsPaymentCollected, paymentAmount, report.ReasonNoPayment,
	}
}

// ExportReportsExcel handles GET /reports/{kind}/export.xlsx.
func ExportReportsExcel(w http.ResponseWriter, r *http.Request) {
	kind, ok := reportKind(r)
	if !ok {
		http.Error(w, "unknown report kind", http.StatusNotFound)
		return
	}
	filter, err := exportFilter(r, kind)
	if err != nil {
		http.Error(w, "bad filter: "+err.Error(), http.StatusBadRequest)
		return
	}

	svc := reporting.NewService(config.DB)
	reports, err := svc.AllReports(filter)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Reports"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, report := range reports {
		values := exportRow(&report)
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("%s_reports_%s.xlsx", kind, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}

// ExportReportsPDF handles GET /reports/{kind}/export.pdf: a landscape table
// of the filtered reports with the order/payment totals at the bottom.
func ExportReportsPDF(w http.ResponseWriter, r *http.Request) {
	kind, ok := reportKind(r)
	if !ok {
		http.Error(w, "unknown report kind", http.StatusNotFound)
		return
	}
	filter, err := exportFilter(r, kind)
	if err != nil {
		http.Error(w, "bad filter: "+err.Error(), http.StatusBadRequest)
		return
	}

	svc := reporting.NewService(config.DB)
	reports, err := svc.AllReports(filter)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	page, err := svc.ListReports(filter)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	title := "Visit Reports"
	if kind == models.KindFollowUp {
		title = "Follow-up Reports"
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	cols := []struct {
		header string
		width  float64
	}{
		{"Serial No", 28},
		{"Date", 22},
		{"Reported By", 35},
		{"Company", 45},
		{"Contact", 35},
		{"Purpose", 45},
		{"Order Amt", 30},
		{"Payment Amt", 30},
	}

	pdf.SetFont("Arial", "B", 9)
	for _, c := range cols {
		pdf.CellFormat(c.width, 8, c.header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, report := range reports {
		var serial int64
		var date string
		if report.DailyForm != nil {
			serial = report.DailyForm.SerialNumber
			date = time.Time(report.DailyForm.Date).Format("2006-01-02")
		}
		reportedBy := ""
		if report.AddedBy != nil {
			reportedBy = report.AddedBy.FullName()
		}
		company := ""
		if report.Customer != nil {
			company = report.Customer.CompanyName
		}
		contact := ""
		if report.Contact != nil {
			contact = report.Contact.ContactName
		}
		orderAmount := ""
		if report.OrderAmount != nil {
			orderAmount = report.OrderAmount.StringFixed(2)
		}
		paymentAmount := ""
		if report.PaymentAmount != nil {
			paymentAmount = report.PaymentAmount.StringFixed(2)
		}

		pdf.CellFormat(cols[0].width, 7, fmt.Sprintf("%d", serial), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1].width, 7, date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2].width, 7, reportedBy, "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3].width, 7, company, "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[4].width, 7, contact, "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[5].width, 7, report.MeetingPurpose, "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[6].width, 7, orderAmount, "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[7].width, 7, paymentAmount, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(0, 7, fmt.Sprintf("Reports: %d    Orders quoted: %d (Tsh %s)    Payments collected: %d (Tsh %s)",
		page.Totals.ReportCount, page.Totals.OrdersQuoted, page.Totals.TotalOrderAmount.StringFixed(2),
		page.Totals.PaymentsCollected, page.Totals.TotalPayment.StringFixed(2)))

	filename := fmt.Sprintf("%s_reports_%s.pdf", kind, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Failed to generate PDF file: "+err.Error(), http.StatusInternalServerError)
	}
}
