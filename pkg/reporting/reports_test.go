package reporting

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"p9e.in/fieldvisits/models"
)

func TestCreateReportPersistsSnapshot(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")

	customer := models.Customer{
		Designation: "Owner",
		CompanyName: "Kilima Construction Ltd",
		Email:       "info@kilima.example",
		Contacts: []models.CustomerContact{
			{ContactName: "Amina Hassan", ContactDetail: "0713456789"},
		},
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	in := validInput(models.KindVisit)
	in.CompanyID = customer.ID.String()
	in.ContactPersonID = customer.Contacts[0].ID.String()
	in.IsOrderQuoted = "True"
	in.OrderAmount = "2500000"

	report, fieldErrs, err := svc.CreateReport(user.ID, in)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if len(fieldErrs) > 0 {
		t.Fatalf("unexpected field errors: %v", fieldErrs)
	}

	if report.ContactNumber != "0713456789" {
		t.Errorf("snapshot contact number = %q", report.ContactNumber)
	}
	if report.Designation != "Owner" {
		t.Errorf("snapshot designation = %q, want the company's designation", report.Designation)
	}
	if report.AddedByID == nil || *report.AddedByID != user.ID {
		t.Errorf("added by = %v, want %v", report.AddedByID, user.ID)
	}

	var form models.DailyForm
	if err := db.First(&form, "id = ?", report.DailyFormID).Error; err != nil {
		t.Fatalf("daily form missing: %v", err)
	}
	if form.UserID != user.ID || form.Kind != models.KindVisit {
		t.Errorf("report landed on wrong form: user %v kind %s", form.UserID, form.Kind)
	}
}

func TestCreateReportRejectsUnknownCompany(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")

	in := validInput(models.KindVisit)
	// Well-formed uuid, but no such company exists.
	in.CompanyID = "fb1552f3-4c6c-4e1e-9f5a-1d2e3f4a5b6c"

	report, fieldErrs, err := svc.CreateReport(user.ID, in)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if report != nil {
		t.Fatal("report with unknown company was accepted")
	}
	if !hasError(fieldErrs, "companyId", "Select a valid company.") {
		t.Errorf("want companyId error, got %v", fieldErrs)
	}

	var count int64
	db.Model(&models.VisitReport{}).Count(&count)
	if count != 0 {
		t.Errorf("dangling report persisted, count = %d", count)
	}
}

func TestCreateReportValidationFailureSavesNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")

	in := validInput(models.KindVisit)
	in.Latitude = ""

	report, fieldErrs, err := svc.CreateReport(user.ID, in)
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if report != nil || len(fieldErrs) == 0 {
		t.Fatalf("want field errors and no report, got %v / %v", report, fieldErrs)
	}

	var count int64
	db.Model(&models.VisitReport{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected report was persisted, count = %d", count)
	}
	db.Model(&models.DailyForm{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected report created a daily form, count = %d", count)
	}
}

func TestListReportsTotalsAndPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")

	// 25 follow-ups: odd ones collect a payment of 1000, even ones quote an
	// order of 500.
	for i := 0; i < 25; i++ {
		in := validInput(models.KindFollowUp)
		in.MeetingPurpose = fmt.Sprintf("Follow up %d", i)
		if i%2 == 0 {
			in.IsOrderQuoted = "True"
			in.OrderAmount = "500"
		} else {
			in.IsPaymentCollected = "True"
			in.PaymentAmount = "1000"
		}
		if _, fieldErrs, err := svc.CreateReport(user.ID, in); err != nil || len(fieldErrs) > 0 {
			t.Fatalf("create %d: %v / %v", i, err, fieldErrs)
		}
	}

	page, err := svc.ListReports(ReportFilter{Kind: models.KindFollowUp, Page: 1})
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}

	if len(page.Reports) != PageSize {
		t.Errorf("page size = %d, want %d", len(page.Reports), PageSize)
	}
	if page.TotalPages != 2 {
		t.Errorf("total pages = %d, want 2", page.TotalPages)
	}
	if page.Totals.ReportCount != 25 {
		t.Errorf("report count = %d, want 25", page.Totals.ReportCount)
	}
	if page.Totals.OrdersQuoted != 13 {
		t.Errorf("orders quoted = %d, want 13", page.Totals.OrdersQuoted)
	}
	if page.Totals.PaymentsCollected != 12 {
		t.Errorf("payments collected = %d, want 12", page.Totals.PaymentsCollected)
	}
	if !page.Totals.TotalOrderAmount.Equal(decimal.NewFromInt(6500)) {
		t.Errorf("order total = %s, want 6500", page.Totals.TotalOrderAmount)
	}
	if !page.Totals.TotalPayment.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("payment total = %s, want 12000", page.Totals.TotalPayment)
	}

	second, err := svc.ListReports(ReportFilter{Kind: models.KindFollowUp, Page: 2})
	if err != nil {
		t.Fatalf("ListReports page 2: %v", err)
	}
	if len(second.Reports) != 5 {
		t.Errorf("second page size = %d, want 5", len(second.Reports))
	}

	// Visits listing sees none of the follow-ups.
	visits, err := svc.ListReports(ReportFilter{Kind: models.KindVisit})
	if err != nil {
		t.Fatalf("ListReports visits: %v", err)
	}
	if visits.Totals.ReportCount != 0 {
		t.Errorf("visit count = %d, want 0", visits.Totals.ReportCount)
	}
}
