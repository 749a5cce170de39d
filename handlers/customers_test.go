package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"p9e.in/fieldvisits/config"
	"p9e.in/fieldvisits/models"
	"p9e.in/fieldvisits/pkg/reporting"
)

func newHandlerDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Customer{}, &models.CustomerContact{},
		&models.DailyForm{}, &models.Submission{}, &models.VisitReport{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	old := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = old })
}

func postCustomer(t *testing.T, body customerReq) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers", bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	CreateCustomer(rr, req)
	return rr
}

func decodeFieldErrors(t *testing.T, rr *httptest.ResponseRecorder) []reporting.FieldError {
	t.Helper()
	var body struct {
		Errors []reporting.FieldError `json:"errors"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Errors
}

func TestCreateCustomerValidationFieldErrors(t *testing.T) {
	newHandlerDB(t)

	rr := postCustomer(t, customerReq{
		Designation: "CEO", // not a valid choice
		Contacts: []contactReq{
			{ContactName: "Amy", ContactDetail: "12345"},
		},
	})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	errs := decodeFieldErrors(t, rr)

	want := map[string]bool{"companyName": false, "email": false, "designation": false, "contacts": false}
	for _, e := range errs {
		if _, ok := want[e.Field]; ok {
			want[e.Field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("missing field error for %s in %v", field, errs)
		}
	}
}

func TestCreateCustomerDuplicateNameFieldError(t *testing.T) {
	newHandlerDB(t)

	first := postCustomer(t, customerReq{
		Designation: "Contractor",
		CompanyName: "Kilima Construction Ltd",
		Email:       "info@kilima.example",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("seed create status = %d, body %s", first.Code, first.Body)
	}

	// Same name, different case and email.
	second := postCustomer(t, customerReq{
		Designation: "Contractor",
		CompanyName: "KILIMA construction ltd",
		Email:       "other@kilima.example",
	})
	if second.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", second.Code)
	}

	errs := decodeFieldErrors(t, second)
	found := false
	for _, e := range errs {
		if e.Field == "companyName" && e.Message == "A company with this name already exists." {
			found = true
		}
	}
	if !found {
		t.Errorf("want structured companyName conflict error, got %v", errs)
	}
}
