// handlers/visits.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/paulmach/orb"
	"p9e.in/fieldvisits/config"
	"p9e.in/fieldvisits/middleware"
	"p9e.in/fieldvisits/models"
	"p9e.in/fieldvisits/pkg/geocode"
	"p9e.in/fieldvisits/pkg/reporting"
)

var geocoder = geocode.NewClient()

func reportKind(r *http.Request) (models.ReportKind, bool) {
	return models.ParseReportKind(mux.Vars(r)["kind"])
}

// CreateReport handles POST /reports/{kind}. Validation failures come back as
// a 400 with the per-field error list; a passing report lands on the caller's
// daily form for today, creating the form and its submission on first use.
func CreateReport(w http.ResponseWriter, r *http.Request) {
	kind, ok := reportKind(r)
	if !ok {
		http.Error(w, "unknown report kind", http.StatusNotFound)
		return
	}
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var in reporting.ReportInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	in.Kind = kind

	svc := reporting.NewService(config.DB)
	report, fieldErrs, err := svc.CreateReport(userID, in)
	if err != nil {
		http.Error(w, "could not save report: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if len(fieldErrs) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{"errors": fieldErrs})
		return
	}

	if err := config.DB.Preload("DailyForm").First(report, "id = ?", report.ID).Error; err == nil && report.DailyForm != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"report":       report,
			"serialNumber": report.DailyForm.SerialNumber,
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{"report": report})
}

type reportRow struct {
	models.VisitReport
	PlaceInfo geocode.Place `json:"placeInfo"`
}

func placeFor(report *models.VisitReport) geocode.Place {
	if report.Latitude == nil || report.Longitude == nil {
		return geocode.NotAvailable
	}
	lat, _ := report.Latitude.Float64()
	lon, _ := report.Longitude.Float64()
	return geocoder.Reverse(orb.Point{lon, lat})
}

// ListReports handles GET /reports/{kind}. Staff see their own records;
// supervisors and admins see everything. Each row on the page carries its
// reverse-geocoded place info; the totals cover the whole filtered set.
func ListReports(w http.ResponseWriter, r *http.Request) {
	kind, ok := reportKind(r)
	if !ok {
		http.Error(w, "unknown report kind", http.StatusNotFound)
		return
	}

	filter := reporting.ReportFilter{Kind: kind}

	if role := middleware.GetRole(r); role == models.RoleStaff {
		userID, err := uuid.Parse(middleware.GetUserID(r))
		if err != nil {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}
		filter.UserID = &userID
	}

	if raw := r.URL.Query().Get("created_date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "created_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.CreatedDate = &day
	}
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		filter.Page = p
	}

	svc := reporting.NewService(config.DB)
	page, err := svc.ListReports(filter)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	rows := make([]reportRow, len(page.Reports))
	for i := range page.Reports {
		rows[i] = reportRow{
			VisitReport: page.Reports[i],
			PlaceInfo:   placeFor(&page.Reports[i]),
		}
	}

	response := map[string]interface{}{
		"reports":    rows,
		"page":       page.Page,
		"totalPages": page.TotalPages,
		"totals":     page.Totals,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetReport handles GET /reports/{kind}/{id}.
func GetReport(w http.ResponseWriter, r *http.Request) {
	kind, ok := reportKind(r)
	if !ok {
		http.Error(w, "unknown report kind", http.StatusNotFound)
		return
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid report id", http.StatusBadRequest)
		return
	}

	var report models.VisitReport
	err = config.DB.
		Preload("Customer").
		Preload("Contact").
		Preload("DailyForm").
		Preload("AddedBy").
		First(&report, "id = ? AND kind = ?", id, kind).Error
	if err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	if role := middleware.GetRole(r); role == models.RoleStaff {
		if report.AddedByID == nil || report.AddedByID.String() != middleware.GetUserID(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reportRow{VisitReport: report, PlaceInfo: placeFor(&report)})
}
