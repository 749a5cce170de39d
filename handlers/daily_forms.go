// handlers/daily_forms.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fieldvisits/config"
	"p9e.in/fieldvisits/middleware"
	"p9e.in/fieldvisits/models"
)

// ListDailyForms returns the caller's daily forms, newest first. Supervisors
// and admins see all users' forms. An optional kind query narrows to visit or
// followup forms.
func ListDailyForms(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.DailyForm{})

	if role := middleware.GetRole(r); role == models.RoleStaff {
		q = q.Where("user_id = ?", middleware.GetUserID(r))
	}
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind, ok := models.ParseReportKind(raw)
		if !ok {
			http.Error(w, "unknown report kind", http.StatusBadRequest)
			return
		}
		q = q.Where("kind = ?", kind)
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	limit := 20

	var total int64
	if err := q.Count(&total).Error; err != nil {
		http.Error(w, "DB count error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var forms []models.DailyForm
	if err := q.
		Preload("User").
		Preload("Submission").
		Order("date desc, serial_number desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&forms).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  forms,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetDailyForm returns one form with its reports, submission status and the
// place info of each report.
func GetDailyForm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid form id", http.StatusBadRequest)
		return
	}

	var form models.DailyForm
	err = config.DB.
		Preload("User").
		Preload("Submission").
		Preload("Reports").
		Preload("Reports.Customer").
		Preload("Reports.Contact").
		First(&form, "id = ?", id).Error
	if err != nil {
		http.Error(w, "form not found", http.StatusNotFound)
		return
	}

	if role := middleware.GetRole(r); role == models.RoleStaff {
		if form.UserID.String() != middleware.GetUserID(r) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
	}

	rows := make([]reportRow, len(form.Reports))
	for i := range form.Reports {
		rows[i] = reportRow{
			VisitReport: form.Reports[i],
			PlaceInfo:   placeFor(&form.Reports[i]),
		}
	}

	response := map[string]interface{}{
		"form":    form,
		"reports": rows,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
