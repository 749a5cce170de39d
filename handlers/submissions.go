// handlers/submissions.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"p9e.in/fieldvisits/config"
	"p9e.in/fieldvisits/models"
	"p9e.in/fieldvisits/pkg/reporting"
)

// ListSubmissions is the supervisor review queue. Filterable by status;
// newest forms first.
func ListSubmissions(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Submission{})

	if status := r.URL.Query().Get("status"); status != "" {
		if !reporting.ValidStatus(status) {
			http.Error(w, "unknown status", http.StatusBadRequest)
			return
		}
		q = q.Where("final_status = ?", status)
	}
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind, ok := models.ParseReportKind(raw)
		if !ok {
			http.Error(w, "unknown report kind", http.StatusBadRequest)
			return
		}
		q = q.Joins("JOIN daily_forms ON daily_forms.id = submissions.daily_form_id").
			Where("daily_forms.kind = ?", kind)
	}
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		q = q.Where("submissions.daily_form_id IN (?)",
			config.DB.Model(&models.DailyForm{}).Select("id").Where("date = ?", datatypes.Date(day)))
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

	var subs []models.Submission
	if err := q.
		Preload("User").
		Preload("DailyForm").
		Order("submissions.created_at desc").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&subs).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  subs,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateSubmissionStatus handles PUT /submissions/{id}/status.
func UpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid submission id", http.StatusBadRequest)
		return
	}

	var req statusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	svc := reporting.NewService(config.DB)
	sub, err := svc.UpdateSubmissionStatus(id, req.Status)
	if errors.Is(err, reporting.ErrInvalidStatus) {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}
	if errors.Is(err, reporting.ErrSubmissionNotFound) {
		http.Error(w, "submission not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sub)
}
