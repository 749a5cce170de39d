// handlers/users.go
package handlers

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fieldvisits/config"
	"p9e.in/fieldvisits/models"
)

// ListUsers is the admin user listing.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	page := 1
	limit := 20
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	offset := (page - 1) * limit

	q := config.DB.Model(&models.User{})
	if role := r.URL.Query().Get("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		http.Error(w, "DB count error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var users []models.User
	if err := q.
		Order("first_name asc, last_name asc").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  users,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

type userUpdateReq struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
	Position *string `json:"position"`
	Zone     *string `json:"zone"`
	Branch   *string `json:"branch"`
}

// UpdateUser lets an admin change a user's role, activation and placement.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}
	var user models.User
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var req userUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	updates := map[string]interface{}{}
	if req.Role != nil {
		if !slices.Contains([]string{models.RoleStaff, models.RoleSupervisor, models.RoleAdmin}, *req.Role) {
			http.Error(w, "unknown role", http.StatusBadRequest)
			return
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Position != nil {
		if *req.Position != "" && !slices.Contains(models.PositionChoices, *req.Position) {
			http.Error(w, "Select a valid position.", http.StatusBadRequest)
			return
		}
		updates["position"] = *req.Position
	}
	if req.Zone != nil {
		if *req.Zone != "" && !slices.Contains(models.ZoneChoices, *req.Zone) {
			http.Error(w, "Select a valid zone.", http.StatusBadRequest)
			return
		}
		updates["zone"] = *req.Zone
	}
	if req.Branch != nil {
		updates["branch"] = *req.Branch
	}
	if len(updates) == 0 {
		http.Error(w, "nothing to update", http.StatusBadRequest)
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := config.DB.First(&user, "id = ?", id).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
