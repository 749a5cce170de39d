// handlers/customers.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
	"p9e.in/fieldvisits/config"
	"p9e.in/fieldvisits/models"
	"p9e.in/fieldvisits/pkg/reporting"
	"p9e.in/fieldvisits/utils"
)

type contactReq struct {
	ContactName   string `json:"contactName"`
	ContactDetail string `json:"contactDetail"`
}

type customerReq struct {
	Designation string       `json:"designation"`
	CompanyName string       `json:"companyName"`
	Location    string       `json:"location"`
	Email       string       `json:"email"`
	Contacts    []contactReq `json:"contacts"`
}

func (req customerReq) validate() []reporting.FieldError {
	var errs []reporting.FieldError
	if req.CompanyName == "" {
		errs = append(errs, reporting.FieldError{Field: "companyName", Message: "This field is required."})
	}
	if req.Email == "" {
		errs = append(errs, reporting.FieldError{Field: "email", Message: "This field is required."})
	}
	if !slices.Contains(models.DesignationChoices, req.Designation) {
		errs = append(errs, reporting.FieldError{Field: "designation", Message: "Select a valid designation."})
	}
	for _, c := range req.Contacts {
		if c.ContactName == "" {
			errs = append(errs, reporting.FieldError{Field: "contacts", Message: "Contact name is required."})
		}
		if !utils.ValidTZPhone(c.ContactDetail) {
			errs = append(errs, reporting.FieldError{Field: "contacts", Message: "Enter a valid Tanzanian phone number for " + c.ContactName + "."})
		}
	}
	return errs
}

// writeFieldErrors emits the same {field,message} error list shape the report
// endpoints use.
func writeFieldErrors(w http.ResponseWriter, status int, errs []reporting.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"errors": errs})
}

// companyNameTaken checks the company name case-insensitively, excluding the
// record being edited.
func companyNameTaken(name string, excludeID *uuid.UUID) (bool, error) {
	q := config.DB.Model(&models.Customer{}).Where("lower(company_name) = lower(?)", name)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func ListCustomers(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	limit := 20
	offset := (page - 1) * limit

	q := config.DB.Model(&models.Customer{})
	if search := strings.TrimSpace(r.URL.Query().Get("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("lower(company_name) LIKE ? OR lower(location) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		http.Error(w, "DB count error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var customers []models.Customer
	if err := q.
		Preload("Contacts").
		Order("company_name asc").
		Limit(limit).
		Offset(offset).
		Find(&customers).Error; err != nil {
		http.Error(w, "DB error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"total": total,
		"page":  page,
		"limit": limit,
		"data":  customers,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, http.StatusBadRequest, errs)
		return
	}

	taken, err := companyNameTaken(req.CompanyName, nil)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if taken {
		writeFieldErrors(w, http.StatusConflict, []reporting.FieldError{
			{Field: "companyName", Message: "A company with this name already exists."},
		})
		return
	}

	customer := models.Customer{
		Designation: req.Designation,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		Email:       strings.ToLower(req.Email),
	}
	for _, c := range req.Contacts {
		customer.Contacts = append(customer.Contacts, models.CustomerContact{
			ContactName:   c.ContactName,
			ContactDetail: c.ContactDetail,
		})
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint failed") {
			writeFieldErrors(w, http.StatusConflict, []reporting.FieldError{
				{Field: "email", Message: "A company with this name or email already exists."},
			})
		} else {
			http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(customer)
}

func GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	var customer models.Customer
	if err := config.DB.Preload("Contacts").First(&customer, "id = ?", id).Error; err != nil {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(customer)
}

func UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", id).Error; err != nil {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}

	var req customerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, http.StatusBadRequest, errs)
		return
	}

	taken, err := companyNameTaken(req.CompanyName, &id)
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if taken {
		writeFieldErrors(w, http.StatusConflict, []reporting.FieldError{
			{Field: "companyName", Message: "A company with this name already exists."},
		})
		return
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		customer.Designation = req.Designation
		customer.CompanyName = req.CompanyName
		customer.Location = req.Location
		customer.Email = strings.ToLower(req.Email)
		if err := tx.Save(&customer).Error; err != nil {
			return err
		}
		// Contacts are replaced wholesale on edit, matching the inline
		// formset behaviour of the admin form.
		if req.Contacts != nil {
			if err := tx.Where("customer_id = ?", customer.ID).Delete(&models.CustomerContact{}).Error; err != nil {
				return err
			}
			for _, c := range req.Contacts {
				contact := models.CustomerContact{
					CustomerID:    customer.ID,
					ContactName:   c.ContactName,
					ContactDetail: c.ContactDetail,
				}
				if err := tx.Create(&contact).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if err := config.DB.Preload("Contacts").First(&customer, "id = ?", id).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(customer)
}

func DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	result := config.DB.Delete(&models.Customer{}, "id = ?", id)
	if result.Error != nil {
		http.Error(w, "db error: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CustomerSummary returns the visit/order aggregates for one company.
func CustomerSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	var customer models.Customer
	if err := config.DB.First(&customer, "id = ?", id).Error; err != nil {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}

	var visitCount, followUpCount int64
	if err := config.DB.Model(&models.VisitReport{}).
		Where("customer_id = ? AND kind = ?", id, models.KindVisit).
		Count(&visitCount).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if err := config.DB.Model(&models.VisitReport{}).
		Where("customer_id = ? AND kind = ?", id, models.KindFollowUp).
		Count(&followUpCount).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	var orderTotal, paymentTotal float64
	row := config.DB.Model(&models.VisitReport{}).
		Where("customer_id = ?", id).
		Select(
			"coalesce(sum(case when is_order_quoted then order_amount else 0 end), 0)",
			"coalesce(sum(case when is_payment_collected then payment_amount else 0 end), 0)",
		).Row()
	if err := row.Scan(&orderTotal, &paymentTotal); err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"customer":      customer,
		"visitCount":    visitCount,
		"followUpCount": followUpCount,
		"totalOrders":   orderTotal,
		"totalPayments": paymentTotal,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// CustomerPDF renders one company with its contacts as a downloadable PDF.
func CustomerPDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}
	var customer models.Customer
	if err := config.DB.Preload("Contacts").First(&customer, "id = ?", id).Error; err != nil {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, customer.CompanyName)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, "Designation: "+customer.Designation)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Location: "+customer.Location)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Email: "+customer.Email)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Contacts")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 11)
	if len(customer.Contacts) == 0 {
		pdf.Cell(0, 7, "No contacts recorded.")
		pdf.Ln(7)
	}
	for _, c := range customer.Contacts {
		pdf.Cell(0, 7, fmt.Sprintf("%s - %s", c.ContactName, c.ContactDetail))
		pdf.Ln(7)
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="customer.pdf"`)
	if err := pdf.Output(w); err != nil {
		http.Error(w, "pdf error: "+err.Error(), http.StatusInternalServerError)
	}
}
