package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/fieldvisits/handlers"
	"p9e.in/fieldvisits/middleware"
	"p9e.in/fieldvisits/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.GetCurrentUser).Methods("GET")
	api.HandleFunc("/change-password", handlers.ChangePassword).Methods("POST")

	// Customer master data
	api.HandleFunc("/customers", handlers.ListCustomers).Methods("GET")
	api.HandleFunc("/customers", handlers.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers/{id}", handlers.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id}", handlers.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id}", handlers.DeleteCustomer).Methods("DELETE")
	api.HandleFunc("/customers/{id}/summary", handlers.CustomerSummary).Methods("GET")
	api.HandleFunc("/customers/{id}/pdf", handlers.CustomerPDF).Methods("GET")

	// Dependent dropdowns
	api.HandleFunc("/companies/{id}/contacts", handlers.CompanyContacts).Methods("GET")
	api.HandleFunc("/contacts/{id}/details", handlers.ContactDetails).Methods("GET")

	// Visit and follow-up reports
	api.HandleFunc("/reports/{kind}", handlers.CreateReport).Methods("POST")
	api.HandleFunc("/reports/{kind}", handlers.ListReports).Methods("GET")
	api.HandleFunc("/reports/{kind}/export.xlsx", handlers.ExportReportsExcel).Methods("GET")
	api.HandleFunc("/reports/{kind}/export.pdf", handlers.ExportReportsPDF).Methods("GET")
	api.HandleFunc("/reports/{kind}/{id}", handlers.GetReport).Methods("GET")

	// Daily forms
	api.HandleFunc("/daily-forms", handlers.ListDailyForms).Methods("GET")
	api.HandleFunc("/daily-forms/{id}", handlers.GetDailyForm).Methods("GET")

	// =====================================================
	// Supervisor Routes (review queue)
	// =====================================================
	reviewRoles := []string{models.RoleSupervisor, models.RoleAdmin}
	api.Handle("/submissions", middleware.RequireRole(reviewRoles,
		http.HandlerFunc(handlers.ListSubmissions))).Methods("GET")
	api.Handle("/submissions/{id}/status", middleware.RequireRole(reviewRoles,
		http.HandlerFunc(handlers.UpdateSubmissionStatus))).Methods("PUT")

	// =====================================================
	// Admin Routes
	// =====================================================
	adminRoles := []string{models.RoleAdmin}
	api.Handle("/admin/users", middleware.RequireRole(adminRoles,
		http.HandlerFunc(handlers.ListUsers))).Methods("GET")
	api.Handle("/admin/users/{id}", middleware.RequireRole(adminRoles,
		http.HandlerFunc(handlers.UpdateUser))).Methods("PUT")

	return r
}
