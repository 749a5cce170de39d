package config

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/fieldvisits/models"
)

// SeedUsers creates the default admin account if no admin exists yet.
func SeedUsers() {
	var count int64
	if err := DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		log.Printf("Warning: admin seeding check failed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("ChangeMe@123"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: could not hash admin password: %v", err)
		return
	}
	admin := models.User{
		FirstName:    "System",
		LastName:     "Admin",
		Email:        "admin@fieldvisits.local",
		Phone:        "0712000000",
		PasswordHash: string(hash),
		Position:     "Sales Manager",
		Zone:         "HQ",
		Branch:       "Dar es Salaam",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("Warning: admin seeding failed: %v", err)
		return
	}
	log.Println("Seeded default admin user", admin.Email)
}

// SeedCustomers creates a couple of demo companies with contacts so a fresh
// install has dropdown data. Skips if any customer exists.
func SeedCustomers() {
	var existing models.Customer
	err := DB.First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Warning: customer seeding check failed: %v", err)
		return
	}

	customers := []models.Customer{
		{
			Designation: "Contractor",
			CompanyName: "Kilima Construction Ltd",
			Location:    "Dar es Salaam",
			Email:       "info@kilima.example",
			Contacts: []models.CustomerContact{
				{ContactName: "Amina Hassan", ContactDetail: "0713456789"},
				{ContactName: "Joseph Mushi", ContactDetail: "0755123456"},
			},
		},
		{
			Designation: "Engineer",
			CompanyName: "Mwanza Roofing Supplies",
			Location:    "Mwanza",
			Email:       "sales@mwanzaroofing.example",
			Contacts: []models.CustomerContact{
				{ContactName: "Grace Komba", ContactDetail: "0765987654"},
			},
		},
	}
	for _, c := range customers {
		if err := DB.Create(&c).Error; err != nil {
			log.Printf("Warning: customer seeding failed for %s: %v", c.CompanyName, err)
		}
	}
	log.Println("Seeded demo customers")
}
