// models/customer.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Designation choices for a customer company. The designation lives on the
// Customer, not on individual contacts; visit snapshots copy it from here.
var DesignationChoices = []string{"Owner", "Engineer", "Contractor"}

// Customer is a company the sales force visits. company_name and email are
// unique; the company-name check is case-insensitive and enforced in the
// handler on top of the DB constraint.
type Customer struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Designation string    `gorm:"size:100;not null" json:"designation"`
	CompanyName string    `gorm:"size:200;uniqueIndex;not null" json:"companyName"`
	Location    string    `gorm:"size:200" json:"location"`
	Email       string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Contacts []CustomerContact `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

// CustomerContact is a person at a customer company. ContactDetail holds the
// phone number, validated against the Tanzanian mobile pattern on intake.
type CustomerContact struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID    uuid.UUID `gorm:"type:uuid;index;not null" json:"customerId"`
	Customer      *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	ContactName   string    `gorm:"size:150;not null" json:"contactName"`
	ContactDetail string    `gorm:"size:150;not null" json:"contactDetail"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CustomerContact) TableName() string {
	return "customer_contacts"
}

func (c *CustomerContact) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}
