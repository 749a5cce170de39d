// models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognised by the API. Field staff submit reports, supervisors
// review daily submissions, admins manage users and master data.
const (
	RoleStaff      = "staff"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// Positions carried over from the sales org chart. Stored as plain text;
// the UI renders them as a dropdown.
var PositionChoices = []string{
	"Head of Sales",
	"Facilitator",
	"Product Brand Manager",
	"Corporate Manager",
	"Corporate Officer",
	"Zonal Sales Executive",
	"Mobile Sales Officer",
	"Desk Sales Officer",
	"Admin",
}

var ZoneChoices = []string{
	"Coast Zone",
	"Corporate",
	"Central Zone",
	"Southern Zone",
	"Northern Zone",
	"Lake Zone",
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName    string    `gorm:"size:50" json:"firstName"`
	LastName     string    `gorm:"size:50" json:"lastName"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Position     string    `gorm:"size:100" json:"position"`
	Zone         string    `gorm:"size:100" json:"zone"`
	Branch       string    `gorm:"size:100" json:"branch"`
	Role         string    `gorm:"size:20;not null;default:staff" json:"role"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

// FullName joins first and last name for listings and PDF headers.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
