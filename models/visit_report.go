// models/visit_report.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Production lines offered to customers.
var ProductionLineChoices = []string{
	"RESIN_ROOFING_SHEETS",
	"ROOF_PAINT",
	"UPVC",
	"WALL_COATING",
	"ZEBRA_TILES",
}

// VisitReport is one visit or follow-up record under a daily form. The
// contact number and designation are a point-in-time snapshot taken when the
// record is created; they are not kept in sync with the contact or customer
// afterwards. Payment-outcome fields are only populated for the followup
// kind.
type VisitReport struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DailyFormID uuid.UUID  `gorm:"type:uuid;index;not null" json:"dailyFormId"`
	DailyForm   *DailyForm `gorm:"foreignKey:DailyFormID;constraint:OnDelete:CASCADE" json:"dailyForm,omitempty"`
	Kind        ReportKind `gorm:"size:10;index;not null" json:"kind"`

	CustomerID *uuid.UUID       `gorm:"type:uuid;index" json:"customerId,omitempty"`
	Customer   *Customer        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	ContactID  *uuid.UUID       `gorm:"type:uuid;index" json:"contactId,omitempty"`
	Contact    *CustomerContact `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"contact,omitempty"`

	// Snapshot fields, filled from the contact and its customer at creation.
	ContactNumber string `gorm:"size:255" json:"contactNumber"`
	Designation   string `gorm:"size:255" json:"designation"`

	ProductionLine string `gorm:"size:30" json:"productionLine"`

	// Nullable so records imported without a fix render "Not Available"
	// instead of looking like a point at 0,0.
	Latitude  *decimal.Decimal `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude *decimal.Decimal `gorm:"type:decimal(9,6)" json:"longitude"`

	MeetingPurpose string `gorm:"size:255;not null" json:"meetingPurpose"`
	MeetingOutcome string `gorm:"size:255;not null" json:"meetingOutcome"`
	ItemDiscussed  string `gorm:"size:255" json:"itemDiscussed"`

	IsOrderQuoted bool             `gorm:"default:false" json:"isOrderQuoted"`
	OrderAmount   *decimal.Decimal `gorm:"type:decimal(20,2)" json:"orderAmount,omitempty"`
	ReasonNoOrder string           `gorm:"type:text" json:"reasonNoOrder,omitempty"`

	IsPaymentCollected bool             `gorm:"default:false" json:"isPaymentCollected"`
	PaymentAmount      *decimal.Decimal `gorm:"type:decimal(20,2)" json:"paymentAmount,omitempty"`
	ReasonNoPayment    string           `gorm:"type:text" json:"reasonNoPayment,omitempty"`

	AddedByID *uuid.UUID `gorm:"type:uuid" json:"addedById,omitempty"`
	AddedBy   *User      `gorm:"foreignKey:AddedByID;constraint:OnDelete:SET NULL" json:"addedBy,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (VisitReport) TableName() string {
	return "visit_reports"
}

func (v *VisitReport) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
