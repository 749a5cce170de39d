// models/daily_form.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportKind tags a daily form (and its records) as either a first-visit
// report or a follow-up report. The two kinds share one table; follow-ups
// additionally carry the payment-outcome fields.
type ReportKind string

const (
	KindVisit    ReportKind = "visit"
	KindFollowUp ReportKind = "followup"
)

// ParseReportKind maps the URL segment used by the report endpoints to a
// ReportKind. Returns false for anything else.
func ParseReportKind(s string) (ReportKind, bool) {
	switch s {
	case "visits":
		return KindVisit, true
	case "followups":
		return KindFollowUp, true
	}
	return "", false
}

// DailyForm groups one user's report records for one day. At most one form
// exists per (user, date, kind); the serial number is globally unique and
// assigned once at creation.
type DailyForm struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_daily_forms_user_date_kind,priority:1" json:"userId"`
	User         *User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Date         datatypes.Date `gorm:"not null;uniqueIndex:idx_daily_forms_user_date_kind,priority:2" json:"date"`
	Kind         ReportKind     `gorm:"size:10;not null;uniqueIndex:idx_daily_forms_user_date_kind,priority:3" json:"kind"`
	SerialNumber int64          `gorm:"uniqueIndex;not null" json:"serialNumber"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"createdAt"`

	Reports    []VisitReport `gorm:"foreignKey:DailyFormID" json:"reports,omitempty"`
	Submission *Submission   `gorm:"foreignKey:DailyFormID" json:"submission,omitempty"`
}

func (DailyForm) TableName() string {
	return "daily_forms"
}

func (f *DailyForm) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// Submission tracks the review status of one daily form. Created exactly
// once, together with the form; status changes are supervisor-driven
// single-field updates.
type Submission struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DailyFormID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"dailyFormId"`
	DailyForm   *DailyForm `gorm:"foreignKey:DailyFormID;constraint:OnDelete:CASCADE" json:"dailyForm,omitempty"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"userId"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	FinalStatus string     `gorm:"size:10;not null;default:opened" json:"finalStatus"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (Submission) TableName() string {
	return "submissions"
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
