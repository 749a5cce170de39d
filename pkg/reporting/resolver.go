// Package reporting holds the domain services behind the visit/follow-up
// endpoints: the daily-form resolver, the submission workflow, contact
// resolution and the report validator.
package reporting

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"p9e.in/fieldvisits/models"
)

// ErrSerialConflict is returned when a serial-number collision persists
// after the single retry. The caller surfaces it as a generic failure.
var ErrSerialConflict = errors.New("serial number conflict after retry")

// Service bundles the reporting domain operations around one DB handle.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ResolveDailyForm returns the daily form for (user, day, kind), creating it
// together with its submission record on first use. The create path computes
// the serial number as YYYYMMDD*1000 + count-of-forms-for-that-day + 1;
// concurrent first submissions can collide on the serial or on the
// (user, date, kind) unique index, in which case the loser re-reads and
// either reuses the winner's form or retries the serial once.
func (s *Service) ResolveDailyForm(userID uuid.UUID, day time.Time, kind models.ReportKind) (*models.DailyForm, error) {
	date := truncateToDate(day)

	if form, err := s.findDailyForm(userID, date, kind); err == nil {
		return form, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	form, err := s.createDailyForm(userID, date, kind)
	if err == nil {
		return form, nil
	}
	if !isDuplicateErr(err) {
		return nil, err
	}

	// Another request won a race. If it created our (user, day, kind) form,
	// reuse it; otherwise the collision was on the serial number and we get
	// exactly one retry with a fresh count.
	if form, err := s.findDailyForm(userID, date, kind); err == nil {
		return form, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	form, err = s.createDailyForm(userID, date, kind)
	if err == nil {
		return form, nil
	}
	if isDuplicateErr(err) {
		return nil, ErrSerialConflict
	}
	return nil, err
}

func (s *Service) findDailyForm(userID uuid.UUID, date time.Time, kind models.ReportKind) (*models.DailyForm, error) {
	var form models.DailyForm
	err := s.db.
		Where("user_id = ? AND date = ? AND kind = ?", userID, datatypes.Date(date), kind).
		First(&form).Error
	if err != nil {
		return nil, err
	}
	// A form must always carry its submission row; FirstOrCreate keeps the
	// lookup idempotent if an earlier create was interrupted between the
	// two inserts.
	if err := s.ensureSubmission(s.db, form.ID, userID); err != nil {
		return nil, err
	}
	return &form, nil
}

func (s *Service) createDailyForm(userID uuid.UUID, date time.Time, kind models.ReportKind) (*models.DailyForm, error) {
	var form models.DailyForm
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.DailyForm{}).
			Where("date = ?", datatypes.Date(date)).
			Count(&count).Error; err != nil {
			return err
		}

		form = models.DailyForm{
			UserID:       userID,
			Date:         datatypes.Date(date),
			Kind:         kind,
			SerialNumber: serialNumber(date, count),
		}
		if err := tx.Create(&form).Error; err != nil {
			return err
		}
		return s.ensureSubmission(tx, form.ID, userID)
	})
	if err != nil {
		return nil, err
	}
	return &form, nil
}

func (s *Service) ensureSubmission(tx *gorm.DB, formID, userID uuid.UUID) error {
	return tx.
		Where(models.Submission{DailyFormID: formID}).
		Attrs(models.Submission{UserID: userID, FinalStatus: StatusOpened}).
		FirstOrCreate(&models.Submission{}).Error
}

// serialNumber encodes the date as a YYYYMMDD integer and appends the
// per-day running count in the last three digits.
func serialNumber(date time.Time, existing int64) int64 {
	y, m, d := date.Date()
	return int64(y*10000+int(m)*100+d)*1000 + existing + 1
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// isDuplicateErr recognises unique-constraint violations from both postgres
// and the sqlite driver used in tests.
func isDuplicateErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}
