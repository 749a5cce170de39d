package reporting

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/fieldvisits/models"
)

// PageSize is the listing page length.
const PageSize = 20

// CreateReport validates a submitted report, resolves the user's daily form
// for today and persists the record with its contact snapshot. Validation
// failures come back in the FieldError slice; the error return is reserved
// for storage problems.
func (s *Service) CreateReport(userID uuid.UUID, in ReportInput) (*models.VisitReport, []FieldError, error) {
	var contacts []models.CustomerContact
	var companyErrs []FieldError
	if in.CompanyID != "" {
		if companyID, err := uuid.Parse(in.CompanyID); err == nil {
			// A well-formed id that matches no company is rejected the same
			// way a malformed one is; an empty contact set alone cannot tell
			// the two apart.
			var customer models.Customer
			err := s.db.First(&customer, "id = ?", companyID).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				companyErrs = append(companyErrs, FieldError{Field: "companyId", Message: "Select a valid company."})
			case err != nil:
				return nil, nil, err
			default:
				contacts, err = s.ContactsForCompany(companyID)
				if err != nil {
					return nil, nil, err
				}
			}
		}
	}

	validated, fieldErrs := Validate(in, contacts)
	fieldErrs = append(fieldErrs, companyErrs...)
	if len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	form, err := s.ResolveDailyForm(userID, time.Now().UTC(), in.Kind)
	if err != nil {
		return nil, nil, err
	}

	report := models.VisitReport{
		DailyFormID:        form.ID,
		Kind:               validated.Kind,
		CustomerID:         validated.CustomerID,
		ContactID:          validated.ContactID,
		ProductionLine:     validated.ProductionLine,
		Latitude:           &validated.Latitude,
		Longitude:          &validated.Longitude,
		MeetingPurpose:     validated.MeetingPurpose,
		MeetingOutcome:     validated.MeetingOutcome,
		ItemDiscussed:      validated.ItemDiscussed,
		IsOrderQuoted:      validated.IsOrderQuoted.Bool(),
		OrderAmount:        validated.OrderAmount,
		ReasonNoOrder:      validated.ReasonNoOrder,
		IsPaymentCollected: validated.IsPaymentCollected.Bool(),
		PaymentAmount:      validated.PaymentAmount,
		ReasonNoPayment:    validated.ReasonNoPayment,
		AddedByID:          &userID,
	}

	if validated.ContactID != nil {
		snap, err := s.SnapshotForContact(*validated.ContactID)
		if err != nil {
			return nil, nil, err
		}
		report.ContactNumber = snap.ContactNumber
		report.Designation = snap.Designation
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, nil, err
	}
	return &report, nil, nil
}

// ReportFilter narrows a report listing. UserID scopes to one reporter;
// CreatedDate keeps only records created on that calendar day.
type ReportFilter struct {
	Kind        models.ReportKind
	UserID      *uuid.UUID
	CreatedDate *time.Time
	Page        int
}

// ReportPage is one page of a filtered listing plus its aggregates.
type ReportPage struct {
	Reports    []models.VisitReport `json:"reports"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
	Totals     *Totals              `json:"totals"`
}

// ListReports returns one page of reports matching the filter, newest first,
// with totals computed over the whole filtered set.
func (s *Service) ListReports(filter ReportFilter) (*ReportPage, error) {
	base := func() *gorm.DB {
		q := s.db.Where("visit_reports.kind = ?", filter.Kind)
		if filter.UserID != nil {
			q = q.Where("visit_reports.added_by_id = ?", *filter.UserID)
		}
		if filter.CreatedDate != nil {
			day := truncateToDate(*filter.CreatedDate)
			q = q.Where("visit_reports.created_at >= ? AND visit_reports.created_at < ?", day, day.AddDate(0, 0, 1))
		}
		return q
	}

	totals, err := computeTotals(base)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	totalPages := int((totals.ReportCount + PageSize - 1) / PageSize)
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	reports := []models.VisitReport{}
	err = base().
		Preload("Customer").
		Preload("Contact").
		Preload("DailyForm").
		Preload("AddedBy").
		Order("visit_reports.created_at desc").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	return &ReportPage{Reports: reports, Page: page, TotalPages: totalPages, Totals: totals}, nil
}

// AllReports returns every report matching the filter, newest first, for the
// export endpoints.
func (s *Service) AllReports(filter ReportFilter) ([]models.VisitReport, error) {
	reports := []models.VisitReport{}
	q := s.db.Where("visit_reports.kind = ?", filter.Kind)
	if filter.UserID != nil {
		q = q.Where("visit_reports.added_by_id = ?", *filter.UserID)
	}
	if filter.CreatedDate != nil {
		day := truncateToDate(*filter.CreatedDate)
		q = q.Where("visit_reports.created_at >= ? AND visit_reports.created_at < ?", day, day.AddDate(0, 0, 1))
	}
	err := q.
		Preload("Customer").
		Preload("Contact").
		Preload("DailyForm").
		Preload("AddedBy").
		Order("visit_reports.created_at desc").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}
