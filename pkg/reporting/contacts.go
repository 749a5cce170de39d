package reporting

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/fieldvisits/models"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrContactNotFound  = errors.New("contact not found")
)

// ContactsForCompany returns the contacts of one company ordered by name,
// for the dependent contact dropdown. A company with no contacts yields an
// empty slice, not an error.
func (s *Service) ContactsForCompany(customerID uuid.UUID) ([]models.CustomerContact, error) {
	contacts := []models.CustomerContact{}
	err := s.db.
		Where("customer_id = ?", customerID).
		Order("contact_name asc").
		Find(&contacts).Error
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

// ContactSnapshot is the point-in-time data copied onto a report when it is
// created. The designation comes from the contact's company, not the contact.
type ContactSnapshot struct {
	ContactNumber string `json:"contactNumber"`
	Designation   string `json:"designation"`
}

// SnapshotForContact loads the snapshot fields for one contact.
func (s *Service) SnapshotForContact(contactID uuid.UUID) (*ContactSnapshot, error) {
	var contact models.CustomerContact
	err := s.db.Preload("Customer").First(&contact, "id = ?", contactID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	snap := &ContactSnapshot{ContactNumber: contact.ContactDetail}
	if contact.Customer != nil {
		snap.Designation = contact.Customer.Designation
	}
	return snap, nil
}
