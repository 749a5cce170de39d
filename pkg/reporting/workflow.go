package reporting

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/fieldvisits/models"
)

// Review statuses of a submission. Every form starts opened; supervisors move
// it to approved, rejected or resubmit. A resubmitted form may be reopened by
// a further status change; no transition is forbidden.
const (
	StatusOpened   = "opened"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusResubmit = "resubmit"
)

var (
	ErrInvalidStatus      = errors.New("invalid submission status")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// ValidStatus reports whether s is one of the four review statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpened, StatusApproved, StatusRejected, StatusResubmit:
		return true
	}
	return false
}

// UpdateSubmissionStatus sets the review status of one submission. Only the
// status column is written.
func (s *Service) UpdateSubmissionStatus(submissionID uuid.UUID, status string) (*models.Submission, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var sub models.Submission
	if err := s.db.First(&sub, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&sub).Update("final_status", status).Error; err != nil {
		return nil, err
	}
	sub.FinalStatus = status
	return &sub, nil
}
