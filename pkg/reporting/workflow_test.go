package reporting

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"p9e.in/fieldvisits/models"
)

func TestValidStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"opened", true},
		{"approved", true},
		{"rejected", true},
		{"resubmit", true},
		{"Approved", false},
		{"closed", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidStatus(tt.status); got != tt.want {
			t.Errorf("ValidStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestUpdateSubmissionStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")

	form, err := svc.ResolveDailyForm(user.ID, time.Now().UTC(), models.KindVisit)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var sub models.Submission
	if err := db.First(&sub, "daily_form_id = ?", form.ID).Error; err != nil {
		t.Fatalf("load submission: %v", err)
	}

	// Any transition between the four statuses is allowed, including
	// reopening a resubmitted form.
	for _, status := range []string{StatusApproved, StatusResubmit, StatusOpened, StatusRejected} {
		updated, err := svc.UpdateSubmissionStatus(sub.ID, status)
		if err != nil {
			t.Fatalf("update to %s: %v", status, err)
		}
		if updated.FinalStatus != status {
			t.Errorf("status = %q, want %q", updated.FinalStatus, status)
		}
	}
}

func TestUpdateSubmissionStatusRejectsUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	if _, err := svc.UpdateSubmissionStatus(uuid.New(), "closed"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("want ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.UpdateSubmissionStatus(uuid.New(), StatusApproved); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("want ErrSubmissionNotFound, got %v", err)
	}
}
