package reporting

import (
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"p9e.in/fieldvisits/models"
)

func TestResolveDailyFormCreatesFormAndSubmission(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")
	day := time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)

	form, err := svc.ResolveDailyForm(user.ID, day, models.KindVisit)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if want := int64(20250618001); form.SerialNumber != want {
		t.Errorf("serial = %d, want %d", form.SerialNumber, want)
	}

	var sub models.Submission
	if err := db.First(&sub, "daily_form_id = ?", form.ID).Error; err != nil {
		t.Fatalf("submission not created: %v", err)
	}
	if sub.FinalStatus != StatusOpened {
		t.Errorf("new submission status = %q, want %q", sub.FinalStatus, StatusOpened)
	}
	if sub.UserID != user.ID {
		t.Errorf("submission user = %v, want %v", sub.UserID, user.ID)
	}
}

func TestResolveDailyFormIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")
	day := time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)

	first, err := svc.ResolveDailyForm(user.ID, day, models.KindVisit)
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	// Later the same day, different wall-clock time.
	second, err := svc.ResolveDailyForm(user.ID, day.Add(7*time.Hour), models.KindVisit)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("same day resolved to two forms: %v and %v", first.ID, second.ID)
	}

	var formCount, subCount int64
	db.Model(&models.DailyForm{}).Count(&formCount)
	db.Model(&models.Submission{}).Count(&subCount)
	if formCount != 1 || subCount != 1 {
		t.Errorf("want 1 form and 1 submission, got %d and %d", formCount, subCount)
	}
}

func TestResolveDailyFormSerialsAreUniquePerDay(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := newTestUser(t, db, "alice@example.com", "0712345671")
	bob := newTestUser(t, db, "bob@example.com", "0712345672")
	day := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	seen := map[int64]bool{}
	cases := []struct {
		user models.User
		kind models.ReportKind
	}{
		{*alice, models.KindVisit},
		{*alice, models.KindFollowUp},
		{*bob, models.KindVisit},
	}
	for i, c := range cases {
		form, err := svc.ResolveDailyForm(c.user.ID, day, c.kind)
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		if seen[form.SerialNumber] {
			t.Errorf("serial %d issued twice", form.SerialNumber)
		}
		seen[form.SerialNumber] = true

		if want := int64(20250618000) + int64(i) + 1; form.SerialNumber != want {
			t.Errorf("serial = %d, want %d", form.SerialNumber, want)
		}
	}
}

func TestResolveDailyFormSeparatesKinds(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")
	day := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	visit, err := svc.ResolveDailyForm(user.ID, day, models.KindVisit)
	if err != nil {
		t.Fatalf("visit resolve: %v", err)
	}
	followUp, err := svc.ResolveDailyForm(user.ID, day, models.KindFollowUp)
	if err != nil {
		t.Fatalf("followup resolve: %v", err)
	}
	if visit.ID == followUp.ID {
		t.Error("visit and follow-up share one form")
	}
	if visit.SerialNumber == followUp.SerialNumber {
		t.Errorf("serial %d reused across kinds", visit.SerialNumber)
	}
}

func TestResolveDailyFormReusesRaceWinner(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")
	day := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	winner, err := svc.ResolveDailyForm(user.ID, day, models.KindVisit)
	if err != nil {
		t.Fatalf("winner resolve: %v", err)
	}

	// A second create for the same key fails on the unique index, which is
	// what a losing racer sees before it re-reads.
	if _, err := svc.createDailyForm(user.ID, day, models.KindVisit); !isDuplicateErr(err) {
		t.Fatalf("want duplicate error for second create, got %v", err)
	}

	got, err := svc.ResolveDailyForm(user.ID, day, models.KindVisit)
	if err != nil {
		t.Fatalf("loser resolve: %v", err)
	}
	if got.ID != winner.ID {
		t.Errorf("loser got form %v, want winner %v", got.ID, winner.ID)
	}

	var formCount int64
	db.Model(&models.DailyForm{}).Count(&formCount)
	if formCount != 1 {
		t.Errorf("want 1 form after the race, got %d", formCount)
	}
}

func TestResolveDailyFormRetriesSerialOnConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := newTestUser(t, db, "alice@example.com", "0712345671")
	bob := newTestUser(t, db, "bob@example.com", "0712345672")
	day := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	// Steal the computed serial from inside alice's first insert, the way a
	// concurrent first submission would.
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("test_steal_serial", func(tx *gorm.DB) {
		form, ok := tx.Statement.Dest.(*models.DailyForm)
		if !ok || injected {
			return
		}
		injected = true
		rival := models.DailyForm{
			UserID:       bob.ID,
			Date:         form.Date,
			Kind:         form.Kind,
			SerialNumber: form.SerialNumber,
		}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			t.Errorf("rival insert: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	form, err := svc.ResolveDailyForm(alice.ID, day, models.KindVisit)
	if err != nil {
		t.Fatalf("resolve after serial conflict: %v", err)
	}
	if !injected {
		t.Fatal("conflict was never injected")
	}
	if want := int64(20250618001); form.SerialNumber != want {
		t.Errorf("serial = %d, want %d", form.SerialNumber, want)
	}
	if form.UserID != alice.ID {
		t.Errorf("form belongs to %v, want alice", form.UserID)
	}
}

func TestResolveDailyFormSerialConflictFatal(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	alice := newTestUser(t, db, "alice@example.com", "0712345671")
	bob := newTestUser(t, db, "bob@example.com", "0712345672")
	day := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	// One existing form for the day makes the next computed serial ...002;
	// pre-taking that exact serial defeats both create attempts.
	rival := models.DailyForm{
		UserID:       bob.ID,
		Date:         datatypes.Date(day),
		Kind:         models.KindVisit,
		SerialNumber: 20250618002,
	}
	if err := db.Create(&rival).Error; err != nil {
		t.Fatalf("create rival: %v", err)
	}

	if _, err := svc.ResolveDailyForm(alice.ID, day, models.KindVisit); !errors.Is(err, ErrSerialConflict) {
		t.Errorf("want ErrSerialConflict after second collision, got %v", err)
	}
}

func TestResolveDailyFormNewDayNewSerial(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	user := newTestUser(t, db, "staff@example.com", "0712345678")

	first, err := svc.ResolveDailyForm(user.ID, time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC), models.KindVisit)
	if err != nil {
		t.Fatalf("resolve day 1: %v", err)
	}
	second, err := svc.ResolveDailyForm(user.ID, time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC), models.KindVisit)
	if err != nil {
		t.Fatalf("resolve day 2: %v", err)
	}

	if first.SerialNumber != 20250618001 || second.SerialNumber != 20250619001 {
		t.Errorf("serials = %d, %d; want 20250618001, 20250619001", first.SerialNumber, second.SerialNumber)
	}
}
