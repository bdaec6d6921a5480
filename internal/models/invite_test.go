package models

import (
	"testing"
	"time"
)

func TestInviteUpsertIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "renter")
	company := createTestCompany(t, db, "Rental Business", user)

	first, err := db.Invites.Upsert("invitee@example.com", company.ID, false)
	if err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	second, err := db.Invites.Upsert("invitee@example.com", company.ID, false)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("re-invite created a new row: %d then %d", first.ID, second.ID)
	}

	count, err := Count[CompanyInvite](db.DB, "email = ?", "invitee@example.com")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d invite rows, want 1", count)
	}
}

func TestInviteUpsertSwitchesRole(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "renter")
	company := createTestCompany(t, db, "Rental Business", user)

	if _, err := db.Invites.Upsert("invitee@example.com", company.ID, false); err != nil {
		t.Fatalf("viewer Upsert: %v", err)
	}
	invite, err := db.Invites.Upsert("invitee@example.com", company.ID, true)
	if err != nil {
		t.Fatalf("admin Upsert: %v", err)
	}

	if invite.AdminInID == nil || *invite.AdminInID != company.ID {
		t.Error("admin_in not set after role switch")
	}
	if invite.ViewerInID != nil {
		t.Error("viewer_in still set after role switch")
	}
}

func TestInviteUpsertCollapsesDuplicates(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "renter")
	company := createTestCompany(t, db, "Rental Business", user)

	// Seed the fail-safe path with two rows for the same pair.
	for i := 0; i < 2; i++ {
		viewerIn := company.ID
		if err := db.Invites.Create(&CompanyInvite{
			Email:      "invitee@example.com",
			ViewerInID: &viewerIn,
		}); err != nil {
			t.Fatalf("seed invite: %v", err)
		}
	}

	if _, err := db.Invites.Upsert("invitee@example.com", company.ID, true); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	count, err := Count[CompanyInvite](db.DB, "email = ?", "invitee@example.com")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Errorf("got %d invite rows after collapse, want 1", count)
	}
}

func TestInviteTimeout(t *testing.T) {
	fresh := &CompanyInvite{TimeStamped: TimeStamped{UpdatedAt: time.Now()}}
	if fresh.Timeout() {
		t.Error("fresh invite reported as timed out")
	}

	stale := &CompanyInvite{TimeStamped: TimeStamped{
		UpdatedAt: time.Now().Add(-InviteValidity - time.Hour),
	}}
	if !stale.Timeout() {
		t.Error("stale invite reported as live")
	}

	if got := fresh.ValidUntil(); !got.Equal(fresh.UpdatedAt.Add(InviteValidity)) {
		t.Errorf("ValidUntil = %v, want updated_at + 7 days", got)
	}
}

func TestSweepExpired(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "renter")
	companyA := createTestCompany(t, db, "Company A", user)
	companyB := createTestCompany(t, db, "Company B", user)

	live, err := db.Invites.Upsert("live@example.com", companyA.ID, false)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	expired, err := db.Invites.Upsert("expired@example.com", companyB.ID, true)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Age the second invite past its window. The sweep is repository
	// wide, so inviting into company A must still remove it.
	stale := time.Now().Add(-InviteValidity - time.Hour)
	if err := db.Model(&CompanyInvite{}).Where("id = ?", expired.ID).
		Update("updated_at", stale).Error; err != nil {
		t.Fatalf("failed to age invite: %v", err)
	}

	if err := db.Invites.SweepExpired(); err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}

	if _, err := db.Invites.Get(live.ID); err != nil {
		t.Error("live invite was swept")
	}
	if _, err := db.Invites.Get(expired.ID); err == nil {
		t.Error("expired invite survived the sweep")
	}
}
