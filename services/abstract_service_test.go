package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"conference-management-api/models"
)

func TestValidateTransition(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(72 * time.Hour)
	past := now.Add(-time.Hour)

	cases := []struct {
		name    string
		target  string
		comment string
		dueDate *time.Time
		wantErr bool
	}{
		{name: "approve", target: models.StatusApproved},
		{name: "back to pending", target: models.StatusPending},
		{name: "reject with reason", target: models.StatusRejected, comment: "out of scope"},
		{name: "reject without reason", target: models.StatusRejected, wantErr: true},
		{name: "reject with blank reason", target: models.StatusRejected, comment: "   ", wantErr: true},
		{name: "revision with future due date", target: models.StatusRevision, dueDate: &future},
		{name: "revision without due date", target: models.StatusRevision, wantErr: true},
		{name: "revision with past due date", target: models.StatusRevision, dueDate: &past, wantErr: true},
		{name: "resubmitted is author-only", target: models.StatusResubmitted, wantErr: true},
		{name: "unknown status", target: "ARCHIVED", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateTransition(tc.target, tc.comment, tc.dueDate, now)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTransitionUpdatesFieldEffects(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	due := now.Add(7 * 24 * time.Hour)

	t.Run("approved stamps approver and clears due date", func(t *testing.T) {
		updates := TransitionUpdates(models.StatusApproved, "", nil, 42, now)
		if updates["approved_by"] != 42 {
			t.Fatalf("expected approved_by 42, got %v", updates["approved_by"])
		}
		if updates["approved_at"] != now {
			t.Fatalf("expected approved_at %v, got %v", now, updates["approved_at"])
		}
		if updates["revision_due_date"] != nil {
			t.Fatalf("expected revision_due_date cleared, got %v", updates["revision_due_date"])
		}
		if updates["admin_comments"] != (*string)(nil) {
			t.Fatalf("expected nil admin_comments, got %v", updates["admin_comments"])
		}
	})

	t.Run("revision resets approval and revised document", func(t *testing.T) {
		updates := TransitionUpdates(models.StatusRevision, "needs methods section", &due, 42, now)
		if updates["revision_due_date"] != &due {
			t.Fatalf("expected due date kept, got %v", updates["revision_due_date"])
		}
		for _, col := range []string{"approved_by", "approved_at", "revised_path", "revised_uploaded_at"} {
			if updates[col] != nil {
				t.Fatalf("expected %s cleared, got %v", col, updates[col])
			}
		}
		comment, ok := updates["admin_comments"].(*string)
		if !ok || comment == nil || *comment != "needs methods section" {
			t.Fatalf("expected comment kept, got %v", updates["admin_comments"])
		}
	})

	t.Run("rejected clears due date and approval", func(t *testing.T) {
		updates := TransitionUpdates(models.StatusRejected, "duplicate submission", nil, 42, now)
		for _, col := range []string{"revision_due_date", "approved_by", "approved_at"} {
			if updates[col] != nil {
				t.Fatalf("expected %s cleared, got %v", col, updates[col])
			}
		}
	})
}

func TestCheckResubmit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	open := now.Add(24 * time.Hour)
	closed := now.Add(-24 * time.Hour)

	t.Run("only revision state is resubmittable", func(t *testing.T) {
		a := &models.AbstractSubmission{Status: models.StatusPending}
		if err := CheckResubmit(a, now); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("within deadline", func(t *testing.T) {
		a := &models.AbstractSubmission{Status: models.StatusRevision, RevisionDueDate: &open}
		if err := CheckResubmit(a, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("deadline passed", func(t *testing.T) {
		a := &models.AbstractSubmission{Status: models.StatusRevision, RevisionDueDate: &closed}
		if err := CheckResubmit(a, now); !errors.Is(err, ErrDeadlinePassed) {
			t.Fatalf("expected ErrDeadlinePassed, got %v", err)
		}
	})

	t.Run("no due date means no deadline", func(t *testing.T) {
		a := &models.AbstractSubmission{Status: models.StatusRevision}
		if err := CheckResubmit(a, now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func abstractRow(id, userID, themeID int64, status string) *queryStep {
	return &queryStep{
		kind:    kindQuery,
		pattern: regexp.MustCompile("SELECT .* FROM `abstract_submissions` WHERE abstract_id = \\?"),
		anyArgs: true,
		columns: []string{"abstract_id", "user_id", "title", "theme_id", "pdf_path", "status", "submitted_at"},
		rows: [][]driver.Value{
			{id, userID, "Deep-sea microbial diversity", themeID, "/uploads/abstracts/a.pdf", status, time.Now()},
		},
	}
}

func TestTransitionStatusApprovedPersistsAndReturnsEvent(t *testing.T) {
	steps := []*queryStep{
		abstractRow(5, 9, 7, models.StatusPending),
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `abstract_submissions` SET .* WHERE abstract_id = \\? AND status = \\?"),
			anyArgs: true,
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	cap := &Capability{UserID: 3, IsGlobalAdmin: true}
	abstract, event, err := TransitionStatus(db, cap, 5, models.StatusApproved, "", nil)
	if err != nil {
		t.Fatalf("TransitionStatus returned error: %v", err)
	}

	if abstract.Status != models.StatusApproved {
		t.Fatalf("expected status APPROVED, got %s", abstract.Status)
	}
	if abstract.ApprovedBy == nil || *abstract.ApprovedBy != 3 {
		t.Fatalf("expected approver 3, got %v", abstract.ApprovedBy)
	}
	if abstract.ApprovedAt == nil {
		t.Fatal("expected approved_at to be set")
	}
	if event == nil || event.Kind != EventStatusChanged {
		t.Fatalf("expected status-changed event, got %+v", event)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusPendingResetIsNotAConflict(t *testing.T) {
	steps := []*queryStep{
		abstractRow(5, 9, 7, models.StatusPending),
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `abstract_submissions` SET .* WHERE abstract_id = \\? AND status = \\?"),
			anyArgs: true,
			// clientFoundRows is set on the DSN, so an identical-values
			// update still reports the matched row.
			result: scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	cap := &Capability{UserID: 3, IsGlobalAdmin: true}
	abstract, event, err := TransitionStatus(db, cap, 5, models.StatusPending, "", nil)
	if err != nil {
		t.Fatalf("resetting a pristine PENDING abstract must succeed, got %v", err)
	}
	if abstract.Status != models.StatusPending {
		t.Fatalf("expected status PENDING, got %s", abstract.Status)
	}
	if event == nil || event.Kind != EventStatusChanged {
		t.Fatalf("expected status-changed event, got %+v", event)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusDetectsConcurrentModification(t *testing.T) {
	steps := []*queryStep{
		abstractRow(5, 9, 7, models.StatusPending),
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("UPDATE `abstract_submissions` SET .* WHERE abstract_id = \\? AND status = \\?"),
			anyArgs: true,
			// Another admin already moved the abstract out of PENDING.
			result: scriptedResult{rowsAffected: 0},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	cap := &Capability{UserID: 3, IsGlobalAdmin: true}
	if _, _, err := TransitionStatus(db, cap, 5, models.StatusApproved, "", nil); !errors.Is(err, ErrStaleState) {
		t.Fatalf("expected ErrStaleState, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTransitionStatusRequiresThemeScope(t *testing.T) {
	steps := []*queryStep{
		abstractRow(5, 9, 7, models.StatusPending),
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	cap := &Capability{
		UserID:     11,
		ThemeAdmin: &models.ThemeAdmin{ThemeAdminID: 2, UserID: 11, IsActive: true},
		ThemeIDs:   []int{4},
	}
	if _, _, err := TransitionStatus(db, cap, 5, models.StatusApproved, "", nil); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
