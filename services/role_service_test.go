package services

import (
	"errors"
	"testing"

	"conference-management-api/models"
)

func TestCapabilityCanManageTheme(t *testing.T) {
	global := &Capability{UserID: 1, IsGlobalAdmin: true}
	if !global.CanManageTheme(99) {
		t.Fatal("global admin scope must cover every theme")
	}

	scoped := &Capability{
		UserID:     2,
		ThemeAdmin: &models.ThemeAdmin{ThemeAdminID: 4, UserID: 2, IsActive: true},
		ThemeIDs:   []int{7},
	}
	if !scoped.CanManageTheme(7) {
		t.Fatal("expected scope to cover theme 7")
	}
	if scoped.CanManageTheme(8) {
		t.Fatal("scope must not leak into other themes")
	}

	participant := &Capability{UserID: 3}
	if participant.CanManageTheme(7) {
		t.Fatal("participant must have no theme scope")
	}
}

func TestCapabilityInactiveAdminHasEmptyScope(t *testing.T) {
	inactive := &Capability{
		UserID:     2,
		ThemeAdmin: &models.ThemeAdmin{ThemeAdminID: 4, UserID: 2, IsActive: false},
	}
	if inactive.IsActiveThemeAdmin() {
		t.Fatal("deactivated admin must not count as active")
	}
	if inactive.CanManageTheme(7) {
		t.Fatal("deactivated admin must have empty scope")
	}
}

func TestCapabilityHasReviewAssignment(t *testing.T) {
	cap := &Capability{
		UserID:            2,
		ThemeAdmin:        &models.ThemeAdmin{ThemeAdminID: 4, UserID: 2, IsActive: true},
		AssignedReviewIDs: []int{5, 12},
	}
	if !cap.HasReviewAssignment(12) {
		t.Fatal("expected assignment for abstract 12")
	}
	if cap.HasReviewAssignment(13) {
		t.Fatal("unexpected assignment for abstract 13")
	}
}

func TestVisibleAbstractsQueryDeniesUnscopedCallers(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	participant := &Capability{UserID: 3}
	if _, err := VisibleAbstractsQuery(db, participant); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	inactive := &Capability{
		UserID:     2,
		ThemeAdmin: &models.ThemeAdmin{ThemeAdminID: 4, UserID: 2, IsActive: false},
	}
	if _, err := VisibleAbstractsQuery(db, inactive); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized, got %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
