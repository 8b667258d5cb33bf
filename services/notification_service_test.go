package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"conference-management-api/models"
)

func fanoutFixtures() (*models.User, []models.ThemeAdmin, models.AbstractSubmission) {
	author := &models.User{UserID: 9, UserFname: "Siriporn", UserLname: "Chai", Email: "siriporn@example.org"}
	admins := []models.ThemeAdmin{
		{ThemeAdminID: 1, UserID: 10, IsActive: true,
			User: &models.User{UserID: 10, UserFname: "Anong", UserLname: "Wong", Email: "anong@example.org"}},
		{ThemeAdminID: 2, UserID: 20, IsActive: true,
			User: &models.User{UserID: 20, UserFname: "Prakit", UserLname: "Srisai", Email: "prakit@example.org"}},
	}
	abstract := models.AbstractSubmission{
		AbstractID: 5,
		UserID:     9,
		Title:      "Deep-sea microbial diversity",
		ThemeID:    7,
		Status:     models.StatusPending,
	}
	return author, admins, abstract
}

func TestBuildNotificationsAbstractCreatedTargetsThemeAdminsOnly(t *testing.T) {
	author, admins, abstract := fanoutFixtures()
	out := BuildNotifications(Event{Kind: EventAbstractCreated, Abstract: abstract}, author, admins)

	if len(out) != 2 {
		t.Fatalf("expected one notification per theme admin, got %d", len(out))
	}
	for _, n := range out {
		if n.UserID == author.UserID {
			t.Fatal("submission notice must not go to the author")
		}
		if n.AbstractID == nil || *n.AbstractID != abstract.AbstractID {
			t.Fatalf("expected abstract reference, got %v", n.AbstractID)
		}
	}
}

func TestBuildNotificationsStatusChangeNotifiesAuthorAndAdmins(t *testing.T) {
	author, admins, abstract := fanoutFixtures()
	abstract.Status = models.StatusRevision
	ev := Event{Kind: EventStatusChanged, Abstract: abstract, Comment: "please expand the methods section"}

	out := BuildNotifications(ev, author, admins)
	if len(out) != 3 {
		t.Fatalf("expected author plus two admins, got %d", len(out))
	}

	if out[0].UserID != author.UserID {
		t.Fatalf("expected the author first, got user %d", out[0].UserID)
	}
	if !strings.Contains(out[0].Message, "please expand the methods section") {
		t.Fatalf("author message must include the comment, got %q", out[0].Message)
	}
	if !strings.Contains(out[0].Title, "Revision Required") {
		t.Fatalf("expected display label in the title, got %q", out[0].Title)
	}
}

func TestBuildNotificationsStatusChangeWithoutAdmins(t *testing.T) {
	author, _, abstract := fanoutFixtures()
	abstract.Status = models.StatusApproved
	out := BuildNotifications(Event{Kind: EventStatusChanged, Abstract: abstract}, author, nil)

	// The author notice fires even when the theme has no active admins.
	if len(out) != 1 || out[0].UserID != author.UserID {
		t.Fatalf("expected exactly the author notice, got %+v", out)
	}
}

func TestBuildNotificationsAssignmentProducesTwoDistinctNotices(t *testing.T) {
	author, admins, abstract := fanoutFixtures()
	ev := Event{
		Kind:     EventReviewerAssigned,
		Abstract: abstract,
		Reviewer: &admins[1],
		Assigner: &admins[0],
	}

	out := BuildNotifications(ev, author, nil)
	if len(out) != 2 {
		t.Fatalf("expected reviewer and assigner notices, got %d", len(out))
	}
	if out[0].UserID != admins[1].UserID || out[1].UserID != admins[0].UserID {
		t.Fatalf("unexpected recipients: %+v", out)
	}
	if out[0].Title == out[1].Title {
		t.Fatal("reviewer and assigner notices must not be merged")
	}
}

func TestBuildNotificationsReviewSubmittedTargetsAssignerOnly(t *testing.T) {
	author, admins, abstract := fanoutFixtures()
	ev := Event{
		Kind:         EventReviewSubmitted,
		Abstract:     abstract,
		Reviewer:     &admins[1],
		Assigner:     &admins[0],
		ReviewStatus: models.StatusApproved,
	}

	out := BuildNotifications(ev, author, nil)
	if len(out) != 1 {
		t.Fatalf("expected only the assigner notice, got %d", len(out))
	}
	if out[0].UserID != admins[0].UserID {
		t.Fatalf("expected assigner %d, got %d", admins[0].UserID, out[0].UserID)
	}
	if !strings.Contains(out[0].Message, admins[1].User.FullName()) {
		t.Fatalf("expected reviewer name in message, got %q", out[0].Message)
	}
}

func TestDecisionEmailSubjects(t *testing.T) {
	cases := []struct {
		status  string
		subject string
	}{
		{models.StatusApproved, "NCPS 2025 | Abstract Approved"},
		{models.StatusRevision, "NCPS 2025 | Revision Required for Abstract"},
		{models.StatusRejected, "NCPS 2025 | Abstract Decision"},
		{models.StatusResubmitted, "NCPS 2025 | Update on Your Abstract"},
	}

	for _, tc := range cases {
		subject, body := decisionEmail("NCPS 2025", "Siriporn Chai", "Deep-sea microbial diversity", tc.status)
		if subject != tc.subject {
			t.Fatalf("status %s: expected subject %q, got %q", tc.status, tc.subject, subject)
		}
		if !strings.Contains(body, "Siriporn Chai") {
			t.Fatalf("status %s: body must address the author", tc.status)
		}
	}
}

func TestDispatchEventPersistsRecordsWhenEmailFails(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("SELECT .* FROM `users` WHERE user_id = \\?"),
			anyArgs: true,
			columns: []string{"user_id", "user_fname", "user_lname", "email", "role_id"},
			rows:    [][]driver.Value{{int64(9), "Siriporn", "Chai", "siriporn@example.org", int64(1)}},
		},
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile("JOIN theme_admin_themes"),
			anyArgs: true,
			columns: []string{"theme_admin_id", "user_id", "is_active"},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile("INSERT INTO `notifications`"),
			anyArgs: true,
			result:  scriptedResult{lastInsertID: 1, rowsAffected: 1},
		},
	}
	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	attempts := make(chan string, 1)
	restore := sendMailFunc
	sendMailFunc = func(to []string, subject, body string) error {
		attempts <- to[0]
		return errors.New("smtp unreachable")
	}
	defer func() { sendMailFunc = restore }()

	_, _, abstract := fanoutFixtures()
	abstract.Status = models.StatusApproved
	DispatchEvent(db, Event{Kind: EventStatusChanged, Abstract: abstract})

	// The record insert is the guarantee; the failed send stays internal.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("notification record was not created: %v", err)
	}

	select {
	case to := <-attempts:
		if to != "siriporn@example.org" {
			t.Fatalf("expected the author's address, got %s", to)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected an email attempt despite the failing mailer")
	}
}
