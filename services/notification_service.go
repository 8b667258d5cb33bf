package services

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"

	"conference-management-api/config"
	"conference-management-api/models"
)

// EventKind identifies a completed workflow transition.
type EventKind int

const (
	EventAbstractCreated EventKind = iota + 1
	EventStatusChanged
	EventReviewerAssigned
	EventReviewSubmitted
)

// Event is the explicit side-effect contract returned by the state machine and
// the assignment subsystem once their mutation has committed. The fan-out
// derives recipients and message content from it deterministically.
type Event struct {
	Kind     EventKind
	Abstract models.AbstractSubmission

	// Status-change context
	Comment string

	// Assignment / review context
	Reviewer     *models.ThemeAdmin
	Assigner     *models.ThemeAdmin
	ReviewStatus string
	ReviewEdited bool
}

type emailMessage struct {
	To      string
	Name    string
	Subject string
	Body    string
}

// sendMailFunc is swappable in tests.
var sendMailFunc = config.SendMail

func conferenceName() string {
	name := strings.TrimSpace(os.Getenv("CONFERENCE_NAME"))
	if name == "" {
		name = "NCPS 2025"
	}
	return name
}

// DispatchEvent creates the durable notification records for the event and
// then attempts the outbound emails from a goroutine. Record creation is the
// only guarantee; email delivery is best-effort and a failure never reaches
// the caller, nor does it roll back the transition that produced the event.
func DispatchEvent(db *gorm.DB, ev Event) {
	author, admins, err := loadRecipients(db, ev)
	if err != nil {
		log.Printf("notification fan-out: failed to load recipients for abstract %d: %v", ev.Abstract.AbstractID, err)
		return
	}

	notifications := BuildNotifications(ev, author, admins)
	for i := range notifications {
		notifications[i].CreateAt = time.Now()
		if err := db.Create(&notifications[i]).Error; err != nil {
			log.Printf("notification fan-out: failed to create record for user %d: %v", notifications[i].UserID, err)
		}
	}

	emails := buildEmails(ev, author, admins)
	go func() {
		for _, m := range emails {
			if m.To == "" {
				continue
			}
			if err := sendMailFunc([]string{m.To}, m.Subject, m.Body); err != nil {
				log.Printf("notification email send failed (subject=%q to=%s): %v", m.Subject, m.To, err)
			}
		}
	}()
}

func loadRecipients(db *gorm.DB, ev Event) (*models.User, []models.ThemeAdmin, error) {
	var author models.User
	if err := db.Where("user_id = ?", ev.Abstract.UserID).First(&author).Error; err != nil {
		return nil, nil, err
	}

	switch ev.Kind {
	case EventAbstractCreated, EventStatusChanged:
		admins, err := activeThemeAdmins(db, ev.Abstract.ThemeID)
		if err != nil {
			return nil, nil, err
		}
		return &author, admins, nil
	default:
		// Assignment and review events carry their recipients on the event.
		return &author, nil, nil
	}
}

func activeThemeAdmins(db *gorm.DB, themeID int) ([]models.ThemeAdmin, error) {
	var admins []models.ThemeAdmin
	err := db.Preload("User").
		Joins("JOIN theme_admin_themes tat ON tat.theme_admin_id = theme_admins.theme_admin_id").
		Where("tat.theme_id = ? AND theme_admins.is_active = ?", themeID, true).
		Find(&admins).Error
	return admins, err
}

// BuildNotifications derives the durable notification records for an event.
// It is pure: recipients come in as arguments, nothing is persisted here.
func BuildNotifications(ev Event, author *models.User, themeAdmins []models.ThemeAdmin) []models.Notification {
	abstractID := ev.Abstract.AbstractID
	out := []models.Notification{}

	switch ev.Kind {
	case EventAbstractCreated:
		for _, ta := range themeAdmins {
			out = append(out, models.Notification{
				UserID:     ta.UserID,
				AbstractID: &abstractID,
				Title:      "New abstract submitted",
				Message: fmt.Sprintf("A new abstract titled '%s' was submitted under theme #%d.",
					ev.Abstract.Title, ev.Abstract.ThemeID),
			})
		}

	case EventStatusChanged:
		label := ev.Abstract.StatusLabel()
		message := fmt.Sprintf("Your abstract '%s' was marked as %s.", ev.Abstract.Title, label)
		if comment := strings.TrimSpace(ev.Comment); comment != "" {
			message += "\n\nReviewer comment:\n" + comment
		}
		// The author notification always fires, regardless of admin activity.
		if author != nil {
			out = append(out, models.Notification{
				UserID:     author.UserID,
				AbstractID: &abstractID,
				Title:      "Abstract " + label,
				Message:    message,
			})
		}
		for _, ta := range themeAdmins {
			out = append(out, models.Notification{
				UserID:     ta.UserID,
				AbstractID: &abstractID,
				Title:      "Abstract decision: " + ev.Abstract.Status,
				Message: fmt.Sprintf("The abstract '%s' has changed status to %s.",
					ev.Abstract.Title, ev.Abstract.Status),
			})
		}

	case EventReviewerAssigned:
		// Two distinct notifications, never merged.
		if ev.Reviewer != nil {
			out = append(out, models.Notification{
				UserID:     ev.Reviewer.UserID,
				AbstractID: &abstractID,
				Title:      "Abstract Review Assigned",
				Message: fmt.Sprintf("You have been requested to review the abstract:\n\n'%s'",
					ev.Abstract.Title),
			})
		}
		if ev.Assigner != nil {
			out = append(out, models.Notification{
				UserID:     ev.Assigner.UserID,
				AbstractID: &abstractID,
				Title:      "Review Sent for Evaluation",
				Message: fmt.Sprintf("The abstract '%s' has been sent to %s for review.",
					ev.Abstract.Title, themeAdminName(ev.Reviewer)),
			})
		}

	case EventReviewSubmitted:
		// The original assigner only; not the global admin, not other reviewers.
		if ev.Assigner != nil {
			out = append(out, models.Notification{
				UserID:     ev.Assigner.UserID,
				AbstractID: &abstractID,
				Title:      "Review Submitted",
				Message: fmt.Sprintf("The reviewer %s has submitted a review for '%s' (status: %s).",
					themeAdminName(ev.Reviewer), ev.Abstract.Title, ev.ReviewStatus),
			})
		}
	}

	return out
}

func buildEmails(ev Event, author *models.User, themeAdmins []models.ThemeAdmin) []emailMessage {
	conf := conferenceName()
	out := []emailMessage{}

	switch ev.Kind {
	case EventAbstractCreated:
		if author != nil && author.Email != "" {
			out = append(out, emailMessage{
				To:      author.Email,
				Name:    author.FullName(),
				Subject: conf + " | Abstract Submitted",
				Body: fmt.Sprintf(`Dear %s,

We have received your abstract titled "%s" submitted to %s.
Your submission is now in the review queue. You will be notified by email when a decision is made or if revisions are requested.

Thank you for your submission.

%s Organizing Committee`, author.FullName(), ev.Abstract.Title, conf, conf),
			})
		}

	case EventStatusChanged:
		if author != nil && author.Email != "" {
			subject, body := decisionEmail(conf, author.FullName(), ev.Abstract.Title, ev.Abstract.Status)
			out = append(out, emailMessage{
				To:      author.Email,
				Name:    author.FullName(),
				Subject: subject,
				Body:    body,
			})
		}

	case EventReviewerAssigned:
		if ev.Reviewer != nil && ev.Reviewer.User != nil && ev.Reviewer.User.Email != "" {
			out = append(out, emailMessage{
				To:      ev.Reviewer.User.Email,
				Name:    ev.Reviewer.User.FullName(),
				Subject: conf + " | Review Assignment",
				Body: fmt.Sprintf(`Dear %s,

You have been assigned to review the abstract titled '%s'.
Please log in to the admin dashboard to access the submission and submit your review.

Regards,
%s Organizing Committee`, ev.Reviewer.User.FullName(), ev.Abstract.Title, conf),
			})
		}
		if ev.Assigner != nil && ev.Assigner.User != nil && ev.Assigner.User.Email != "" {
			out = append(out, emailMessage{
				To:      ev.Assigner.User.Email,
				Name:    ev.Assigner.User.FullName(),
				Subject: conf + " | Review Assigned",
				Body: fmt.Sprintf(`Dear %s,

The abstract '%s' was assigned to %s for review.

Regards,
%s Organizing Committee`, ev.Assigner.User.FullName(), ev.Abstract.Title, themeAdminName(ev.Reviewer), conf),
			})
		}

	case EventReviewSubmitted:
		if ev.Assigner != nil && ev.Assigner.User != nil && ev.Assigner.User.Email != "" {
			out = append(out, emailMessage{
				To:      ev.Assigner.User.Email,
				Name:    ev.Assigner.User.FullName(),
				Subject: conf + " | Review Submitted",
				Body: fmt.Sprintf(`Dear %s,

The reviewer %s has submitted a review for the abstract '%s' with status %s.

Please log in to the admin dashboard to view the comments and take further action.

Regards,
%s Organizing Committee`, ev.Assigner.User.FullName(), themeAdminName(ev.Reviewer), ev.Abstract.Title, ev.ReviewStatus, conf),
			})
		}
	}

	return out
}

func decisionEmail(conf, name, title, status string) (string, string) {
	switch status {
	case models.StatusApproved:
		return conf + " | Abstract Approved", fmt.Sprintf(`Dear %s,

We are pleased to inform you that your submitted abstract titled
"%s" has been approved for %s.

Further details regarding presentation guidelines and schedules
will be shared in due course through your dashboard.

Thank you for your valuable contribution to %s.

Warm regards,
%s Organizing Committee`, name, title, conf, conf, conf)

	case models.StatusRevision:
		return conf + " | Revision Required for Abstract", fmt.Sprintf(`Dear %s,

Thank you for submitting your abstract titled
"%s" to %s.

Based on the review, revisions are required before further
consideration. We kindly request you to log in to your dashboard
to review the comments and submit the revised version within
the specified deadline.

Warm regards,
%s Organizing Committee`, name, title, conf, conf)

	case models.StatusRejected:
		return conf + " | Abstract Decision", fmt.Sprintf(`Dear %s,

Thank you for your interest in %s.

After careful evaluation, we regret to inform you that your
abstract titled "%s" was not approved for this year's
conference.

We appreciate your effort and encourage you to participate
in future editions.

Warm regards,
%s Organizing Committee`, name, conf, title, conf)

	default:
		return conf + " | Update on Your Abstract", fmt.Sprintf(`Dear %s,

There has been an update regarding your abstract titled
"%s".

Please log in to your dashboard for further details.

Warm regards,
%s Organizing Committee`, name, title, conf)
	}
}

func themeAdminName(ta *models.ThemeAdmin) string {
	if ta == nil || ta.User == nil {
		return "a theme administrator"
	}
	return ta.User.FullName()
}
