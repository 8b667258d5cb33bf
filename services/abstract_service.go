package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"conference-management-api/models"
)

// adminTargets are the statuses an administrator may transition an abstract to.
// RESUBMITTED is reserved for the author resubmission path.
var adminTargets = map[string]bool{
	models.StatusPending:  true,
	models.StatusRevision: true,
	models.StatusApproved: true,
	models.StatusRejected: true,
}

// AbstractInput carries a new submission from the author controller.
type AbstractInput struct {
	Title    string
	Abstract *string
	ThemeID  int
	PDFPath  string
}

// SubmitAbstract creates a new PENDING submission for the author and returns
// the creation event for fan-out. A reviewable document reference is required.
func SubmitAbstract(db *gorm.DB, authorID int, input AbstractInput) (*models.AbstractSubmission, *Event, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, nil, invalidTransition("title is required")
	}
	if strings.TrimSpace(input.PDFPath) == "" {
		return nil, nil, invalidTransition("a PDF file is required for the abstract")
	}

	var theme models.ScientificTheme
	if err := db.Where("theme_id = ?", input.ThemeID).First(&theme).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	abstract := models.AbstractSubmission{
		UserID:      authorID,
		Title:       strings.TrimSpace(input.Title),
		Abstract:    input.Abstract,
		ThemeID:     theme.ThemeID,
		PDFPath:     input.PDFPath,
		Status:      models.StatusPending,
		SubmittedAt: time.Now(),
	}
	if err := db.Create(&abstract).Error; err != nil {
		return nil, nil, err
	}

	return &abstract, &Event{Kind: EventAbstractCreated, Abstract: abstract}, nil
}

// TransitionStatus validates and applies an administrative status change.
// Serialization against concurrent transitions on the same abstract uses an
// optimistic compare-and-set on the status column: the UPDATE is guarded by
// the status read in this call, and zero affected rows surfaces ErrStaleState.
// The returned event must be dispatched by the caller after this returns, so
// side effects only ever describe a committed mutation.
func TransitionStatus(db *gorm.DB, cap *Capability, abstractID int, target, comment string, dueDate *time.Time) (*models.AbstractSubmission, *Event, error) {
	var abstract models.AbstractSubmission
	if err := db.Where("abstract_id = ?", abstractID).First(&abstract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if !cap.CanManageTheme(abstract.ThemeID) {
		return nil, nil, ErrNotAuthorized
	}

	now := time.Now()
	if err := ValidateTransition(target, comment, dueDate, now); err != nil {
		return nil, nil, err
	}

	updates := TransitionUpdates(target, comment, dueDate, cap.UserID, now)
	res := db.Model(&models.AbstractSubmission{}).
		Where("abstract_id = ? AND status = ?", abstract.AbstractID, abstract.Status).
		Updates(updates)
	if res.Error != nil {
		return nil, nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil, ErrStaleState
	}

	applyTransition(&abstract, target, comment, dueDate, cap.UserID, now)

	event := &Event{Kind: EventStatusChanged, Abstract: abstract, Comment: comment}
	return &abstract, event, nil
}

// ValidateTransition checks the per-target requirements without mutating
// anything: REVISION needs a future due date, REJECTED a non-empty comment.
func ValidateTransition(target, comment string, dueDate *time.Time, now time.Time) error {
	if !adminTargets[target] {
		return invalidTransition("invalid status %q", target)
	}
	switch target {
	case models.StatusRevision:
		if dueDate == nil {
			return invalidTransition("revision requires a due date")
		}
		if !dueDate.After(now) {
			return invalidTransition("revision due date must be in the future")
		}
	case models.StatusRejected:
		if strings.TrimSpace(comment) == "" {
			return invalidTransition("rejection requires a reason")
		}
	}
	return nil
}

// TransitionUpdates returns the column updates for a validated transition.
// Each transition resets the fields not relevant to its destination state:
// revision_due_date, approved_by and approved_at are mutually exclusive.
func TransitionUpdates(target, comment string, dueDate *time.Time, actorID int, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"status":         target,
		"admin_comments": nullableComment(comment),
	}

	switch target {
	case models.StatusRevision:
		// A revision request always starts the cycle from a clean slate.
		updates["revision_due_date"] = dueDate
		updates["approved_by"] = nil
		updates["approved_at"] = nil
		updates["revised_path"] = nil
		updates["revised_uploaded_at"] = nil
	case models.StatusApproved:
		updates["approved_by"] = actorID
		updates["approved_at"] = now
		updates["revision_due_date"] = nil
	case models.StatusRejected, models.StatusPending:
		updates["revision_due_date"] = nil
		updates["approved_by"] = nil
		updates["approved_at"] = nil
	}

	return updates
}

func applyTransition(a *models.AbstractSubmission, target, comment string, dueDate *time.Time, actorID int, now time.Time) {
	a.Status = target
	a.AdminComments = nullableComment(comment)

	switch target {
	case models.StatusRevision:
		a.RevisionDueDate = dueDate
		a.ApprovedBy = nil
		a.ApprovedAt = nil
		a.RevisedPath = nil
		a.RevisedAt = nil
	case models.StatusApproved:
		actor := actorID
		at := now
		a.ApprovedBy = &actor
		a.ApprovedAt = &at
		a.RevisionDueDate = nil
	case models.StatusRejected, models.StatusPending:
		a.RevisionDueDate = nil
		a.ApprovedBy = nil
		a.ApprovedAt = nil
	}
}

// Resubmit is the author-initiated transition out of REVISION. It is only
// permitted while the revision due date has not passed; a late attempt fails
// with ErrDeadlinePassed and performs no mutation.
func Resubmit(db *gorm.DB, authorID, abstractID int, storedPath string) (*models.AbstractSubmission, *Event, error) {
	var abstract models.AbstractSubmission
	if err := db.Where("abstract_id = ? AND user_id = ?", abstractID, authorID).First(&abstract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	now := time.Now()
	if err := CheckResubmit(&abstract, now); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(storedPath) == "" {
		return nil, nil, invalidTransition("a revised PDF file is required")
	}

	res := db.Model(&models.AbstractSubmission{}).
		Where("abstract_id = ? AND status = ?", abstract.AbstractID, models.StatusRevision).
		Updates(map[string]interface{}{
			"status":              models.StatusResubmitted,
			"revised_path":        storedPath,
			"revised_uploaded_at": now,
			"admin_comments":      nil,
			"revision_due_date":   nil,
		})
	if res.Error != nil {
		return nil, nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil, ErrStaleState
	}

	abstract.Status = models.StatusResubmitted
	abstract.RevisedPath = &storedPath
	abstract.RevisedAt = &now
	abstract.AdminComments = nil
	abstract.RevisionDueDate = nil

	event := &Event{Kind: EventStatusChanged, Abstract: abstract}
	return &abstract, event, nil
}

// CheckResubmit validates the resubmission preconditions against the loaded
// abstract without touching storage.
func CheckResubmit(a *models.AbstractSubmission, now time.Time) error {
	if a.Status != models.StatusRevision {
		return invalidTransition("revision is not required for this abstract")
	}
	if a.RevisionDueDate != nil && now.After(*a.RevisionDueDate) {
		return ErrDeadlinePassed
	}
	return nil
}

func nullableComment(comment string) *string {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
