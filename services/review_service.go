package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"conference-management-api/models"
)

var reviewStatuses = map[string]bool{
	models.StatusApproved: true,
	models.StatusRevision: true,
	models.StatusRejected: true,
}

// AssignReviewer creates the review record granting reviewerID access to the
// abstract. The call is idempotent on (abstract, reviewer): an existing record
// yields ErrAlreadyAssigned with the record attached and produces no event, so
// duplicate calls never re-notify. Concurrent duplicates converge through the
// unique index on the pair. A nil assigned_by on a legacy record is backfilled
// without treating the call as a new assignment.
func AssignReviewer(db *gorm.DB, cap *Capability, abstractID, reviewerID int) (*models.AbstractReview, *Event, error) {
	if !cap.IsActiveThemeAdmin() {
		return nil, nil, ErrNotAuthorized
	}
	assigner := cap.ThemeAdmin

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

	var reviewer models.ThemeAdmin
	if err := db.Preload("User").Where("theme_admin_id = ?", reviewerID).First(&reviewer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	if reviewer.ThemeAdminID == assigner.ThemeAdminID {
		return nil, nil, ErrSelfAssignment
	}

	var existing models.AbstractReview
	err := db.Where("abstract_id = ? AND reviewer_id = ?", abstractID, reviewer.ThemeAdminID).
		First(&existing).Error
	if err == nil {
		// Backfill assigned_by on legacy rows; not a new assignment event.
		if existing.AssignedBy == nil {
			assignedBy := assigner.ThemeAdminID
			if err := db.Model(&models.AbstractReview{}).
				Where("review_id = ?", existing.ReviewID).
				Update("assigned_by", assignedBy).Error; err != nil {
				return nil, nil, err
			}
			existing.AssignedBy = &assignedBy
		}
		return &existing, nil, ErrAlreadyAssigned
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	assignedBy := assigner.ThemeAdminID
	review := models.AbstractReview{
		AbstractID: abstractID,
		ReviewerID: reviewer.ThemeAdminID,
		AssignedBy: &assignedBy,
		CreatedAt:  time.Now(),
	}
	if err := db.Create(&review).Error; err != nil {
		// The unique index wins the race for us: a concurrent call created the
		// record first, so this call converges to "already assigned".
		if isDuplicateKeyError(err) {
			if e2 := db.Where("abstract_id = ? AND reviewer_id = ?", abstractID, reviewer.ThemeAdminID).
				First(&existing).Error; e2 == nil {
				return &existing, nil, ErrAlreadyAssigned
			}
		}
		return nil, nil, err
	}

	assignerLoaded := *assigner
	if assignerLoaded.User == nil {
		var u models.User
		if err := db.Where("user_id = ?", assigner.UserID).First(&u).Error; err == nil {
			assignerLoaded.User = &u
		}
	}

	event := &Event{
		Kind:     EventReviewerAssigned,
		Abstract: abstract,
		Reviewer: &reviewer,
		Assigner: &assignerLoaded,
	}
	return &review, event, nil
}

// SubmitReview records or revises the caller's advisory opinion. Existence of
// the review record is itself the authorization grant, so a missing record is
// a not-found error rather than an authorization failure. A repeat submission
// updates status, comment and edited_at while leaving submitted_at untouched.
// The review never mutates the abstract's own status.
func SubmitReview(db *gorm.DB, cap *Capability, abstractID int, status, comment string) (*models.AbstractReview, *Event, error) {
	if cap.ThemeAdmin == nil {
		return nil, nil, ErrNotAuthorized
	}
	if !reviewStatuses[status] {
		return nil, nil, invalidTransition("invalid review status %q", status)
	}

	var abstract models.AbstractSubmission
	if err := db.Where("abstract_id = ?", abstractID).First(&abstract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	var review models.AbstractReview
	if err := db.Where("abstract_id = ? AND reviewer_id = ?", abstractID, cap.ThemeAdmin.ThemeAdminID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	now := time.Now()
	comment = strings.TrimSpace(comment)
	updates := map[string]interface{}{
		"status":       status,
		"comment":      comment,
		"is_submitted": true,
	}
	if review.IsSubmitted {
		updates["edited_at"] = now
		review.EditedAt = &now
	} else {
		updates["submitted_at"] = now
		review.SubmittedAt = &now
	}

	if err := db.Model(&models.AbstractReview{}).
		Where("review_id = ?", review.ReviewID).
		Updates(updates).Error; err != nil {
		return nil, nil, err
	}

	review.Status = &status
	review.Comment = comment
	review.IsSubmitted = true

	var event *Event
	if review.AssignedBy != nil {
		var assigner models.ThemeAdmin
		if err := db.Preload("User").Where("theme_admin_id = ?", *review.AssignedBy).
			First(&assigner).Error; err == nil {
			reviewer := *cap.ThemeAdmin
			if reviewer.User == nil {
				var u models.User
				if err := db.Where("user_id = ?", reviewer.UserID).First(&u).Error; err == nil {
					reviewer.User = &u
				}
			}
			event = &Event{
				Kind:         EventReviewSubmitted,
				Abstract:     abstract,
				Reviewer:     &reviewer,
				Assigner:     &assigner,
				ReviewStatus: status,
				ReviewEdited: review.EditedAt != nil,
			}
		}
	}

	return &review, event, nil
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// MySQL error 1062
	return strings.Contains(err.Error(), "Duplicate entry")
}
