package services

import (
	"errors"

	"gorm.io/gorm"

	"conference-management-api/models"
)

// Capability is the explicit role of a caller, computed once per request and
// passed into every workflow operation. It is never re-derived ad hoc.
type Capability struct {
	UserID        int
	IsGlobalAdmin bool

	// ThemeAdmin is the caller's admin record when one exists, active or not.
	// Scope-dependent checks consult ThemeIDs, which is empty for an inactive
	// record regardless of its membership rows.
	ThemeAdmin *models.ThemeAdmin
	ThemeIDs   []int

	// AssignedReviewIDs lists abstract IDs the caller holds review records for.
	AssignedReviewIDs []int
}

// ResolveCapability derives the caller's access scope from its user record.
func ResolveCapability(db *gorm.DB, userID int) (*Capability, error) {
	var user models.User
	if err := db.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cap := &Capability{
		UserID:        user.UserID,
		IsGlobalAdmin: user.RoleID == models.RoleSuperAdmin,
	}

	var admin models.ThemeAdmin
	err := db.Where("user_id = ?", userID).First(&admin).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return cap, nil
	}

	cap.ThemeAdmin = &admin

	if admin.IsActive {
		var memberships []models.ThemeAdminTheme
		if err := db.Where("theme_admin_id = ?", admin.ThemeAdminID).Find(&memberships).Error; err != nil {
			return nil, err
		}
		for _, m := range memberships {
			cap.ThemeIDs = append(cap.ThemeIDs, m.ThemeID)
		}

		var abstractIDs []int
		if err := db.Model(&models.AbstractReview{}).
			Where("reviewer_id = ?", admin.ThemeAdminID).
			Pluck("abstract_id", &abstractIDs).Error; err != nil {
			return nil, err
		}
		cap.AssignedReviewIDs = abstractIDs
	}

	return cap, nil
}

// CanManageTheme reports whether the capability covers the given theme.
// A global administrator's capability subsumes every theme.
func (c *Capability) CanManageTheme(themeID int) bool {
	if c.IsGlobalAdmin {
		return true
	}
	for _, id := range c.ThemeIDs {
		if id == themeID {
			return true
		}
	}
	return false
}

// IsActiveThemeAdmin reports whether the caller holds an active admin record.
func (c *Capability) IsActiveThemeAdmin() bool {
	return c.ThemeAdmin != nil && c.ThemeAdmin.IsActive
}

// HasReviewAssignment reports whether the caller holds a review record for the
// abstract. The record itself is the authorization grant for submit_review.
func (c *Capability) HasReviewAssignment(abstractID int) bool {
	for _, id := range c.AssignedReviewIDs {
		if id == abstractID {
			return true
		}
	}
	return false
}

// VisibleAbstracts lists the abstracts the caller may see: everything for a
// global admin, the scoped themes for an active theme admin. Authorship
// visibility is a separate, simpler path and deliberately not covered here.
func VisibleAbstracts(db *gorm.DB, cap *Capability) ([]models.AbstractSubmission, error) {
	query, err := VisibleAbstractsQuery(db, cap)
	if err != nil {
		return nil, err
	}

	var abstracts []models.AbstractSubmission
	if err := query.Order("submitted_at DESC").Find(&abstracts).Error; err != nil {
		return nil, err
	}
	return abstracts, nil
}

// VisibleAbstractsQuery returns the scoped base query so callers can stack
// status/theme/search filters before executing it.
func VisibleAbstractsQuery(db *gorm.DB, cap *Capability) (*gorm.DB, error) {
	base := db.Model(&models.AbstractSubmission{}).Preload("User").Preload("Theme")

	if cap.IsGlobalAdmin {
		return base, nil
	}
	if cap.IsActiveThemeAdmin() && len(cap.ThemeIDs) > 0 {
		return base.Where("theme_id IN ?", cap.ThemeIDs), nil
	}
	return nil, ErrNotAuthorized
}
