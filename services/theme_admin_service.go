package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"conference-management-api/models"
)

// ThemeAdminInput carries the super-admin creation form.
type ThemeAdminInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	ThemeID   int
}

// CreateThemeAdmin provisions an account and its admin record. The single
// assignment invariant is enforced here, on the write path: a theme admin
// holds exactly one theme, and a theme belongs to at most one admin.
func CreateThemeAdmin(db *gorm.DB, input ThemeAdminInput) (*models.ThemeAdmin, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, invalidTransition("email and password are required")
	}

	var theme models.ScientificTheme
	if err := db.Where("theme_id = ?", input.ThemeID).First(&theme).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := ensureThemeUnclaimed(db, theme.ThemeID, 0); err != nil {
		return nil, err
	}

	var existing models.User
	if err := db.Where("email = ? AND delete_at IS NULL", email).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("%w: an account already exists for %s", ErrAlreadyAssigned, email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := models.User{
		UserFname: strings.TrimSpace(input.FirstName),
		UserLname: strings.TrimSpace(input.LastName),
		Email:     email,
		Password:  string(hashed),
		RoleID:    models.RoleThemeAdmin,
		CreateAt:  &now,
	}
	if user.UserFname == "" {
		user.UserFname = theme.Name
	}

	var admin models.ThemeAdmin
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		admin = models.ThemeAdmin{
			UserID:   user.UserID,
			IsActive: true,
			CreateAt: now,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&models.ThemeAdminTheme{
			ThemeAdminID: admin.ThemeAdminID,
			ThemeID:      theme.ThemeID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	admin.User = &user
	admin.Themes = []models.ScientificTheme{theme}
	return &admin, nil
}

// ReassignTheme moves the admin to a different theme, keeping the single
// assignment invariant on both sides.
func ReassignTheme(db *gorm.DB, themeAdminID, themeID int) error {
	var admin models.ThemeAdmin
	if err := db.Where("theme_admin_id = ?", themeAdminID).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var theme models.ScientificTheme
	if err := db.Where("theme_id = ?", themeID).First(&theme).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := ensureThemeUnclaimed(db, theme.ThemeID, admin.ThemeAdminID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("theme_admin_id = ?", admin.ThemeAdminID).
			Delete(&models.ThemeAdminTheme{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.ThemeAdminTheme{
			ThemeAdminID: admin.ThemeAdminID,
			ThemeID:      theme.ThemeID,
		}).Error
	})
}

// SetThemeAdminActive toggles scoped authority without losing the record.
func SetThemeAdminActive(db *gorm.DB, themeAdminID int, active bool) error {
	res := db.Model(&models.ThemeAdmin{}).
		Where("theme_admin_id = ?", themeAdminID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveThemeAdmin tears down an admin over its ownership edges in a fixed
// order: review records, notifications, theme memberships, the admin row, and
// finally the account demotion. Each step is idempotent, so a partially
// failed removal can be re-run.
func RemoveThemeAdmin(db *gorm.DB, themeAdminID int) error {
	var admin models.ThemeAdmin
	if err := db.Where("theme_admin_id = ?", themeAdminID).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	// Reviews assigned to this admin disappear; reviews it assigned to others
	// keep the record with an unknown assigner.
	if err := db.Where("reviewer_id = ?", admin.ThemeAdminID).
		Delete(&models.AbstractReview{}).Error; err != nil {
		return err
	}
	if err := db.Model(&models.AbstractReview{}).
		Where("assigned_by = ?", admin.ThemeAdminID).
		Update("assigned_by", nil).Error; err != nil {
		return err
	}

	if err := db.Where("user_id = ?", admin.UserID).
		Delete(&models.Notification{}).Error; err != nil {
		return err
	}

	if err := db.Where("theme_admin_id = ?", admin.ThemeAdminID).
		Delete(&models.ThemeAdminTheme{}).Error; err != nil {
		return err
	}

	if err := db.Where("theme_admin_id = ?", admin.ThemeAdminID).
		Delete(&models.ThemeAdmin{}).Error; err != nil {
		return err
	}

	return db.Model(&models.User{}).
		Where("user_id = ? AND role_id = ?", admin.UserID, models.RoleThemeAdmin).
		Update("role_id", models.RoleParticipant).Error
}

func ensureThemeUnclaimed(db *gorm.DB, themeID, excludeAdminID int) error {
	var count int64
	query := db.Model(&models.ThemeAdminTheme{}).Where("theme_id = ?", themeID)
	if excludeAdminID != 0 {
		query = query.Where("theme_admin_id <> ?", excludeAdminID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: theme is already assigned to another admin", ErrAlreadyAssigned)
	}
	return nil
}
