package models

import "time"

// ScientificTheme is the unit of authorization scoping for reviewers.
type ScientificTheme struct {
	ThemeID  int       `gorm:"primaryKey;column:theme_id" json:"theme_id"`
	Code     string    `gorm:"column:code;unique" json:"code"`
	Name     string    `gorm:"column:name" json:"name"`
	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`
}

// ThemeAdmin is the one-to-one admin record granting theme-scoped authority.
// A deactivated record keeps its memberships but resolves to an empty scope.
type ThemeAdmin struct {
	ThemeAdminID int       `gorm:"primaryKey;column:theme_admin_id" json:"theme_admin_id"`
	UserID       int       `gorm:"column:user_id;unique" json:"user_id"`
	IsActive     bool      `gorm:"column:is_active" json:"is_active"`
	CreateAt     time.Time `gorm:"column:create_at" json:"create_at"`

	User   *User             `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Themes []ScientificTheme `gorm:"many2many:theme_admin_themes;foreignKey:ThemeAdminID;joinForeignKey:ThemeAdminID;References:ThemeID;joinReferences:ThemeID" json:"themes,omitempty"`
}

// ThemeAdminTheme is the membership join row. The business rule is one theme per
// admin and one admin per theme; the service layer enforces it on every write.
type ThemeAdminTheme struct {
	ThemeAdminID int `gorm:"primaryKey;column:theme_admin_id" json:"theme_admin_id"`
	ThemeID      int `gorm:"primaryKey;column:theme_id" json:"theme_id"`
}

// TableName overrides
func (ScientificTheme) TableName() string {
	return "scientific_themes"
}

func (ThemeAdmin) TableName() string {
	return "theme_admins"
}

func (ThemeAdminTheme) TableName() string {
	return "theme_admin_themes"
}
