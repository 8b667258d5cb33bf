package models

import (
	"strings"
	"time"
)

// Role IDs used across middleware and services.
const (
	RoleParticipant = 1
	RoleThemeAdmin  = 2
	RoleSuperAdmin  = 3
)

type User struct {
	UserID    int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname string     `gorm:"column:user_lname" json:"user_lname"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Password  string     `gorm:"column:password" json:"-"`
	RoleID    int        `gorm:"column:role_id" json:"role_id"`
	CreateAt  *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt  *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt  *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role        Role         `gorm:"foreignKey:RoleID;references:RoleID" json:"role,omitempty"`
	Participant *Participant `gorm:"foreignKey:UserID;references:UserID" json:"participant,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Participant holds the registration profile of a submitting author.
type Participant struct {
	ParticipantID   int       `gorm:"primaryKey;column:participant_id" json:"participant_id"`
	UserID          int       `gorm:"column:user_id;unique" json:"user_id"`
	Organization    string    `gorm:"column:organization" json:"organization"`
	Designation     string    `gorm:"column:designation" json:"designation"`
	Phone           string    `gorm:"column:phone" json:"phone"`
	Title           *string   `gorm:"column:title" json:"title,omitempty"` // Mr, Mrs, Dr, Prof, ...
	ParticipantCode string    `gorm:"column:participant_code;unique" json:"participant_code"`
	CreateAt        time.Time `gorm:"column:create_at" json:"create_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// FullName joins first and last name, falling back to email when both are empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.UserFname) + " " + strings.TrimSpace(u.UserLname))
	if name == "" {
		return u.Email
	}
	return name
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (Participant) TableName() string {
	return "participants"
}
