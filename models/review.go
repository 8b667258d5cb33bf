package models

import "time"

// AbstractReview is a per-(abstract, reviewer) advisory opinion. Its status never
// drives AbstractSubmission.Status; a human administrator decides separately.
type AbstractReview struct {
	ReviewID    int        `gorm:"primaryKey;column:review_id" json:"review_id"`
	AbstractID  int        `gorm:"column:abstract_id;uniqueIndex:idx_abstract_reviewer" json:"abstract_id"`
	ReviewerID  int        `gorm:"column:reviewer_id;uniqueIndex:idx_abstract_reviewer" json:"reviewer_id"`
	AssignedBy  *int       `gorm:"column:assigned_by" json:"assigned_by,omitempty"`
	Status      *string    `gorm:"column:status" json:"status,omitempty"` // APPROVED|REVISION|REJECTED
	Comment     string     `gorm:"column:comment" json:"comment"`
	IsSubmitted bool       `gorm:"column:is_submitted" json:"is_submitted"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	EditedAt    *time.Time `gorm:"column:edited_at" json:"edited_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`

	Abstract *AbstractSubmission `gorm:"foreignKey:AbstractID;references:AbstractID" json:"abstract,omitempty"`
	Reviewer *ThemeAdmin         `gorm:"foreignKey:ReviewerID;references:ThemeAdminID" json:"reviewer,omitempty"`
	Assigner *ThemeAdmin         `gorm:"foreignKey:AssignedBy;references:ThemeAdminID" json:"assigner,omitempty"`
}

// TableName specifies the table name for AbstractReview.
func (AbstractReview) TableName() string {
	return "abstract_reviews"
}
