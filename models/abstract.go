package models

import "time"

// Abstract submission statuses. Any status is reachable from any other by
// administrative override; per-target field side effects are enforced in services.
const (
	StatusPending     = "PENDING"
	StatusRevision    = "REVISION"
	StatusResubmitted = "RESUBMITTED"
	StatusApproved    = "APPROVED"
	StatusRejected    = "REJECTED"
)

// StatusLabels maps status codes to their display names.
var StatusLabels = map[string]string{
	StatusPending:     "Pending",
	StatusRevision:    "Revision Required",
	StatusResubmitted: "Resubmitted",
	StatusApproved:    "Approved",
	StatusRejected:    "Rejected",
}

type AbstractSubmission struct {
	AbstractID      int        `gorm:"primaryKey;column:abstract_id" json:"abstract_id"`
	UserID          int        `gorm:"column:user_id" json:"user_id"`
	Title           string     `gorm:"column:title" json:"title"`
	Abstract        *string    `gorm:"column:abstract" json:"abstract,omitempty"`
	ThemeID         int        `gorm:"column:theme_id" json:"theme_id"`
	PDFPath         string     `gorm:"column:pdf_path" json:"pdf_path"`
	RevisedPath     *string    `gorm:"column:revised_path" json:"revised_path,omitempty"`
	RevisedAt       *time.Time `gorm:"column:revised_uploaded_at" json:"revised_uploaded_at,omitempty"`
	Status          string     `gorm:"column:status" json:"status"`
	AdminComments   *string    `gorm:"column:admin_comments" json:"admin_comments,omitempty"`
	RevisionDueDate *time.Time `gorm:"column:revision_due_date" json:"revision_due_date,omitempty"`
	ApprovedBy      *int       `gorm:"column:approved_by" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	SubmittedAt     time.Time  `gorm:"column:submitted_at" json:"submitted_at"`

	// Relations
	User  *User            `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Theme *ScientificTheme `gorm:"foreignKey:ThemeID;references:ThemeID" json:"theme,omitempty"`
}

// StatusLabel returns the display name of the current status.
func (a *AbstractSubmission) StatusLabel() string {
	if label, ok := StatusLabels[a.Status]; ok {
		return label
	}
	return a.Status
}

// TableName specifies the table name for AbstractSubmission.
func (AbstractSubmission) TableName() string {
	return "abstract_submissions"
}
