package models

import "time"

// Closed enumeration of audited action kinds.
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionApproved = "APPROVED"
	ActionRejected = "REJECTED"
	ActionAssign   = "ASSIGN"
	ActionLogin    = "LOGIN"
	ActionLogout   = "LOGOUT"
	ActionOther    = "OTHER"
)

// ActionChoices lists the valid action kinds for filtering UIs and exports.
var ActionChoices = []string{
	ActionCreate, ActionUpdate, ActionDelete, ActionApproved,
	ActionRejected, ActionAssign, ActionLogin, ActionLogout, ActionOther,
}

// AdminActionLog is the append-only audit trail of privileged mutations.
// UserID is nil for system-initiated entries.
type AdminActionLog struct {
	LogID       int       `gorm:"primaryKey;column:log_id" json:"log_id"`
	UserID      *int      `gorm:"column:user_id" json:"user_id,omitempty"`
	Action      string    `gorm:"column:action" json:"action"`
	ObjectType  *string   `gorm:"column:object_type" json:"object_type,omitempty"`
	ObjectID    *int      `gorm:"column:object_id" json:"object_id,omitempty"`
	Description string    `gorm:"column:description" json:"description"`
	IPAddress   string    `gorm:"column:ip_address" json:"ip_address"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for AdminActionLog.
func (AdminActionLog) TableName() string {
	return "admin_action_logs"
}
