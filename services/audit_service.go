package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"conference-management-api/models"
)

// LogAdminAction appends an audit record for a privileged mutation. Logging is
// advisory: a write failure is logged locally and never propagated, so the
// triggering operation is unaffected. Pass a nil actorID for system-initiated
// actions.
func LogAdminAction(db *gorm.DB, actorID *int, action string, objectType string, objectID *int, description, ipAddress string) {
	entry := models.AdminActionLog{
		UserID:      actorID,
		Action:      action,
		Description: description,
		IPAddress:   ipAddress,
		CreatedAt:   time.Now(),
	}
	if objectType != "" {
		entry.ObjectType = &objectType
	}
	entry.ObjectID = objectID

	if err := db.Create(&entry).Error; err != nil {
		log.Printf("audit log write failed (action=%s object=%s): %v", action, objectType, err)
	}
}
