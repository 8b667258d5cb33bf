package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"conference-management-api/models"
	"conference-management-api/services"
)

// GetDashboardStats returns per-status abstract counts within the caller's
// scope, plus pending review and unread notification counters.
func GetDashboardStats(c *gin.Context) {
	cap, ok := resolveCapability(c)
	if !ok {
		return
	}

	query := getDB().Model(&models.AbstractSubmission{})
	if !cap.IsGlobalAdmin {
		if !cap.IsActiveThemeAdmin() || len(cap.ThemeIDs) == 0 {
			respondWorkflowError(c, services.ErrNotAuthorized)
			return
		}
		query = query.Where("theme_id IN ?", cap.ThemeIDs)
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var rows []statusCount
	if err := query.Select("status, COUNT(*) AS count").Group("status").
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	counts := map[string]int64{
		models.StatusPending:     0,
		models.StatusRevision:    0,
		models.StatusResubmitted: 0,
		models.StatusApproved:    0,
		models.StatusRejected:    0,
	}
	var total int64
	for _, row := range rows {
		counts[row.Status] = row.Count
		total += row.Count
	}

	var pendingReviews int64
	if cap.ThemeAdmin != nil {
		if err := getDB().Model(&models.AbstractReview{}).
			Where("reviewer_id = ? AND is_submitted = ?", cap.ThemeAdmin.ThemeAdminID, false).
			Count(&pendingReviews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
			return
		}
	}

	var unread int64
	if err := getDB().Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", cap.UserID, false).
		Count(&unread).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"total":                total,
		"by_status":            counts,
		"pending_reviews":      pendingReviews,
		"unread_notifications": unread,
	})
}
