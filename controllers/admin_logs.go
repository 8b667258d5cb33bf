package controllers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"conference-management-api/models"
)

// GetAdminLogs lists audit entries with optional action, user and date range
// filters. Super admin only; enforced at the route level.
func GetAdminLogs(c *gin.Context) {
	query := getDB().Model(&models.AdminActionLog{}).Preload("User")

	if action := strings.ToUpper(strings.TrimSpace(c.Query("action"))); action != "" {
		valid := false
		for _, choice := range models.ActionChoices {
			if choice == action {
				valid = true
				break
			}
		}
		if !valid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action filter"})
			return
		}
		query = query.Where("action = ?", action)
	}
	if userStr := c.Query("user_id"); userStr != "" {
		userID, err := strconv.Atoi(userStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
			return
		}
		query = query.Where("user_id = ?", userID)
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from format"})
			return
		}
		query = query.Where("created_at >= ?", t)
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to format"})
			return
		}
		query = query.Where("created_at < ?", t.Add(24*time.Hour))
	}

	limit := 50
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	offset := 0
	if v, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && v >= 0 {
		offset = v
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	var logs []models.AdminActionLog
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"logs":    logs,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
		"actions": models.ActionChoices,
	})
}

// ExportAdminLogs streams the full audit trail as CSV. Super admin only.
func ExportAdminLogs(c *gin.Context) {
	var logs []models.AdminActionLog
	if err := getDB().Preload("User").Order("created_at DESC").Find(&logs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="admin_logs_%s.csv"`, time.Now().Format("20060102_150405")))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{"ID", "User", "Action", "Object Type", "Object ID", "Description", "IP Address", "Created At"})
	for _, entry := range logs {
		user := "system"
		if entry.User != nil {
			user = entry.User.FullName()
		}
		objectType := ""
		if entry.ObjectType != nil {
			objectType = *entry.ObjectType
		}
		objectID := ""
		if entry.ObjectID != nil {
			objectID = strconv.Itoa(*entry.ObjectID)
		}
		w.Write([]string{
			strconv.Itoa(entry.LogID),
			user,
			entry.Action,
			objectType,
			objectID,
			entry.Description,
			entry.IPAddress,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}
