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

// GetRegistrations lists participant registrations with an optional search on
// name, email, organization or participant code. Super admin only.
func GetRegistrations(c *gin.Context) {
	query := getDB().Model(&models.Participant{}).Preload("User")

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.
			Joins("JOIN users ON users.user_id = participants.user_id").
			Where("users.user_fname LIKE ? OR users.user_lname LIKE ? OR users.email LIKE ? OR participants.organization LIKE ? OR participants.participant_code LIKE ?",
				like, like, like, like, like)
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registrations"})
		return
	}

	var participants []models.Participant
	if err := query.Order("participants.create_at DESC").Limit(limit).Offset(offset).
		Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registrations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"registrations": participants,
		"total":         total,
		"limit":         limit,
		"offset":        offset,
	})
}

// ExportRegistrations streams all participant registrations as CSV.
func ExportRegistrations(c *gin.Context) {
	var participants []models.Participant
	if err := getDB().Preload("User").Order("create_at DESC").Find(&participants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch registrations"})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="registrations_%s.csv"`, time.Now().Format("20060102_150405")))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{"Code", "Name", "Email", "Organization", "Designation", "Phone", "Registered At"})
	for _, p := range participants {
		name, email := "", ""
		if p.User != nil {
			name = p.User.FullName()
			email = p.User.Email
		}
		if p.Title != nil && name != "" {
			name = *p.Title + " " + name
		}
		w.Write([]string{
			p.ParticipantCode,
			name,
			email,
			p.Organization,
			p.Designation,
			p.Phone,
			p.CreateAt.Format("2006-01-02 15:04:05"),
		})
	}
}
