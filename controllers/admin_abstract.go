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
	"conference-management-api/services"
)

// auditActions maps a status target to the audit action recorded for it.
var auditActions = map[string]string{
	models.StatusApproved: models.ActionApproved,
	models.StatusRejected: models.ActionRejected,
	models.StatusRevision: models.ActionUpdate,
	models.StatusPending:  models.ActionUpdate,
}

// GetAdminAbstracts lists the abstracts visible to the caller's scope, with
// optional status, theme and search filters.
func GetAdminAbstracts(c *gin.Context) {
	cap, ok := resolveCapability(c)
	if !ok {
		return
	}

	query, err := services.VisibleAbstractsQuery(getDB(), cap)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		query = query.Where("status = ?", strings.ToUpper(status))
	}
	if themeStr := c.Query("theme_id"); themeStr != "" {
		themeID, convErr := strconv.Atoi(themeStr)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme_id"})
			return
		}
		if !cap.IsGlobalAdmin && !cap.CanManageTheme(themeID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Theme is outside your scope"})
			return
		}
		query = query.Where("theme_id = ?", themeID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ?", like)
	}

	var abstracts []models.AbstractSubmission
	if err := query.Order("submitted_at DESC").Find(&abstracts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch abstracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"abstracts": abstracts,
		"total":     len(abstracts),
	})
}

// GetAdminAbstract returns one abstract with its reviews and the reviewers
// eligible for assignment to it.
func GetAdminAbstract(c *gin.Context) {
	cap, ok := resolveCapability(c)
	if !ok {
		return
	}

	abstractID, err := strconv.Atoi(c.Param("id"))
	if err != nil || abstractID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid abstract ID"})
		return
	}

	query, err := services.VisibleAbstractsQuery(getDB(), cap)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	var abstract models.AbstractSubmission
	if err := query.Where("abstract_id = ?", abstractID).First(&abstract).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Abstract not found"})
		return
	}

	var reviews []models.AbstractReview
	if err := getDB().Preload("Reviewer.User").Preload("Assigner.User").
		Where("abstract_id = ?", abstractID).
		Order("created_at").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	var reviewers []models.ThemeAdmin
	if err := getDB().Preload("User").
		Where("is_active = ?", true).
		Find(&reviewers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviewers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"abstract":            abstract,
		"reviews":             reviews,
		"available_reviewers": reviewers,
		"can_submit_review":   cap.HasReviewAssignment(abstractID),
	})
}

// UpdateAbstractStatusRequest is the admin decision payload. A REVISION
// decision must carry a future due date; a REJECTED decision must explain why.
type UpdateAbstractStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	AdminComments   string `json:"admin_comments"`
	RevisionDueDate string `json:"revision_due_date"`
}

// UpdateAbstractStatus applies an administrative decision to an abstract.
func UpdateAbstractStatus(c *gin.Context) {
	cap, ok := resolveCapability(c)
	if !ok {
		return
	}

	abstractID, err := strconv.Atoi(c.Param("id"))
	if err != nil || abstractID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid abstract ID"})
		return
	}

	var req UpdateAbstractStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	target := strings.ToUpper(strings.TrimSpace(req.Status))

	var dueDate *time.Time
	if req.RevisionDueDate != "" {
		parsed, parseErr := parseDueDate(req.RevisionDueDate)
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid revision_due_date format"})
			return
		}
		dueDate = &parsed
	}

	abstract, event, err := services.TransitionStatus(getDB(), cap, abstractID, target, req.AdminComments, dueDate)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	services.DispatchEvent(getDB(), *event)

	action := auditActions[target]
	if action == "" {
		action = models.ActionUpdate
	}
	services.LogAdminAction(getDB(), &cap.UserID, action, "AbstractSubmission", &abstract.AbstractID,
		fmt.Sprintf("Status changed to %s", abstract.StatusLabel()), c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Abstract status updated successfully",
		"abstract": abstract,
	})
}

// ExportAbstracts streams the caller's visible abstracts as CSV.
func ExportAbstracts(c *gin.Context) {
	cap, ok := resolveCapability(c)
	if !ok {
		return
	}

	abstracts, err := services.VisibleAbstracts(getDB(), cap)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="abstracts_%s.csv"`, time.Now().Format("20060102_150405")))

	w := csv.NewWriter(c.Writer)
	defer w.Flush()

	w.Write([]string{"ID", "Title", "Author", "Email", "Theme", "Status", "Submitted At", "Revision Due"})
	for _, a := range abstracts {
		author, email := "", ""
		if a.User != nil {
			author = a.User.FullName()
			email = a.User.Email
		}
		theme := ""
		if a.Theme != nil {
			theme = a.Theme.Name
		}
		due := ""
		if a.RevisionDueDate != nil {
			due = a.RevisionDueDate.Format("2006-01-02")
		}
		w.Write([]string{
			strconv.Itoa(a.AbstractID),
			a.Title,
			author,
			email,
			theme,
			a.StatusLabel(),
			a.SubmittedAt.Format("2006-01-02 15:04:05"),
			due,
		})
	}
}

// parseDueDate accepts either a bare date or a full RFC3339 timestamp. A bare
// date means end of that day so the whole day remains usable for resubmission.
func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Second), nil
}
