package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"conference-management-api/models"
	"conference-management-api/services"
)

// AssignReviewerRequest names the reviewer to attach to an abstract.
type AssignReviewerRequest struct {
	ReviewerID int `json:"reviewer_id" binding:"required"`
}

// AssignReviewer attaches a reviewer to an abstract. Assigning the same
// reviewer twice is not an error: the existing assignment is returned and no
// duplicate notification goes out.
func AssignReviewer(c *gin.Context) {
	cap, ok := resolveCapability(c)
	if !ok {
		return
	}

	abstractID, err := strconv.Atoi(c.Param("id"))
	if err != nil || abstractID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid abstract ID"})
		return
	}

	var req AssignReviewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	review, event, err := services.AssignReviewer(getDB(), cap, abstractID, req.ReviewerID)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyAssigned) {
			c.JSON(http.StatusOK, gin.H{
				"success":          true,
				"already_assigned": true,
				"message":          "Reviewer is already assigned to this abstract",
				"review":           review,
			})
			return
		}
		respondWorkflowError(c, err)
		return
	}

	services.DispatchEvent(getDB(), *event)
	services.LogAdminAction(getDB(), &cap.UserID, models.ActionAssign, "AbstractReview", &review.ReviewID,
		fmt.Sprintf("Reviewer %d assigned to abstract %d", req.ReviewerID, abstractID), c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Reviewer assigned successfully",
		"review":  review,
	})
}

// SubmitReviewRequest carries a reviewer's advisory recommendation.
type SubmitReviewRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

// SubmitReview records the caller's recommendation for an assigned abstract.
// Re-submitting updates the recommendation and stamps the edit time.
func SubmitReview(c *gin.Context) {
	cap, ok := resolveCapability(c)
	if !ok {
		return
	}

	abstractID, err := strconv.Atoi(c.Param("id"))
	if err != nil || abstractID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid abstract ID"})
		return
	}

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	review, event, err := services.SubmitReview(getDB(), cap, abstractID,
		strings.ToUpper(strings.TrimSpace(req.Status)), req.Comment)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if event != nil {
		services.DispatchEvent(getDB(), *event)
	}
	services.LogAdminAction(getDB(), &cap.UserID, models.ActionUpdate, "AbstractReview", &review.ReviewID,
		"Review submitted", c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review submitted successfully",
		"review":  review,
	})
}

// GetMyReviews lists the caller's review assignments, pending first.
func GetMyReviews(c *gin.Context) {
	cap, ok := resolveCapability(c)
	if !ok {
		return
	}
	if cap.ThemeAdmin == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Reviewer access required"})
		return
	}

	var reviews []models.AbstractReview
	if err := getDB().Preload("Abstract.User").Preload("Abstract.Theme").
		Where("reviewer_id = ?", cap.ThemeAdmin.ThemeAdminID).
		Order("is_submitted, created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reviews": reviews,
		"total":   len(reviews),
	})
}
