package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"conference-management-api/models"
	"conference-management-api/services"
	"conference-management-api/utils"
)

// GetThemeAdmins lists all theme admin accounts with their themes.
func GetThemeAdmins(c *gin.Context) {
	var admins []models.ThemeAdmin
	if err := getDB().Preload("User").Preload("Themes").
		Order("create_at DESC").
		Find(&admins).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch theme admins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"theme_admins": admins,
		"total":        len(admins),
	})
}

// CreateThemeAdminRequest is the super-admin provisioning payload.
type CreateThemeAdminRequest struct {
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	ThemeID   int    `json:"theme_id" binding:"required"`
}

// CreateThemeAdmin provisions a theme admin account bound to one theme.
func CreateThemeAdmin(c *gin.Context) {
	uid, _ := getCurrentUserID(c)

	var req CreateThemeAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	admin, err := services.CreateThemeAdmin(getDB(), services.ThemeAdminInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: utils.SanitizeInput(req.FirstName),
		LastName:  utils.SanitizeInput(req.LastName),
		ThemeID:   req.ThemeID,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	services.LogAdminAction(getDB(), &uid, models.ActionCreate, "ThemeAdmin", &admin.ThemeAdminID,
		fmt.Sprintf("Theme admin created for theme %d", req.ThemeID), c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"message":     "Theme admin created successfully",
		"theme_admin": admin,
	})
}

// ReassignThemeRequest moves an admin to a different theme.
type ReassignThemeRequest struct {
	ThemeID int `json:"theme_id" binding:"required"`
}

// ReassignTheme swaps the admin's single theme for another unclaimed one.
func ReassignTheme(c *gin.Context) {
	uid, _ := getCurrentUserID(c)

	adminID, err := strconv.Atoi(c.Param("id"))
	if err != nil || adminID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme admin ID"})
		return
	}

	var req ReassignThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if err := services.ReassignTheme(getDB(), adminID, req.ThemeID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	services.LogAdminAction(getDB(), &uid, models.ActionUpdate, "ThemeAdmin", &adminID,
		fmt.Sprintf("Theme admin reassigned to theme %d", req.ThemeID), c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Theme reassigned successfully",
	})
}

// ToggleThemeAdminRequest flips the active flag.
type ToggleThemeAdminRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// ToggleThemeAdmin activates or deactivates a theme admin. Deactivation keeps
// the record and its memberships but collapses the admin's scope to nothing.
func ToggleThemeAdmin(c *gin.Context) {
	uid, _ := getCurrentUserID(c)

	adminID, err := strconv.Atoi(c.Param("id"))
	if err != nil || adminID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme admin ID"})
		return
	}

	var req ToggleThemeAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	if err := services.SetThemeAdminActive(getDB(), adminID, *req.IsActive); err != nil {
		respondWorkflowError(c, err)
		return
	}

	state := "deactivated"
	if *req.IsActive {
		state = "activated"
	}
	services.LogAdminAction(getDB(), &uid, models.ActionUpdate, "ThemeAdmin", &adminID,
		"Theme admin "+state, c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Theme admin " + state,
	})
}

// DeleteThemeAdmin removes a theme admin and everything hanging off it, in
// dependency order. Safe to repeat; a second call reports not found.
func DeleteThemeAdmin(c *gin.Context) {
	uid, _ := getCurrentUserID(c)

	adminID, err := strconv.Atoi(c.Param("id"))
	if err != nil || adminID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme admin ID"})
		return
	}

	if err := services.RemoveThemeAdmin(getDB(), adminID); err != nil {
		respondWorkflowError(c, err)
		return
	}

	services.LogAdminAction(getDB(), &uid, models.ActionDelete, "ThemeAdmin", &adminID,
		"Theme admin removed", c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Theme admin removed successfully",
	})
}
