package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"conference-management-api/config"
	"conference-management-api/models"
	"conference-management-api/services"
)

// SubmitAbstract handles the author submission form (multipart with the PDF).
func SubmitAbstract(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	themeID, err := strconv.Atoi(c.PostForm("theme_id"))
	if err != nil || themeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid theme"})
		return
	}

	file, err := c.FormFile("pdf_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a PDF file for your abstract"})
		return
	}

	storedPath, err := services.StoreAbstractPDF(file)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	input := services.AbstractInput{
		Title:   title,
		ThemeID: themeID,
		PDFPath: storedPath,
	}
	if body := strings.TrimSpace(c.PostForm("abstract")); body != "" {
		input.Abstract = &body
	}

	abstract, event, err := services.SubmitAbstract(getDB(), uid, input)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	services.DispatchEvent(getDB(), *event)
	services.LogAdminAction(getDB(), &uid, models.ActionCreate, "AbstractSubmission",
		&abstract.AbstractID, "Abstract submitted", c.ClientIP())

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Abstract submitted successfully",
		"abstract": abstract,
	})
}

// GetMyAbstracts lists the caller's own submissions. This is the author
// visibility path, separate from the admin-scoped listing.
func GetMyAbstracts(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var abstracts []models.AbstractSubmission
	if err := config.DB.Preload("Theme").
		Where("user_id = ?", uid).
		Order("submitted_at DESC").
		Find(&abstracts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch abstracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"abstracts": abstracts,
		"total":     len(abstracts),
	})
}

// ResubmitAbstract uploads the revised document while the revision window is
// open and moves the abstract to RESUBMITTED.
func ResubmitAbstract(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	abstractID, err := strconv.Atoi(c.Param("id"))
	if err != nil || abstractID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid abstract ID"})
		return
	}

	file, err := c.FormFile("revised_submission")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please upload a revised PDF file"})
		return
	}

	storedPath, err := services.StoreAbstractPDF(file)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	abstract, event, err := services.Resubmit(getDB(), uid, abstractID, storedPath)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	services.DispatchEvent(getDB(), *event)
	services.LogAdminAction(getDB(), &uid, models.ActionUpdate, "AbstractSubmission",
		&abstract.AbstractID, "Revised abstract uploaded", c.ClientIP())

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Revision submitted successfully",
		"abstract": abstract,
	})
}

// GetThemes lists the scientific themes for registration and submission forms.
func GetThemes(c *gin.Context) {
	var themes []models.ScientificTheme
	if err := config.DB.Order("name").Find(&themes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch themes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"themes": themes})
}
