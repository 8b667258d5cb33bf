package controllers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"conference-management-api/config"
	"conference-management-api/models"
)

// sendMailFunc is swappable in tests.
var sendMailFunc = config.SendMail

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// RequestPasswordReset mails a one-time code to the account email. The
// response is identical whether or not the account exists.
func RequestPasswordReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genericResponse := gin.H{"message": "If the account exists, a reset code has been sent"}

	var user models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error; err != nil {
		c.JSON(http.StatusOK, genericResponse)
		return
	}

	otp, err := generateOTP()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate reset code"})
		return
	}

	// Invalidate earlier codes before issuing a new one.
	if err := config.DB.Model(&models.PasswordResetOTP{}).
		Where("user_id = ? AND is_used = ?", user.UserID, false).
		Update("is_used", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue reset code"})
		return
	}

	record := models.PasswordResetOTP{
		UserID:    user.UserID,
		OTP:       otp,
		CreatedAt: time.Now(),
	}
	if err := config.DB.Create(&record).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue reset code"})
		return
	}

	body := fmt.Sprintf(`Dear %s,

Your password reset code is: %s

The code expires in 10 minutes. If you did not request a reset, you can ignore this email.`, user.FullName(), otp)

	if err := sendMailFunc([]string{user.Email}, "Password Reset Code", body); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send reset email"})
		return
	}

	c.JSON(http.StatusOK, genericResponse)
}

// ConfirmPasswordReset verifies the one-time code and sets the new password.
func ConfirmPasswordReset(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTP         string `json:"otp" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reset code"})
		return
	}

	var record models.PasswordResetOTP
	if err := config.DB.Where("user_id = ? AND otp = ? AND is_used = ?", user.UserID, strings.TrimSpace(req.OTP), false).
		Order("created_at DESC").
		First(&record).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reset code"})
		return
	}

	if record.IsExpired(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset code has expired"})
		return
	}

	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{"password": hashed, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	if err := config.DB.Model(&models.PasswordResetOTP{}).
		Where("otp_id = ?", record.OTPID).
		Update("is_used", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize reset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
