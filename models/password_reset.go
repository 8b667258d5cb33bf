package models

import "time"

// PasswordResetOTP is a short-lived one-time code mailed to the account email.
type PasswordResetOTP struct {
	OTPID     int       `gorm:"primaryKey;column:otp_id" json:"otp_id"`
	UserID    int       `gorm:"column:user_id" json:"user_id"`
	OTP       string    `gorm:"column:otp" json:"-"`
	IsUsed    bool      `gorm:"column:is_used" json:"is_used"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// IsExpired reports whether the code is older than ten minutes.
func (o *PasswordResetOTP) IsExpired(now time.Time) bool {
	return now.After(o.CreatedAt.Add(10 * time.Minute))
}

// TableName specifies the table name for PasswordResetOTP.
func (PasswordResetOTP) TableName() string {
	return "password_reset_otps"
}
