package authControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndinh575/MMAProject/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// POST /auth/send-otp
func SendOTPHandler(otps *OTPStore, mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		code, err := otps.Issue(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate OTP"})
			return
		}

		if err := mailer.SendOTP(req.Email, code); err != nil {
			log.Printf("Failed to send OTP mail to %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
	}
}

// POST /auth/verify-otp
//
// Verification is single-use: a code that passes here is consumed and cannot
// be presented again.
func VerifyOTPHandler(otps *OTPStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := otps.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
			if errors.Is(err, ErrOTPInvalid) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify OTP"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "OTP verified successfully"})
	}
}

// POST /auth/reset-password
func ResetPasswordHandler(db *gorm.DB, otps *OTPStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if err := otps.Verify(c.Request.Context(), req.Email, req.OTP); err != nil {
			if errors.Is(err, ErrOTPInvalid) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired OTP"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify OTP"})
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
	}
}
