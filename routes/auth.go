package routes

import (
	"github.com/gin-gonic/gin"
	authControllers "github.com/ndinh575/MMAProject/controllers/auth"
	"github.com/ndinh575/MMAProject/middleware"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, otps *authControllers.OTPStore, mailer authControllers.Mailer) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authControllers.RegisterHandler(db))
		authGroup.POST("/login", authControllers.LoginHandler(db))

		// OTP-based password reset; no token required
		authGroup.POST("/send-otp", authControllers.SendOTPHandler(otps, mailer))
		authGroup.POST("/verify-otp", authControllers.VerifyOTPHandler(otps))
		authGroup.POST("/reset-password", authControllers.ResetPasswordHandler(db, otps))

		protected := authGroup.Group("")
		protected.Use(middleware.ValidateToken)
		{
			protected.GET("/me", authControllers.MeHandler(db))
			protected.PUT("/update-profile", authControllers.UpdateProfileHandler(db))
			protected.POST("/change-password", authControllers.ChangePasswordHandler(db))
		}
	}
}
