package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	authControllers "github.com/ndinh575/MMAProject/controllers/auth"
	paymentControllers "github.com/ndinh575/MMAProject/controllers/payment"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the Auth, Product and
// Payment route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client) {
	otps := authControllers.NewOTPStore(rdb)

	mailer, err := authControllers.NewSMTPMailerFromEnv()
	if err != nil {
		log.Fatalf("❌ Mailer setup failed: %v", err)
	}

	gateway, err := paymentControllers.NewStripeClientFromEnv()
	if err != nil {
		log.Fatalf("❌ Stripe setup failed: %v", err)
	}

	SetupAuthRoutes(r, db, otps, mailer)
	SetupProductRoutes(r, db)
	SetupPaymentRoutes(r, db, gateway)
}
