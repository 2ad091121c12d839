package routes

import (
	"github.com/gin-gonic/gin"
	paymentControllers "github.com/ndinh575/MMAProject/controllers/payment"
	"github.com/ndinh575/MMAProject/middleware"
	"gorm.io/gorm"
)

// SetupPaymentRoutes registers all "/payment/*" endpoints.
func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB, gateway paymentControllers.PaymentGateway) {
	payment := r.Group("/payment")
	{
		// websocket endpoint for real-time order updates
		payment.GET("/ws", paymentControllers.OrderWebSocketHandler)

		protected := payment.Group("")
		protected.Use(middleware.ValidateToken)
		{
			protected.POST("/create-payment-intent", paymentControllers.CreatePaymentIntentHandler(db, gateway))
			protected.POST("/confirm-payment/:orderId", paymentControllers.ConfirmPaymentHandler(db))
			protected.GET("/orders/:userId", paymentControllers.GetUserOrdersHandler(db))
			protected.GET("/orders", middleware.RequireAdmin, paymentControllers.GetAllOrdersHandler(db))
		}
	}
}
