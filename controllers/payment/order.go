package paymentControllers

import (
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ndinh575/MMAProject/models"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyOrder        = errors.New("order has no items")
)

// -------- Request Structs --------

type CheckoutItem struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreatePaymentIntentRequest struct {
	Items           []CheckoutItem `json:"items" binding:"required,dive"`
	ShippingAddress string         `json:"shipping_address" binding:"required"`
}

// -------- Core Logic --------

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// CreateOrder turns the requested line items into a pending order, deducting
// stock for the whole cart as one transaction. Each deduction is a single
// conditional UPDATE guarded by the current stock level, so two concurrent
// checkouts can never drive a product negative; if any item is unknown or
// short on stock the transaction rolls back and no stock moves at all.
//
// Unit prices are snapshotted from the product's selling price here, so later
// catalog edits leave existing orders unchanged.
func CreateOrder(db *gorm.DB, userID uint, items []CheckoutItem, shippingAddress string) (*models.Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	var order models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		var total float64
		var orderItems []models.OrderItem

		for _, item := range items {
			var product models.Product
			if err := tx.First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrProductNotFound, item.ProductID)
				}
				return err
			}

			// Conditional decrement: the WHERE guard makes check and
			// deduction one atomic statement.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			lineTotal := product.SellingPrice * float64(item.Quantity)
			total += lineTotal

			orderItems = append(orderItems, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.ImageURL,
				UnitPrice:    product.SellingPrice,
				Quantity:     item.Quantity,
				LineTotal:    lineTotal,
			})
		}

		order = models.Order{
			OrderRef:        generateOrderRef(),
			UserID:          userID,
			Items:           orderItems,
			TotalAmount:     total,
			Status:          models.OrderStatusPending,
			ShippingAddress: shippingAddress,
			CreatedAt:       time.Now(),
		}

		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ConfirmOrder records that the gateway reported success. No stock or price
// side effects.
func ConfirmOrder(db *gorm.DB, orderID string) error {
	res := db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("status", models.OrderStatusConfirmed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func paymentCurrency() string {
	if cur := os.Getenv("PAYMENT_CURRENCY"); cur != "" {
		return cur
	}
	return "vnd"
}

// -------- Handlers --------

// POST /payment/create-payment-intent
func CreatePaymentIntentHandler(db *gorm.DB, gateway PaymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var req CreatePaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := CreateOrder(db, userID.(uint), req.Items, req.ShippingAddress)
		if err != nil {
			switch {
			case errors.Is(err, ErrProductNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			case errors.Is(err, ErrEmptyOrder):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			}
			return
		}

		broadcastOrderEvent("order.created", *order)

		intentID, clientSecret, err := gateway.CreatePaymentIntent(int64(math.Round(order.TotalAmount)), paymentCurrency())
		if err != nil {
			// Order stays pending; the client retries intent creation
			// with the returned order id.
			log.Printf("Payment intent creation failed for order %d: %v", order.ID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "order_id": order.ID})
			return
		}

		if err := db.Model(order).Update("payment_intent_id", intentID).Error; err != nil {
			log.Printf("Failed to attach intent %s to order %d: %v", intentID, order.ID, err)
		}

		c.JSON(http.StatusCreated, gin.H{"client_secret": clientSecret, "order_id": order.ID})
	}
}

// POST /payment/confirm-payment/:orderId
func ConfirmPaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderId")

		if err := ConfirmOrder(db, orderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm order"})
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err == nil {
			broadcastOrderEvent("order.confirmed", order)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Order confirmed"})
	}
}

// GET /payment/orders (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /payment/orders/:userId
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestedID := c.Param("userId")

		tokenUserID, _ := c.Get("user_id")
		role, _ := c.Get("role")
		if role != models.RoleAdmin && fmt.Sprint(tokenUserID) != requestedID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view another user's orders"})
			return
		}

		var orders []models.Order
		if err := db.
			Where("user_id = ?", requestedID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
