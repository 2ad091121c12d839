package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndinh575/MMAProject/models"
	"gorm.io/gorm"
)

type CreateProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	CostPrice     float64 `json:"cost_price" binding:"required,gt=0"`
	SellingPrice  float64 `json:"selling_price" binding:"required,gt=0"`
	StockQuantity *int    `json:"stock_quantity" binding:"required,gte=0"`
	ImageURL      string  `json:"image_url" binding:"required"`
	Category      string  `json:"category" binding:"required"`
	Expiry        string  `json:"expiry"`
	Origin        string  `json:"origin"`
	SendFrom      string  `json:"send_from"`
	Weight        string  `json:"weight"`
}

// CreateProduct creates a new catalog entry. Admin only.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: " + err.Error()})
			return
		}

		product := models.Product{
			Name:          req.Name,
			Description:   req.Description,
			CostPrice:     req.CostPrice,
			SellingPrice:  req.SellingPrice,
			StockQuantity: *req.StockQuantity,
			ImageURL:      req.ImageURL,
			Category:      req.Category,
			Expiry:        req.Expiry,
			Origin:        req.Origin,
			SendFrom:      req.SendFrom,
			Weight:        req.Weight,
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully!", "product": product})
	}
}
