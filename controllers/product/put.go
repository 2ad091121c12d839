package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ndinh575/MMAProject/models"
	"gorm.io/gorm"
)

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	CostPrice     *float64 `json:"cost_price"`
	SellingPrice  *float64 `json:"selling_price"`
	StockQuantity *int     `json:"stock_quantity"`
	ImageURL      *string  `json:"image_url"`
	Category      *string  `json:"category"`
	Expiry        *string  `json:"expiry"`
	Origin        *string  `json:"origin"`
	SendFrom      *string  `json:"send_from"`
	Weight        *string  `json:"weight"`
}

// UpdateProduct partially updates an existing product by ID. Admin only.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			}
			return
		}

		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.StockQuantity != nil && *req.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity cannot be negative"})
			return
		}

		updates := make(map[string]interface{})
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.CostPrice != nil {
			updates["cost_price"] = *req.CostPrice
		}
		if req.SellingPrice != nil {
			updates["selling_price"] = *req.SellingPrice
		}
		if req.StockQuantity != nil {
			updates["stock_quantity"] = *req.StockQuantity
		}
		if req.ImageURL != nil {
			updates["image_url"] = *req.ImageURL
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if req.Expiry != nil {
			updates["expiry"] = *req.Expiry
		}
		if req.Origin != nil {
			updates["origin"] = *req.Origin
		}
		if req.SendFrom != nil {
			updates["send_from"] = *req.SendFrom
		}
		if req.Weight != nil {
			updates["weight"] = *req.Weight
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
	}
}
