package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndinh575/MMAProject/models"
	"gorm.io/gorm"
)

// DeleteProduct removes a product from the catalog. Admin only. Existing
// orders keep their snapshotted line items.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		result := db.Delete(&models.Product{}, "id = ?", id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
