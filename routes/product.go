package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/ndinh575/MMAProject/controllers/product"
	"github.com/ndinh575/MMAProject/middleware"
	"gorm.io/gorm"
)

// SetupProductRoutes registers all "/products/*" endpoints. Reads are public,
// writes require an admin token.
func SetupProductRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("", productcontroller.GetProducts(db))
		products.GET("/:id", productcontroller.GetProductByID(db))

		admin := products.Group("")
		admin.Use(middleware.ValidateToken, middleware.RequireAdmin)
		{
			admin.POST("", productcontroller.CreateProduct(db))
			admin.PUT("/:id", productcontroller.UpdateProduct(db))
			admin.DELETE("/:id", productcontroller.DeleteProduct(db))
			admin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}
	}
}
