package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ndinh575/MMAProject/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ExportProductsToExcel streams the full catalog as an xlsx download. Admin
// only.
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Name", "Description", "CostPrice", "SellingPrice",
			"StockQuantity", "Category", "Expiry", "Origin", "SendFrom",
			"Weight", "ImageURL", "CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Description)
			row.AddCell().SetValue(p.CostPrice)
			row.AddCell().SetValue(p.SellingPrice)
			row.AddCell().SetValue(p.StockQuantity)
			row.AddCell().SetValue(p.Category)
			row.AddCell().SetValue(p.Expiry)
			row.AddCell().SetValue(p.Origin)
			row.AddCell().SetValue(p.SendFrom)
			row.AddCell().SetValue(p.Weight)
			row.AddCell().SetValue(p.ImageURL)
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
