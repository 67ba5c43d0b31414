package handlers

import (
	"net/http"

	"stationery-admin/internal/database"
	"stationery-admin/internal/models"

	"github.com/gin-gonic/gin"
)

// ReportData defines the shape of the issuance analytics response
type ReportData struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalOrders  int64   `json:"total_orders"`
	TopIssued    []struct {
		ProductName string  `json:"product_name"`
		Issued      int     `json:"issued"`
		Revenue     float64 `json:"revenue"`
	} `json:"top_issued"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// --- GET: /api/reports ---
func GetIssueReport(c *gin.Context) {
	var data ReportData

	err := database.DB.Model(&models.Transaction{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	err = database.DB.Model(&models.Transaction{}).Count(&data.TotalOrders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
		return
	}

	err = database.DB.Table("transaction_items").
		Select("transaction_items.name as product_name, SUM(transaction_items.quantity) as issued, SUM(transaction_items.quantity * transaction_items.price) as revenue").
		Group("transaction_items.name").
		Order("issued desc").
		Limit(5).
		Scan(&data.TopIssued).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top issued items"})
		return
	}

	err = database.DB.
		Preload("Items").
		Preload("Items.Components").
		Order("transaction_date desc").
		Limit(10).
		Find(&data.RecentTransactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent transactions"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// --- GET: /api/reports/low-stock ---
// Non-set products at or below their threshold, emptiest first.
func GetLowStockReport(c *gin.Context) {
	products, err := database.GetLowStockProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low stock products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// ValuationItem represents a single row in the valuation table
type ValuationItem struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalValue float64 `json:"total_value"`
}

// CourseGroup represents one table in the valuation report (e.g. "B.Tech")
type CourseGroup struct {
	CourseName string          `json:"course_name"`
	Items      []ValuationItem `json:"items"`
	Subtotal   float64         `json:"subtotal"`
}

// ValuationResponse is the final payload sent to the frontend
type ValuationResponse struct {
	Courses    []CourseGroup `json:"courses"`
	GrandTotal float64       `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation totals the monetary value of physical inventory,
// grouped by the course each product is mapped to. Sets are skipped
// because their value lives in their components.
func GetStockValuation(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	var grandTotal float64
	groupedMap := make(map[string]*CourseGroup)

	for _, p := range products {
		if p.IsSet {
			continue
		}

		courseName := p.ForCourse
		if courseName == "" {
			courseName = "Add-ons"
		}

		if _, exists := groupedMap[courseName]; !exists {
			groupedMap[courseName] = &CourseGroup{
				CourseName: courseName,
				Items:      []ValuationItem{},
			}
		}

		itemTotal := float64(p.Stock) * p.Price

		groupedMap[courseName].Items = append(groupedMap[courseName].Items, ValuationItem{
			Name:       p.Name,
			Quantity:   p.Stock,
			UnitPrice:  p.Price,
			TotalValue: itemTotal,
		})

		groupedMap[courseName].Subtotal += itemTotal
		grandTotal += itemTotal
	}

	var response ValuationResponse
	response.GrandTotal = grandTotal
	for _, group := range groupedMap {
		response.Courses = append(response.Courses, *group)
	}

	c.JSON(http.StatusOK, response)
}
