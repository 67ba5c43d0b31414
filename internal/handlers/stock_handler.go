package handlers

import (
	"net/http"
	"time"

	"stationery-admin/internal/database"
	"stationery-admin/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// LocationWarehouse is the central store; anything else is a college code.
const LocationWarehouse = "warehouse"

// --- GET: List vendors ---
func GetVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := database.DB.Order("name asc").Find(&vendors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vendors"})
		return
	}
	c.JSON(http.StatusOK, vendors)
}

// --- POST: Add a vendor ---
func AddVendor(c *gin.Context) {
	var vendor models.Vendor
	if err := c.ShouldBindJSON(&vendor); err != nil || vendor.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vendor name is required"})
		return
	}
	if err := database.DB.Create(&vendor).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vendor"})
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

// --- DELETE: Remove a vendor ---
func DeleteVendor(c *gin.Context) {
	id := c.Param("id")

	var refs int64
	database.DB.Model(&models.StockEntry{}).Where("vendor_id = ?", id).Count(&refs)
	if refs > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vendor has recorded stock entries"})
		return
	}

	if err := database.DB.Delete(&models.Vendor{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vendor"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor deleted successfully"})
}

// StockEntryRequest records incoming stock from a vendor.
type StockEntryRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	VendorID  uint    `json:"vendor_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	UnitCost  float64 `json:"unit_cost"`
	Location  string  `json:"location"`
	Remarks   string  `json:"remarks"`
}

// --- POST: Record incoming stock ---
// Increments the product's stock under a row lock so a checkout deducting
// at the same moment can't lose the update. Sets cannot receive stock.
func AddStockEntry(c *gin.Context) {
	var req StockEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		return
	}

	var vendor models.Vendor
	if err := database.DB.First(&vendor, req.VendorID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	location := req.Location
	if location == "" {
		location = LocationWarehouse
	}

	tx := database.DB.Begin()

	var product models.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, req.ProductID).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if product.IsSet {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sets do not hold stock; receive their components instead"})
		return
	}

	product.Stock += req.Quantity
	if err := tx.Save(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock"})
		return
	}

	entry := models.StockEntry{
		ProductID: req.ProductID,
		VendorID:  req.VendorID,
		Quantity:  req.Quantity,
		UnitCost:  req.UnitCost,
		Location:  location,
		Remarks:   req.Remarks,
		EntryDate: time.Now(),
	}
	if err := tx.Create(&entry).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record stock entry"})
		return
	}

	tx.Commit()
	c.JSON(http.StatusCreated, entry)
}

// --- GET: List stock entries, newest first ---
func GetStockEntries(c *gin.Context) {
	var entries []models.StockEntry

	query := database.DB.Order("entry_date desc")
	if productID := c.Query("product_id"); productID != "" {
		query = query.Where("product_id = ?", productID)
	}

	if err := query.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock entries"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// StockTransferRequest moves stock between the warehouse and a college.
type StockTransferRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	FromLocation string `json:"from_location" binding:"required"`
	ToLocation   string `json:"to_location" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required"`
	Remarks      string `json:"remarks"`
}

// --- POST: Record a stock transfer ---
func AddStockTransfer(c *gin.Context) {
	var req StockTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		return
	}
	if req.FromLocation == req.ToLocation {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Source and destination must differ"})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, req.ProductID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if product.IsSet {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Sets do not hold stock; transfer their components instead"})
		return
	}

	transfer := models.StockTransfer{
		ProductID:    req.ProductID,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		Quantity:     req.Quantity,
		Remarks:      req.Remarks,
		TransferDate: time.Now(),
	}
	if err := database.DB.Create(&transfer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transfer"})
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

// --- GET: List stock transfers, newest first ---
func GetStockTransfers(c *gin.Context) {
	var transfers []models.StockTransfer
	if err := database.DB.Order("transfer_date desc").Find(&transfers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transfers"})
		return
	}
	c.JSON(http.StatusOK, transfers)
}
