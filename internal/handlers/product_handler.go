package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"stationery-admin/internal/catalog"
	"stationery-admin/internal/database"
	"stationery-admin/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- GET: List all products ---
func GetProducts(c *gin.Context) {
	var products []models.Product

	result := database.DB.Preload("SetItems").Find(&products)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// --- GET: Products visible to one student ---
// Applies the course/year/branch/semester eligibility rules, then optionally
// narrows to mapped (course-linked) or addon (universal) products.
func GetStudentProducts(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	var student models.Student
	if err := database.DB.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var products []models.Product
	if err := database.DB.Preload("SetItems").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	visible := catalog.VisibleProducts(products, student)

	switch c.Query("mode") {
	case "mapped":
		mapped := visible[:0]
		for _, p := range visible {
			if !catalog.IsAddOn(p) {
				mapped = append(mapped, p)
			}
		}
		visible = mapped
	case "addon":
		addons := visible[:0]
		for _, p := range visible {
			if catalog.IsAddOn(p) {
				addons = append(addons, p)
			}
		}
		visible = addons
	}

	c.JSON(http.StatusOK, visible)
}

// --- POST: Add a new product ---
func AddProduct(c *gin.Context) {
	var newProduct models.Product

	if err := c.ShouldBindJSON(&newProduct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if newProduct.Price < 0 || newProduct.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price and stock must not be negative"})
		return
	}

	if newProduct.IsSet {
		if err := validateSetItems(&newProduct); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	} else {
		newProduct.SetItems = nil
	}

	if err := database.DB.Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, newProduct)
}

// validateSetItems enforces the set rules at creation time: a set needs at
// least one component, every component must exist, and a component may not
// itself be a set (no nested sets). Names are snapshotted here so that
// later renames never alter printed receipts.
func validateSetItems(p *models.Product) error {
	if len(p.SetItems) == 0 {
		return fmt.Errorf("a set needs at least one component")
	}
	for i := range p.SetItems {
		si := &p.SetItems[i]

		var component models.Product
		if err := database.DB.First(&component, si.ComponentID).Error; err != nil {
			return fmt.Errorf("component product %d not found", si.ComponentID)
		}
		if component.IsSet {
			return fmt.Errorf("component %q is a set; sets cannot contain other sets", component.Name)
		}

		if si.ComponentName == "" {
			si.ComponentName = component.Name
		}
		if si.Quantity <= 0 {
			si.Quantity = 1
		}
		si.Position = i
	}
	return nil
}

// --- PUT: Update a product ---
// The admin form sends the whole product back, so the update replaces the
// record (and, for sets, the component list) wholesale.
func UpdateProduct(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Product ID"})
		return
	}

	var product models.Product
	if err := database.DB.Preload("SetItems").First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input models.Product
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	input.ID = product.ID

	if input.IsSet {
		for i := range input.SetItems {
			input.SetItems[i].ProductID = product.ID
		}
		if err := validateSetItems(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// Replace the old component rows before saving the new list
		if err := database.DB.Where("product_id = ?", product.ID).Delete(&models.SetItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update set components"})
			return
		}
		for i := range input.SetItems {
			input.SetItems[i].ID = 0
		}
	} else {
		input.SetItems = nil
	}

	if err := database.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": input})
}

// --- DELETE: Remove a product ---
func DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	// This fails if the product is still referenced as a set component
	var refs int64
	database.DB.Model(&models.SetItem{}).Where("component_id = ?", id).Count(&refs)
	if refs > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product is a component of an existing set"})
		return
	}

	if err := database.DB.Delete(&models.Product{}, id).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product. It might be linked to past transactions."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
