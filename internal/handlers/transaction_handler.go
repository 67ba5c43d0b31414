package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"stationery-admin/internal/billing"
	"stationery-admin/internal/cache"
	"stationery-admin/internal/catalog"
	"stationery-admin/internal/database"
	"stationery-admin/internal/logger"
	"stationery-admin/internal/models"
	"stationery-admin/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// txCache holds per-student transaction lists; every write below
// invalidates the touched student.
var txCache = cache.NewTransactionCache()

// pendingQueue parks replayed offline entries that could not be persisted,
// so the student's history keeps showing them as pending until a later
// sync lands them.
var pendingQueue = billing.NewQueue()

// TransactionRequest defines what the frontend sends on checkout
type TransactionRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
	Items     []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items" binding:"required"`
	PaymentMethod string `json:"payment_method"`
	IsPaid        bool   `json:"is_paid"`
	Remarks       string `json:"remarks"`
}

// --- POST: Create a transaction ---
// Quantities are re-validated server side through the draft builder (sets
// are binary, non-sets clamp to stock), set lines are expanded from the
// current catalog, and stock is deducted under row locks when the sale is
// paid. Mapped items flip the student's durable received flags.
func CreateTransaction(c *gin.Context) {
	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items selected"})
		return
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod != "online" {
		paymentMethod = "cash"
	}

	userID := c.MustGet("userID").(uint)

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	// Resolve the requested products up front
	productsByID := make(map[uint]models.Product, len(req.Items))
	for _, item := range req.Items {
		if _, seen := productsByID[item.ProductID]; seen {
			continue
		}
		var product models.Product
		if err := database.DB.Preload("SetItems").First(&product, item.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product %d not found", item.ProductID)})
			return
		}
		productsByID[item.ProductID] = product
	}

	// Rebuild the order through the draft rules rather than trusting the
	// client's quantities
	draft := billing.NewDraft(student)
	for _, item := range req.Items {
		draft.AddItem(productsByID[item.ProductID], item.Quantity)
	}
	if draft.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No items selected"})
		return
	}

	var txItems []models.TransactionItem
	for _, line := range draft.Lines() {
		product := productsByID[line.ProductID]
		item := models.TransactionItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
			Total:     float64(line.Quantity) * line.Price,
			IsSet:     line.IsSet,
			Status:    billing.StatusFulfilled,
		}
		if line.IsSet {
			item.Components = catalog.ExpandComponents(item, &product)
			item.Status = billing.ItemStatus(item.Components)
		}
		txItems = append(txItems, item)
	}

	tx := database.DB.Begin()

	if req.IsPaid {
		if err := deductStock(tx, txItems); err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	transaction := models.Transaction{
		StudentID:       student.ID,
		UserID:          userID,
		Items:           txItems,
		PaymentMethod:   paymentMethod,
		IsPaid:          req.IsPaid,
		Remarks:         req.Remarks,
		TotalAmount:     draft.Total(),
		ReceiptNo:       utils.GenerateReceiptNo(),
		TransactionDate: time.Now(),
		StockDeducted:   req.IsPaid,
	}

	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create transaction"})
		return
	}

	// Durable per-student flags for mapped (course-linked) items. Set,
	// never unset, by this flow.
	if mapped := draft.MappedKeys(productsByID); len(mapped) > 0 {
		if student.Items == nil {
			student.Items = make(map[string]bool)
		}
		for _, key := range mapped {
			student.Items[key] = true
		}
		if err := tx.Save(&student).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student record"})
			return
		}
	}

	tx.Commit()
	txCache.Invalidate(student.ID)

	logger.L().Info("Transaction created",
		zap.Uint("transaction_id", transaction.ID),
		zap.Uint("student_id", student.ID),
		zap.Float64("total", transaction.TotalAmount))

	c.JSON(http.StatusCreated, transaction)
}

// --- GET: A student's transactions ---
// Served from the per-student cache unless ?refresh=true forces a reload.
// Entries still held in the pending queue are merged in as pending records,
// deduped against confirmed rows by content signature.
func GetStudentTransactions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}
	studentID := uint(id)

	if c.Query("refresh") == "true" {
		txCache.Invalidate(studentID)
	} else if cached, ok := txCache.Get(studentID); ok {
		c.JSON(http.StatusOK, billing.MergeForDisplay(cached, pendingQueue.ForStudent(studentID)))
		return
	}

	var transactions []models.Transaction
	err = database.DB.
		Preload("Items").
		Preload("Items.Components").
		Where("student_id = ?", studentID).
		Order("transaction_date desc").
		Find(&transactions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	// Older rows may predate the stored total; recompute rather than trust
	for i := range transactions {
		for j := range transactions[i].Items {
			item := &transactions[i].Items[j]
			if item.Total == 0 {
				item.Total = float64(item.Quantity) * item.Price
			}
		}
	}

	// Cache the confirmed rows only; pending entries are merged per request
	// because the queue can drain between calls.
	txCache.Set(studentID, transactions)
	c.JSON(http.StatusOK, billing.MergeForDisplay(transactions, pendingQueue.ForStudent(studentID)))
}

// UpdateTransactionRequest replaces a transaction's content wholesale.
type UpdateTransactionRequest struct {
	Items         []models.TransactionItem `json:"items" binding:"required"`
	PaymentMethod string                   `json:"payment_method"`
	IsPaid        bool                     `json:"is_paid"`
	Remarks       string                   `json:"remarks"`
}

// --- PUT: Update a transaction ---
// The items array is replaced in full (the update contract has no partial
// patch). Totals are recomputed defensively, and a transition to paid
// deducts stock exactly once.
func UpdateTransaction(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	var transaction models.Transaction
	if err := database.DB.Preload("Items").Preload("Items.Components").First(&transaction, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A transaction needs at least one item"})
		return
	}

	newItems := normalizeItems(req.Items)

	var total float64
	for _, item := range newItems {
		total += item.Total
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod != "online" {
		paymentMethod = "cash"
	}

	tx := database.DB.Begin()

	if req.IsPaid && !transaction.StockDeducted {
		if err := deductStock(tx, newItems); err != nil {
			tx.Rollback()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		transaction.StockDeducted = true
	}

	if err := replaceItems(tx, &transaction, newItems); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction items"})
		return
	}

	transaction.PaymentMethod = paymentMethod
	transaction.IsPaid = req.IsPaid
	transaction.Remarks = req.Remarks
	transaction.TotalAmount = total

	if err := tx.Omit("Items").Save(&transaction).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction"})
		return
	}

	tx.Commit()
	txCache.Invalidate(transaction.StudentID)

	c.JSON(http.StatusOK, transaction)
}

// MarkTakenRequest identifies one set component inside one line item.
type MarkTakenRequest struct {
	ItemProductID      uint `json:"item_product_id" binding:"required"`
	ComponentProductID uint `json:"component_product_id" binding:"required"`
}

// --- PUT: Mark a set component as taken ---
// Rebuilds the full item list with the single component flipped and writes
// it back wholesale. Nothing is mutated when the target can't be resolved.
func MarkComponentTaken(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	var transaction models.Transaction
	if err := database.DB.Preload("Items").Preload("Items.Components").First(&transaction, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	var req MarkTakenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item and component product ids are required"})
		return
	}

	rebuilt, err := billing.MarkComponentTaken(transaction, req.ItemProductID, req.ComponentProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := database.DB.Begin()
	if err := replaceItems(tx, &transaction, normalizeItems(rebuilt)); err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update transaction items"})
		return
	}
	tx.Commit()
	txCache.Invalidate(transaction.StudentID)

	c.JSON(http.StatusOK, transaction)
}

// SyncRequest carries a client's offline queue for one student.
type SyncRequest struct {
	StudentID uint                 `json:"student_id" binding:"required"`
	Entries   []billing.QueueEntry `json:"entries" binding:"required"`
}

// --- POST: Replay offline-queued transactions ---
// Entries whose content signature already matches a confirmed transaction
// are skipped - their synced twin supersedes them. Everything else is
// created as a confirmed record dated at its original creation time, with
// the same side effects as an online save: stock is deducted when the entry
// is paid and mapped items flip the student's durable received flags.
// Entries that fail to persist are held in the pending queue and keep
// surfacing as pending in the student's history.
func SyncTransactions(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := c.MustGet("userID").(uint)

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var confirmed []models.Transaction
	err := database.DB.Preload("Items").
		Where("student_id = ?", req.StudentID).
		Find(&confirmed).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	seen := make(map[string]bool, len(confirmed))
	for _, t := range confirmed {
		seen[billing.Signature(t)] = true
	}

	var created, skipped, held []string
	for _, entry := range req.Entries {
		if entry.Payload.StudentID != req.StudentID {
			skipped = append(skipped, entry.ID)
			continue
		}
		sig := billing.Signature(entry.ToDisplay())
		if seen[sig] {
			// Already confirmed, drop any held copy too
			pendingQueue.Remove(entry.ID)
			skipped = append(skipped, entry.ID)
			continue
		}

		items := normalizeItems(entry.Payload.Items)
		var total float64
		for _, item := range items {
			total += item.Total
		}

		productsByID := make(map[uint]models.Product, len(items))
		for _, item := range items {
			if _, ok := productsByID[item.ProductID]; ok {
				continue
			}
			var product models.Product
			if err := database.DB.First(&product, item.ProductID).Error; err == nil {
				productsByID[item.ProductID] = product
			}
		}

		transaction := models.Transaction{
			StudentID:       req.StudentID,
			UserID:          userID,
			Items:           items,
			PaymentMethod:   entry.Payload.PaymentMethod,
			IsPaid:          entry.Payload.IsPaid,
			Remarks:         entry.Payload.Remarks,
			TotalAmount:     total,
			ReceiptNo:       utils.GenerateReceiptNo(),
			TransactionDate: entry.CreatedAt,
			StockDeducted:   entry.Payload.IsPaid,
		}

		tx := database.DB.Begin()

		if entry.Payload.IsPaid {
			if err := deductStock(tx, items); err != nil {
				tx.Rollback()
				holdEntry(entry)
				held = append(held, entry.ID)
				continue
			}
		}

		if err := tx.Create(&transaction).Error; err != nil {
			tx.Rollback()
			holdEntry(entry)
			held = append(held, entry.ID)
			continue
		}

		// Same durable-flag side effect as an online save
		if mapped := billing.MappedItemKeys(items, productsByID, student); len(mapped) > 0 {
			if student.Items == nil {
				student.Items = make(map[string]bool)
			}
			var flipped []string
			for _, key := range mapped {
				if !student.Items[key] {
					student.Items[key] = true
					flipped = append(flipped, key)
				}
			}
			if err := tx.Save(&student).Error; err != nil {
				tx.Rollback()
				for _, key := range flipped {
					delete(student.Items, key)
				}
				holdEntry(entry)
				held = append(held, entry.ID)
				continue
			}
		}

		tx.Commit()
		pendingQueue.Remove(entry.ID)
		seen[sig] = true
		created = append(created, entry.ID)
	}

	txCache.Invalidate(req.StudentID)

	c.JSON(http.StatusOK, gin.H{
		"created": created,
		"skipped": skipped,
		"held":    held,
	})
}

// holdEntry parks a failed replay without duplicating an already-held id.
func holdEntry(entry billing.QueueEntry) {
	for _, e := range pendingQueue.ForStudent(entry.Payload.StudentID) {
		if e.ID == entry.ID {
			return
		}
	}
	pendingQueue.Add(entry)
}

// ReceiptLine is one printable row on a payment receipt.
type ReceiptLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
}

// --- GET: Printable receipt for a transaction ---
func GetReceipt(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	var transaction models.Transaction
	if err := database.DB.Preload("Items").Preload("Items.Components").First(&transaction, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		return
	}

	var student models.Student
	if err := database.DB.First(&student, transaction.StudentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	var header models.Setting
	database.DB.Where("`key` = ?", "receipt_header").First(&header)

	lines := make([]ReceiptLine, 0, len(transaction.Items))
	for _, item := range transaction.Items {
		total := item.Total
		if total == 0 {
			total = float64(item.Quantity) * item.Price
		}
		lines = append(lines, ReceiptLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    utils.FormatINR(item.Price),
			Total:    utils.FormatINR(total),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"receipt_no":     transaction.ReceiptNo,
		"header":         header.Value,
		"date":           transaction.TransactionDate,
		"student_name":   student.Name,
		"student_id":     student.StudentID,
		"course":         student.Course,
		"lines":          lines,
		"payment_method": transaction.PaymentMethod,
		"is_paid":        transaction.IsPaid,
		"total":          utils.FormatINR(transaction.TotalAmount),
	})
}

// normalizeItems strips stale row ids so replaced items insert cleanly and
// recomputes any missing line total. total == quantity*price holds at
// creation; stored data without it is never trusted blindly.
func normalizeItems(items []models.TransactionItem) []models.TransactionItem {
	out := make([]models.TransactionItem, len(items))
	copy(out, items)
	for i := range out {
		out[i].ID = 0
		out[i].TransactionID = 0
		if out[i].Total == 0 {
			out[i].Total = float64(out[i].Quantity) * out[i].Price
		}
		if out[i].Status == "" {
			out[i].Status = billing.StatusFulfilled
		}
		if len(out[i].Components) > 0 {
			comps := make([]models.SetComponent, len(out[i].Components))
			copy(comps, out[i].Components)
			for j := range comps {
				comps[j].ID = 0
				comps[j].ItemID = 0
			}
			out[i].Components = comps
			out[i].Status = billing.ItemStatus(comps)
		}
	}
	return out
}

// replaceItems swaps a transaction's item rows wholesale, matching the
// replace semantics of the update contract.
func replaceItems(tx *gorm.DB, transaction *models.Transaction, items []models.TransactionItem) error {
	var oldItemIDs []uint
	for _, item := range transaction.Items {
		oldItemIDs = append(oldItemIDs, item.ID)
	}
	if len(oldItemIDs) > 0 {
		if err := tx.Where("item_id IN ?", oldItemIDs).Delete(&models.SetComponent{}).Error; err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", transaction.ID).Delete(&models.TransactionItem{}).Error; err != nil {
			return err
		}
	}
	for i := range items {
		items[i].TransactionID = transaction.ID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
	}
	transaction.Items = items
	return nil
}

// deductStock removes sold quantities from the catalog under row locks.
// Set lines deduct their components; the set's own stock is not touched.
func deductStock(tx *gorm.DB, items []models.TransactionItem) error {
	for _, item := range items {
		if item.IsSet {
			for _, comp := range item.Components {
				if err := deductProduct(tx, comp.ProductID, comp.Quantity*item.Quantity); err != nil {
					return err
				}
			}
			continue
		}
		if err := deductProduct(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func deductProduct(tx *gorm.DB, productID uint, quantity int) error {
	var product models.Product

	// Lock the row to prevent race conditions
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, productID).Error; err != nil {
		return fmt.Errorf("product %d not found", productID)
	}
	if product.Stock < quantity {
		return fmt.Errorf("insufficient stock for %s", product.Name)
	}
	product.Stock -= quantity
	return tx.Save(&product).Error
}
