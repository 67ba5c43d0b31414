package models

import (
	"time"
)

// User - Staff member operating the admin tool
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

// Product - A catalog item. When IsSet is true the product is a bundle
// and its contents live in SetItems; a set's own Stock is not authoritative.
type Product struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Stock             int       `json:"stock"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	ForCourse         string    `json:"for_course"`                       // empty = offered to all courses (add-on)
	Years             []int     `gorm:"serializer:json" json:"years"`     // empty = all years
	Branches          []string  `gorm:"serializer:json" json:"branches"`  // empty = all branches
	Semesters         []int     `gorm:"serializer:json" json:"semesters"` // empty = all semesters
	IsSet             bool      `json:"is_set"`
	SetItems          []SetItem `gorm:"foreignKey:ProductID" json:"set_items,omitempty"`
}

// SetItem - One component of a set product. ComponentName is a snapshot
// taken when the set is defined so old receipts survive later renames.
type SetItem struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ProductID     uint   `json:"product_id"` // the set that owns this row
	ComponentID   uint   `json:"component_id"`
	ComponentName string `json:"component_name"`
	Quantity      int    `json:"quantity"`
	Position      int    `json:"position"` // keeps the author's ordering
}

// Student - The person items are issued to. Items is the long-lived
// "has this mapped kit item ever been issued" map, keyed by normalized
// product name; it outlives individual transactions.
type Student struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `json:"name"`
	StudentID string          `gorm:"uniqueIndex;size:50" json:"student_id"`
	Course    string          `json:"course"`
	Year      int             `json:"year"`
	Branch    string          `json:"branch"`
	Semester  int             `json:"semester"`
	Items     map[string]bool `gorm:"serializer:json" json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction - One issuance/billing record for a student
type Transaction struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	StudentID       uint              `gorm:"index" json:"student_id"`
	UserID          uint              `json:"user_id"` // who processed it
	Items           []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
	PaymentMethod   string            `json:"payment_method"` // 'cash', 'online'
	IsPaid          bool              `json:"is_paid"`
	Remarks         string            `json:"remarks"`
	TotalAmount     float64           `json:"total_amount"`
	ReceiptNo       string            `gorm:"size:40" json:"receipt_no"`
	TransactionDate time.Time         `json:"transaction_date"`
	StockDeducted   bool              `json:"stock_deducted"` // paid sales may still await deduction
	CreatedAt       time.Time         `json:"created_at"`

	// Display-only: set when this record stands in for a not-yet-synced
	// offline draft. Never persisted.
	IsPending bool   `gorm:"-" json:"is_pending,omitempty"`
	LocalID   string `gorm:"-" json:"local_id,omitempty"`
}

// TransactionItem - A line on the receipt. Name and Price are snapshots of
// the product at sale time; later catalog edits must not rewrite history.
type TransactionItem struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	TransactionID uint           `gorm:"index" json:"transaction_id"`
	ProductID     uint           `json:"product_id"`
	Name          string         `json:"name"`
	Quantity      int            `json:"quantity"`
	Price         float64        `json:"price"`
	Total         float64        `json:"total"`  // quantity * price at creation
	IsSet         bool           `json:"is_set"`
	Status        string         `json:"status"` // 'fulfilled', 'partial'
	Components    []SetComponent `gorm:"foreignKey:ItemID" json:"set_components,omitempty"`
}

// SetComponent - Per-component fulfillment state for a set line item.
// Taken moves one way only: once true it never reverts.
type SetComponent struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ItemID    uint   `gorm:"index" json:"item_id"`
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Taken     bool   `json:"taken"`
	Reason    string `json:"reason"`
}

// Vendor - Supplier for incoming stock
type Vendor struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// StockEntry - Incoming stock from a vendor into the warehouse or a college location
type StockEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"index" json:"product_id"`
	VendorID  uint      `json:"vendor_id"`
	Quantity  int       `json:"quantity"`
	UnitCost  float64   `json:"unit_cost"`
	Location  string    `json:"location"` // 'warehouse' or a college code
	Remarks   string    `json:"remarks"`
	EntryDate time.Time `json:"entry_date"`
}

// StockTransfer - Movement of stock between locations
type StockTransfer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"index" json:"product_id"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	Quantity     int       `json:"quantity"`
	Remarks      string    `json:"remarks"`
	TransferDate time.Time `json:"transfer_date"`
}

// Setting - Key/value store for institution-wide options
// (receipt header text, academic year, etc.)
type Setting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"uniqueIndex;size:100" json:"key"`
	Value string `json:"value"`
}
