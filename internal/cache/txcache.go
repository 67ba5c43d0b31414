package cache

import (
	"sync"

	"stationery-admin/internal/models"
)

// TransactionCache keeps per-student transaction lists so repeated views
// don't re-query the database. The contract is deliberately narrow:
// entries are replaced on every fresh load and invalidated on any write
// touching the student (or on a forced refresh). There is no TTL.
type TransactionCache struct {
	mu        sync.RWMutex
	byStudent map[uint][]models.Transaction
}

func NewTransactionCache() *TransactionCache {
	return &TransactionCache{
		byStudent: make(map[uint][]models.Transaction),
	}
}

// Get returns the cached list for a student and whether one exists.
func (c *TransactionCache) Get(studentID uint) ([]models.Transaction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	txs, ok := c.byStudent[studentID]
	return txs, ok
}

// Set stores the canonical server view for a student.
func (c *TransactionCache) Set(studentID uint, txs []models.Transaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byStudent[studentID] = txs
}

// Invalidate drops a single student's entry. Called after every write to
// that student's transactions and on forced refresh.
func (c *TransactionCache) Invalidate(studentID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byStudent, studentID)
}

// InvalidateAll clears the whole cache.
func (c *TransactionCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byStudent = make(map[uint][]models.Transaction)
}
