package billing

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"stationery-admin/internal/models"
)

// QueuePayload is the body of a transaction created while offline, held
// until the connectivity layer replays it.
type QueuePayload struct {
	StudentID     uint                     `json:"student_id"`
	Items         []models.TransactionItem `json:"items"`
	PaymentMethod string                   `json:"payment_method"`
	IsPaid        bool                     `json:"is_paid"`
	Remarks       string                   `json:"remarks"`
	TotalAmount   float64                  `json:"total_amount"`
}

// QueueEntry is one offline transaction awaiting sync. The ID is locally
// generated and never collides with a server id.
type QueueEntry struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Payload   QueuePayload `json:"payload"`
}

// NewQueueEntry wraps a payload with a local "pending-<timestamp>-<random>" id.
func NewQueueEntry(payload QueuePayload) QueueEntry {
	return QueueEntry{
		ID:        fmt.Sprintf("pending-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8]),
		CreatedAt: time.Now(),
		Payload:   payload,
	}
}

// ToDisplay converts a queued entry into the transaction shape the display
// merge works on. The record is flagged pending and keeps its local id.
func (e QueueEntry) ToDisplay() models.Transaction {
	return models.Transaction{
		StudentID:       e.Payload.StudentID,
		Items:           e.Payload.Items,
		PaymentMethod:   e.Payload.PaymentMethod,
		IsPaid:          e.Payload.IsPaid,
		Remarks:         e.Payload.Remarks,
		TotalAmount:     e.Payload.TotalAmount,
		TransactionDate: e.CreatedAt,
		CreatedAt:       e.CreatedAt,
		IsPending:       true,
		LocalID:         e.ID,
	}
}

// Queue holds pending entries in memory. Retry-on-reconnect is owned by the
// connectivity layer; this type only stores, filters and removes.
type Queue struct {
	mu      sync.Mutex
	entries []QueueEntry
}

func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Add(entry QueueEntry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append(q.entries, entry)
}

// ForStudent returns the queued entries belonging to one student.
func (q *Queue) ForStudent(studentID uint) []QueueEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []QueueEntry
	for _, e := range q.entries {
		if e.Payload.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out
}

// Remove drops an entry by its local id. Removing an unknown id is a no-op.
func (q *Queue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
