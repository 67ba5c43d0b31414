package utils

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

var mu sync.Mutex
var seededRand *rand.Rand

func init() {
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
}

// GenerateReceiptNo produces a unique printable receipt number like
// "RCP-482913204517". Timestamp plus a random suffix keeps it unique even
// when two receipts print in the same millisecond.
func GenerateReceiptNo() string {
	mu.Lock()
	defer mu.Unlock()

	nowNano := time.Now().UnixNano()
	nanoPart := nowNano % 1000000000

	randPart := seededRand.Intn(900) + 100

	return fmt.Sprintf("RCP-%09d%03d", nanoPart, randPart)
}

// FormatINR renders an amount the way every receipt in the system shows
// money: a fixed rupee glyph and exactly two decimals. Rounding happens
// here and only here - never during accumulation.
func FormatINR(amount float64) string {
	return fmt.Sprintf("₹%.2f", Round2(amount))
}

// Round2 rounds a currency value to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
