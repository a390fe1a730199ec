package utils

import (
	"fmt"
	"math"
	rndm "math/rand"
	"strings"
	"sync/atomic"
	"time"
)

// --- Random String and ID Generators ---

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

var orderSeq uint32

// NewOrderNumber returns a unique, time-sortable order number such as
// ORD-20250114093012-0042. The sequence component keeps numbers distinct
// within one second.
func NewOrderNumber() string {
	seq := atomic.AddUint32(&orderSeq, 1) % 10000
	return fmt.Sprintf("ORD-%s-%04d", time.Now().UTC().Format("20060102150405"), seq)
}

// NewSKU returns a time-based unique stock keeping unit token, used when a
// product is created without one.
func NewSKU() string {
	return fmt.Sprintf("SKU-%d-%s", time.Now().UnixMilli(), strings.ToUpper(GenerateRandomString(4)))
}

// Round2 rounds a monetary amount to two decimals. All derived totals go
// through this before persisting.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
