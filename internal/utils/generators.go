package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateBookingReference returns the human-facing booking token. Derived
// from the creation time, so it is not guaranteed globally unique under a
// high request rate; the random suffix only narrows the collision window.
func GenerateBookingReference() string {
	timestamp := time.Now().UnixMilli()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(9999))
	return fmt.Sprintf("BK%d%04d", timestamp, randomNum.Int64())
}

// GenerateTransactionID returns the synthetic transaction identifier a
// processed payment is stamped with. A real gateway would supply its own.
func GenerateTransactionID() string {
	timestamp := time.Now().Unix()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999999))
	return fmt.Sprintf("txn_%d_%09d", timestamp, randomNum.Int64())
}
