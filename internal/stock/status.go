package stock

import (
	"math"
	"time"

	"github.com/mamadbah2/estoque/internal/domain/models"
)

const (
	// DefaultNearExpirationDays is the warning window used when none is configured.
	DefaultNearExpirationDays = 30
	// DefaultLowStockThreshold is the highest positive quantity shown as low stock.
	DefaultLowStockThreshold = 5
)

const day = 24 * time.Hour

// ParseExpiration resolves a normalized expiration date to midnight UTC. It
// reports false for the indeterminate sentinel and for anything else that is
// not an ISO calendar date.
func ParseExpiration(date string) (time.Time, bool) {
	if date == "" || date == models.DateIndeterminate {
		return time.Time{}, false
	}
	t, err := time.Parse(isoLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsExpired reports whether the date resolves and lies strictly before now.
func IsExpired(date string, now time.Time) bool {
	expiresAt, ok := ParseExpiration(date)
	return ok && expiresAt.Before(now)
}

// DaysUntil returns the ceiling of the day distance between now and t.
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(float64(t.Sub(now)) / float64(day)))
}

// IsNearExpiration reports whether the date falls within (0, window] days from now.
func IsNearExpiration(date string, now time.Time, window int) bool {
	expiresAt, ok := ParseExpiration(date)
	if !ok {
		return false
	}
	if window <= 0 {
		window = DefaultNearExpirationDays
	}
	days := DaysUntil(expiresAt, now)
	return days > 0 && days <= window
}

// Classify derives the status of an item from its normalized quantity and
// expiration date. The first matching condition wins: out of stock, expired,
// near expiration, in stock.
func Classify(quantity, expirationDate string, now time.Time, window int) models.Status {
	switch {
	case ParseQuantity(quantity) <= 0:
		return models.StatusOutOfStock
	case IsExpired(expirationDate, now):
		return models.StatusExpired
	case IsNearExpiration(expirationDate, now, window):
		return models.StatusNearExpiration
	default:
		return models.StatusInStock
	}
}

// IsLowStock reports whether a positive quantity is at or below the threshold.
// It is a display hint and never changes the item status.
func IsLowStock(quantity string, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	q := ParseQuantity(quantity)
	return q > 0 && q <= int64(threshold)
}
