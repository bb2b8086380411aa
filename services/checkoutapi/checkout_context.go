package checkoutapi

import (
	"time"
)

// CheckoutContext records one checkout attempt. It never holds the client secret.
type CheckoutContext struct {
	UID           string
	SessionID     string
	Mode          Mode
	PriceID       string
	Quantity      int64
	CreatedAt     time.Time
	LastModified  *time.Time
	Status        string
	PaymentStatus string
	CustomerEmail string
}
