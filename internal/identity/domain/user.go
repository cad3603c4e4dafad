package domain

import "time"

// DefaultAddress is the placeholder stored until a user sets a real
// shipping address.
const DefaultAddress = "ADDRESS_NOT_SET"

type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	WalletBalance int64
	Address       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasShippingAddress reports whether a real address has been set. This
// is the single authoritative check used by checkout.
func (u User) HasShippingAddress() bool {
	return u.Address != "" && u.Address != DefaultAddress
}
