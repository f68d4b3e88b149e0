package domain

import "time"

// Wallet holds a crypto address. A wallet with a nil UserID is a
// system wallet: the platform-owned counterparty for deposits and
// investments, unique per crypto type.
type Wallet struct {
	ID         string
	UserID     *string
	Name       string
	CryptoType CryptoType
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsSystem reports whether the wallet is platform-owned.
func (w *Wallet) IsSystem() bool {
	return w.UserID == nil
}

// OwnedBy reports whether the wallet belongs to the given user.
func (w *Wallet) OwnedBy(userID string) bool {
	return w.UserID != nil && *w.UserID == userID
}
