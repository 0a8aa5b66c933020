package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreItem is a purchasable item in the coin store
type StoreItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	CostCoins   int       `json:"cost_coins" db:"cost_coins"`
	Icon        string    `json:"icon" db:"icon"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Purchase links a user, a store item, and the coins spent. Immutable
// once created; created only after the balance debit succeeds.
type Purchase struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	ItemID     uuid.UUID `json:"item_id" db:"item_id"`
	CoinsSpent int       `json:"coins_spent" db:"coins_spent"`
	Status     string    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
