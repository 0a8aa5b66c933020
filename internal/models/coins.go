package models

import (
	"time"

	"github.com/google/uuid"
)

// Coin transaction kinds
const (
	TxTaskCompletion  = "task_completion"
	TxHabitCompletion = "habit_completion"
	TxPurchase        = "purchase"
	TxBonus           = "bonus"
)

// CoinTransaction is an immutable ledger entry. Positive amounts are
// earned, negative are spent. The sum of a user's entries must equal
// their current coin balance at all times.
type CoinTransaction struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	Amount          int        `json:"amount" db:"amount"`
	TransactionType string     `json:"transaction_type" db:"transaction_type"`
	Description     string     `json:"description" db:"description"`
	ReferenceID     *uuid.UUID `json:"reference_id,omitempty" db:"reference_id"` // originating task/habit/purchase
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// CoinTransactionResponse is the API response format
type CoinTransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Amount          int        `json:"amount"`
	TransactionType string     `json:"transaction_type"`
	Description     string     `json:"description"`
	ReferenceID     *uuid.UUID `json:"reference_id,omitempty"`
	CreatedAt       string     `json:"created_at"`
}

// ToResponse converts CoinTransaction to CoinTransactionResponse
func (ct *CoinTransaction) ToResponse() CoinTransactionResponse {
	return CoinTransactionResponse{
		ID:              ct.ID,
		UserID:          ct.UserID,
		Amount:          ct.Amount,
		TransactionType: ct.TransactionType,
		Description:     ct.Description,
		ReferenceID:     ct.ReferenceID,
		CreatedAt:       ct.CreatedAt.Format(time.RFC3339),
	}
}

// CoinBalance is a user's current balance with progression stats
type CoinBalance struct {
	UserID           uuid.UUID `json:"user_id"`
	Username         string    `json:"username"`
	CoinBalance      int       `json:"coin_balance"`
	ExperiencePoints int       `json:"experience_points"`
	KarmaLevel       int       `json:"karma_level"`
}
