package handlers

import (
	"errors"
	"net/http"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListStoreItems returns all active store items
func ListStoreItems(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.Query(c.Request.Context(), `
			SELECT id, name, description, category, cost_coins, icon, active, created_at
			FROM store_items
			WHERE active = true
			ORDER BY cost_coins ASC, name ASC
		`)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query store items")
			return
		}
		defer rows.Close()

		items := []models.StoreItem{}
		for rows.Next() {
			var item models.StoreItem
			err := rows.Scan(
				&item.ID, &item.Name, &item.Description, &item.Category,
				&item.CostCoins, &item.Icon, &item.Active, &item.CreatedAt,
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse item data")
				return
			}
			items = append(items, item)
		}

		c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
	}
}

// PurchaseItem debits coins and records the purchase with its ledger
// entry in one transaction. The debit is conditional on sufficient
// balance, so a concurrent spend can never drive the balance negative.
func PurchaseItem(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid item ID format")
			return
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to start transaction")
			return
		}
		defer tx.Rollback(c.Request.Context())

		var itemName string
		var costCoins int
		var active bool
		err = tx.QueryRow(c.Request.Context(),
			"SELECT name, cost_coins, active FROM store_items WHERE id = $1", itemID,
		).Scan(&itemName, &costCoins, &active)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "Store item not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query item")
			}
			return
		}
		if !active {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Store item is not available")
			return
		}

		// Conditional debit: zero rows means insufficient balance
		tag, err := tx.Exec(c.Request.Context(), `
			UPDATE users
			SET coin_balance = coin_balance - $1, updated_at = NOW()
			WHERE id = $2 AND coin_balance >= $1
		`, costCoins, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to debit balance")
			return
		}
		if tag.RowsAffected() == 0 {
			var available int
			if err := tx.QueryRow(c.Request.Context(),
				"SELECT coin_balance FROM users WHERE id = $1", userID,
			).Scan(&available); err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query balance")
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"error":           "Insufficient coin balance",
				"code":            CodeInsufficientBalance,
				"coins_available": available,
				"coins_required":  costCoins,
				"coins_short":     costCoins - available,
			})
			return
		}

		purchaseID := uuid.New()
		_, err = tx.Exec(c.Request.Context(), `
			INSERT INTO purchases (id, user_id, item_id, coins_spent, status, created_at)
			VALUES ($1, $2, $3, $4, 'settled', NOW())
		`, purchaseID, userID, itemID, costCoins)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record purchase")
			return
		}

		// Ledger entry with negative amount; balance was already debited
		_, err = tx.Exec(c.Request.Context(), `
			INSERT INTO coin_transactions (
				id, user_id, amount, transaction_type, description, reference_id, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		`, uuid.New(), userID, -costCoins, models.TxPurchase, "Purchased: "+itemName, purchaseID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record transaction")
			return
		}

		if err := tx.Commit(c.Request.Context()); err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to commit transaction")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":     "Purchase successful",
			"purchase_id": purchaseID,
			"item":        itemName,
			"coins_spent": costCoins,
		})
	}
}
