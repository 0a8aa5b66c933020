package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/choudharyraman03/taskflow-go/internal/progression"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetBalance returns the caller's coin balance and progression stats
func GetBalance(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var balance models.CoinBalance
		err := db.QueryRow(c.Request.Context(), `
			SELECT id, username, coin_balance, experience_points
			FROM users
			WHERE id = $1
		`, userID).Scan(&balance.UserID, &balance.Username, &balance.CoinBalance, &balance.ExperiencePoints)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query balance")
			}
			return
		}
		balance.KarmaLevel = progression.KarmaLevel(balance.ExperiencePoints)

		c.JSON(http.StatusOK, balance)
	}
}

// maxTransactionPage caps a single transaction history page.
const maxTransactionPage = 200

// GetTransactions returns the caller's coin transaction history
func GetTransactions(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		// Optional filters
		transactionType := c.Query("type")

		limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
		if err != nil || limit < 1 {
			respondError(c, http.StatusBadRequest, CodeValidationError, "limit must be a positive integer")
			return
		}
		if limit > maxTransactionPage {
			limit = maxTransactionPage
		}
		offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if err != nil || offset < 0 {
			respondError(c, http.StatusBadRequest, CodeValidationError, "offset must be a non-negative integer")
			return
		}

		query := `
			SELECT id, user_id, amount, transaction_type, description, reference_id, created_at
			FROM coin_transactions
			WHERE user_id = $1
		`
		params := []interface{}{userID}
		paramCount := 1

		if transactionType != "" {
			paramCount++
			query += fmt.Sprintf(" AND transaction_type = $%d", paramCount)
			params = append(params, transactionType)
		}

		query += " ORDER BY created_at DESC"

		paramCount++
		query += fmt.Sprintf(" LIMIT $%d", paramCount)
		params = append(params, limit)

		paramCount++
		query += fmt.Sprintf(" OFFSET $%d", paramCount)
		params = append(params, offset)

		rows, err := db.Query(c.Request.Context(), query, params...)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query transactions")
			return
		}
		defer rows.Close()

		transactions := []models.CoinTransactionResponse{}
		for rows.Next() {
			var ct models.CoinTransaction
			err := rows.Scan(
				&ct.ID, &ct.UserID, &ct.Amount, &ct.TransactionType,
				&ct.Description, &ct.ReferenceID, &ct.CreatedAt,
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse transaction data")
				return
			}
			transactions = append(transactions, ct.ToResponse())
		}

		c.JSON(http.StatusOK, gin.H{
			"transactions": transactions,
			"count":        len(transactions),
		})
	}
}

// ReconcileBalance replays the caller's ledger and compares the sum to
// the stored balance. A mismatch means an invariant was broken; it is
// reported, never silently corrected.
func ReconcileBalance(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var balance, ledgerSum int
		err := db.QueryRow(c.Request.Context(), `
			SELECT
				u.coin_balance,
				COALESCE((SELECT SUM(amount) FROM coin_transactions WHERE user_id = u.id), 0)::int
			FROM users u
			WHERE u.id = $1
		`, userID).Scan(&balance, &ledgerSum)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "User not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to reconcile")
			}
			return
		}

		if balance != ledgerSum {
			slog.Error("ledger/balance mismatch detected",
				"user", userID, "balance", balance, "ledger_sum", ledgerSum)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":      "Coin balance does not match ledger",
				"code":       CodeInternalInconsistency,
				"balance":    balance,
				"ledger_sum": ledgerSum,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"consistent": true,
			"balance":    balance,
			"ledger_sum": ledgerSum,
		})
	}
}
