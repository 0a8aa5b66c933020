package handlers

import (
	"context"
	"fmt"

	"github.com/choudharyraman03/taskflow-go/internal/progression"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// awardReward writes the immutable ledger entry and applies the coin and
// XP increments to the user row. Both happen inside the caller's
// transaction: a balance change without its ledger entry (or the
// reverse) must be impossible.
func awardReward(ctx context.Context, tx pgx.Tx, userID uuid.UUID, reward progression.Reward, txType, description string, referenceID *uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO coin_transactions (
			id, user_id, amount, transaction_type, description, reference_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, uuid.New(), userID, reward.Coins, txType, description, referenceID)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET coin_balance = coin_balance + $1,
			experience_points = experience_points + $2,
			updated_at = NOW()
		WHERE id = $3
	`, reward.Coins, reward.XP, userID)
	if err != nil {
		return fmt.Errorf("update user progression: %w", err)
	}
	return nil
}

// insertActivity persists a social activity with the actor's friend set
// snapshotted as visible_to, and returns the activity ID with the
// snapshot so the caller can fan out notifications after commit.
func insertActivity(ctx context.Context, tx pgx.Tx, actorID uuid.UUID, activityType, title, description string) (uuid.UUID, []uuid.UUID, error) {
	rows, err := tx.Query(ctx,
		"SELECT friend_id FROM friendships WHERE user_id = $1", actorID)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("snapshot friends: %w", err)
	}
	defer rows.Close()

	visibleTo := []uuid.UUID{}
	for rows.Next() {
		var friendID uuid.UUID
		if err := rows.Scan(&friendID); err != nil {
			return uuid.Nil, nil, fmt.Errorf("scan friend: %w", err)
		}
		visibleTo = append(visibleTo, friendID)
	}
	if err := rows.Err(); err != nil {
		return uuid.Nil, nil, fmt.Errorf("snapshot friends: %w", err)
	}

	activityID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO social_activities (
			id, user_id, activity_type, title, description, visible_to, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, activityID, actorID, activityType, title, description, visibleTo)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("insert activity: %w", err)
	}
	return activityID, visibleTo, nil
}

// pendingActivity is an activity committed in a transaction whose
// notification fan-out still has to happen.
type pendingActivity struct {
	ID           uuid.UUID
	ActivityType string
	Title        string
	Message      string
	Recipients   []uuid.UUID
}
