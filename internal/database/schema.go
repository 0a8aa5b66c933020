package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist and seeds the default
// store catalog.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			timezone TEXT NOT NULL DEFAULT 'UTC',
			avatar_url TEXT,
			experience_points INTEGER NOT NULL DEFAULT 0 CHECK (experience_points >= 0),
			coin_balance INTEGER NOT NULL DEFAULT 0 CHECK (coin_balance >= 0),
			current_streak INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			total_tasks_completed INTEGER NOT NULL DEFAULT 0,
			notification_prefs JSONB NOT NULL DEFAULT '{}',
			last_active TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			description TEXT,
			priority INTEGER NOT NULL DEFAULT 1 CHECK (priority BETWEEN 1 AND 5),
			ai_priority INTEGER CHECK (ai_priority BETWEEN 1 AND 5),
			category TEXT NOT NULL DEFAULT 'personal',
			due_date TIMESTAMPTZ,
			estimated_duration INTEGER,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TIMESTAMPTZ,
			shared_with_friends BOOLEAN NOT NULL DEFAULT FALSE,
			group_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL DEFAULT 'personal',
			frequency TEXT NOT NULL DEFAULT 'daily',
			target_count INTEGER NOT NULL DEFAULT 1,
			current_streak INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			total_completions INTEGER NOT NULL DEFAULT 0,
			shared_with_friends BOOLEAN NOT NULL DEFAULT FALSE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_completed_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (best_streak >= current_streak)
		);`,
		`CREATE TABLE IF NOT EXISTS habit_completions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			habit_id UUID NOT NULL REFERENCES habits(id),
			completed_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			notes TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS coin_transactions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			amount INTEGER NOT NULL,
			transaction_type TEXT NOT NULL,
			description TEXT NOT NULL,
			reference_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS friend_requests (
			id UUID PRIMARY KEY,
			from_user_id UUID NOT NULL REFERENCES users(id),
			to_user_id UUID NOT NULL REFERENCES users(id),
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (from_user_id, to_user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS friendships (
			user_id UUID NOT NULL REFERENCES users(id),
			friend_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, friend_id)
		);`,
		`CREATE TABLE IF NOT EXISTS social_activities (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			activity_type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			visible_to UUID[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			type TEXT NOT NULL,
			related_id UUID,
			scheduled_time TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			sent BOOLEAN NOT NULL DEFAULT FALSE,
			opened BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS task_groups (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			main_task TEXT NOT NULL,
			completion_strategy TEXT NOT NULL DEFAULT '',
			subtask_ids UUID[] NOT NULL DEFAULT '{}',
			total_subtasks INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS store_items (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'cosmetic',
			cost_coins INTEGER NOT NULL CHECK (cost_coins > 0),
			icon TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			item_id UUID NOT NULL REFERENCES store_items(id),
			coins_spent INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'settled',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_created ON tasks(user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id) WHERE is_active;`,
		`CREATE INDEX IF NOT EXISTS idx_habit_completions_habit_date ON habit_completions(habit_id, completed_date DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_coin_transactions_user_created ON coin_transactions(user_id, created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_social_activities_created ON social_activities(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return seedStoreItems(ctx, pool)
}

// seedStoreItems inserts the default catalog; existing items are left alone.
func seedStoreItems(ctx context.Context, pool *pgxpool.Pool) error {
	seed := `
		INSERT INTO store_items (id, name, description, category, cost_coins, icon)
		VALUES
			(gen_random_uuid(), 'Golden Badge', 'A shiny badge for your profile', 'cosmetic', 25, 'badge'),
			(gen_random_uuid(), 'Custom Theme', 'Unlock a custom color theme', 'cosmetic', 40, 'palette'),
			(gen_random_uuid(), 'Streak Shield', 'Display a shield next to your streak', 'cosmetic', 60, 'shield'),
			(gen_random_uuid(), 'Profile Banner', 'A decorative banner for your profile', 'cosmetic', 80, 'banner')
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := pool.Exec(ctx, seed); err != nil {
		return fmt.Errorf("seed store items: %w", err)
	}
	return nil
}
