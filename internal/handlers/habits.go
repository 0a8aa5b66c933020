package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/choudharyraman03/taskflow-go/internal/progression"
	"github.com/choudharyraman03/taskflow-go/internal/social"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateHabit creates a new habit for the caller
func CreateHabit(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var req models.HabitCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}
		if req.Frequency == "" {
			req.Frequency = models.FrequencyDaily
		}
		if !models.ValidFrequency(req.Frequency) {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Frequency must be daily, weekly, or monthly")
			return
		}
		if req.Category == "" {
			req.Category = "personal"
		}
		if req.TargetCount <= 0 {
			req.TargetCount = 1
		}

		habitID := uuid.New()
		habit := models.Habit{
			ID:                habitID,
			UserID:            userID,
			Name:              req.Name,
			Description:       req.Description,
			Category:          req.Category,
			Frequency:         req.Frequency,
			TargetCount:       req.TargetCount,
			SharedWithFriends: req.SharedWithFriends,
			IsActive:          true,
		}
		err := db.QueryRow(c.Request.Context(), `
			INSERT INTO habits (
				id, user_id, name, description, category, frequency, target_count,
				shared_with_friends, is_active, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, NOW())
			RETURNING created_at
		`, habitID, userID, req.Name, req.Description, req.Category, req.Frequency,
			req.TargetCount, req.SharedWithFriends,
		).Scan(&habit.CreatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create habit")
			return
		}

		c.JSON(http.StatusCreated, habit)
	}
}

// ListHabits returns the caller's active habits
func ListHabits(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		rows, err := db.Query(c.Request.Context(), `
			SELECT
				id, user_id, name, description, category, frequency, target_count,
				current_streak, best_streak, total_completions, shared_with_friends,
				is_active, last_completed_at, created_at
			FROM habits
			WHERE user_id = $1 AND is_active = true
			ORDER BY created_at DESC
		`, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query habits")
			return
		}
		defer rows.Close()

		habits := []models.Habit{}
		for rows.Next() {
			var h models.Habit
			err := rows.Scan(
				&h.ID, &h.UserID, &h.Name, &h.Description, &h.Category, &h.Frequency,
				&h.TargetCount, &h.CurrentStreak, &h.BestStreak, &h.TotalCompletions,
				&h.SharedWithFriends, &h.IsActive, &h.LastCompletedAt, &h.CreatedAt,
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse habit data")
				return
			}
			habits = append(habits, h)
		}

		c.JSON(http.StatusOK, gin.H{"habits": habits, "count": len(habits)})
	}
}

// GetHabit returns a single habit owned by the caller
func GetHabit(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		habitID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid habit ID format")
			return
		}

		var h models.Habit
		err = db.QueryRow(c.Request.Context(), `
			SELECT
				id, user_id, name, description, category, frequency, target_count,
				current_streak, best_streak, total_completions, shared_with_friends,
				is_active, last_completed_at, created_at
			FROM habits
			WHERE id = $1 AND user_id = $2
		`, habitID, userID).Scan(
			&h.ID, &h.UserID, &h.Name, &h.Description, &h.Category, &h.Frequency,
			&h.TargetCount, &h.CurrentStreak, &h.BestStreak, &h.TotalCompletions,
			&h.SharedWithFriends, &h.IsActive, &h.LastCompletedAt, &h.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "Habit not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query habit")
			}
			return
		}

		c.JSON(http.StatusOK, h)
	}
}

// CompleteHabit records a habit completion: streak advance, completion
// record, reward with ledger entry, and the streak-milestone social
// post. Daily habits reject a second completion in the same UTC day.
func CompleteHabit(db *pgxpool.Pool, emitter *social.Emitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		habitID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid habit ID format")
			return
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to start transaction")
			return
		}
		defer tx.Rollback(c.Request.Context())

		var (
			name          string
			frequency     string
			currentStreak int
			lastCompleted *time.Time
			shared        bool
		)
		err = tx.QueryRow(c.Request.Context(), `
			SELECT name, frequency, current_streak, last_completed_at, shared_with_friends
			FROM habits
			WHERE id = $1 AND user_id = $2 AND is_active = true
			FOR UPDATE
		`, habitID, userID).Scan(&name, &frequency, &currentStreak, &lastCompleted, &shared)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "Habit not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query habit")
			}
			return
		}

		// Daily habits complete at most once per calendar day
		if frequency == models.FrequencyDaily {
			var already bool
			err = tx.QueryRow(c.Request.Context(), `
				SELECT EXISTS(
					SELECT 1 FROM habit_completions
					WHERE habit_id = $1
						AND completed_date >= (date_trunc('day', NOW() AT TIME ZONE 'UTC') AT TIME ZONE 'UTC')
				)
			`, habitID).Scan(&already)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to check completions")
				return
			}
			if already {
				respondError(c, http.StatusConflict, CodeConflict, "Habit already completed today")
				return
			}
		}

		now := time.Now().UTC()
		newStreak := progression.AdvanceStreak(currentStreak, lastCompleted, now, frequency)

		_, err = tx.Exec(c.Request.Context(), `
			INSERT INTO habit_completions (id, user_id, habit_id, completed_date)
			VALUES ($1, $2, $3, NOW())
		`, uuid.New(), userID, habitID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record completion")
			return
		}

		_, err = tx.Exec(c.Request.Context(), `
			UPDATE habits
			SET current_streak = $1,
				best_streak = GREATEST(best_streak, $1),
				total_completions = total_completions + 1,
				last_completed_at = NOW()
			WHERE id = $2
		`, newStreak, habitID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to update habit")
			return
		}

		// Keep the user's display streak fields in step
		_, err = tx.Exec(c.Request.Context(), `
			UPDATE users
			SET current_streak = $1,
				best_streak = GREATEST(best_streak, $1),
				updated_at = NOW()
			WHERE id = $2
		`, newStreak, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to update user streak")
			return
		}

		reward := progression.HabitReward()
		if err := awardReward(c.Request.Context(), tx, userID, reward,
			models.TxHabitCompletion, "Completed habit: "+name, &habitID); err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record reward")
			return
		}

		pending := []pendingActivity{}
		milestone := progression.IsStreakMilestone(newStreak)

		if shared {
			activityID, visibleTo, err := insertActivity(c.Request.Context(), tx, userID,
				models.ActivityHabitCompleted, "Habit completed", "Completed: "+name)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record activity")
				return
			}
			pending = append(pending, pendingActivity{
				ID:           activityID,
				ActivityType: models.ActivityHabitCompleted,
				Title:        "Habit completed",
				Message:      fmt.Sprintf("A friend completed %q", name),
				Recipients:   visibleTo,
			})

			if milestone {
				activityID, visibleTo, err := insertActivity(c.Request.Context(), tx, userID,
					models.ActivityStreakMilestone,
					fmt.Sprintf("%d-day streak", newStreak),
					fmt.Sprintf("Reached a %d-completion streak on %q", newStreak, name))
				if err != nil {
					respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record milestone")
					return
				}
				pending = append(pending, pendingActivity{
					ID:           activityID,
					ActivityType: models.ActivityStreakMilestone,
					Title:        "Streak milestone",
					Message:      fmt.Sprintf("A friend hit a %d-completion streak", newStreak),
					Recipients:   visibleTo,
				})
			}
		}

		if err := tx.Commit(c.Request.Context()); err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to commit transaction")
			return
		}

		for _, p := range pending {
			emitter.FanOut(p.ID, p.ActivityType, p.Title, p.Message, p.Recipients)
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Habit completed successfully",
			"habit_id":     habitID,
			"streak":       newStreak,
			"milestone":    milestone && shared,
			"coins_earned": reward.Coins,
			"xp_earned":    reward.XP,
		})
	}
}
