package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/choudharyraman03/taskflow-go/internal/planner"
	"github.com/choudharyraman03/taskflow-go/internal/progression"
	"github.com/choudharyraman03/taskflow-go/internal/social"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CreateTask creates a new task, asking the advisory oracle for a
// suggested priority. The suggestion lands in ai_priority and never
// touches the user-set priority; any oracle failure just leaves it
// unset.
func CreateTask(db *pgxpool.Pool, oracle planner.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var req models.TaskCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}
		if req.Priority == 0 {
			req.Priority = 1
		}
		if req.Priority < 1 || req.Priority > 5 {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Priority must be between 1 and 5")
			return
		}
		if req.Category == "" {
			req.Category = "personal"
		}

		var aiPriority *int
		if oracle != nil {
			suggested, err := suggestPriority(c, db, oracle, userID, req)
			if err != nil {
				// Advisory failure falls back to the user-set priority
				slog.Warn("ai priority suggestion failed, using task priority", "error", err)
				suggested = req.Priority
			}
			aiPriority = &suggested
		}

		taskID := uuid.New()
		query := `
			INSERT INTO tasks (
				id, user_id, title, description, priority, ai_priority, category,
				due_date, estimated_duration, shared_with_friends, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
			RETURNING created_at, updated_at
		`

		task := models.Task{
			ID:                taskID,
			UserID:            userID,
			Title:             req.Title,
			Description:       req.Description,
			Priority:          req.Priority,
			AIPriority:        aiPriority,
			Category:          req.Category,
			DueDate:           req.DueDate,
			EstimatedDuration: req.EstimatedDuration,
			SharedWithFriends: req.SharedWithFriends,
		}
		err := db.QueryRow(c.Request.Context(), query,
			taskID, userID, req.Title, req.Description, req.Priority, aiPriority,
			req.Category, req.DueDate, req.EstimatedDuration, req.SharedWithFriends,
		).Scan(&task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create task")
			return
		}

		c.JSON(http.StatusCreated, task)
	}
}

// suggestPriority builds oracle context from the user's recent tasks.
func suggestPriority(c *gin.Context, db *pgxpool.Pool, oracle planner.Oracle, userID uuid.UUID, req models.TaskCreateRequest) (int, error) {
	rows, err := db.Query(c.Request.Context(), `
		SELECT title, priority, category, due_date, estimated_duration
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 10
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("query existing tasks: %w", err)
	}
	defer rows.Close()

	existing := []planner.TaskSummary{}
	for rows.Next() {
		var t planner.TaskSummary
		if err := rows.Scan(&t.Title, &t.Priority, &t.Category, &t.DueDate, &t.EstimatedDuration); err != nil {
			return 0, fmt.Errorf("scan task summary: %w", err)
		}
		existing = append(existing, t)
	}

	current := planner.TaskSummary{
		Title:             req.Title,
		Priority:          req.Priority,
		Category:          req.Category,
		DueDate:           req.DueDate,
		EstimatedDuration: req.EstimatedDuration,
	}
	return planner.SuggestPriority(c.Request.Context(), oracle, current, existing)
}

// ListTasks returns the caller's tasks, optionally filtered by completion
func ListTasks(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		query := `
			SELECT
				id, user_id, title, description, priority, ai_priority, category,
				due_date, estimated_duration, completed, completed_at,
				shared_with_friends, group_id, created_at, updated_at
			FROM tasks
			WHERE user_id = $1
		`
		params := []interface{}{userID}

		if completedParam := c.Query("completed"); completedParam != "" {
			if completedParam != "true" && completedParam != "false" {
				respondError(c, http.StatusBadRequest, CodeValidationError, "completed must be true or false")
				return
			}
			query += " AND completed = $2"
			params = append(params, completedParam == "true")
		}

		query += " ORDER BY created_at DESC LIMIT 1000"

		rows, err := db.Query(c.Request.Context(), query, params...)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query tasks")
			return
		}
		defer rows.Close()

		tasks := []models.Task{}
		for rows.Next() {
			var t models.Task
			err := rows.Scan(
				&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.AIPriority,
				&t.Category, &t.DueDate, &t.EstimatedDuration, &t.Completed, &t.CompletedAt,
				&t.SharedWithFriends, &t.GroupID, &t.CreatedAt, &t.UpdatedAt,
			)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse task data")
				return
			}
			tasks = append(tasks, t)
		}

		c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
	}
}

// GetTask returns a single task owned by the caller
func GetTask(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		taskID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid task ID format")
			return
		}

		var t models.Task
		err = db.QueryRow(c.Request.Context(), `
			SELECT
				id, user_id, title, description, priority, ai_priority, category,
				due_date, estimated_duration, completed, completed_at,
				shared_with_friends, group_id, created_at, updated_at
			FROM tasks
			WHERE id = $1 AND user_id = $2
		`, taskID, userID).Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.AIPriority,
			&t.Category, &t.DueDate, &t.EstimatedDuration, &t.Completed, &t.CompletedAt,
			&t.SharedWithFriends, &t.GroupID, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "Task not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query task")
			}
			return
		}

		c.JSON(http.StatusOK, t)
	}
}

// UpdateTask applies a partial update. Completion is not reachable from
// here; it has its own endpoint with reward semantics.
func UpdateTask(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		taskID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid task ID format")
			return
		}

		var req models.TaskUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}
		if req.Priority != nil && (*req.Priority < 1 || *req.Priority > 5) {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Priority must be between 1 and 5")
			return
		}
		if req.Title != nil && *req.Title == "" {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Title cannot be empty")
			return
		}

		setClauses := "updated_at = NOW()"
		params := []interface{}{}
		paramCount := 0

		addSet := func(column string, value interface{}) {
			paramCount++
			setClauses += fmt.Sprintf(", %s = $%d", column, paramCount)
			params = append(params, value)
		}

		if req.Title != nil {
			addSet("title", *req.Title)
		}
		if req.Description != nil {
			addSet("description", *req.Description)
		}
		if req.Priority != nil {
			addSet("priority", *req.Priority)
		}
		if req.Category != nil {
			addSet("category", *req.Category)
		}
		if req.DueDate != nil {
			addSet("due_date", *req.DueDate)
		}
		if req.EstimatedDuration != nil {
			addSet("estimated_duration", *req.EstimatedDuration)
		}
		if req.SharedWithFriends != nil {
			addSet("shared_with_friends", *req.SharedWithFriends)
		}

		query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d",
			setClauses, paramCount+1, paramCount+2)
		params = append(params, taskID, userID)

		tag, err := db.Exec(c.Request.Context(), query, params...)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to update task")
			return
		}
		if tag.RowsAffected() == 0 {
			respondError(c, http.StatusNotFound, CodeNotFound, "Task not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully", "task_id": taskID})
	}
}

// DeleteTask removes a task. Historical ledger and achievement state
// reference the completion's effect, not the task, so nothing cascades.
func DeleteTask(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		taskID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid task ID format")
			return
		}

		tag, err := db.Exec(c.Request.Context(),
			"DELETE FROM tasks WHERE id = $1 AND user_id = $2", taskID, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to delete task")
			return
		}
		if tag.RowsAffected() == 0 {
			respondError(c, http.StatusNotFound, CodeNotFound, "Task not found")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
	}
}

// CompleteTask marks a task completed and runs the progression rules:
// reward, ledger entry, task counter, achievement check, and social
// emission. Everything except the notification fan-out happens in one
// transaction.
func CompleteTask(db *pgxpool.Pool, emitter *social.Emitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		taskID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid task ID format")
			return
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to start transaction")
			return
		}
		defer tx.Rollback(c.Request.Context())

		var (
			title       string
			description *string
			priority    int
			duration    *int
			completed   bool
			shared      bool
		)
		err = tx.QueryRow(c.Request.Context(), `
			SELECT title, description, priority, estimated_duration, completed, shared_with_friends
			FROM tasks
			WHERE id = $1 AND user_id = $2
			FOR UPDATE
		`, taskID, userID).Scan(&title, &description, &priority, &duration, &completed, &shared)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "Task not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query task")
			}
			return
		}
		if completed {
			respondError(c, http.StatusConflict, CodeConflict, "Task is already completed")
			return
		}

		_, err = tx.Exec(c.Request.Context(), `
			UPDATE tasks
			SET completed = true, completed_at = NOW(), updated_at = NOW()
			WHERE id = $1
		`, taskID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to complete task")
			return
		}

		descLen := 0
		if description != nil {
			descLen = len(*description)
		}
		estimated := 0
		if duration != nil {
			estimated = *duration
		}
		bigTask := progression.DefaultBigTaskPolicy.IsBig(estimated, descLen, priority)
		reward := progression.TaskReward(bigTask)

		if err := awardReward(c.Request.Context(), tx, userID, reward,
			models.TxTaskCompletion, "Completed task: "+title, &taskID); err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record reward")
			return
		}

		var totalCompleted int
		err = tx.QueryRow(c.Request.Context(), `
			UPDATE users
			SET total_tasks_completed = total_tasks_completed + 1
			WHERE id = $1
			RETURNING total_tasks_completed
		`, userID).Scan(&totalCompleted)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to update task counter")
			return
		}

		pending := []pendingActivity{}

		achievement := progression.AchievementForTaskCount(totalCompleted)
		if achievement != nil {
			if achievement.BonusCoins > 0 {
				bonus := progression.Reward{Coins: achievement.BonusCoins}
				if err := awardReward(c.Request.Context(), tx, userID, bonus,
					models.TxBonus, fmt.Sprintf("Achievement bonus: %s", achievement.Name), nil); err != nil {
					respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record bonus")
					return
				}
			}

			activityID, visibleTo, err := insertActivity(c.Request.Context(), tx, userID,
				models.ActivityAchievementUnlock, achievement.Name, achievement.Description())
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record achievement")
				return
			}
			pending = append(pending, pendingActivity{
				ID:           activityID,
				ActivityType: models.ActivityAchievementUnlock,
				Title:        "Achievement unlocked",
				Message:      fmt.Sprintf("A friend unlocked %q", achievement.Name),
				Recipients:   visibleTo,
			})
		}

		if shared {
			activityID, visibleTo, err := insertActivity(c.Request.Context(), tx, userID,
				models.ActivityTaskCompleted, "Task completed", "Completed: "+title)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to record activity")
				return
			}
			pending = append(pending, pendingActivity{
				ID:           activityID,
				ActivityType: models.ActivityTaskCompleted,
				Title:        "Task completed",
				Message:      fmt.Sprintf("A friend completed %q", title),
				Recipients:   visibleTo,
			})
		}

		if err := tx.Commit(c.Request.Context()); err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to commit transaction")
			return
		}

		for _, p := range pending {
			emitter.FanOut(p.ID, p.ActivityType, p.Title, p.Message, p.Recipients)
		}

		resp := gin.H{
			"message":               "Task completed successfully",
			"task_id":               taskID,
			"coins_earned":          reward.Coins,
			"xp_earned":             reward.XP,
			"big_task":              bigTask,
			"total_tasks_completed": totalCompleted,
		}
		if achievement != nil {
			resp["achievement"] = gin.H{
				"name":        achievement.Name,
				"threshold":   achievement.Threshold,
				"bonus_coins": achievement.BonusCoins,
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// NextBestTask asks the oracle which open task to work on next
func NextBestTask(db *pgxpool.Pool, oracle planner.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		if oracle == nil {
			respondError(c, http.StatusServiceUnavailable, CodeAdvisoryUnavailable, "Advisory service is not configured")
			return
		}

		rows, err := db.Query(c.Request.Context(), `
			SELECT id, title, priority, category, due_date, estimated_duration
			FROM tasks
			WHERE user_id = $1 AND completed = false
			ORDER BY created_at DESC
			LIMIT 50
		`, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query tasks")
			return
		}
		defer rows.Close()

		open := []planner.TaskSummary{}
		for rows.Next() {
			var id uuid.UUID
			var t planner.TaskSummary
			if err := rows.Scan(&id, &t.Title, &t.Priority, &t.Category, &t.DueDate, &t.EstimatedDuration); err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse task data")
				return
			}
			t.ID = id.String()
			open = append(open, t)
		}

		if len(open) == 0 {
			c.JSON(http.StatusOK, gin.H{"message": "No tasks available for recommendation"})
			return
		}

		now := time.Now().UTC()
		recommendation, err := planner.NextBestTask(c.Request.Context(), oracle, now, open)
		if err != nil {
			respondError(c, http.StatusServiceUnavailable, CodeAdvisoryUnavailable, "Advisory service unavailable")
			return
		}

		c.JSON(http.StatusOK, gin.H{"recommendation": recommendation, "timestamp": now.Format(time.RFC3339)})
	}
}
