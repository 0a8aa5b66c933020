package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/choudharyraman03/taskflow-go/internal/models"
	"github.com/choudharyraman03/taskflow-go/internal/planner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DecomposeTask asks the advisory oracle for a subtask plan. Nothing is
// persisted; materialization is a separate, explicit step.
func DecomposeTask(oracle planner.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authUser(c); !ok {
			return
		}

		if oracle == nil {
			respondError(c, http.StatusServiceUnavailable, CodeAdvisoryUnavailable, "Advisory service is not configured")
			return
		}

		var req planner.DecomposeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}

		plan, err := planner.Decompose(c.Request.Context(), oracle, req)
		if err != nil {
			if errors.Is(err, planner.ErrAdvisoryUnavailable) {
				respondError(c, http.StatusServiceUnavailable, CodeAdvisoryUnavailable, "Advisory service unavailable")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to decompose task")
			}
			return
		}

		c.JSON(http.StatusOK, plan)
	}
}

// MaterializeRequest carries an already-produced decomposition to turn
// into tracked subtasks.
type MaterializeRequest struct {
	MainTask           string            `json:"main_task" binding:"required"`
	Category           string            `json:"category"`
	CompletionStrategy string            `json:"completion_strategy"`
	Subtasks           []planner.Subtask `json:"subtasks" binding:"required"`
}

// MaterializeGroup creates one tracked task per subtask plus the group
// record, atomically. The oracle is not consulted; this is pure
// materialization of a plan the client already holds.
func MaterializeGroup(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		var req MaterializeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid request body: "+err.Error())
			return
		}
		if len(req.Subtasks) == 0 {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Subtasks cannot be empty")
			return
		}
		if req.Category == "" {
			req.Category = "personal"
		}

		tx, err := db.Begin(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to start transaction")
			return
		}
		defer tx.Rollback(c.Request.Context())

		groupID := uuid.New()
		subtaskIDs := make([]uuid.UUID, 0, len(req.Subtasks))

		for _, st := range req.Subtasks {
			priority := st.Priority
			if priority < 1 || priority > 5 {
				priority = 3
			}
			duration := st.EstimatedDuration
			if duration <= 0 {
				duration = 30
			}

			taskID := uuid.New()
			_, err = tx.Exec(c.Request.Context(), `
				INSERT INTO tasks (
					id, user_id, title, description, priority, category,
					estimated_duration, group_id, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			`, taskID, userID, st.Title, st.Description, priority, req.Category,
				duration, groupID)
			if err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create subtask")
				return
			}
			subtaskIDs = append(subtaskIDs, taskID)
		}

		var createdAt time.Time
		err = tx.QueryRow(c.Request.Context(), `
			INSERT INTO task_groups (
				id, user_id, main_task, completion_strategy, subtask_ids, total_subtasks, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING created_at
		`, groupID, userID, req.MainTask, req.CompletionStrategy, subtaskIDs, len(subtaskIDs)).Scan(&createdAt)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create task group")
			return
		}

		if err := tx.Commit(c.Request.Context()); err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to commit transaction")
			return
		}

		c.JSON(http.StatusCreated, models.TaskGroupResponse{
			ID:                 groupID,
			UserID:             userID,
			MainTask:           req.MainTask,
			CompletionStrategy: req.CompletionStrategy,
			SubtaskIDs:         subtaskIDs,
			TotalSubtasks:      len(subtaskIDs),
			CompletedSubtasks:  0,
			ProgressPercentage: 0,
			CreatedAt:          createdAt.Format(time.RFC3339),
		})
	}
}

// GetTaskGroup returns a group with progress recomputed from the live
// completion state of its subtasks.
func GetTaskGroup(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		groupID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "Invalid group ID format")
			return
		}

		var group models.TaskGroup
		err = db.QueryRow(c.Request.Context(), `
			SELECT id, user_id, main_task, completion_strategy, subtask_ids, total_subtasks, created_at
			FROM task_groups
			WHERE id = $1 AND user_id = $2
		`, groupID, userID).Scan(
			&group.ID, &group.UserID, &group.MainTask, &group.CompletionStrategy,
			&group.SubtaskIDs, &group.TotalSubtasks, &group.CreatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				respondError(c, http.StatusNotFound, CodeNotFound, "Task group not found")
			} else {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query task group")
			}
			return
		}

		var completed int
		err = db.QueryRow(c.Request.Context(),
			"SELECT COUNT(*) FROM tasks WHERE group_id = $1 AND completed = true", groupID,
		).Scan(&completed)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to count subtasks")
			return
		}

		c.JSON(http.StatusOK, models.TaskGroupResponse{
			ID:                 group.ID,
			UserID:             group.UserID,
			MainTask:           group.MainTask,
			CompletionStrategy: group.CompletionStrategy,
			SubtaskIDs:         group.SubtaskIDs,
			TotalSubtasks:      group.TotalSubtasks,
			CompletedSubtasks:  completed,
			ProgressPercentage: models.GroupProgress(completed, group.TotalSubtasks),
			CreatedAt:          group.CreatedAt.Format(time.RFC3339),
		})
	}
}

// GetInsights returns AI productivity insights over the last 30 days of
// completed tasks. Failures degrade to a friendly message; insights are
// advisory, never load-bearing.
func GetInsights(db *pgxpool.Pool, oracle planner.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := authUser(c)
		if !ok {
			return
		}

		rows, err := db.Query(c.Request.Context(), `
			SELECT title, priority, category, completed_at
			FROM tasks
			WHERE user_id = $1 AND completed = true AND completed_at >= NOW() - INTERVAL '30 days'
			ORDER BY completed_at DESC
			LIMIT 100
		`, userID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to query tasks")
			return
		}
		defer rows.Close()

		completed := []planner.TaskSummary{}
		for rows.Next() {
			var t planner.TaskSummary
			if err := rows.Scan(&t.Title, &t.Priority, &t.Category, &t.CompletedAt); err != nil {
				respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to parse task data")
				return
			}
			completed = append(completed, t)
		}

		if len(completed) < 3 {
			c.JSON(http.StatusOK, gin.H{"insights": []string{"Complete more tasks to get personalized insights!"}})
			return
		}
		if oracle == nil {
			c.JSON(http.StatusOK, gin.H{"insights": []string{"Unable to generate insights at this time"}})
			return
		}

		insights, err := planner.Insights(c.Request.Context(), oracle, completed)
		if err != nil {
			slog.Error("insights generation failed", "error", err)
			c.JSON(http.StatusOK, gin.H{"insights": []string{"Unable to generate insights at this time"}})
			return
		}

		c.JSON(http.StatusOK, gin.H{"insights": []string{insights}})
	}
}
