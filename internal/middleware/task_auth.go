package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/student-planner-api/internal/constants"
	apierrors "github.com/yukikurage/student-planner-api/internal/errors"
)

// RequireTaskID validates the :id route parameter and stores it in context.
// Ownership is checked by the task service, which can tell a missing task
// from someone else's.
func RequireTaskID() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID := c.Param("id")
		if _, err := uuid.Parse(taskID); err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			return
		}

		c.Set(constants.ContextKeyTaskID, taskID)
		c.Next()
	}
}

// GetTaskID retrieves the validated task ID from context
func GetTaskID(c *gin.Context) (string, bool) {
	taskID, exists := c.Get(constants.ContextKeyTaskID)
	if !exists {
		return "", false
	}
	id, ok := taskID.(string)
	return id, ok
}
