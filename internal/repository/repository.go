package repository

import (
	"context"

	"github.com/yukikurage/student-planner-api/internal/models"
	"github.com/yukikurage/student-planner-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID regardless of owner
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// ListByOwner retrieves the owner's tasks, oldest first
	ListByOwner(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// Update persists every column of the task
	Update(ctx context.Context, task *models.Task) error

	// Delete removes a task permanently
	Delete(ctx context.Context, task *models.Task) error

	// CountByStatus counts the owner's tasks per status
	CountByStatus(ctx context.Context, ownerID string) (map[models.TaskStatus]int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID    string
	Status     *models.TaskStatus
	Pagination utils.PaginationParams
}

// Unfiltered reports whether the filter selects the owner's full task list
func (f TaskFilter) Unfiltered() bool {
	return f.Status == nil && f.Pagination.Limit == 0
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
