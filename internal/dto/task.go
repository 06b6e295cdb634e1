package dto

import (
	"encoding/json"
	"time"

	"github.com/yukikurage/student-planner-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      models.TaskStatus `json:"status"`
	OwnerID     string            `json:"owner_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// UnmarshalJSON accepts the field spellings older clients and stores used:
// "_id" for the id and "desc" for the description. Status is normalized.
func (t *TaskDTO) UnmarshalJSON(data []byte) error {
	type plain TaskDTO
	var raw struct {
		plain
		MongoID string  `json:"_id"`
		Desc    *string `json:"desc"`
		Status  string  `json:"status"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = TaskDTO(raw.plain)
	if t.ID == "" {
		t.ID = raw.MongoID
	}
	if t.Description == "" && raw.Desc != nil {
		t.Description = *raw.Desc
	}
	t.Status = models.NormalizeStatus(raw.Status)
	return nil
}

// TaskEnvelope wraps a single task, as returned by create, get and update
type TaskEnvelope struct {
	Message string  `json:"message,omitempty"`
	Task    TaskDTO `json:"task"`
}

// DeleteTaskResponse confirms which task was removed
type DeleteTaskResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// TaskStatsDTO holds per-column task counts
type TaskStatsDTO struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Done       int `json:"done"`
}

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
}

// UpdateTaskRequest carries the partial field set of PUT /tasks/:id.
// Nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status.Normalize(),
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskStatsDTO converts per-status counts to TaskStatsDTO
func ToTaskStatsDTO(counts map[models.TaskStatus]int64) TaskStatsDTO {
	stats := TaskStatsDTO{
		Todo:       int(counts[models.TaskStatusTodo]),
		InProgress: int(counts[models.TaskStatusInProgress]),
		Done:       int(counts[models.TaskStatusDone]),
	}
	stats.Total = stats.Todo + stats.InProgress + stats.Done
	return stats
}
