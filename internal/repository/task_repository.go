package repository

import (
	"context"

	"github.com/yukikurage/student-planner-api/internal/database"
	"github.com/yukikurage/student-planner-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Owner").Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByOwner retrieves the owner's tasks with optional status filter and pagination
func (r *GormTaskRepository) ListByOwner(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("owner_id = ?", filter.OwnerID)

	if filter.Status != nil {
		query = whereStatus(query, filter.Status.Normalize())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	if err := query.
		Order("created_at ASC").
		Order("id ASC").
		Scopes(database.Paginate(filter.Pagination)).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// whereStatus matches rows whose stored spelling normalizes to status, so
// rows written before statuses were canonical still filter correctly.
func whereStatus(query *gorm.DB, status models.TaskStatus) *gorm.DB {
	if status == models.TaskStatusTodo {
		var others []string
		for _, s := range models.Statuses {
			if s != models.TaskStatusTodo {
				others = append(others, s.Spellings()...)
			}
		}
		return query.Where("(status IS NULL OR LOWER(TRIM(status)) NOT IN ?)", others)
	}
	return query.Where("LOWER(TRIM(status)) IN ?", status.Spellings())
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Omit("Owner").Save(task).Error
}

// Delete hard deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", task.ID).Error
}

// CountByStatus counts the owner's tasks grouped by status
func (r *GormTaskRepository) CountByStatus(ctx context.Context, ownerID string) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(models.Statuses))
	for _, row := range rows {
		counts[row.Status.Normalize()] += row.Count
	}
	return counts, nil
}
