// Package board keeps the client-side task board: tasks partitioned into
// status columns, optimistic moves on drag and drop, reconciliation with the
// server's copy and rollback when the server rejects a move.
package board

import (
	"context"
	"errors"
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/student-planner-api/internal/dto"
	"github.com/yukikurage/student-planner-api/internal/models"
)

var (
	ErrUnknownColumn = errors.New("unknown board column")
	ErrEmptyResponse = errors.New("server returned no task")
)

// Column identifies one of the three board columns
type Column string

const (
	ColumnTodo       Column = Column(models.ColumnKeyTodo)
	ColumnInProgress Column = Column(models.ColumnKeyInProgress)
	ColumnDone       Column = Column(models.ColumnKeyDone)
)

// ColumnFor returns the column a status belongs in
func ColumnFor(status models.TaskStatus) Column {
	return Column(status.Normalize().ColumnKey())
}

// Status returns the canonical status of the column
func (c Column) Status() models.TaskStatus {
	return models.StatusForColumn(string(c))
}

func (c Column) valid() bool {
	return c == ColumnTodo || c == ColumnInProgress || c == ColumnDone
}

// TaskAPI is the persistence the board is built on
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]dto.TaskDTO, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskDTO, error)
	UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (*dto.TaskDTO, error)
	DeleteTask(ctx context.Context, id string) (string, error)
}

// Columns is a snapshot of the board, one ordered slice per column
type Columns struct {
	Todo       []dto.TaskDTO
	InProgress []dto.TaskDTO
	Done       []dto.TaskDTO
}

func (c *Columns) column(col Column) *[]dto.TaskDTO {
	switch col {
	case ColumnInProgress:
		return &c.InProgress
	case ColumnDone:
		return &c.Done
	default:
		return &c.Todo
	}
}

func (c *Columns) each(fn func(col Column, tasks *[]dto.TaskDTO)) {
	fn(ColumnTodo, &c.Todo)
	fn(ColumnInProgress, &c.InProgress)
	fn(ColumnDone, &c.Done)
}

func (c Columns) clone() Columns {
	return Columns{
		Todo:       slices.Clone(c.Todo),
		InProgress: slices.Clone(c.InProgress),
		Done:       slices.Clone(c.Done),
	}
}

// find reports the column holding id and its index there
func (c *Columns) find(id string) (Column, int, bool) {
	var (
		found Column
		index = -1
	)
	c.each(func(col Column, tasks *[]dto.TaskDTO) {
		if index >= 0 {
			return
		}
		if i := slices.IndexFunc(*tasks, func(t dto.TaskDTO) bool { return t.ID == id }); i >= 0 {
			found, index = col, i
		}
	})
	return found, index, index >= 0
}

func (c *Columns) remove(id string) bool {
	removed := false
	c.each(func(_ Column, tasks *[]dto.TaskDTO) {
		before := len(*tasks)
		*tasks = slices.DeleteFunc(*tasks, func(t dto.TaskDTO) bool { return t.ID == id })
		removed = removed || len(*tasks) != before
	})
	return removed
}

func (c *Columns) insert(task dto.TaskDTO) {
	task.Status = task.Status.Normalize()
	col := c.column(ColumnFor(task.Status))
	*col = append(*col, task)
}

// restore puts task back at index in col
func (c *Columns) restore(col Column, index int, task dto.TaskDTO) {
	tasks := c.column(col)
	index = min(index, len(*tasks))
	*tasks = slices.Insert(*tasks, index, task)
}

type dragState struct {
	task   dto.TaskDTO
	source Column
}

// Board holds the task columns for one user. It is safe for concurrent use;
// the lock is never held while waiting on the TaskAPI.
type Board struct {
	api TaskAPI

	mu   sync.Mutex
	cols Columns
	drag *dragState

	celebrate func(dto.TaskDTO)
	notify    func(error)
	logger    *log.Logger
}

// Option configures a Board
type Option func(*Board)

// WithCelebration sets the hook fired once when a drop lands a task in Done
func WithCelebration(fn func(dto.TaskDTO)) Option {
	return func(b *Board) { b.celebrate = fn }
}

// WithErrorNotifier sets the hook fired once for every failed mutation
func WithErrorNotifier(fn func(error)) Option {
	return func(b *Board) { b.notify = fn }
}

func WithLogger(logger *log.Logger) Option {
	return func(b *Board) { b.logger = logger }
}

// New creates an empty board backed by api
func New(api TaskAPI, opts ...Option) *Board {
	b := &Board{
		api:       api,
		celebrate: func(dto.TaskDTO) {},
		notify:    func(error) {},
		logger:    log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the board with the user's tasks. On failure the board is
// left empty and the error is returned; there is no retry.
func (b *Board) Load(ctx context.Context) error {
	tasks, err := b.api.ListTasks(ctx)
	if err != nil {
		b.logger.WithError(err).Error("failed to load tasks")
		b.mu.Lock()
		b.cols = Columns{}
		b.mu.Unlock()
		return err
	}

	var cols Columns
	for _, task := range tasks {
		if task.ID == "" {
			b.logger.WithField("title", task.Title).Warn("skipping task without id")
			continue
		}
		if _, _, exists := cols.find(task.ID); exists {
			continue
		}
		cols.insert(task)
	}

	b.mu.Lock()
	b.cols = cols
	b.mu.Unlock()
	return nil
}

// Append adds a task unless its id is already on the board. It reports
// whether the task was added.
func (b *Board) Append(task dto.TaskDTO) bool {
	if task.ID == "" {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, _, exists := b.cols.find(task.ID); exists {
		return false
	}
	b.cols.insert(task)
	return true
}

// Upsert replaces any entry with the task's id and files the task at the end
// of its status column. The last call for an id wins.
func (b *Board) Upsert(task dto.TaskDTO) {
	if task.ID == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.cols.remove(task.ID)
	b.cols.insert(task)
}

// Delete removes the task from whichever column holds it. The server-side
// delete must already have succeeded.
func (b *Board) Delete(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cols.remove(id)
}

// BeginDrag records the task being dragged and the column it left
func (b *Board) BeginDrag(task dto.TaskDTO, source Column) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.drag = &dragState{task: task, source: source}
}

func (b *Board) EndDrag() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.drag = nil
}

// Dragging returns the task currently being dragged, if any
func (b *Board) Dragging() (dto.TaskDTO, Column, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drag == nil {
		return dto.TaskDTO{}, "", false
	}
	return b.drag.task, b.drag.source, true
}

// Drop moves the dragged task to target. The move is applied locally before
// the server is asked; the server's copy then replaces it, or the task is put
// back exactly where it was. Only the moved task is rolled back, so changes to
// other tasks made while the request was in flight survive. Drag state is
// cleared in every case.
func (b *Board) Drop(ctx context.Context, target Column) error {
	b.mu.Lock()
	drag := b.drag
	b.drag = nil
	if drag == nil || drag.source == target {
		b.mu.Unlock()
		return nil
	}
	if !target.valid() {
		b.mu.Unlock()
		return ErrUnknownColumn
	}

	moved := drag.task
	origCol, origIdx, onBoard := b.cols.find(moved.ID)
	if onBoard {
		moved = (*b.cols.column(origCol))[origIdx]
	}
	original := moved
	moved.Status = target.Status()
	b.cols.remove(moved.ID)
	b.cols.insert(moved)
	b.mu.Unlock()

	status := string(target.Status())
	saved, err := b.api.UpdateTask(ctx, moved.ID, dto.UpdateTaskRequest{Status: &status})
	if err == nil && saved == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		b.mu.Lock()
		b.cols.remove(moved.ID)
		if onBoard {
			b.cols.restore(origCol, origIdx, original)
		}
		b.mu.Unlock()

		b.logger.WithError(err).WithFields(log.Fields{
			"task_id": moved.ID,
			"from":    drag.source,
			"to":      target,
		}).Warn("task move rejected, rolled back")
		b.notify(err)
		return err
	}

	b.Upsert(*saved)
	if saved.Status.Normalize() == models.TaskStatusDone {
		b.celebrate(*saved)
	}
	return nil
}

// Create asks the server to create a task and appends the server's copy
func (b *Board) Create(ctx context.Context, req dto.CreateTaskRequest) (*dto.TaskDTO, error) {
	created, err := b.api.CreateTask(ctx, req)
	if err == nil && created == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		b.logger.WithError(err).Warn("failed to create task")
		b.notify(err)
		return nil, err
	}

	b.Append(*created)
	return created, nil
}

// Edit saves field changes and upserts the server's copy
func (b *Board) Edit(ctx context.Context, id string, req dto.UpdateTaskRequest) (*dto.TaskDTO, error) {
	saved, err := b.api.UpdateTask(ctx, id, req)
	if err == nil && saved == nil {
		err = ErrEmptyResponse
	}
	if err != nil {
		b.logger.WithError(err).WithField("task_id", id).Warn("failed to update task")
		b.notify(err)
		return nil, err
	}

	b.Upsert(*saved)
	return saved, nil
}

// Remove deletes the task on the server, then from the board
func (b *Board) Remove(ctx context.Context, id string) error {
	removedID, err := b.api.DeleteTask(ctx, id)
	if err != nil {
		b.logger.WithError(err).WithField("task_id", id).Warn("failed to delete task")
		b.notify(err)
		return err
	}
	if removedID == "" {
		removedID = id
	}

	b.Delete(removedID)
	return nil
}

// Columns returns a copy of the board safe to read while the board changes
func (b *Board) Columns() Columns {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.cols.clone()
}

// Find returns the task with id and the column holding it
func (b *Board) Find(id string) (dto.TaskDTO, Column, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	col, i, ok := b.cols.find(id)
	if !ok {
		return dto.TaskDTO{}, "", false
	}
	return (*b.cols.column(col))[i], col, true
}

// Counts returns the number of tasks per column
func (b *Board) Counts() dto.TaskStatsDTO {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := dto.TaskStatsDTO{
		Todo:       len(b.cols.Todo),
		InProgress: len(b.cols.InProgress),
		Done:       len(b.cols.Done),
	}
	stats.Total = stats.Todo + stats.InProgress + stats.Done
	return stats
}
