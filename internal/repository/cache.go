package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/student-planner-api/internal/models"
)

// CachedTaskRepository serves full per-owner task lists from Redis and evicts
// the owner's entry on every write. Redis failures fall back to the wrapped
// repository without failing the request.
//
// Every write also bumps a per-owner generation counter. A list read from the
// database is stored only if the generation is unchanged, so a write that
// lands while the read is in flight cannot be masked by the older rows.
type CachedTaskRepository struct {
	TaskRepository
	redis  *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedTaskRepository wraps base with a Redis list cache. A nil logger
// uses the logrus standard logger.
func NewCachedTaskRepository(base TaskRepository, client *redis.Client, ttl time.Duration, logger *log.Logger) *CachedTaskRepository {
	if base == nil {
		panic("repository.NewCachedTaskRepository: base repository is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &CachedTaskRepository{
		TaskRepository: base,
		redis:          client,
		ttl:            ttl,
		logger:         logger,
	}
}

func tasksCacheKey(ownerID string) string {
	return "tasks:" + ownerID
}

func tasksGenerationKey(ownerID string) string {
	return "tasks:gen:" + ownerID
}

// ListByOwner reads through the cache for unfiltered lists only
func (r *CachedTaskRepository) ListByOwner(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	if !filter.Unfiltered() {
		return r.TaskRepository.ListByOwner(ctx, filter)
	}

	if tasks, ok := r.load(ctx, filter.OwnerID); ok {
		return tasks, int64(len(tasks)), nil
	}

	gen, genOK := r.generation(ctx, filter.OwnerID)

	tasks, total, err := r.TaskRepository.ListByOwner(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if genOK {
		r.store(ctx, filter.OwnerID, gen, tasks)
	}
	return tasks, total, nil
}

func (r *CachedTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.TaskRepository.Create(ctx, task); err != nil {
		return err
	}
	r.evict(ctx, task.OwnerID)
	return nil
}

func (r *CachedTaskRepository) Update(ctx context.Context, task *models.Task) error {
	if err := r.TaskRepository.Update(ctx, task); err != nil {
		return err
	}
	r.evict(ctx, task.OwnerID)
	return nil
}

func (r *CachedTaskRepository) Delete(ctx context.Context, task *models.Task) error {
	if err := r.TaskRepository.Delete(ctx, task); err != nil {
		return err
	}
	r.evict(ctx, task.OwnerID)
	return nil
}

func (r *CachedTaskRepository) load(ctx context.Context, ownerID string) ([]models.Task, bool) {
	if r.redis == nil {
		return nil, false
	}
	key := tasksCacheKey(ownerID)
	data, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.WithError(err).WithField("key", key).Warn("task cache read failed")
			_ = r.redis.Del(ctx, key).Err()
		}
		return nil, false
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		_ = r.redis.Del(ctx, key).Err()
		return nil, false
	}
	// Cached rows bypass the AfterFind hook.
	for i := range tasks {
		tasks[i].Status = tasks[i].Status.Normalize()
	}
	return tasks, true
}

// generation reads the owner's write counter. A missing counter is zero.
func (r *CachedTaskRepository) generation(ctx context.Context, ownerID string) (int64, bool) {
	if r.redis == nil || r.ttl == 0 {
		return 0, false
	}
	gen, err := r.redis.Get(ctx, tasksGenerationKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		r.logger.WithError(err).WithField("owner_id", ownerID).Warn("task cache generation read failed")
		return 0, false
	}
	return gen, true
}

// store caches tasks unless a write bumped the generation since gen was read
func (r *CachedTaskRepository) store(ctx context.Context, ownerID string, gen int64, tasks []models.Task) {
	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}

	genKey := tasksGenerationKey(ownerID)
	err = r.redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, tasksCacheKey(ownerID), data, r.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, redis.TxFailedErr):
		r.logger.WithField("owner_id", ownerID).Debug("task list changed while loading, not cached")
	default:
		r.logger.WithError(err).WithField("owner_id", ownerID).Warn("task cache write failed")
	}
}

// evict bumps the owner's generation and drops the cached list in one transaction
func (r *CachedTaskRepository) evict(ctx context.Context, ownerID string) {
	if r.redis == nil {
		return
	}
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, tasksGenerationKey(ownerID))
		pipe.Del(ctx, tasksCacheKey(ownerID))
		return nil
	})
	if err != nil {
		r.logger.WithError(err).WithField("owner_id", ownerID).Error("task cache eviction failed")
	}
}
