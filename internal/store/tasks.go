// Package store keeps the task collection and the unsubmitted draft in a
// key-value backend. Backend failures never escape: reads degrade to empty
// results and writes report false. Validation problems are returned as
// errors wrapping model.ErrValidation or model.ErrDuplicate.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/sandeepkv93/tasktrack/internal/model"
	"github.com/sandeepkv93/tasktrack/internal/storage"
)

const TasksKey = "myApp_tasks"

type TaskStore struct {
	kv     storage.KV
	key    string
	logger *zap.Logger
}

func NewTaskStore(kv storage.KV, logger *zap.Logger) *TaskStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskStore{kv: kv, key: TasksKey, logger: logger}
}

// GetAll returns the stored tasks in insertion order, or an empty slice when
// nothing usable is stored.
func (s *TaskStore) GetAll(ctx context.Context) []model.Task {
	tasks, err := s.load(ctx)
	if err != nil {
		return []model.Task{}
	}
	return tasks
}

// load reads the collection for a mutation. A missing key is an empty
// collection. Backend and decode failures are returned so that callers never
// overwrite data they could not read.
func (s *TaskStore) load(ctx context.Context) ([]model.Task, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []model.Task{}, nil
		}
		s.logger.Error("failed to retrieve tasks from storage", zap.Error(err))
		return nil, err
	}
	var tasks []model.Task
	if err := sonic.ConfigStd.UnmarshalFromString(raw, &tasks); err != nil {
		s.logger.Error("stored tasks are corrupted", zap.Error(err), zap.Int("bytes", len(raw)))
		return nil, err
	}
	if tasks == nil {
		return []model.Task{}, nil
	}
	return tasks, nil
}

func (s *TaskStore) setAll(ctx context.Context, tasks []model.Task) bool {
	payload, err := sonic.ConfigStd.MarshalToString(tasks)
	if err != nil {
		s.logger.Error("failed to encode tasks", zap.Error(err))
		return false
	}
	if err := s.kv.Set(ctx, s.key, payload); err != nil {
		s.logger.Error("failed to save tasks to storage", zap.Error(err), zap.Int("count", len(tasks)))
		return false
	}
	return true
}

// Add appends task. The returned bool is the result of the storage write; it
// is false without writing when the collection cannot be read.
func (s *TaskStore) Add(ctx context.Context, task model.Task) (bool, error) {
	if err := task.Validate(); err != nil {
		return false, err
	}
	tasks, err := s.load(ctx)
	if err != nil {
		return false, nil
	}
	for _, existing := range tasks {
		if existing.ID == task.ID {
			return false, fmt.Errorf("%w: id %q", model.ErrDuplicate, task.ID)
		}
		if existing.Name == task.Name {
			return false, fmt.Errorf("%w: name %q", model.ErrDuplicate, task.Name)
		}
	}
	return s.setAll(ctx, append(tasks, task)), nil
}

func (s *TaskStore) Exists(ctx context.Context, id string) bool {
	for _, t := range s.GetAll(ctx) {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Update merges patch into the task with the given id. The collection is
// rewritten even when no task matches.
func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) bool {
	tasks, err := s.load(ctx)
	if err != nil {
		return false
	}
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i] = patch.Apply(tasks[i])
		}
	}
	return s.setAll(ctx, tasks)
}

func (s *TaskStore) Remove(ctx context.Context, id string) bool {
	tasks, err := s.load(ctx)
	if err != nil {
		return false
	}
	kept := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	return s.setAll(ctx, kept)
}

func (s *TaskStore) Clear(ctx context.Context) bool {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		s.logger.Error("failed to clear storage", zap.Error(err))
		return false
	}
	return true
}
