// Package notification summarizes pending notifications per task.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"helpexchange/model"
	"helpexchange/store"
)

type Backend interface {
	store.NotificationStore
	GetTask(ctx context.Context, key string) (*model.Task, error)
}

type Summary struct {
	TaskID   string `json:"taskId"`
	Count    int    `json:"count"`
	Overview string `json:"overview"`
}

type Aggregator struct {
	store  Backend
	logger zerolog.Logger
}

func NewAggregator(backend Backend, logger zerolog.Logger) *Aggregator {
	return &Aggregator{store: backend, logger: logger}
}

// Summaries groups the receiver's notifications by task, in the order each
// task was first seen. Overviews are read from the current task, so a task
// deleted since the notification was written yields an empty overview.
func (a *Aggregator) Summaries(ctx context.Context, receiver string) ([]Summary, error) {
	notes, err := a.store.ListNotifications(ctx, receiver)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]Summary, 0)
	index := make(map[string]int)
	for _, n := range notes {
		if i, ok := index[n.TaskID]; ok {
			out[i].Count++
			continue
		}
		index[n.TaskID] = len(out)
		out = append(out, Summary{TaskID: n.TaskID, Count: 1})
	}

	for i := range out {
		task, err := a.store.GetTask(ctx, out[i].TaskID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			a.logger.Warn().
				Str("task_id", out[i].TaskID).
				Str("receiver", receiver).
				Msg("notification refers to a missing task")
		case err != nil:
			a.logger.Warn().
				Err(err).
				Str("task_id", out[i].TaskID).
				Msg("failed to read task overview")
		default:
			out[i].Overview = task.Overview
		}
	}
	return out, nil
}

// Consume drops the receiver's notifications for the task. Consuming nothing
// is not an error.
func (a *Aggregator) Consume(ctx context.Context, receiver, taskID string) error {
	n, err := a.store.DeleteNotifications(ctx, receiver, taskID)
	if err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	if n > 0 {
		a.logger.Debug().
			Str("task_id", taskID).
			Str("receiver", receiver).
			Int("count", n).
			Msg("consumed notifications")
	}
	return nil
}
