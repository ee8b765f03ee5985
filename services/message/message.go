// Package message keeps the conversation between a task's owner and helper.
package message

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"helpexchange/model"
	"helpexchange/store"
)

var (
	ErrEmptyBody      = errors.New("message body cannot be empty")
	ErrNotParticipant = errors.New("only the owner or helper can message on this task")
)

type Backend interface {
	store.MessageStore
	store.NotificationStore
	GetTask(ctx context.Context, key string) (*model.Task, error)
}

type Service struct {
	store  Backend
	logger zerolog.Logger
	now    func() time.Time
}

func New(backend Backend, logger zerolog.Logger) *Service {
	return &Service{store: backend, logger: logger, now: time.Now}
}

// Post appends a message to the task and notifies the other participant.
func (s *Service) Post(ctx context.Context, taskID, senderID, body string) (*model.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	task, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if senderID != task.Owner && senderID != task.Helper {
		return nil, ErrNotParticipant
	}

	msg := &model.Message{
		TaskID: taskID,
		Sender: senderID,
		Body:   body,
		Sent:   s.now().UnixMilli(),
	}
	if err := s.store.AddMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("add message: %w", err)
	}

	if to := task.Counterpart(senderID); to != "" {
		if err := s.store.AddNotification(ctx, &model.Notification{Receiver: to, TaskID: taskID}); err != nil {
			s.logger.Warn().
				Err(err).
				Str("task_id", taskID).
				Str("receiver", to).
				Msg("failed to notify about message")
		}
	}
	return msg, nil
}

// List returns the task's messages, oldest first.
func (s *Service) List(ctx context.Context, taskID string) ([]*model.Message, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	msgs, err := s.store.ListMessages(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []*model.Message{}
	}
	return msgs, nil
}
