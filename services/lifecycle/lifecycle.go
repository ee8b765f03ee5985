// Package lifecycle owns task creation, edits and status transitions. Every
// transition is a single store transaction that re-reads the task, so the
// reward credited on verification is applied exactly once.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"helpexchange/model"
	"helpexchange/store"
)

var (
	ErrHelperNotFound  = errors.New("helper not found")
	ErrNotOwner        = errors.New("only the task owner can do this")
	ErrNotHelper       = errors.New("only the task helper can do this")
	ErrOwnTask         = errors.New("owners cannot accept their own task")
	ErrProfileRequired = errors.New("a profile with zipcode and country is required")
	ErrEmptyDetail     = errors.New("task detail cannot be empty")
)

const overviewLength = 60

type Backend interface {
	store.TaskStore
	store.UserStore
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error
}

type Service struct {
	store  Backend
	logger zerolog.Logger
	now    func() time.Time
}

func New(backend Backend, logger zerolog.Logger) *Service {
	return &Service{
		store:  backend,
		logger: logger,
		now:    time.Now,
	}
}

type NewTask struct {
	Detail   string
	Overview string
	Reward   string
	Category string
}

// Create posts a task for the owner. The owner's location is copied onto the
// task as it is now; later profile edits do not move existing tasks.
func (s *Service) Create(ctx context.Context, ownerID string, in NewTask) (*model.Task, error) {
	detail := strings.TrimSpace(in.Detail)
	if detail == "" {
		return nil, ErrEmptyDetail
	}
	reward, err := ParseReward(in.Reward)
	if err != nil {
		return nil, err
	}

	owner, err := s.store.GetUser(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProfileRequired
	}
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if !owner.HasLocation() {
		return nil, ErrProfileRequired
	}

	overview := strings.TrimSpace(in.Overview)
	if overview == "" {
		overview = summarize(detail)
	}

	task := &model.Task{
		Detail:    detail,
		Overview:  overview,
		Timestamp: s.now().UnixMilli(),
		Reward:    reward,
		Status:    model.StatusOpen,
		Owner:     ownerID,
		Helper:    model.NoHelper,
		Address:   owner.Address,
		Zipcode:   owner.Zipcode,
		Country:   owner.Country,
		Category:  strings.TrimSpace(in.Category),
	}
	if _, err := s.store.PutTask(ctx, task); err != nil {
		return nil, fmt.Errorf("put task: %w", err)
	}

	s.logger.Info().
		Str("task_id", task.Key).
		Str("owner_id", ownerID).
		Int("reward", reward).
		Msg("created task")
	return task, nil
}

func summarize(detail string) string {
	if utf8.RuneCountInString(detail) <= overviewLength {
		return detail
	}
	runes := []rune(detail)
	return strings.TrimSpace(string(runes[:overviewLength])) + "..."
}

func (s *Service) Get(ctx context.Context, taskID string) (*model.Task, error) {
	return s.store.GetTask(ctx, taskID)
}

type Edit struct {
	Detail *string
	Reward *string
}

// Edit changes detail and reward in any status. Input is validated before the
// task is read, so a bad reward never touches the stored task.
func (s *Service) Edit(ctx context.Context, taskID, actorID string, in Edit) (*model.Task, error) {
	var reward *int
	if in.Reward != nil {
		r, err := ParseReward(*in.Reward)
		if err != nil {
			return nil, err
		}
		reward = &r
	}
	var detail *string
	if in.Detail != nil {
		d := strings.TrimSpace(*in.Detail)
		if d == "" {
			return nil, ErrEmptyDetail
		}
		detail = &d
	}

	var out *model.Task
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		t, err := tx.GetTask(taskID)
		if err != nil {
			return err
		}
		if t.Owner != actorID {
			return ErrNotOwner
		}
		if detail != nil {
			t.Detail = *detail
		}
		if reward != nil {
			t.Reward = *reward
		}
		if err := tx.PutTask(t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Msg("edited task")
	return out, nil
}

func (s *Service) Delete(ctx context.Context, taskID, actorID string) error {
	t, err := s.store.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if t.Owner != actorID {
		return ErrNotOwner
	}
	if err := s.store.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.logger.Info().
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

// Accept assigns the task to the helper.
func (s *Service) Accept(ctx context.Context, taskID, helperID string) (*model.Task, error) {
	return s.transition(ctx, taskID, helperID, EventAccept, func(_ store.Tx, t *model.Task) error {
		t.Helper = helperID
		return nil
	})
}

// Complete marks the helper's work done; the owner still has to verify it.
func (s *Service) Complete(ctx context.Context, taskID, helperID string) (*model.Task, error) {
	return s.transition(ctx, taskID, helperID, EventComplete, nil)
}

// Verify closes the task and credits the reward to the helper in the same
// transaction.
func (s *Service) Verify(ctx context.Context, taskID, ownerID string) (*model.Task, error) {
	task, err := s.transition(ctx, taskID, ownerID, EventVerify, func(tx store.Tx, t *model.Task) error {
		helper, err := tx.GetUser(t.Helper)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrHelperNotFound, t.Helper)
		}
		if err != nil {
			return err
		}
		helper.Points += t.Reward
		return tx.PutUser(helper)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("helper_id", task.Helper).
		Int("reward", task.Reward).
		Msg("credited reward")
	return task, nil
}

// Disapprove sends the task back to the helper without any points.
func (s *Service) Disapprove(ctx context.Context, taskID, ownerID string) (*model.Task, error) {
	return s.transition(ctx, taskID, ownerID, EventDisapprove, nil)
}

// Abandon reopens the task for anyone to accept.
func (s *Service) Abandon(ctx context.Context, taskID, actorID string) (*model.Task, error) {
	return s.transition(ctx, taskID, actorID, EventAbandon, func(_ store.Tx, t *model.Task) error {
		t.Helper = model.NoHelper
		return nil
	})
}

func authorize(ev Event, t *model.Task, actorID string) error {
	switch ev {
	case EventAccept:
		if t.Owner == actorID {
			return ErrOwnTask
		}
	case EventComplete:
		if t.Helper != actorID {
			return ErrNotHelper
		}
	case EventVerify, EventDisapprove:
		if t.Owner != actorID {
			return ErrNotOwner
		}
	case EventAbandon:
		if t.Helper != actorID && t.Owner != actorID {
			return ErrNotHelper
		}
	}
	return nil
}

func (s *Service) transition(ctx context.Context, taskID, actorID string, ev Event, apply func(tx store.Tx, t *model.Task) error) (*model.Task, error) {
	var out *model.Task
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		t, err := tx.GetTask(taskID)
		if err != nil {
			return err
		}
		next, err := Next(t.Status, ev)
		if err != nil {
			return err
		}
		if err := authorize(ev, t, actorID); err != nil {
			return err
		}

		counterpart := t.Counterpart(actorID)
		if apply != nil {
			if err := apply(tx, t); err != nil {
				return err
			}
		}
		t.Status = next
		if err := tx.PutTask(t); err != nil {
			return err
		}
		if counterpart != "" {
			if err := tx.AddNotification(&model.Notification{Receiver: counterpart, TaskID: t.Key}); err != nil {
				return err
			}
		}
		out = t
		return nil
	})
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("task_id", taskID).
			Str("event", string(ev)).
			Msg("transition rejected")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("event", string(ev)).
		Str("status", string(out.Status)).
		Msg("task transitioned")
	return out, nil
}
