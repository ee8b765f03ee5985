package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"helpexchange/model"
)

// Memory is a Store kept in process memory. A single mutex serializes every
// call, which also makes RunTransaction trivially atomic.
type Memory struct {
	mu            sync.Mutex
	tasks         map[string]model.Task
	users         map[string]model.User
	notifications []model.Notification
	messages      []model.Message
	sessions      map[string]map[string]map[string]string
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		tasks:    make(map[string]model.Task),
		users:    make(map[string]model.User),
		sessions: make(map[string]map[string]map[string]string),
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) GetTask(_ context.Context, key string) (*model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getTask(key)
}

func (m *Memory) getTask(key string) (*model.Task, error) {
	t, ok := m.tasks[key]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", key, ErrNotFound)
	}
	return &t, nil
}

func (m *Memory) PutTask(_ context.Context, task *model.Task) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putTask(task)
	return task.Key, nil
}

func (m *Memory) putTask(task *model.Task) {
	if task.Key == "" {
		task.Key = uuid.New().String()
	}
	m.tasks[task.Key] = *task
}

func (m *Memory) DeleteTask(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, key)
	return nil
}

func (m *Memory) QueryTasks(_ context.Context, q TaskQuery) ([]*model.Task, string, error) {
	if q.Limit <= 0 {
		return nil, "", fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}
	after, err := decodeCursor(q.Cursor)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	type row struct {
		task  model.Task
		value int64
	}
	var rows []row
	for _, t := range m.tasks {
		if !Match(q.Filter, t.Field) {
			continue
		}
		var v int64
		if q.Sort.Field != "" {
			raw, _ := t.Field(q.Sort.Field)
			n, ok := sortValue(raw)
			if !ok {
				return nil, "", fmt.Errorf("%w: cannot sort by %q", ErrInvalidQuery, q.Sort.Field)
			}
			v = n
		}
		rows = append(rows, row{task: t, value: v})
	}

	less := func(a, b row) bool {
		if a.value != b.value {
			return a.value < b.value
		}
		return a.task.Key < b.task.Key
	}
	sort.Slice(rows, func(i, j int) bool {
		if q.Sort.Desc {
			return less(rows[j], rows[i])
		}
		return less(rows[i], rows[j])
	})

	start := 0
	if after != nil {
		pivot := row{task: model.Task{Key: after.Key}, value: after.Value}
		start = sort.Search(len(rows), func(i int) bool {
			if q.Sort.Desc {
				return less(rows[i], pivot)
			}
			return less(pivot, rows[i])
		})
	}

	end := start + q.Limit
	if end > len(rows) {
		end = len(rows)
	}
	page := make([]*model.Task, 0, end-start)
	for i := start; i < end; i++ {
		t := rows[i].task
		page = append(page, &t)
	}
	if len(page) == 0 {
		return page, q.Cursor, nil
	}
	last := rows[end-1]
	return page, encodeCursor(position{Value: last.value, Key: last.task.Key}), nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getUser(id)
}

func (m *Memory) getUser(id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
}

func (m *Memory) PutUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putUser(user)
	return nil
}

func (m *Memory) putUser(user *model.User) {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	m.users[user.UserID] = *user
}

func (m *Memory) AddNotification(_ context.Context, n *model.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addNotification(n)
	return nil
}

func (m *Memory) addNotification(n *model.Notification) {
	if n.NotificationID == "" {
		n.NotificationID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.notifications = append(m.notifications, *n)
}

func (m *Memory) ListNotifications(_ context.Context, receiver string) ([]*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Notification
	for _, n := range m.notifications {
		if n.Receiver == receiver {
			n := n
			out = append(out, &n)
		}
	}
	return out, nil
}

func (m *Memory) DeleteNotifications(_ context.Context, receiver, taskID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.notifications[:0]
	deleted := 0
	for _, n := range m.notifications {
		if n.Receiver == receiver && n.TaskID == taskID {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	m.notifications = kept
	return deleted, nil
}

func (m *Memory) AddMessage(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg.MessageID == "" {
		msg.MessageID = uuid.New().String()
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *Memory) ListMessages(_ context.Context, taskID string) ([]*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Message
	for _, msg := range m.messages {
		if msg.TaskID == taskID {
			msg := msg
			out = append(out, &msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sent < out[j].Sent })
	return out, nil
}

func (m *Memory) GetSessionField(_ context.Context, session, slot, field string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.sessions[session][slot][field]
	return v, ok, nil
}

func (m *Memory) SetSessionField(_ context.Context, session, slot, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	slots, ok := m.sessions[session]
	if !ok {
		slots = make(map[string]map[string]string)
		m.sessions[session] = slots
	}
	fields, ok := slots[slot]
	if !ok {
		fields = make(map[string]string)
		slots[slot] = fields
	}
	fields[field] = value
	return nil
}

func (m *Memory) ClearSession(_ context.Context, session, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions[session], slot)
	return nil
}

func (m *Memory) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		m:     m,
		tasks: make(map[string]model.Task),
		users: make(map[string]model.User),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	for _, t := range tx.tasks {
		m.tasks[t.Key] = t
	}
	for _, u := range tx.users {
		m.users[u.UserID] = u
	}
	for i := range tx.notifications {
		m.addNotification(&tx.notifications[i])
	}
	return nil
}

// memoryTx stages writes until the transaction function returns.
type memoryTx struct {
	m             *Memory
	tasks         map[string]model.Task
	users         map[string]model.User
	notifications []model.Notification
}

func (tx *memoryTx) GetTask(key string) (*model.Task, error) {
	if t, ok := tx.tasks[key]; ok {
		return &t, nil
	}
	return tx.m.getTask(key)
}

func (tx *memoryTx) GetUser(id string) (*model.User, error) {
	if u, ok := tx.users[id]; ok {
		return &u, nil
	}
	return tx.m.getUser(id)
}

func (tx *memoryTx) PutTask(task *model.Task) error {
	if task.Key == "" {
		task.Key = uuid.New().String()
	}
	tx.tasks[task.Key] = *task
	return nil
}

func (tx *memoryTx) PutUser(user *model.User) error {
	if user.UserID == "" {
		return fmt.Errorf("%w: user without id", ErrInvalidQuery)
	}
	tx.users[user.UserID] = *user
	return nil
}

func (tx *memoryTx) AddNotification(n *model.Notification) error {
	tx.notifications = append(tx.notifications, *n)
	return nil
}
