// Package store is the persistence boundary of the service. It exposes a small
// document-store contract (get, put, delete, filtered cursor queries and
// transactions) implemented over Firestore and in memory.
package store

import (
	"context"
	"errors"

	"helpexchange/model"
)

// Collection names.
const (
	CollectionTasks         = "Tasks"
	CollectionUsers         = "Users"
	CollectionNotifications = "Notifications"
	CollectionMessages      = "Messages"
	CollectionSessions      = "Sessions"
)

var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrInvalidQuery  = errors.New("invalid query")
)

// Sort orders query results by an integer field. The document key breaks ties
// in the same direction.
type Sort struct {
	Field string
	Desc  bool
}

type TaskQuery struct {
	Filter Expr
	Sort   Sort
	Cursor string // opaque, as returned by a previous QueryTasks
	Limit  int
}

type TaskStore interface {
	GetTask(ctx context.Context, key string) (*model.Task, error)
	// PutTask creates the task when its key is empty and overwrites it otherwise.
	PutTask(ctx context.Context, task *model.Task) (string, error)
	// DeleteTask succeeds when the task is already gone.
	DeleteTask(ctx context.Context, key string) error
	// QueryTasks returns at most q.Limit tasks following q.Cursor plus the cursor
	// that continues after the last returned task. An empty page echoes q.Cursor.
	QueryTasks(ctx context.Context, q TaskQuery) ([]*model.Task, string, error)
}

type UserStore interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	PutUser(ctx context.Context, user *model.User) error
}

type NotificationStore interface {
	AddNotification(ctx context.Context, n *model.Notification) error
	ListNotifications(ctx context.Context, receiver string) ([]*model.Notification, error)
	DeleteNotifications(ctx context.Context, receiver, taskID string) (int, error)
}

type MessageStore interface {
	AddMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context, taskID string) ([]*model.Message, error)
}

// Tx is the view of the store inside RunTransaction. Reads must come before
// writes.
type Tx interface {
	GetTask(key string) (*model.Task, error)
	GetUser(id string) (*model.User, error)
	PutTask(task *model.Task) error
	PutUser(user *model.User) error
	AddNotification(n *model.Notification) error
}

// SessionStore keeps per-session continuation tokens, grouped in slots.
type SessionStore interface {
	GetSessionField(ctx context.Context, session, slot, field string) (string, bool, error)
	SetSessionField(ctx context.Context, session, slot, field, value string) error
	ClearSession(ctx context.Context, session, slot string) error
}

type Store interface {
	TaskStore
	UserStore
	NotificationStore
	MessageStore
	SessionStore

	// RunTransaction applies every write made by fn atomically, or none of them
	// when fn returns an error.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close() error
}
