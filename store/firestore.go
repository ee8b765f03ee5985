package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"helpexchange/model"
)

// Firestore implements Store on top of a Cloud Firestore database.
type Firestore struct {
	client *firestore.Client
	logger zerolog.Logger
}

var _ Store = (*Firestore)(nil)

func NewFirestore(client *firestore.Client, logger zerolog.Logger) *Firestore {
	return &Firestore{client: client, logger: logger}
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func (f *Firestore) tasks() *firestore.CollectionRef {
	return f.client.Collection(CollectionTasks)
}

func (f *Firestore) users() *firestore.CollectionRef {
	return f.client.Collection(CollectionUsers)
}

func notFound(err error, what string) error {
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func (f *Firestore) GetTask(ctx context.Context, key string) (*model.Task, error) {
	snap, err := f.tasks().Doc(key).Get(ctx)
	if err != nil {
		return nil, notFound(err, "task "+key)
	}
	return taskFromSnapshot(snap)
}

func taskFromSnapshot(snap *firestore.DocumentSnapshot) (*model.Task, error) {
	var t model.Task
	if err := snap.DataTo(&t); err != nil {
		return nil, fmt.Errorf("decode task %s: %w", snap.Ref.ID, err)
	}
	t.Key = snap.Ref.ID
	return &t, nil
}

func (f *Firestore) PutTask(ctx context.Context, task *model.Task) (string, error) {
	ref := f.taskRef(task)
	if _, err := ref.Set(ctx, task); err != nil {
		return "", fmt.Errorf("set task %s: %w", ref.ID, err)
	}
	return ref.ID, nil
}

func (f *Firestore) taskRef(task *model.Task) *firestore.DocumentRef {
	if task.Key == "" {
		ref := f.tasks().NewDoc()
		task.Key = ref.ID
		return ref
	}
	return f.tasks().Doc(task.Key)
}

func (f *Firestore) DeleteTask(ctx context.Context, key string) error {
	// Firestore deletes of missing documents succeed.
	if _, err := f.tasks().Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("delete task %s: %w", key, err)
	}
	return nil
}

func (f *Firestore) QueryTasks(ctx context.Context, tq TaskQuery) ([]*model.Task, string, error) {
	if tq.Limit <= 0 {
		return nil, "", fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}
	after, err := decodeCursor(tq.Cursor)
	if err != nil {
		return nil, "", err
	}

	q := f.tasks().Query
	if tq.Filter != nil {
		ef, err := entityFilter(tq.Filter)
		if err != nil {
			return nil, "", err
		}
		q = q.WhereEntity(ef)
	}
	dir := firestore.Asc
	if tq.Sort.Desc {
		dir = firestore.Desc
	}
	if tq.Sort.Field != "" {
		q = q.OrderBy(tq.Sort.Field, dir)
	}
	q = q.OrderBy(firestore.DocumentID, dir)
	if after != nil {
		ref := f.tasks().Doc(after.Key)
		if tq.Sort.Field != "" {
			q = q.StartAfter(after.Value, ref)
		} else {
			q = q.StartAfter(ref)
		}
	}

	docs, err := q.Limit(tq.Limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, "", fmt.Errorf("query tasks %s: %w", tq.Filter, err)
	}

	f.logger.Debug().
		Stringer("filter", tq.Filter).
		Int("count", len(docs)).
		Msg("queried tasks")

	page := make([]*model.Task, 0, len(docs))
	for _, doc := range docs {
		t, err := taskFromSnapshot(doc)
		if err != nil {
			return nil, "", err
		}
		page = append(page, t)
	}
	if len(page) == 0 {
		return page, tq.Cursor, nil
	}

	last := page[len(page)-1]
	var v int64
	if tq.Sort.Field != "" {
		raw, _ := last.Field(tq.Sort.Field)
		n, ok := sortValue(raw)
		if !ok {
			return nil, "", fmt.Errorf("%w: cannot sort by %q", ErrInvalidQuery, tq.Sort.Field)
		}
		v = n
	}
	return page, encodeCursor(position{Value: v, Key: last.Key}), nil
}

// entityFilter translates a filter expression into a Firestore composite filter.
func entityFilter(e Expr) (firestore.EntityFilter, error) {
	switch x := e.(type) {
	case Eq:
		return firestore.PropertyFilter{Path: x.Field, Operator: "==", Value: x.Value}, nil
	case And:
		return compositeFilter(x, func(fs []firestore.EntityFilter) firestore.EntityFilter {
			return firestore.AndFilter{Filters: fs}
		})
	case Or:
		return compositeFilter(x, func(fs []firestore.EntityFilter) firestore.EntityFilter {
			return firestore.OrFilter{Filters: fs}
		})
	}
	return nil, fmt.Errorf("%w: unsupported filter %T", ErrInvalidQuery, e)
}

func compositeFilter(children []Expr, build func([]firestore.EntityFilter) firestore.EntityFilter) (firestore.EntityFilter, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: empty composite filter", ErrInvalidQuery)
	}
	fs := make([]firestore.EntityFilter, 0, len(children))
	for _, c := range children {
		ef, err := entityFilter(c)
		if err != nil {
			return nil, err
		}
		fs = append(fs, ef)
	}
	if len(fs) == 1 {
		return fs[0], nil
	}
	return build(fs), nil
}

func (f *Firestore) GetUser(ctx context.Context, id string) (*model.User, error) {
	snap, err := f.users().Doc(id).Get(ctx)
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return userFromSnapshot(snap)
}

func userFromSnapshot(snap *firestore.DocumentSnapshot) (*model.User, error) {
	var u model.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	u.UserID = snap.Ref.ID
	return &u, nil
}

func (f *Firestore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	docs, err := f.users().Where("email", "==", email).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	return userFromSnapshot(docs[0])
}

func (f *Firestore) PutUser(ctx context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = f.users().NewDoc().ID
	}
	if _, err := f.users().Doc(user.UserID).Set(ctx, user); err != nil {
		return fmt.Errorf("set user %s: %w", user.UserID, err)
	}
	return nil
}

func (f *Firestore) AddNotification(ctx context.Context, n *model.Notification) error {
	ref := f.client.Collection(CollectionNotifications).NewDoc()
	n.NotificationID = ref.ID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if _, err := ref.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (f *Firestore) notificationsFor(ctx context.Context, q firestore.Query) ([]*firestore.DocumentSnapshot, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []*firestore.DocumentSnapshot
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (f *Firestore) ListNotifications(ctx context.Context, receiver string) ([]*model.Notification, error) {
	q := f.client.Collection(CollectionNotifications).
		Where("receiver", "==", receiver).
		OrderBy("createdat", firestore.Asc)
	docs, err := f.notificationsFor(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", receiver, err)
	}
	out := make([]*model.Notification, 0, len(docs))
	for _, doc := range docs {
		var n model.Notification
		if err := doc.DataTo(&n); err != nil {
			return nil, fmt.Errorf("decode notification %s: %w", doc.Ref.ID, err)
		}
		n.NotificationID = doc.Ref.ID
		out = append(out, &n)
	}
	return out, nil
}

func (f *Firestore) DeleteNotifications(ctx context.Context, receiver, taskID string) (int, error) {
	q := f.client.Collection(CollectionNotifications).
		Where("receiver", "==", receiver).
		Where("taskid", "==", taskID)
	docs, err := f.notificationsFor(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("list notifications for %s on %s: %w", receiver, taskID, err)
	}
	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return 0, fmt.Errorf("delete notification %s: %w", doc.Ref.ID, err)
		}
	}
	return len(docs), nil
}

func (f *Firestore) AddMessage(ctx context.Context, m *model.Message) error {
	ref := f.client.Collection(CollectionMessages).NewDoc()
	m.MessageID = ref.ID
	if _, err := ref.Create(ctx, m); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (f *Firestore) ListMessages(ctx context.Context, taskID string) ([]*model.Message, error) {
	docs, err := f.client.Collection(CollectionMessages).
		Where("taskid", "==", taskID).
		OrderBy("sent", firestore.Asc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("list messages for %s: %w", taskID, err)
	}
	out := make([]*model.Message, 0, len(docs))
	for _, doc := range docs {
		var m model.Message
		if err := doc.DataTo(&m); err != nil {
			return nil, fmt.Errorf("decode message %s: %w", doc.Ref.ID, err)
		}
		m.MessageID = doc.Ref.ID
		out = append(out, &m)
	}
	return out, nil
}

func (f *Firestore) GetSessionField(ctx context.Context, session, slot, field string) (string, bool, error) {
	snap, err := f.client.Collection(CollectionSessions).Doc(session).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get session %s: %w", session, err)
	}
	fields, ok := snap.Data()[slot].(map[string]interface{})
	if !ok {
		return "", false, nil
	}
	v, ok := fields[field].(string)
	return v, ok, nil
}

func (f *Firestore) SetSessionField(ctx context.Context, session, slot, field, value string) error {
	data := map[string]interface{}{
		slot: map[string]interface{}{field: value},
	}
	if _, err := f.client.Collection(CollectionSessions).Doc(session).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("set session %s: %w", session, err)
	}
	return nil
}

func (f *Firestore) ClearSession(ctx context.Context, session, slot string) error {
	_, err := f.client.Collection(CollectionSessions).Doc(session).Update(ctx, []firestore.Update{
		{Path: slot, Value: firestore.Delete},
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("clear session %s: %w", session, err)
	}
	return nil
}

func (f *Firestore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{f: f, tx: tx})
	})
}

type firestoreTx struct {
	f  *Firestore
	tx *firestore.Transaction
}

func (t *firestoreTx) GetTask(key string) (*model.Task, error) {
	snap, err := t.tx.Get(t.f.tasks().Doc(key))
	if err != nil {
		return nil, notFound(err, "task "+key)
	}
	return taskFromSnapshot(snap)
}

func (t *firestoreTx) GetUser(id string) (*model.User, error) {
	snap, err := t.tx.Get(t.f.users().Doc(id))
	if err != nil {
		return nil, notFound(err, "user "+id)
	}
	return userFromSnapshot(snap)
}

func (t *firestoreTx) PutTask(task *model.Task) error {
	return t.tx.Set(t.f.taskRef(task), task)
}

func (t *firestoreTx) PutUser(user *model.User) error {
	if user.UserID == "" {
		return fmt.Errorf("%w: user without id", ErrInvalidQuery)
	}
	return t.tx.Set(t.f.users().Doc(user.UserID), user)
}

func (t *firestoreTx) AddNotification(n *model.Notification) error {
	ref := t.f.client.Collection(CollectionNotifications).NewDoc()
	n.NotificationID = ref.ID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return t.tx.Create(ref, n)
}
