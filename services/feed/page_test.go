package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpexchange/model"
	"helpexchange/store"
)

type countingUsers struct {
	UserGetter
	calls int
	err   error
}

func (c *countingUsers) GetUser(ctx context.Context, id string) (*model.User, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.UserGetter.GetUser(ctx, id)
}

func seed(t *testing.T, mem *store.Memory, n int, mutate func(i int, task *model.Task)) {
	t.Helper()
	for i := 0; i < n; i++ {
		task := &model.Task{
			Key:       fmt.Sprintf("t%02d", i),
			Detail:    fmt.Sprintf("task %d", i),
			Timestamp: int64(1_700_000_000_000 + i),
			Reward:    10,
			Status:    model.StatusOpen,
			Owner:     "owner-1",
			Helper:    model.NoHelper,
			Zipcode:   "10001",
			Country:   "US",
		}
		if mutate != nil {
			mutate(i, task)
		}
		_, err := mem.PutTask(context.Background(), task)
		require.NoError(t, err)
	}
}

func openFeedQuery(t *testing.T) store.TaskQuery {
	t.Helper()
	q, err := BuildQuery(Criteria{
		Location:    &Location{Zipcode: "10001", Country: "US"},
		StatusGroup: GroupOpen,
	})
	require.NoError(t, err)
	return q
}

func TestAssembler_PaginatesFifteenTasks(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.PutUser(ctx, &model.User{UserID: "owner-1", Nickname: "Ann"}))
	seed(t, mem, 15, nil)

	a := NewAssembler(mem, mem, zerolog.Nop())
	q := openFeedQuery(t)

	first, err := a.Assemble(ctx, q, "")
	require.NoError(t, err)
	assert.Equal(t, 10, first.Count)
	assert.Len(t, first.Items, 10)
	assert.False(t, first.EndOfResults)
	assert.Equal(t, "t14", first.Items[0].Key)

	second, err := a.Assemble(ctx, q, first.Continuation)
	require.NoError(t, err)
	assert.Equal(t, 5, second.Count)
	assert.True(t, second.EndOfResults)
	assert.Equal(t, "t04", second.Items[0].Key)
	assert.Equal(t, "t00", second.Items[4].Key)
}

func TestAssembler_FewerThanPageIsEnd(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed(t, mem, 5, nil)

	page, err := NewAssembler(mem, mem, zerolog.Nop()).Assemble(ctx, openFeedQuery(t), "")
	require.NoError(t, err)
	assert.Equal(t, 5, page.Count)
	assert.True(t, page.EndOfResults)
}

func TestAssembler_FullLastPageIsNotEnd(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed(t, mem, 10, nil)
	a := NewAssembler(mem, mem, zerolog.Nop())

	page, err := a.Assemble(ctx, openFeedQuery(t), "")
	require.NoError(t, err)
	assert.Equal(t, 10, page.Count)
	assert.False(t, page.EndOfResults)

	tail, err := a.Assemble(ctx, openFeedQuery(t), page.Continuation)
	require.NoError(t, err)
	assert.Zero(t, tail.Count)
	assert.NotNil(t, tail.Items)
	assert.True(t, tail.EndOfResults)
	assert.Equal(t, page.Continuation, tail.Continuation)
}

func TestAssembler_NicknameLookedUpOncePerOwner(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.PutUser(ctx, &model.User{UserID: "owner-1", Nickname: "Ann"}))
	seed(t, mem, 10, nil)

	users := &countingUsers{UserGetter: mem}
	page, err := NewAssembler(mem, users, zerolog.Nop()).Assemble(ctx, openFeedQuery(t), "")
	require.NoError(t, err)

	assert.Equal(t, 1, users.calls)
	require.Len(t, page.Items, 10)
	for _, item := range page.Items {
		assert.Equal(t, "Ann", item.OwnerNickname)
	}
	assert.Empty(t, page.Warnings)
}

func TestAssembler_MissingOwnerFallsBack(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed(t, mem, 10, nil)

	users := &countingUsers{UserGetter: mem}
	page, err := NewAssembler(mem, users, zerolog.Nop()).Assemble(ctx, openFeedQuery(t), "")
	require.NoError(t, err)

	assert.Equal(t, 1, users.calls)
	for _, item := range page.Items {
		assert.Equal(t, DefaultNickname, item.OwnerNickname)
	}
	assert.Len(t, page.Warnings, 1)
}

func TestAssembler_CacheDoesNotOutliveThePage(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.PutUser(ctx, &model.User{UserID: "owner-1", Nickname: "Ann"}))
	seed(t, mem, 3, nil)

	users := &countingUsers{UserGetter: mem}
	a := NewAssembler(mem, users, zerolog.Nop())

	_, err := a.Assemble(ctx, openFeedQuery(t), "")
	require.NoError(t, err)
	require.NoError(t, mem.PutUser(ctx, &model.User{UserID: "owner-1", Nickname: "Annie"}))

	page, err := a.Assemble(ctx, openFeedQuery(t), "")
	require.NoError(t, err)
	assert.Equal(t, 2, users.calls)
	assert.Equal(t, "Annie", page.Items[0].OwnerNickname)
}

func TestOwnerResolver_LookupErrorIsNotFatal(t *testing.T) {
	users := &countingUsers{err: errors.New("deadline exceeded")}
	r := NewOwnerResolver(users, zerolog.Nop())

	assert.Equal(t, DefaultNickname, r.Resolve(context.Background(), "u1"))
	assert.Equal(t, DefaultNickname, r.Resolve(context.Background(), "u1"))
	assert.Equal(t, 1, users.calls)
	assert.Len(t, r.Warnings(), 1)
}

func TestAssembler_StatusGroups(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	all := []model.Status{
		model.StatusOpen,
		model.StatusInProgress,
		model.StatusCompleteAwaitVerification,
		model.StatusComplete,
	}
	seed(t, mem, 8, func(i int, task *model.Task) {
		task.Status = all[i%len(all)]
		if task.Status != model.StatusOpen {
			task.Helper = "helper-1"
		}
	})
	a := NewAssembler(mem, mem, zerolog.Nop())

	tests := []struct {
		name  string
		role  Role
		group StatusGroup
		want  []model.Status
		count int
	}{
		{"owner completed", RoleOwner, GroupCompleted, []model.Status{model.StatusComplete, model.StatusCompleteAwaitVerification}, 4},
		{"owner active", RoleOwner, GroupActive, []model.Status{model.StatusOpen, model.StatusInProgress}, 4},
		{"helper completed", RoleHelper, GroupCompleted, []model.Status{model.StatusComplete, model.StatusCompleteAwaitVerification}, 4},
		{"helper active", RoleHelper, GroupActive, []model.Status{model.StatusInProgress}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := "owner-1"
			if tt.role == RoleHelper {
				id = "helper-1"
			}
			q, err := BuildQuery(Criteria{Role: &RoleFilter{Role: tt.role, ID: id}, StatusGroup: tt.group})
			require.NoError(t, err)

			page, err := a.Assemble(ctx, q, "")
			require.NoError(t, err)
			assert.Equal(t, tt.count, page.Count)
			for _, item := range page.Items {
				assert.Contains(t, tt.want, item.Status)
				if tt.role == RoleHelper {
					assert.NotEqual(t, model.StatusOpen, item.Status)
				}
			}
		})
	}
}
