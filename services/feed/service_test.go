package feed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpexchange/model"
	"helpexchange/store"
)

func feedRequest(action Action) Request {
	return Request{
		Session: "sess-1",
		List:    ListFeed,
		Criteria: Criteria{
			Location:    &Location{Zipcode: "10001", Country: "US"},
			StatusGroup: GroupOpen,
		},
		Action: action,
	}
}

func TestService_ContinuesAcrossCalls(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed(t, mem, 15, nil)
	svc := NewService(mem, zerolog.Nop())

	first, err := svc.Page(ctx, feedRequest(ActionNone))
	require.NoError(t, err)
	assert.Equal(t, 10, first.Count)
	assert.False(t, first.EndOfResults)

	second, err := svc.Page(ctx, feedRequest(ActionEnd))
	require.NoError(t, err)
	assert.Equal(t, 5, second.Count)
	assert.True(t, second.EndOfResults)

	// start replays the page just consumed through end
	replay, err := svc.Page(ctx, feedRequest(ActionStart))
	require.NoError(t, err)
	assert.Equal(t, second.Items, replay.Items)

	restart, err := svc.Page(ctx, feedRequest(ActionClear))
	require.NoError(t, err)
	assert.Equal(t, first.Items, restart.Items)
}

func TestService_ListsDoNotShareCursors(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed(t, mem, 15, nil)
	svc := NewService(mem, zerolog.Nop())

	_, err := svc.Page(ctx, feedRequest(ActionNone))
	require.NoError(t, err)

	owned := Request{
		Session: "sess-1",
		List:    ListOwned,
		Criteria: Criteria{
			Role:        &RoleFilter{Role: RoleOwner, ID: "owner-1"},
			StatusGroup: GroupActive,
		},
	}
	page, err := svc.Page(ctx, owned)
	require.NoError(t, err)
	assert.Equal(t, 10, page.Count)

	next, err := svc.Page(ctx, feedRequest(ActionEnd))
	require.NoError(t, err)
	assert.Equal(t, 5, next.Count)
}

func TestService_ValidationBeforeStateChange(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed(t, mem, 15, nil)
	svc := NewService(mem, zerolog.Nop())

	_, err := svc.Page(ctx, feedRequest(ActionNone))
	require.NoError(t, err)
	before, err := NewCursorManager(mem).Load(ctx, "sess-1", ListFeed)
	require.NoError(t, err)
	require.NotEmpty(t, before.End)

	bad := feedRequest(ActionClear)
	bad.Criteria.Location.Country = ""
	_, err = svc.Page(ctx, bad)
	assert.ErrorIs(t, err, ErrInvalidCriteria)

	_, err = svc.Page(ctx, feedRequest("previous"))
	assert.ErrorIs(t, err, ErrInvalidCursorAction)

	after, err := NewCursorManager(mem).Load(ctx, "sess-1", ListFeed)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestService_FeedOnlyShowsLocation(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	seed(t, mem, 4, func(i int, task *model.Task) {
		if i%2 == 1 {
			task.Zipcode = "94105"
		}
	})
	svc := NewService(mem, zerolog.Nop())

	page, err := svc.Page(ctx, feedRequest(ActionNone))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	for _, item := range page.Items {
		assert.Equal(t, "10001", item.Zipcode)
	}
}
