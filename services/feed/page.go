package feed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"helpexchange/model"
	"helpexchange/store"
)

const PageSize = 10

type EnrichedTask struct {
	model.Task
	OwnerNickname string `json:"ownerNickname"`
}

type Page struct {
	Items []EnrichedTask `json:"items"`
	Count int            `json:"currentTaskCount"`
	// EndOfResults is set when the fetch came back short. A full last page
	// still reports false, so the client learns the end one fetch later.
	EndOfResults bool     `json:"endOfQuery"`
	Continuation string   `json:"-"`
	Warnings     []string `json:"warnings,omitempty"`
}

type Assembler struct {
	tasks    store.TaskStore
	users    UserGetter
	logger   zerolog.Logger
	pageSize int
}

func NewAssembler(tasks store.TaskStore, users UserGetter, logger zerolog.Logger) *Assembler {
	return &Assembler{
		tasks:    tasks,
		users:    users,
		logger:   logger,
		pageSize: PageSize,
	}
}

// Assemble fetches one page of q starting after the given cursor.
func (a *Assembler) Assemble(ctx context.Context, q store.TaskQuery, start string) (*Page, error) {
	q.Cursor = start
	q.Limit = a.pageSize

	tasks, next, err := a.tasks.QueryTasks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	owners := NewOwnerResolver(a.users, a.logger)
	items := make([]EnrichedTask, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, EnrichedTask{
			Task:          *t,
			OwnerNickname: owners.Resolve(ctx, t.Owner),
		})
	}

	page := &Page{
		Items:        items,
		Count:        len(items),
		EndOfResults: len(tasks) < a.pageSize,
		Continuation: next,
		Warnings:     owners.Warnings(),
	}
	a.logger.Debug().
		Int("count", page.Count).
		Bool("end_of_results", page.EndOfResults).
		Msg("assembled page")
	return page, nil
}
