package feed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"helpexchange/store"
)

type Backend interface {
	store.TaskStore
	store.SessionStore
	UserGetter
}

type Service struct {
	cursors   *CursorManager
	assembler *Assembler
	logger    zerolog.Logger
}

func NewService(backend Backend, logger zerolog.Logger) *Service {
	return &Service{
		cursors:   NewCursorManager(backend),
		assembler: NewAssembler(backend, backend, logger),
		logger:    logger,
	}
}

type Request struct {
	Session  string
	List     List
	Criteria Criteria
	Action   Action
}

// Page serves the next page of a list. Criteria and action are validated
// before the session's cursor state is touched.
func (s *Service) Page(ctx context.Context, req Request) (*Page, error) {
	q, err := BuildQuery(req.Criteria)
	if err != nil {
		return nil, err
	}
	if !req.Action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCursorAction, req.Action)
	}

	start, fromEnd, state, err := s.cursors.Resolve(ctx, req.Session, req.List, req.Action)
	if err != nil {
		return nil, fmt.Errorf("resolve cursor: %w", err)
	}

	page, err := s.assembler.Assemble(ctx, q, start)
	if err != nil {
		return nil, err
	}

	if _, err := s.cursors.Commit(ctx, req.Session, req.List, page.Continuation, start, fromEnd, state); err != nil {
		return nil, fmt.Errorf("commit cursor: %w", err)
	}

	s.logger.Info().
		Str("list", string(req.List)).
		Str("action", string(req.Action)).
		Int("count", page.Count).
		Msg("served page")
	return page, nil
}
