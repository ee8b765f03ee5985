package feed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"helpexchange/model"
	"helpexchange/store"
)

// DefaultNickname is shown when an owner's profile cannot be read.
const DefaultNickname = "Neighbor"

type UserGetter interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// OwnerResolver maps owner ids to nicknames for the duration of one page.
// Create a new one per page so names never outlive the request.
type OwnerResolver struct {
	users    UserGetter
	logger   zerolog.Logger
	names    map[string]string
	warnings []string
}

func NewOwnerResolver(users UserGetter, logger zerolog.Logger) *OwnerResolver {
	return &OwnerResolver{
		users:  users,
		logger: logger,
		names:  make(map[string]string),
	}
}

// Resolve never fails: a missing or unreadable profile yields DefaultNickname
// and a warning.
func (r *OwnerResolver) Resolve(ctx context.Context, ownerID string) string {
	if name, ok := r.names[ownerID]; ok {
		return name
	}

	name := DefaultNickname
	user, err := r.users.GetUser(ctx, ownerID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		r.warn(ownerID, "owner profile not found", err)
	case err != nil:
		r.warn(ownerID, "owner profile lookup failed", err)
	case user.Nickname == "":
		r.warn(ownerID, "owner has no nickname", nil)
	default:
		name = user.Nickname
	}

	r.names[ownerID] = name
	return name
}

func (r *OwnerResolver) warn(ownerID, msg string, err error) {
	r.logger.Warn().
		Err(err).
		Str("owner_id", ownerID).
		Msg(msg)
	r.warnings = append(r.warnings, fmt.Sprintf("%s: %s", msg, ownerID))
}

// Warnings lists the recoverable lookup problems seen so far.
func (r *OwnerResolver) Warnings() []string {
	return r.warnings
}
