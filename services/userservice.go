// Package services holds account and token handling shared by the HTTP
// controllers.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"helpexchange/model"
	"helpexchange/store"
)

var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AccountBackend interface {
	store.UserStore
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error
}

type Accounts struct {
	users  AccountBackend
	tokens *TokenService
	logger zerolog.Logger
	now    func() time.Time
}

func NewAccounts(users AccountBackend, tokens *TokenService, logger zerolog.Logger) *Accounts {
	return &Accounts{
		users:  users,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (a *Accounts) SignUp(ctx context.Context, email, password, nickname string) (*model.User, error) {
	email = normalizeEmail(email)
	_, err := a.users.FindUserByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := a.now()
	user := &model.User{
		UserID:    uuid.New().String(),
		Nickname:  strings.TrimSpace(nickname),
		Email:     email,
		Password:  string(hashedPassword),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.users.PutUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	a.logger.Info().
		Str("user_id", user.UserID).
		Msg("registered user")
	return user, nil
}

// SignIn checks the password and returns a fresh access token.
func (a *Accounts) SignIn(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := a.users.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.tokens.CreateAccessToken(user.UserID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("create access token: %w", err)
	}
	return token, user, nil
}

func (a *Accounts) Profile(ctx context.Context, userID string) (*model.User, error) {
	return a.users.GetUser(ctx, userID)
}

// ProfileUpdate carries the fields to change; nil fields are left alone.
type ProfileUpdate struct {
	Nickname *string
	Email    *string
	Address  *string
	Zipcode  *string
	Country  *string
	Phone    *string
}

// UpdateProfile rewrites the profile inside a transaction so a reward credited
// concurrently is never overwritten.
func (a *Accounts) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*model.User, error) {
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		existing, err := a.users.FindUserByEmail(ctx, email)
		switch {
		case err == nil && existing.UserID != userID:
			return nil, ErrEmailTaken
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return nil, fmt.Errorf("check existing email: %w", err)
		}
		in.Email = &email
	}

	var out *model.User
	err := a.users.RunTransaction(ctx, func(ctx context.Context, tx store.Tx) error {
		user, err := tx.GetUser(userID)
		if err != nil {
			return err
		}
		set := func(dst *string, src *string) {
			if src != nil {
				*dst = strings.TrimSpace(*src)
			}
		}
		set(&user.Nickname, in.Nickname)
		set(&user.Email, in.Email)
		set(&user.Address, in.Address)
		set(&user.Zipcode, in.Zipcode)
		set(&user.Country, in.Country)
		set(&user.Phone, in.Phone)
		user.UpdatedAt = a.now()
		if err := tx.PutUser(user); err != nil {
			return err
		}
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info().
		Str("user_id", userID).
		Msg("updated profile")
	return out, nil
}
