package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"expense-ledger-go/internal/models"
	"expense-ledger-go/internal/store"

	"go.uber.org/zap"
)

// minUsernameLength matches the registration rule of the chat front end.
const minUsernameLength = 3

// UserResolver is what the ledger components need from identity.
type UserResolver interface {
	Resolve(ctx context.Context, externalUserId string) (*models.User, error)
}

var _ UserResolver = (*Resolver)(nil)

// Resolver maps an external chat/session identifier to a User.
type Resolver struct {
	users store.UserStore
}

func NewResolver(users store.UserStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve looks the identifier up exactly as given. It returns
// store.ErrUserNotFound for unknown or blank identifiers; any other failure
// is reported as store.ErrStoreUnavailable.
func (r *Resolver) Resolve(ctx context.Context, externalUserId string) (*models.User, error) {
	if strings.TrimSpace(externalUserId) == "" {
		return nil, fmt.Errorf("%w: empty external id", store.ErrUserNotFound)
	}

	user, err := r.users.GetUserByExternalId(ctx, externalUserId)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			zap.L().Debug("External id not registered", zap.String("external_id", externalUserId))
			return nil, err
		}
		zap.L().Error("Identity lookup failed", zap.String("external_id", externalUserId), zap.Error(err))
		return nil, store.Unavailable("resolve user", err)
	}
	return user, nil
}

// UserCreator is the write side used by registration.
type UserCreator interface {
	CreateUser(ctx context.Context, username, externalId string) (*models.User, error)
}

// Registrar binds a new username to an external identifier.
type Registrar struct {
	users UserCreator
}

func NewRegistrar(users UserCreator) *Registrar {
	return &Registrar{users: users}
}

// Register validates the username and creates the user. Uniqueness of both
// username and external id is enforced by the store.
func (r *Registrar) Register(ctx context.Context, username, externalUserId string) (*models.User, error) {
	username = strings.TrimSpace(username)
	// external ids are stored verbatim so Resolve can find them; blank means none
	if strings.TrimSpace(externalUserId) == "" {
		externalUserId = ""
	}

	if len([]rune(username)) < minUsernameLength {
		return nil, store.NewValidationError(store.ErrInvalidUsername, "username",
			fmt.Sprintf("must be at least %d characters", minUsernameLength))
	}

	user, err := r.users.CreateUser(ctx, username, externalUserId)
	if err != nil {
		return nil, store.Unavailable("create user", err)
	}

	zap.L().Info("User registered", zap.String("user_id", user.Id), zap.String("username", user.Username))
	return user, nil
}
