package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
	"github.com/libhub/library-service/pkg/auth"
)

type usersRepo struct {
	repository.Repository
	users map[string]model.User
}

func (r *usersRepo) CreateUser(_ context.Context, name, email, passwordHash string, role auth.Role) (model.User, error) {
	if _, ok := r.users[email]; ok {
		return model.User{}, errs.ErrDuplicateEmail
	}
	user := model.User{
		ID:           len(r.users) + 1,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	r.users[email] = user
	return user, nil
}

func (r *usersRepo) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	user, ok := r.users[email]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return user, nil
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	t.Parallel()
	repo := &usersRepo{users: map[string]model.User{}}
	cfg := auth.Config{Secret: "test_secret", TTL: time.Hour}
	svc := NewAuthService(repo, cfg, zap.NewExample().Named("test"))
	ctx := context.Background()

	user, err := svc.Register(ctx, model.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.Equal(t, auth.RoleMember, user.Role)
	// the hash must verify and must not be the raw password
	require.NotEqual(t, "hunter22", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter22")))

	resp, err := svc.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, user.ID, resp.User.ID)

	principal, err := auth.ParseToken(cfg, resp.Token)
	require.NoError(t, err)
	require.Equal(t, auth.Principal{UserID: user.ID, Role: auth.RoleMember}, principal)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	t.Parallel()
	repo := &usersRepo{users: map[string]model.User{}}
	cfg := auth.Config{Secret: "test_secret", TTL: time.Hour}
	svc := NewAuthService(repo, cfg, zap.NewExample().Named("test"))
	ctx := context.Background()

	_, err := svc.Register(ctx, model.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)

	// wrong password and unknown email are indistinguishable
	_, err = svc.Login(ctx, model.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "nobody@example.com", Password: "hunter22"})
	require.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestAuthService_CreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()
	repo := &usersRepo{users: map[string]model.User{}}
	svc := NewAuthService(repo, auth.Config{Secret: "test_secret", TTL: time.Hour}, zap.NewExample().Named("test"))
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, model.CreateUserRequest{
		Name: "Bob", Email: "bob@example.com", Password: "hunter22", Role: "librarian",
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, model.CreateUserRequest{
		Name: "Bob again", Email: "bob@example.com", Password: "hunter22", Role: "member",
	})
	require.ErrorIs(t, err, errs.ErrDuplicateEmail)
}
