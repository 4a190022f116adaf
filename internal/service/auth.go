package service

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
	"github.com/libhub/library-service/pkg/auth"
)

// AuthService is the Authenticator: it verifies credentials and issues bearer
// tokens. Every credential goes through the same bcrypt path; there are no
// special-cased accounts.
type AuthService struct {
	log  *zap.Logger
	repo repository.Repository
	cfg  auth.Config
}

func NewAuthService(repo repository.Repository, cfg auth.Config, log *zap.Logger) *AuthService {
	return &AuthService{
		log:  log,
		repo: repo,
		cfg:  cfg,
	}
}

// Register creates a self-service member account.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	return s.createUser(ctx, req.Name, req.Email, req.Password, auth.RoleMember)
}

// CreateUser is the admin path; it may create librarians and members.
func (s *AuthService) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error) {
	return s.createUser(ctx, req.Name, req.Email, req.Password, auth.Role(req.Role))
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role auth.Role) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "bcrypt")
	}
	return s.repo.CreateUser(ctx, name, email, string(hash), role)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.LoginResponse{}, errs.ErrInvalidCredentials
		}
		return model.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, errs.ErrInvalidCredentials
	}

	token, expiresAt, err := auth.IssueToken(s.cfg, auth.Principal{UserID: user.ID, Role: user.Role})
	if err != nil {
		return model.LoginResponse{}, errors.Wrap(err, "issue token")
	}

	return model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (s *AuthService) ListUsers(ctx context.Context, role string) ([]model.User, error) {
	return s.repo.ListUsers(ctx, role)
}

func (s *AuthService) DeleteUser(ctx context.Context, userID int) error {
	return s.repo.DeleteUser(ctx, userID)
}
