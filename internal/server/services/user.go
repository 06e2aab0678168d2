// Package services contains the server-side business logic. UserService
// handles sign-up, sign-in with bcrypt password checks, issuing JWTs that are
// registered in Redis, and revoking them on sign-out.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/diarify/internal/common"
	"github.com/dmitrijs2005/diarify/internal/server/auth"
	"github.com/dmitrijs2005/diarify/internal/server/config"
	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/dmitrijs2005/diarify/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/diarify/internal/server/tokens"
	"golang.org/x/crypto/bcrypt"
)

var (
	errBadCredentials = newError(common.ErrorUnauthorized, "invalid username or password")
	errUserTaken      = newError(common.ErrorAlreadyExists, "username or email already in use")
)

type SignUpInput struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type SignInResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// UserService provides authentication-related operations.
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	tokens                      tokens.Registry
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, reg tokens.Registry, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		tokens:                      reg,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

// SignUp creates a user. All four fields are required.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if err := required(
		[2]string{"username", in.Username},
		[2]string{"nickname", in.Nickname},
		[2]string{"password", in.Password},
		[2]string{"email", in.Email},
	); err != nil {
		return nil, err
	}
	if err := tooLong(
		fieldLimit{"username", in.Username, maxUsername},
		fieldLimit{"nickname", in.Nickname, maxNickname},
		fieldLimit{"email", in.Email, maxEmail},
	); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, invalid("password is too long")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(in.Username),
		Nickname:     strings.TrimSpace(in.Nickname),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, errUserTaken
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// SignIn checks the password and issues a token that replaces any token the
// user held before.
func (s *UserService) SignIn(ctx context.Context, username, password string) (*SignInResult, error) {
	if err := required([2]string{"username", username}, [2]string{"password", password}); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}

	token, expires, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	if err := s.tokens.Save(ctx, user.ID, token, time.Until(expires)); err != nil {
		return nil, fmt.Errorf("error registering token: %w", err)
	}

	return &SignInResult{AccessToken: token, User: user}, nil
}

// SignOut revokes the user's registered token.
func (s *UserService) SignOut(ctx context.Context, userID int64) error {
	if err := s.tokens.Delete(ctx, userID); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

func (s *UserService) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, newError(common.ErrorNotFound, "user not found")
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// Authenticate resolves a bearer token to a user id. The token must verify
// and must be the one currently registered for that user.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return 0, err
	}

	current, err := s.tokens.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrTokenRevoked
		}
		return 0, fmt.Errorf("error checking token: %w", err)
	}
	if current != token {
		return 0, common.ErrTokenRevoked
	}

	return userID, nil
}
