package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophfit/internal/common"
	"github.com/dmitrijs2005/gophfit/internal/cryptox"
	"github.com/dmitrijs2005/gophfit/internal/dbx"
	"github.com/dmitrijs2005/gophfit/internal/server/auth"
	"github.com/dmitrijs2005/gophfit/internal/server/config"
	"github.com/dmitrijs2005/gophfit/internal/server/models"
	"github.com/dmitrijs2005/gophfit/internal/server/repositories/repomanager"
)

const minPasswordLen = 6

type TokenPair struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: invalid e-mail", common.ErrorValidation)
	}
	return email, nil
}

// SignUp creates an account and signs it in.
func (s *UserService) SignUp(ctx context.Context, email, password string) (*TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must have at least %d characters", common.ErrorValidation, minPasswordLen)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: cryptox.HashPassword([]byte(password)),
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.generateTokenPair(ctx, s.db, user.ID)
}

// SignIn checks the credentials. Unknown e-mails and wrong passwords both
// yield common.ErrorUnauthorized.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	ok, err := cryptox.VerifyPassword(user.PasswordHash, []byte(password))
	if err != nil || !ok {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, s.db, user.ID)
}

// RefreshToken exchanges a refresh token for a new pair. The old token is
// consumed.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		repo := s.repomanager.RefreshTokens(tx)

		token, err := repo.Find(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return nil, common.ErrorUnauthorized
			}
			return nil, fmt.Errorf("error searching refresh token: %w", err)
		}

		if token.Expires.Before(time.Now()) {
			return nil, common.ErrRefreshTokenExpired
		}

		if err := repo.Delete(ctx, refreshToken); err != nil {
			return nil, fmt.Errorf("error deleting refresh token: %w", err)
		}

		return s.generateTokenPair(ctx, tx, token.UserID)
	})
}

// SignOut revokes the refresh token. Unknown tokens are ignored.
func (s *UserService) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, userID)
}

// PurgeExpiredTokens deletes refresh tokens that can no longer be used.
func (s *UserService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, time.Now())
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	err = s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{UserID: userID, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
