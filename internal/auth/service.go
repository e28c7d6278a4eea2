// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
	"github.com/carterperez-dev/templates/tiered-events/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenReuse         = errors.New("token reuse detected")
	ErrEmailExists        = errors.New("email already exists")

	errRevoked = fmt.Errorf("refresh token revoked: %w", core.ErrTokenRevoked)
	errExpired = fmt.Errorf("refresh token expired: %w", core.ErrTokenExpired)
)

type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Tier         string
	TokenVersion int
}

// UserProvider is the account store sessions are issued against.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	Create(
		ctx context.Context,
		email, passwordHash, name string,
	) (*UserInfo, error)
	IncrementTokenVersion(ctx context.Context, userID string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// TxFunc runs fn against a Repository bound to one transaction.
type TxFunc func(ctx context.Context, fn func(Repository) error) error

// SQLTx binds rotations to a database transaction.
func SQLTx(db core.TxBeginner) TxFunc {
	return func(ctx context.Context, fn func(Repository) error) error {
		return core.InTx(ctx, db, func(tx *sqlx.Tx) error {
			return fn(NewRepository(tx))
		})
	}
}

type Service struct {
	repo      Repository
	inTx      TxFunc
	jwt       *JWTManager
	users     UserProvider
	blacklist Blacklist
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	inTx TxFunc,
	jwt *JWTManager,
	users UserProvider,
	blacklist Blacklist,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:      repo,
		inTx:      inTx,
		jwt:       jwt,
		users:     users,
		blacklist: blacklist,
		logger:    logger,
	}
}

type ClientInfo struct {
	UserAgent string
	IPAddress string
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
	client ClientInfo,
) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // equalizes timing for unknown emails
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.issue(ctx, s.repo, user, client, "", "")
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
	client ClientInfo,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, passwordHash, req.Name)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(ctx, s.repo, user, client, "", "")
}

// Refresh rotates a refresh token. Presenting an already rotated token
// revokes its whole family and every access token issued to the owner.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
	client ClientInfo,
) (*AuthResponse, error) {
	tokenHash := core.HashToken(refreshToken)

	var (
		resp     *AuthResponse
		familyID string
		ownerID  string
	)
	err := s.inTx(ctx, func(repo Repository) error {
		stored, err := repo.LockByHash(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
			}
			return err
		}

		if stateErr := stored.State(s.jwt.now()); stateErr != nil {
			familyID, ownerID = stored.FamilyID, stored.UserID
			return stateErr
		}

		user, err := s.users.GetByID(ctx, stored.UserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}

		resp, err = s.issue(ctx, repo, user, client, stored.FamilyID, stored.ID)
		return err
	})

	if errors.Is(err, ErrTokenReuse) {
		if revokeErr := s.repo.RevokeByFamilyID(ctx, familyID); revokeErr != nil {
			s.logger.ErrorContext(ctx, "revoke reused token family",
				"family_id", familyID,
				"error", revokeErr,
			)
		}
		if versionErr := s.users.IncrementTokenVersion(ctx, ownerID); versionErr != nil {
			s.logger.ErrorContext(ctx, "invalidate access tokens after reuse",
				"user_id", ownerID,
				"error", versionErr,
			)
		}
		s.logger.WarnContext(ctx, "refresh token reuse detected",
			"family_id", familyID,
			"user_id", ownerID,
		)
		return nil, ErrTokenReuse
	}
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Logout revokes the presented refresh token and blacklists the current
// access token until it would have expired anyway.
func (s *Service) Logout(
	ctx context.Context,
	refreshToken string,
	claims *middleware.AccessTokenClaims,
) error {
	stored, err := s.repo.FindByHash(ctx, core.HashToken(refreshToken))
	switch {
	case errors.Is(err, core.ErrNotFound):
	case err != nil:
		return fmt.Errorf("find token: %w", err)
	case stored.UserID != claims.UserID:
		return fmt.Errorf("logout: %w", core.ErrForbidden)
	default:
		if err := s.repo.RevokeByID(ctx, stored.ID); err != nil &&
			!errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("revoke token: %w", err)
		}
	}

	ttl := claims.ExpiresAt.Sub(s.jwt.now())
	if err := s.blacklist.Add(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("blacklist access token: %w", err)
	}

	return nil
}

func (s *Service) issue(
	ctx context.Context,
	repo Repository,
	user *UserInfo,
	client ClientInfo,
	familyID, previousID string,
) (*AuthResponse, error) {
	access, err := s.jwt.CreateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	refresh, err := s.jwt.CreateRefreshToken(familyID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	next := &RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		TokenHash: refresh.Hash,
		FamilyID:  refresh.FamilyID,
		ExpiresAt: refresh.ExpiresAt,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
	}

	if err := repo.Create(ctx, next); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	if previousID != "" {
		if err := repo.MarkAsUsed(ctx, previousID, next.ID); err != nil {
			return nil, fmt.Errorf("rotate refresh token: %w", err)
		}
	}

	return &AuthResponse{
		User: SessionUser{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Tier:  user.Tier,
		},
		Tokens: TokenResponse{
			AccessToken:  access.Token,
			RefreshToken: refresh.Token,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL() / time.Second),
			ExpiresAt:    access.ExpiresAt,
		},
	}, nil
}
