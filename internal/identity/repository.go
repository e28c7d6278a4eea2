// AngelaMos | 2026
// repository.go

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carterperez-dev/templates/tiered-events/internal/core"
)

type Repository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	MergeMetadata(ctx context.Context, id string, patch Metadata) (*Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const accountColumns = `id, email, password_hash, name, public_metadata,
		       token_version, created_at, updated_at, deleted_at`

func (r *repository) Create(ctx context.Context, account *Account) error {
	query := `
		INSERT INTO identity_users (id, email, password_hash, name, public_metadata)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at, token_version`

	err := r.db.QueryRowxContext(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.Metadata,
	).Scan(&account.CreatedAt, &account.UpdatedAt, &account.TokenVersion)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create account: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create account: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM identity_users
		WHERE id = $1 AND deleted_at IS NULL`

	var account Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	return &account, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM identity_users
		WHERE email = $1 AND deleted_at IS NULL`

	var account Account
	err := r.db.GetContext(ctx, &account, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account by email: %w", err)
	}

	return &account, nil
}

// MergeMetadata shallow-merges patch into the stored bag in one statement
// and returns the account as written.
func (r *repository) MergeMetadata(
	ctx context.Context,
	id string,
	patch Metadata,
) (*Account, error) {
	query := `
		UPDATE identity_users
		SET public_metadata = public_metadata || $2::jsonb, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + accountColumns

	var account Account
	err := r.db.GetContext(ctx, &account, query, id, patch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("merge metadata: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("merge metadata: %w", err)
	}

	return &account, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE identity_users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id string) error {
	query := `
		UPDATE identity_users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execOne(ctx, "increment token version", query, id)
}

func (r *repository) execOne(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
