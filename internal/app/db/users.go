package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rubiechat/internal/app/user"
)

const userColumns = `id::text, name, email, email_verified, image, hashed_password, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.EmailVerified,
		&u.Image,
		&u.HashedPassword,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// notFound maps "no row" and malformed ids to user.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) || IsInvalidTextRepresentation(err) {
		return user.ErrNotFound
	}
	return err
}

// CreateUser inserts a credentials account.
func (q *Queries) CreateUser(ctx context.Context, params user.CreateParams) (user.User, error) {
	const query = `
		INSERT INTO users (name, email, hashed_password)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(q.db.QueryRow(ctx, query, params.Name, params.Email, params.HashedPassword))
	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrDuplicateEmail
		}
		return user.User{}, err
	}
	return u, nil
}

// GetUserByID returns the account with id.
func (q *Queries) GetUserByID(ctx context.Context, id string) (user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1::uuid`

	u, err := scanUser(q.db.QueryRow(ctx, query, id))
	if err != nil {
		return user.User{}, notFound(err)
	}
	return u, nil
}

// GetUserByEmail returns the account with email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(q.db.QueryRow(ctx, query, email))
	if err != nil {
		return user.User{}, notFound(err)
	}
	return u, nil
}

// ListUsersExcept returns every account but the one with email, newest first.
func (q *Queries) ListUsersExcept(ctx context.Context, email string) ([]user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email <> $1 ORDER BY created_at DESC`

	rows, err := q.db.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

func (q *Queries) getUsersByIDs(ctx context.Context, ids []string) (map[string]user.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::text[]::uuid[])`

	rows, err := q.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}

	users, err := collectUsers(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.User, error) {
		return scanUser(row)
	})
}

// UpsertOAuthUser resolves a social identity to an account in one transaction:
// a linked account wins, then an existing user with the same verified email is
// linked, otherwise a new user is created with a verified email. An existing user
// whose email was never verified yields user.ErrAccountNotLinked.
func (q *Queries) UpsertOAuthUser(ctx context.Context, params user.OAuthParams) (user.User, error) {
	var result user.User

	err := pgx.BeginFunc(ctx, q.db, func(tx pgx.Tx) error {
		qtx := q.WithTx(tx)

		const byAccount = `
			SELECT u.id::text, u.name, u.email, u.email_verified, u.image, u.hashed_password, u.created_at, u.updated_at
			FROM accounts a JOIN users u ON u.id = a.user_id
			WHERE a.provider = $1 AND a.provider_account_id = $2`

		u, err := scanUser(tx.QueryRow(ctx, byAccount, params.Provider, params.ProviderAccountID))
		switch {
		case err == nil:
			result, err = qtx.fillImage(ctx, u, params.Image)
			return err
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("lookup account: %w", err)
		}

		u, err = qtx.GetUserByEmail(ctx, params.Email)
		switch {
		case errors.Is(err, user.ErrNotFound):
			const insertUser = `
				INSERT INTO users (name, email, email_verified, image)
				VALUES ($1, $2, now(), $3)
				RETURNING ` + userColumns
			u, err = scanUser(tx.QueryRow(ctx, insertUser, params.Name, params.Email, params.Image))
			if err != nil {
				return fmt.Errorf("insert user: %w", err)
			}
		case err != nil:
			return fmt.Errorf("lookup user by email: %w", err)
		case !u.CanLinkProvider():
			return user.ErrAccountNotLinked
		default:
			if u, err = qtx.fillImage(ctx, u, params.Image); err != nil {
				return err
			}
		}

		const insertAccount = `
			INSERT INTO accounts (user_id, provider, provider_account_id)
			VALUES ($1::uuid, $2, $3)`
		if _, err := tx.Exec(ctx, insertAccount, u.ID, params.Provider, params.ProviderAccountID); err != nil {
			return fmt.Errorf("link account: %w", err)
		}

		result = u
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return result, nil
}

// fillImage sets the provider image on accounts that have none.
func (q *Queries) fillImage(ctx context.Context, u user.User, image string) (user.User, error) {
	if u.Image != "" || image == "" {
		return u, nil
	}

	const query = `
		UPDATE users SET image = $2, updated_at = now()
		WHERE id = $1::uuid
		RETURNING ` + userColumns

	updated, err := scanUser(q.db.QueryRow(ctx, query, u.ID, image))
	if err != nil {
		return user.User{}, fmt.Errorf("fill image: %w", err)
	}
	return updated, nil
}

// UpdateUserProfile sets name and image. Empty values keep the stored ones.
func (q *Queries) UpdateUserProfile(ctx context.Context, params user.ProfileParams) (user.User, error) {
	const query = `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
			image = COALESCE(NULLIF($3, ''), image),
			updated_at = now()
		WHERE id = $1::uuid
		RETURNING ` + userColumns

	u, err := scanUser(q.db.QueryRow(ctx, query, params.ID, params.Name, params.Image))
	if err != nil {
		return user.User{}, notFound(err)
	}
	return u, nil
}
