package repository

import (
	"context"
	"database/sql"

	"cortex_edu/internal/domain/model"
)

type UserRepository interface {
	// Create inserts the account and fills in the generated id and timestamps.
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, email, hashed_password, role, created_at, updated_at`

func scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.Role,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (username, email, hashed_password, role)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.HashedPassword, user.Role).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapWriteError("pgUserRepository.Create", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFoundOr("pgUserRepository.FindByEmail", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, notFoundOr("pgUserRepository.FindByUsername", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr("pgUserRepository.FindByID", err)
	}
	return user, nil
}
