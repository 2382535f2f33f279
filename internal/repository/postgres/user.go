package postgres

import (
	"context"
	"database/sql"

	"franchise-backend/internal/domain"
	"franchise-backend/internal/repository"
)

type userRepository struct {
	db dbtx
}

func NewUserRepository(db dbtx) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, name, phone_number, role, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query, user.Email, user.Name, user.PhoneNumber, user.Role, user.Status).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT id, email, name, COALESCE(phone_number, ''), role, status, created_at, updated_at
	          FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, name, COALESCE(phone_number, ''), role, status, created_at, updated_at
	          FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $2, name = $3, phone_number = $4, role = $5, status = $6, updated_at = NOW()
	          WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.PhoneNumber, user.Role, user.Status)
	return err
}

func (r *userRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PhoneNumber, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
