package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	appErr "github.com/samims/stillup/internal/errors"
	"github.com/samims/stillup/internal/model"
)

type userStorage struct {
	db *pgxpool.Pool
}

func NewUserStorage(dbPool *pgxpool.Pool) UserStorage {
	return &userStorage{db: dbPool}
}

func (s *userStorage) CreateUser(ctx context.Context, email, hashedPass string) (*model.User, error) {
	user := &model.User{
		ID:       uuid.New().String(),
		Email:    email,
		Password: hashedPass,
	}
	query := `
		INSERT INTO users (id, email, password)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	if err := s.db.QueryRow(ctx, query, user.ID, email, hashedPass).Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("user %s: %w", email, appErr.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userStorage) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, password, created_at
		FROM users
		WHERE email = $1
	`
	return s.getUser(ctx, query, email)
}

func (s *userStorage) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, email, password, created_at
		FROM users
		WHERE id = $1
	`
	return s.getUser(ctx, query, id)
}

func (s *userStorage) getUser(ctx context.Context, query string, arg string) (*model.User, error) {
	var user model.User
	err := s.db.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Email, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", arg, appErr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (s *userStorage) CreateSession(ctx context.Context, sess *model.RefreshSession) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sessions (id, user_id, refresh_token, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	if err := s.db.QueryRow(ctx, query, sess.ID, sess.UserID, sess.RefreshToken, sess.ExpiresAt).Scan(&sess.CreatedAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (s *userStorage) DeleteSessionsByUser(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

func (s *userStorage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
