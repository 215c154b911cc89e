package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sundialhq/sundial/internal/domain"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO users (email, name, api_key_hash, calendar_token, calendar_connected)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		u.Email, u.Name, u.APIKeyHash, u.CalendarToken, u.CalendarConnected,
	).Scan(&u.ID, &u.CreatedAt)
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, api_key_hash, calendar_token, calendar_connected, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.APIKeyHash, &u.CalendarToken, &u.CalendarConnected, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) GetByAPIKeyHash(ctx context.Context, apiKeyHash string) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, email, name, api_key_hash, calendar_token, calendar_connected, created_at
		 FROM users WHERE api_key_hash = $1`,
		apiKeyHash,
	).Scan(&u.ID, &u.Email, &u.Name, &u.APIKeyHash, &u.CalendarToken, &u.CalendarConnected, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}
