package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/sundialhq/sundial/internal/domain"
)

type PreferenceStore struct {
	db *pgxpool.Pool
}

func NewPreferenceStore(db *pgxpool.Pool) *PreferenceStore {
	return &PreferenceStore{db: db}
}

func (s *PreferenceStore) Create(ctx context.Context, p *domain.Preference) error {
	var embedding *pgvector.Vector
	if len(p.Embedding) > 0 {
		v := pgvector.NewVector(p.Embedding)
		embedding = &v
	}

	if p.Source == "" {
		p.Source = domain.SourceAPI
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO preferences (user_id, value, scope_date, source, embedding)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		p.UserID, p.Value, p.ScopeDate, p.Source, embedding,
	).Scan(&p.ID, &p.CreatedAt)
}

func (s *PreferenceStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Preference, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, value, scope_date, source, created_at
		 FROM preferences WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []domain.Preference
	for rows.Next() {
		var p domain.Preference
		if err := rows.Scan(&p.ID, &p.UserID, &p.Value, &p.ScopeDate, &p.Source, &p.CreatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}

func (s *PreferenceStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM preferences WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PreferenceStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM preferences WHERE user_id = $1`,
		userID,
	).Scan(&count)
	return count, err
}

func (s *PreferenceStore) SearchSimilar(ctx context.Context, userID uuid.UUID, embedding []float32, limit int) ([]domain.PreferenceWithScore, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)

	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, value, scope_date, source, created_at,
		        1 - (embedding <=> $2) AS score
		 FROM preferences
		 WHERE user_id = $1 AND embedding IS NOT NULL
		 ORDER BY embedding <=> $2
		 LIMIT $3`,
		userID, vec, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.PreferenceWithScore
	for rows.Next() {
		var p domain.PreferenceWithScore
		if err := rows.Scan(&p.ID, &p.UserID, &p.Value, &p.ScopeDate, &p.Source, &p.CreatedAt, &p.Score); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
