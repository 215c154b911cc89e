package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sundialhq/sundial/internal/domain"
)

type ChatStore struct {
	db *pgxpool.Pool
}

func NewChatStore(db *pgxpool.Pool) *ChatStore {
	return &ChatStore{db: db}
}

func (s *ChatStore) Create(ctx context.Context, m *domain.ChatMessage) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO chat_messages (user_id, role, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.UserID, m.Role, m.Content,
	).Scan(&m.ID, &m.CreatedAt)
}

// ListByUser returns the limit most recent messages, oldest first.
func (s *ChatStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatMessage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM chat_messages WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Fetched newest-first for the LIMIT; callers read oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *ChatStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM chat_messages WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
