package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/repository/base"
)

// PostgresStore хранит состояние одной JSONB-строкой в таблице app_state
type PostgresStore struct {
	*base.Repository
	key    string
	logger *zap.Logger
}

// NewPostgresStore создаёт хранилище поверх пула
func NewPostgresStore(pool *pgxpool.Pool, key string, logger *zap.Logger) *PostgresStore {
	if key == "" {
		key = DefaultStateKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PostgresStore{
		Repository: base.NewRepository(pool),
		key:        key,
		logger:     logger,
	}
}

func (s *PostgresStore) Load(ctx context.Context) (*model.State, error) {
	query := `SELECT data FROM app_state WHERE key = $1`

	var data []byte
	err := s.QueryRow(ctx, query, s.key).Scan(&data)
	if base.IsNotFound(err) {
		s.logger.Debug("State row not found, starting with empty state", zap.String("key", s.key))
		return model.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("select state: %w", err)
	}

	return decodeState(data)
}

func (s *PostgresStore) Save(ctx context.Context, state *model.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO app_state (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`

	if _, err := s.ExecAffected(ctx, query, s.key, data); err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}

	return nil
}
