package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// Store загружает и сохраняет всё состояние целиком.
// Load всегда возвращает нормализованное состояние: при отсутствии данных - пустое.
// Между Load и Save нет блокировки: при конкурентной записи побеждает последний.
type Store interface {
	Load(ctx context.Context) (*model.State, error)
	Save(ctx context.Context, state *model.State) error
}

// DefaultStateKey ключ, под которым состояние хранится в postgres и redis
const DefaultStateKey = "tutoring-data"

// decodeState разбирает JSON-блоб и приводит его к канонической форме
func decodeState(data []byte) (*model.State, error) {
	if len(data) == 0 {
		return model.NewState(), nil
	}

	state := model.NewState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	state.Normalize()

	return state, nil
}

// encodeState сериализует состояние в JSON
func encodeState(state *model.State) ([]byte, error) {
	if state == nil {
		return nil, fmt.Errorf("encode state: nil state")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}

	return data, nil
}
