package repository

import (
	"context"
	"sync"

	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// MemoryStore хранит состояние в памяти в виде JSON-блоба.
// Каждый Load возвращает независимую копию, как и настоящие хранилища.
type MemoryStore struct {
	mu    sync.RWMutex
	data  []byte
	saves int
}

// NewMemoryStore создаёт хранилище, опционально заполненное начальным состоянием
func NewMemoryStore(initial *model.State) *MemoryStore {
	s := &MemoryStore{}
	if initial != nil {
		data, err := encodeState(initial)
		if err != nil {
			panic("memory store: " + err.Error())
		}
		s.data = data
	}
	return s
}

func (s *MemoryStore) Load(ctx context.Context) (*model.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return decodeState(s.data)
}

func (s *MemoryStore) Save(ctx context.Context, state *model.State) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
	s.saves++
	return nil
}

// Saves возвращает количество успешных сохранений
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}
