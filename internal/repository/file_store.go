package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// FileStore хранит состояние в локальном файле.
// Расширение .yaml/.yml выбирает YAML, всё остальное - JSON.
type FileStore struct {
	path   string
	yaml   bool
	logger *zap.Logger
}

// NewFileStore создаёт файловое хранилище
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	ext := strings.ToLower(filepath.Ext(path))
	return &FileStore{
		path:   path,
		yaml:   ext == ".yaml" || ext == ".yml",
		logger: logger,
	}
}

// Path возвращает путь к файлу данных
func (s *FileStore) Path() string {
	return s.path
}

// Load читает файл; отсутствующий файл означает пустое состояние
func (s *FileStore) Load(ctx context.Context) (*model.State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("Data file not found, starting with empty state", zap.String("path", s.path))
		return model.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	if !s.yaml {
		return decodeState(data)
	}

	state := model.NewState()
	if err := yaml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode yaml state: %w", err)
	}
	state.Normalize()

	return state, nil
}

// Save записывает состояние через временный файл и rename,
// чтобы читатель никогда не увидел половину записи
func (s *FileStore) Save(ctx context.Context, state *model.State) error {
	var (
		data []byte
		err  error
	)
	if s.yaml {
		data, err = yaml.Marshal(state)
	} else {
		data, err = encodeState(state)
	}
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}

	return nil
}
