package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/repository"
)

// stateAccess общая часть сервисов: чтение и запись всего состояния за один вызов
type stateAccess struct {
	store     repository.Store
	validator *validator.Validate
	settings  Settings
	logger    *zap.Logger
	now       func() time.Time
}

func newStateAccess(store repository.Store, validate *validator.Validate, settings Settings, logger *zap.Logger) stateAccess {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerValidations(validate)

	return stateAccess{
		store:     store,
		validator: validate,
		settings:  settings.withDefaults(),
		logger:    logger,
		now:       time.Now,
	}
}

func (a *stateAccess) load(ctx context.Context) (*model.State, error) {
	state, err := a.store.Load(ctx)
	if err != nil {
		a.logger.Error("Failed to load state", zap.Error(err))
		return nil, fmt.Errorf("load state: %w", err)
	}
	return state, nil
}

// mutate загружает состояние, применяет fn и сохраняет результат.
// Если fn вернула ошибку, хранилище не трогается.
func (a *stateAccess) mutate(ctx context.Context, fn func(state *model.State) error) error {
	state, err := a.load(ctx)
	if err != nil {
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	if err := a.store.Save(ctx, state); err != nil {
		a.logger.Error("Failed to save state", zap.Error(err))
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (a *stateAccess) validate(req any) error {
	if err := a.validator.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// nowUTC время создания записей
func (a *stateAccess) nowUTC() time.Time {
	return a.now().UTC().Truncate(time.Second)
}
