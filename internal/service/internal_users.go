// internal_users.go — сервис управления сотрудниками back office.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/repository"
	"github.com/bigkaa/backoffice/internal/validation"
)

// InternalUserService — CRUD сотрудников с валидацией формы.
type InternalUserService struct {
	repo   repository.InternalUserRepository
	logger *slog.Logger
}

// NewInternalUserService создаёт сервис сотрудников.
func NewInternalUserService(repo repository.InternalUserRepository, logger *slog.Logger) *InternalUserService {
	return &InternalUserService{
		repo:   repo,
		logger: logger.With(slog.String("component", "internal_user_service")),
	}
}

// List возвращает всех сотрудников.
func (s *InternalUserService) List(ctx context.Context) ([]model.InternalUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return values(users), nil
}

// Create проверяет форму, назначает UUID и сохраняет сотрудника.
func (s *InternalUserService) Create(ctx context.Context, u model.InternalUser) (*model.InternalUser, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	u = u.Normalized()
	u.ID = ""
	if errs := validation.InternalUser(ctx, u, existing); !errs.OK() {
		return nil, invalid(errs)
	}
	u.ID = uuid.New().String()

	if err := s.repo.Create(ctx, &u); err != nil {
		return nil, mapRepoError(err, "сотрудник")
	}

	s.logger.Info("Сотрудник создан",
		slog.String("id", u.ID),
		slog.String("username", u.Username),
		slog.String("role", u.Role),
	)
	return &u, nil
}

// Update применяет patch к текущей записи, проверяет форму и сохраняет.
// ID и CreatedAt записи patch изменить не может.
func (s *InternalUserService) Update(ctx context.Context, id string, patch func(*model.InternalUser) error) (*model.InternalUser, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "сотрудник")
	}

	u := *current
	if err := patch(&u); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	u.ID = current.ID
	u.CreatedAt = current.CreatedAt
	u = u.Normalized()

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if errs := validation.InternalUser(ctx, u, existing); !errs.OK() {
		return nil, invalid(errs)
	}

	if err := s.repo.Update(ctx, &u); err != nil {
		return nil, mapRepoError(err, "сотрудник")
	}

	s.logger.Info("Сотрудник обновлён",
		slog.String("id", u.ID),
		slog.String("status", u.Status),
	)
	return &u, nil
}

// Delete удаляет сотрудника.
func (s *InternalUserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "сотрудник")
	}
	s.logger.Info("Сотрудник удалён", slog.String("id", id))
	return nil
}
