// plans.go — сервис тарифных планов.
// Удаление плана с подписчиками заменяется деактивацией,
// о чём сообщает текст ответа.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bigkaa/backoffice/internal/domain/model"
	"github.com/bigkaa/backoffice/internal/i18n"
	"github.com/bigkaa/backoffice/internal/repository"
	"github.com/bigkaa/backoffice/internal/validation"
)

// PlanService — CRUD тарифов.
type PlanService struct {
	repo   repository.PlanRepository
	cache  *SnapshotCache
	logger *slog.Logger
}

// NewPlanService создаёт сервис тарифов.
// cache может быть nil; иначе изменённые планы вытесняются из кэша снимков.
func NewPlanService(repo repository.PlanRepository, cache *SnapshotCache, logger *slog.Logger) *PlanService {
	return &PlanService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("component", "plan_service")),
	}
}

// List возвращает тарифы в порядке sort_order.
func (s *PlanService) List(ctx context.Context) ([]model.Plan, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return values(plans), nil
}

// Get возвращает тариф по ID.
func (s *PlanService) Get(ctx context.Context, id string) (*model.Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "тариф")
	}
	return p, nil
}

// Create проверяет форму, назначает UUID и сохраняет тариф.
func (s *PlanService) Create(ctx context.Context, p model.Plan) (*model.Plan, error) {
	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	p = p.Normalized()
	p.ID = ""
	p.SubscriberCount = 0
	if errs := validation.Plan(ctx, p, existing); !errs.OK() {
		return nil, invalid(errs)
	}
	p.ID = uuid.New().String()

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, mapRepoError(err, "тариф")
	}

	s.logger.Info("Тариф создан",
		slog.String("id", p.ID),
		slog.String("slug", p.Slug),
	)
	return &p, nil
}

// Update применяет patch к тарифу. SubscriberCount ведётся биллингом
// и через patch не меняется.
func (s *PlanService) Update(ctx context.Context, id string, patch func(*model.Plan) error) (*model.Plan, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "тариф")
	}

	p := *current
	if err := patch(&p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	p.ID = current.ID
	p.CreatedAt = current.CreatedAt
	p.SubscriberCount = current.SubscriberCount
	p = p.Normalized()

	existing, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if errs := validation.Plan(ctx, p, existing); !errs.OK() {
		return nil, invalid(errs)
	}

	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, mapRepoError(err, "тариф")
	}
	s.forget(p.ID)

	s.logger.Info("Тариф обновлён",
		slog.String("id", p.ID),
		slog.Bool("is_active", p.IsActive),
	)
	return &p, nil
}

// Delete удаляет тариф и возвращает сообщение для пользователя.
// Тариф с подписчиками не удаляется, а деактивируется.
func (s *PlanService) Delete(ctx context.Context, id string) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", mapRepoError(err, "тариф")
	}

	if p.SubscriberCount > 0 {
		if p.IsActive {
			p.IsActive = false
			if err := s.repo.Update(ctx, p); err != nil {
				return "", mapRepoError(err, "тариф")
			}
		}
		s.forget(id)
		s.logger.Info("Тариф с подписчиками деактивирован вместо удаления",
			slog.String("id", id),
			slog.Int("subscribers", p.SubscriberCount),
		)
		return i18n.Tf(ctx, "plans.deactivated_instead", p.Name, p.SubscriberCount), nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return "", mapRepoError(err, "тариф")
	}
	s.forget(id)

	s.logger.Info("Тариф удалён", slog.String("id", id))
	return i18n.Tf(ctx, "plans.deleted", p.Name), nil
}

func (s *PlanService) forget(id string) {
	if s.cache != nil {
		s.cache.ForgetPlan(id)
	}
}
