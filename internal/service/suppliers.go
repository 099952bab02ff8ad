// suppliers.go — сервис поставщиков.
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

// SupplierService — CRUD поставщиков.
type SupplierService struct {
	repo   repository.SupplierRepository
	logger *slog.Logger
}

// NewSupplierService создаёт сервис поставщиков.
func NewSupplierService(repo repository.SupplierRepository, logger *slog.Logger) *SupplierService {
	return &SupplierService{
		repo:   repo,
		logger: logger.With(slog.String("component", "supplier_service")),
	}
}

// List возвращает поставщиков с учётом фильтра.
func (s *SupplierService) List(ctx context.Context, filter repository.SupplierFilter) ([]model.Supplier, error) {
	suppliers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return values(suppliers), nil
}

// Create проверяет форму, назначает UUID и сохраняет поставщика.
func (s *SupplierService) Create(ctx context.Context, sup model.Supplier) (*model.Supplier, error) {
	existing, err := s.List(ctx, repository.SupplierFilter{})
	if err != nil {
		return nil, err
	}

	sup = sup.Normalized()
	sup.ID = ""
	if errs := validation.Supplier(ctx, sup, existing); !errs.OK() {
		return nil, invalid(errs)
	}
	sup.ID = uuid.New().String()

	if err := s.repo.Create(ctx, &sup); err != nil {
		return nil, mapRepoError(err, "поставщик")
	}

	s.logger.Info("Поставщик создан",
		slog.String("id", sup.ID),
		slog.String("email", sup.Email),
	)
	return &sup, nil
}

// Update применяет patch к поставщику, проверяет форму и сохраняет.
func (s *SupplierService) Update(ctx context.Context, id string, patch func(*model.Supplier) error) (*model.Supplier, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "поставщик")
	}

	sup := *current
	if err := patch(&sup); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	sup.ID = current.ID
	sup.CreatedAt = current.CreatedAt
	sup = sup.Normalized()

	existing, err := s.List(ctx, repository.SupplierFilter{})
	if err != nil {
		return nil, err
	}
	if errs := validation.Supplier(ctx, sup, existing); !errs.OK() {
		return nil, invalid(errs)
	}

	if err := s.repo.Update(ctx, &sup); err != nil {
		return nil, mapRepoError(err, "поставщик")
	}

	s.logger.Info("Поставщик обновлён",
		slog.String("id", sup.ID),
		slog.Bool("verified", sup.Verified),
		slog.String("status", sup.Status),
	)
	return &sup, nil
}

// Delete удаляет поставщика.
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "поставщик")
	}
	s.logger.Info("Поставщик удалён", slog.String("id", id))
	return nil
}
