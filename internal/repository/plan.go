package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/backoffice/internal/domain/model"
)

// PlanRepository — интерфейс CRUD для таблицы plans.
type PlanRepository interface {
	// List возвращает тарифы в порядке sort_order.
	List(ctx context.Context) ([]*model.Plan, error)
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	Create(ctx context.Context, p *model.Plan) error
	Update(ctx context.Context, p *model.Plan) error
	Delete(ctx context.Context, id string) error
}

type planRepo struct {
	db DBTX
}

// NewPlanRepository создаёт репозиторий тарифов.
func NewPlanRepository(db DBTX) PlanRepository {
	return &planRepo{db: db}
}

const planColumns = `id, name, slug, description, price_inr, billing_interval,
	features, max_stores, is_active, sort_order, subscriber_count, created_at, updated_at`

func scanPlan(row pgx.Row) (*model.Plan, error) {
	p := &model.Plan{}
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.PriceINR, &p.BillingInterval,
		&p.Features, &p.MaxStores, &p.IsActive, &p.SortOrder, &p.SubscriberCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *planRepo) List(ctx context.Context) ([]*model.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans ORDER BY sort_order, name`, planColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка тарифов: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Plan, 0)
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования тарифа: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM plans WHERE id = $1`, planColumns)
	p, err := scanPlan(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, rowErr(err, "ошибка получения тарифа", "")
	}
	return p, nil
}

func (r *planRepo) Create(ctx context.Context, p *model.Plan) error {
	query := `
		INSERT INTO plans (id, name, slug, description, price_inr, billing_interval,
			features, max_stores, is_active, sort_order, subscriber_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.PriceINR, p.BillingInterval,
		p.Features, p.MaxStores, p.IsActive, p.SortOrder, p.SubscriberCount,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return rowErr(err, "ошибка создания тарифа", "тариф с таким slug уже существует")
	}
	return nil
}

func (r *planRepo) Update(ctx context.Context, p *model.Plan) error {
	query := `
		UPDATE plans
		SET name = $2, slug = $3, description = $4, price_inr = $5,
			billing_interval = $6, features = $7, max_stores = $8, is_active = $9,
			sort_order = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING subscriber_count, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.PriceINR,
		p.BillingInterval, p.Features, p.MaxStores, p.IsActive, p.SortOrder,
	).Scan(&p.SubscriberCount, &p.CreatedAt, &p.UpdatedAt)
	return rowErr(err, "ошибка обновления тарифа", "slug уже занят")
}

func (r *planRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	return deleted(tag, err, "ошибка удаления тарифа")
}
