package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/backoffice/internal/domain/model"
)

// SupplierFilter — параметры фильтрации списка поставщиков.
type SupplierFilter struct {
	// Search — подстрока имени, компании или email (без учёта регистра)
	Search *string
	// Verified — фильтр по признаку верификации
	Verified *bool
}

// SupplierRepository — интерфейс CRUD для таблицы suppliers.
type SupplierRepository interface {
	List(ctx context.Context, filter SupplierFilter) ([]*model.Supplier, error)
	GetByID(ctx context.Context, id string) (*model.Supplier, error)
	Create(ctx context.Context, s *model.Supplier) error
	Update(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, id string) error
}

type supplierRepo struct {
	db DBTX
}

// NewSupplierRepository создаёт репозиторий поставщиков.
func NewSupplierRepository(db DBTX) SupplierRepository {
	return &supplierRepo{db: db}
}

const supplierColumns = `id, name, company, email, phone, website, category, country,
	verified, rating, products_count, status, created_at, updated_at`

func scanSupplier(row pgx.Row) (*model.Supplier, error) {
	s := &model.Supplier{}
	err := row.Scan(
		&s.ID, &s.Name, &s.Company, &s.Email, &s.Phone, &s.Website, &s.Category, &s.Country,
		&s.Verified, &s.Rating, &s.ProductsCount, &s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *supplierRepo) List(ctx context.Context, filter SupplierFilter) ([]*model.Supplier, error) {
	var conditions []string
	var args []any
	argNum := 1

	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR company ILIKE $%d OR email ILIKE $%d)", argNum, argNum, argNum))
		args = append(args, "%"+escapeLike(strings.TrimSpace(*filter.Search))+"%")
		argNum++
	}
	if filter.Verified != nil {
		conditions = append(conditions, fmt.Sprintf("verified = $%d", argNum))
		args = append(args, *filter.Verified)
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM suppliers
		%s
		ORDER BY name, id`, supplierColumns, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка поставщиков: %w", err)
	}
	defer rows.Close()

	result := make([]*model.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования поставщика: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *supplierRepo) GetByID(ctx context.Context, id string) (*model.Supplier, error) {
	query := fmt.Sprintf(`SELECT %s FROM suppliers WHERE id = $1`, supplierColumns)
	s, err := scanSupplier(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, rowErr(err, "ошибка получения поставщика", "")
	}
	return s, nil
}

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, company, email, phone, website, category,
			country, verified, rating, products_count, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Name, s.Company, s.Email, s.Phone, s.Website, s.Category,
		s.Country, s.Verified, s.Rating, s.ProductsCount, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return rowErr(err, "ошибка создания поставщика", "поставщик с таким email уже существует")
	}
	return nil
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, company = $3, email = $4, phone = $5, website = $6,
			category = $7, country = $8, verified = $9, rating = $10,
			products_count = $11, status = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		s.ID, s.Name, s.Company, s.Email, s.Phone, s.Website,
		s.Category, s.Country, s.Verified, s.Rating,
		s.ProductsCount, s.Status,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return rowErr(err, "ошибка обновления поставщика", "email уже занят")
}

func (r *supplierRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	return deleted(tag, err, "ошибка удаления поставщика")
}

// escapeLike экранирует спецсимволы шаблона LIKE.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
