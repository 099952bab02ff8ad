package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bigkaa/backoffice/internal/domain/model"
)

// InternalUserRepository — интерфейс CRUD для таблицы internal_users.
type InternalUserRepository interface {
	// List возвращает всех сотрудников, новые первыми.
	List(ctx context.Context) ([]*model.InternalUser, error)
	// GetByID возвращает сотрудника по UUID.
	GetByID(ctx context.Context, id string) (*model.InternalUser, error)
	// Create создаёт сотрудника. ID назначает сервисный слой.
	Create(ctx context.Context, u *model.InternalUser) error
	// Update обновляет сотрудника.
	Update(ctx context.Context, u *model.InternalUser) error
	// Delete удаляет сотрудника.
	Delete(ctx context.Context, id string) error
}

type internalUserRepo struct {
	db DBTX
}

// NewInternalUserRepository создаёт репозиторий сотрудников.
func NewInternalUserRepository(db DBTX) InternalUserRepository {
	return &internalUserRepo{db: db}
}

const internalUserColumns = `id, name, email, username, role, department, phone,
	status, last_active_at, created_at, updated_at`

func scanInternalUser(row pgx.Row) (*model.InternalUser, error) {
	u := &model.InternalUser{}
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Username, &u.Role, &u.Department, &u.Phone,
		&u.Status, &u.LastActiveAt, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r *internalUserRepo) List(ctx context.Context) ([]*model.InternalUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM internal_users ORDER BY created_at DESC, id`, internalUserColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка сотрудников: %w", err)
	}
	defer rows.Close()

	result := make([]*model.InternalUser, 0)
	for rows.Next() {
		u, err := scanInternalUser(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования сотрудника: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *internalUserRepo) GetByID(ctx context.Context, id string) (*model.InternalUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM internal_users WHERE id = $1`, internalUserColumns)
	u, err := scanInternalUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, rowErr(err, "ошибка получения сотрудника", "")
	}
	return u, nil
}

func (r *internalUserRepo) Create(ctx context.Context, u *model.InternalUser) error {
	query := `
		INSERT INTO internal_users (id, name, email, username, role, department,
			phone, status, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.Username, u.Role, u.Department,
		u.Phone, u.Status, u.LastActiveAt,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return rowErr(err, "ошибка создания сотрудника", "сотрудник с таким email или username уже существует")
	}
	return nil
}

func (r *internalUserRepo) Update(ctx context.Context, u *model.InternalUser) error {
	query := `
		UPDATE internal_users
		SET name = $2, email = $3, username = $4, role = $5, department = $6,
			phone = $7, status = $8, last_active_at = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		u.ID, u.Name, u.Email, u.Username, u.Role, u.Department,
		u.Phone, u.Status, u.LastActiveAt,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	return rowErr(err, "ошибка обновления сотрудника", "email или username уже заняты")
}

func (r *internalUserRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM internal_users WHERE id = $1`, id)
	return deleted(tag, err, "ошибка удаления сотрудника")
}
