package adminclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bigkaa/backoffice/internal/collection"
	"github.com/bigkaa/backoffice/internal/domain/model"
)

// Resource — коллекция /api/admin/<name> как collection.Backend.
// Групповые действия не поддерживаются: Store выполняет их последовательно.
type Resource[T collection.Record[T]] struct {
	client *Client
	path   string
	// listKey — ключ массива в ответе списка ("" — ответ является массивом)
	listKey string
}

var (
	_ collection.Backend[model.InternalUser] = (*Resource[model.InternalUser])(nil)
	_ collection.Backend[model.Plan]         = (*Resource[model.Plan])(nil)
	_ collection.Backend[model.Supplier]     = (*Resource[model.Supplier])(nil)
)

// InternalUsers — /api/admin/internal-users.
func InternalUsers(c *Client) *Resource[model.InternalUser] {
	return &Resource[model.InternalUser]{client: c, path: "/api/admin/internal-users"}
}

// Plans — /api/admin/plans.
func Plans(c *Client) *Resource[model.Plan] {
	return &Resource[model.Plan]{client: c, path: "/api/admin/plans"}
}

// Suppliers — /api/admin/suppliers.
func Suppliers(c *Client) *Resource[model.Supplier] {
	return &Resource[model.Supplier]{client: c, path: "/api/admin/suppliers", listKey: "suppliers"}
}

// List загружает коллекцию целиком.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	if r.listKey == "" {
		var items []T
		if err := r.client.do(ctx, http.MethodGet, r.path, nil, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapped map[string]json.RawMessage
	if err := r.client.do(ctx, http.MethodGet, r.path, nil, &wrapped); err != nil {
		return nil, err
	}
	var items []T
	if raw, ok := wrapped[r.listKey]; ok {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("декодирование %s: %w", r.listKey, err)
		}
	}
	return items, nil
}

// Create создаёт запись. Временный идентификатор заменяется выданным API.
func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var created T
	if err := r.client.do(ctx, http.MethodPost, r.path, item.Normalized(), &created); err != nil {
		return created, err
	}
	return created, nil
}

// Update сохраняет запись целиком (PATCH /{id}).
func (r *Resource[T]) Update(ctx context.Context, item T) (T, error) {
	var updated T
	if err := r.client.do(ctx, http.MethodPatch, r.itemPath(item.GetID()), item.Normalized(), &updated); err != nil {
		return updated, err
	}
	return updated, nil
}

// Delete удаляет запись. Возвращает message из тела ответа, если API его прислал.
func (r *Resource[T]) Delete(ctx context.Context, id string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}
