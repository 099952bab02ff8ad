// snapshot_cache.go — LRU-кэш снимков пользователей и тарифов,
// встраиваемых в заказы при чтении.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/backoffice/internal/collection"
	"github.com/bigkaa/backoffice/internal/domain/model"
)

// Prometheus-метрики кэша.
var (
	snapshotCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bo_snapshot_cache_hits_total",
		Help: "Общее количество попаданий в кэш снимков заказов.",
	})
	snapshotCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bo_snapshot_cache_misses_total",
		Help: "Общее количество промахов кэша снимков заказов.",
	})
)

// UserLookup загружает снимок пользователя по ID.
type UserLookup func(ctx context.Context, id string) (model.UserSnapshot, error)

// PlanLookup загружает снимок тарифа по ID.
type PlanLookup func(ctx context.Context, id string) (model.PlanSnapshot, error)

// SnapshotCache — кэш снимков с автоматическим TTL.
// Снимки только читаются; изменение заказа на них не влияет.
type SnapshotCache struct {
	users  *expirable.LRU[string, model.UserSnapshot]
	plans  *expirable.LRU[string, model.PlanSnapshot]
	logger *slog.Logger
}

// NewSnapshotCache создаёт кэш. maxSize — лимит записей каждого вида.
func NewSnapshotCache(maxSize int, ttl time.Duration, logger *slog.Logger) *SnapshotCache {
	return &SnapshotCache{
		users:  expirable.NewLRU[string, model.UserSnapshot](maxSize, nil, ttl),
		plans:  expirable.NewLRU[string, model.PlanSnapshot](maxSize, nil, ttl),
		logger: logger.With(slog.String("component", "snapshot_cache")),
	}
}

// User возвращает снимок пользователя из кэша или через load.
func (c *SnapshotCache) User(ctx context.Context, id string, load UserLookup) (model.UserSnapshot, error) {
	if snap, ok := c.users.Get(id); ok {
		snapshotCacheHitsTotal.Inc()
		return snap, nil
	}
	snapshotCacheMissesTotal.Inc()

	snap, err := load(ctx, id)
	if err != nil {
		return model.UserSnapshot{}, err
	}
	c.users.Add(id, snap)
	return snap, nil
}

// Plan возвращает снимок тарифа из кэша или через load.
func (c *SnapshotCache) Plan(ctx context.Context, id string, load PlanLookup) (model.PlanSnapshot, error) {
	if snap, ok := c.plans.Get(id); ok {
		snapshotCacheHitsTotal.Inc()
		return snap, nil
	}
	snapshotCacheMissesTotal.Inc()

	snap, err := load(ctx, id)
	if err != nil {
		return model.PlanSnapshot{}, err
	}
	c.plans.Add(id, snap)
	return snap, nil
}

// ForgetUser удаляет снимок пользователя (инвалидация после изменения).
func (c *SnapshotCache) ForgetUser(id string) {
	c.users.Remove(id)
}

// ForgetUsersOn возвращает Notifier, который сбрасывает снимок пользователя
// после каждой мутации коллекции (успешной или откатанной) и передаёт
// уведомление next.
func (c *SnapshotCache) ForgetUsersOn(next collection.Notifier) collection.Notifier {
	return collection.NotifierFunc(func(n collection.Notification) {
		if n.ID != "" {
			c.ForgetUser(n.ID)
		}
		if next != nil {
			next.Notify(n)
		}
	})
}

// StoreUsers — UserLookup по коллекции внешних пользователей.
func StoreUsers(users *collection.Store[model.ExternalUser]) UserLookup {
	return func(ctx context.Context, id string) (model.UserSnapshot, error) {
		if err := users.Load(ctx); err != nil {
			return model.UserSnapshot{}, err
		}
		u, ok := users.Get(id)
		if !ok {
			return model.UserSnapshot{}, fmt.Errorf("%w: пользователь %s", ErrNotFound, id)
		}
		return u.Snapshot(), nil
	}
}

// ForgetPlan удаляет снимок тарифа.
func (c *SnapshotCache) ForgetPlan(id string) {
	c.plans.Remove(id)
}

// Enrich подставляет в заказы актуальные снимки пользователя и тарифа.
// Если связанная запись недоступна, остаётся снимок, сохранённый в заказе.
// Входной срез не изменяется.
func (c *SnapshotCache) Enrich(ctx context.Context, orders []model.Order, users UserLookup, plans PlanLookup) []model.Order {
	out := make([]model.Order, len(orders))
	for i, o := range orders {
		if o.UserID != "" && users != nil {
			if snap, err := c.User(ctx, o.UserID, users); err == nil {
				o.User = snap
			} else {
				c.logger.Debug("Снимок пользователя не найден",
					slog.String("order_id", o.ID),
					slog.String("user_id", o.UserID),
					slog.String("error", err.Error()),
				)
			}
		}
		if o.PlanID != "" && plans != nil {
			if snap, err := c.Plan(ctx, o.PlanID, plans); err == nil {
				o.Plan = snap
			} else {
				c.logger.Debug("Снимок тарифа не найден",
					slog.String("order_id", o.ID),
					slog.String("plan_id", o.PlanID),
					slog.String("error", err.Error()),
				)
			}
		}
		out[i] = o
	}
	return out
}
