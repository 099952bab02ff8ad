package collection

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSimulatedFailure — ошибка, внедрённая симуляцией бэкенда.
var ErrSimulatedFailure = errors.New("simulated backend failure")

// SimOption — параметр SimulatedBackend.
type SimOption func(*simOptions)

type simOptions struct {
	latency     time.Duration
	failureRate float64
	fault       func(op string, ids []string) error
}

// SimLatency задаёт имитируемую задержку каждого запроса.
func SimLatency(d time.Duration) SimOption {
	return func(o *simOptions) { o.latency = d }
}

// SimFailureRate задаёт долю запросов, завершающихся ошибкой (0–1).
func SimFailureRate(rate float64) SimOption {
	return func(o *simOptions) { o.failureRate = rate }
}

// SimFault задаёт детерминированную ошибку для операции op
// (list, create, update, delete, update_batch, delete_batch).
func SimFault(fault func(op string, ids []string) error) SimOption {
	return func(o *simOptions) { o.fault = fault }
}

// SimulatedBackend — бэкенд над образцом данных в памяти с имитацией
// сетевой задержки. Групповые операции выполняются одним запросом
// (реализует BatchBackend). Временные идентификаторы при создании
// заменяются постоянными.
type SimulatedBackend[T Record[T]] struct {
	prefix string
	opts   simOptions

	mu    sync.Mutex
	items []T
}

// NewSimulatedBackend создаёт бэкенд с начальными данными seed.
func NewSimulatedBackend[T Record[T]](prefix string, seed []T, opts ...SimOption) *SimulatedBackend[T] {
	var o simOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &SimulatedBackend[T]{
		prefix: prefix,
		opts:   o,
		items:  slices.Clone(seed),
	}
}

func (b *SimulatedBackend[T]) roundTrip(ctx context.Context, op string, ids ...string) error {
	if b.opts.latency > 0 {
		timer := time.NewTimer(b.opts.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if b.opts.fault != nil {
		if err := b.opts.fault(op, ids); err != nil {
			return err
		}
	}
	if b.opts.failureRate > 0 && rand.Float64() < b.opts.failureRate {
		return ErrSimulatedFailure
	}
	return nil
}

func (b *SimulatedBackend[T]) List(ctx context.Context) ([]T, error) {
	if err := b.roundTrip(ctx, "list"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items), nil
}

func (b *SimulatedBackend[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := b.roundTrip(ctx, "create", item.GetID()); err != nil {
		return zero, err
	}
	if IsProvisional(item.GetID()) || item.GetID() == "" {
		item = item.WithID(b.prefix + "_" + uuid.NewString())
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, item)
	return item, nil
}

func (b *SimulatedBackend[T]) Update(ctx context.Context, item T) (T, error) {
	var zero T
	if err := b.roundTrip(ctx, "update", item.GetID()); err != nil {
		return zero, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(item.GetID())
	if idx < 0 {
		return zero, ErrNotFound
	}
	b.items[idx] = item
	return item, nil
}

func (b *SimulatedBackend[T]) Delete(ctx context.Context, id string) (string, error) {
	if err := b.roundTrip(ctx, "delete", id); err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.indexOf(id)
	if idx < 0 {
		return "", ErrNotFound
	}
	b.items = slices.Delete(b.items, idx, idx+1)
	return "", nil
}

func (b *SimulatedBackend[T]) UpdateBatch(ctx context.Context, items []T) ([]T, error) {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.GetID()
	}
	if err := b.roundTrip(ctx, "update_batch", ids...); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range items {
		if b.indexOf(item.GetID()) < 0 {
			return nil, ErrNotFound
		}
	}
	for _, item := range items {
		b.items[b.indexOf(item.GetID())] = item
	}
	return slices.Clone(items), nil
}

func (b *SimulatedBackend[T]) DeleteBatch(ctx context.Context, ids []string) error {
	if err := b.roundTrip(ctx, "delete_batch", ids...); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = slices.DeleteFunc(b.items, func(item T) bool {
		return slices.Contains(ids, item.GetID())
	})
	return nil
}

// indexOf вызывается под мьютексом.
func (b *SimulatedBackend[T]) indexOf(id string) int {
	return slices.IndexFunc(b.items, func(item T) bool { return item.GetID() == id })
}
