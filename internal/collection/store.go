package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Option — параметр Store.
type Option func(*options)

type options struct {
	refetch  bool
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	idPrefix string
}

// WithRefetch включает полное перечитывание коллекции после каждой
// успешной мутации (серверные поля заменяют оптимистичные).
func WithRefetch() Option {
	return func(o *options) { o.refetch = true }
}

// WithNotifier задаёт получателя уведомлений об итогах мутаций.
func WithNotifier(n Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithLogger задаёт логгер.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock задаёт источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDPrefix задаёт префикс временных идентификаторов новых записей.
func WithIDPrefix(prefix string) Option {
	return func(o *options) { o.idPrefix = prefix }
}

// Store — исходная коллекция домена и слой мутаций над ней.
// Безопасен для конкурентного использования: каждое локальное изменение
// и каждый откат выполняются атомарно под мьютексом.
type Store[T Record[T]] struct {
	domain  string
	backend Backend[T]
	opts    options
	ids     *IDGenerator
	logger  *slog.Logger

	mu       sync.Mutex
	items    []T
	loaded   bool
	inFlight map[string]struct{}

	group singleflight.Group
}

// NewStore создаёт хранилище коллекции домена.
func NewStore[T Record[T]](domain string, backend Backend[T], opts ...Option) *Store[T] {
	o := options{
		logger:   slog.Default(),
		now:      time.Now,
		idPrefix: "rec",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		domain:   domain,
		backend:  backend,
		opts:     o,
		ids:      NewIDGenerator(o.idPrefix, o.now),
		logger:   o.logger.With(slog.String("component", "collection"), slog.String("domain", domain)),
		items:    []T{},
		inFlight: make(map[string]struct{}),
	}
}

// Domain возвращает имя домена коллекции.
func (s *Store[T]) Domain() string { return s.domain }

// Refresh перечитывает коллекцию из бэкенда целиком.
// Одновременные вызовы объединяются в один запрос.
func (s *Store[T]) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		fetched, err := s.backend.List(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]T, 0, len(fetched))
		for _, item := range fetched {
			items = append(items, item.Normalized())
		}

		s.mu.Lock()
		s.items = items
		s.loaded = true
		s.mu.Unlock()

		s.logger.Debug("Коллекция загружена", slog.Int("count", len(items)))
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("загрузка коллекции %s: %w", s.domain, err)
	}
	return nil
}

// Load загружает коллекцию, если она ещё не загружена.
func (s *Store[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if loaded {
		return nil
	}
	return s.Refresh(ctx)
}

// Items возвращает копию текущей коллекции.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get возвращает запись по идентификатору.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.items[idx], true
	}
	var zero T
	return zero, false
}

// InFlight проверяет, выполняется ли мутация по записи.
func (s *Store[T]) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[id]
	return ok
}

// Create добавляет запись. Пустой идентификатор заменяется временным,
// после подтверждения бэкендом запись заменяется его версией.
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	item = item.Normalized()
	if item.GetID() == "" {
		item = item.WithID(s.ids.Next())
	}
	item = item.Touched(s.opts.now().UTC())
	id := item.GetID()

	s.mu.Lock()
	if s.indexOf(id) >= 0 {
		s.mu.Unlock()
		return zero, s.fail(ActionCreate, id, ErrDuplicateID)
	}
	s.inFlight[id] = struct{}{}
	s.items = append(s.items, item)
	s.mu.Unlock()

	saved, err := s.backend.Create(ctx, item)

	s.mu.Lock()
	delete(s.inFlight, id)
	idx := s.indexOf(id)
	if err != nil {
		if idx >= 0 {
			s.items = slices.Delete(s.items, idx, idx+1)
		}
		s.mu.Unlock()
		return zero, s.fail(ActionCreate, id, err)
	}
	saved = saved.Normalized()
	if idx >= 0 {
		s.items[idx] = saved
	} else {
		s.items = append(s.items, saved)
	}
	s.mu.Unlock()

	s.succeed(ActionCreate, saved.GetID(), "")
	s.reconcile(ctx)
	return saved, nil
}

// Update заменяет запись целиком (идентификатор берётся из item).
func (s *Store[T]) Update(ctx context.Context, item T) (T, error) {
	return s.replace(ctx, ActionUpdate, item.GetID(), func(prev T) T {
		return item
	})
}

// Patch изменяет отдельные поля записи функцией mutate.
// action — имя действия для уведомлений (verify, suspend, refund...).
func (s *Store[T]) Patch(ctx context.Context, action, id string, mutate func(*T)) (T, error) {
	return s.replace(ctx, action, id, func(prev T) T {
		next := prev
		mutate(&next)
		return next
	})
}

// replace — общая часть Update и Patch: оптимистичная замена, запрос,
// откат к прежнему значению при ошибке.
func (s *Store[T]) replace(ctx context.Context, action, id string, build func(prev T) T) (T, error) {
	var zero T

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return zero, s.fail(action, id, ErrNotFound)
	}
	if _, busy := s.inFlight[id]; busy {
		s.mu.Unlock()
		return zero, s.fail(action, id, ErrInFlight)
	}
	prev := s.items[idx]
	next := build(prev).WithID(id).Normalized().Touched(s.opts.now().UTC())
	s.inFlight[id] = struct{}{}
	s.items[idx] = next
	s.mu.Unlock()

	saved, err := s.backend.Update(ctx, next)

	s.mu.Lock()
	delete(s.inFlight, id)
	if err != nil {
		s.restore(idx, prev)
		s.mu.Unlock()
		return zero, s.fail(action, id, err)
	}
	saved = saved.Normalized()
	if cur := s.indexOf(id); cur >= 0 {
		s.items[cur] = saved
	}
	s.mu.Unlock()

	s.succeed(action, id, "")
	s.reconcile(ctx)
	return saved, nil
}

// Delete удаляет запись. Возвращает сообщение бэкенда (может быть пустым).
func (s *Store[T]) Delete(ctx context.Context, id string) (string, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return "", s.fail(ActionDelete, id, ErrNotFound)
	}
	if _, busy := s.inFlight[id]; busy {
		s.mu.Unlock()
		return "", s.fail(ActionDelete, id, ErrInFlight)
	}
	prev := s.items[idx]
	s.inFlight[id] = struct{}{}
	s.items = slices.Delete(s.items, idx, idx+1)
	s.mu.Unlock()

	msg, err := s.backend.Delete(ctx, id)

	s.mu.Lock()
	delete(s.inFlight, id)
	if err != nil {
		s.restore(idx, prev)
		s.mu.Unlock()
		return "", s.fail(ActionDelete, id, err)
	}
	s.mu.Unlock()

	s.succeed(ActionDelete, id, msg)
	s.reconcile(ctx)
	return msg, nil
}

// indexOf ищет позицию записи. Вызывается под мьютексом.
func (s *Store[T]) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item T) bool { return item.GetID() == id })
}

// restore возвращает запись на прежнюю позицию. Вызывается под мьютексом.
// Если запись ещё в коллекции, она заменяется; иначе вставляется
// на позицию idx (или в конец, если коллекция стала короче).
func (s *Store[T]) restore(idx int, prev T) {
	if cur := s.indexOf(prev.GetID()); cur >= 0 {
		s.items[cur] = prev
		return
	}
	idx = min(idx, len(s.items))
	s.items = slices.Insert(s.items, idx, prev)
}

// fail оформляет ошибку мутации, уведомляет и логирует.
func (s *Store[T]) fail(action, id string, err error) error {
	merr := newMutationError(s.domain, action, id, err)
	mutationsTotal.WithLabelValues(s.domain, action, outcomeFailure).Inc()

	level := slog.LevelWarn
	if errors.Is(err, ErrInFlight) {
		level = slog.LevelInfo
	}
	s.logger.Log(context.Background(), level, "Мутация не выполнена",
		slog.String("action", action),
		slog.String("id", id),
		slog.String("error", err.Error()),
	)
	if s.opts.notifier != nil {
		s.opts.notifier.Notify(Notification{
			Domain: s.domain, Action: action, ID: id,
			Message: merr.Message, Err: merr,
		})
	}
	return merr
}

// succeed учитывает и логирует успешную мутацию, уведомляет получателя.
func (s *Store[T]) succeed(action, id, message string) {
	mutationsTotal.WithLabelValues(s.domain, action, outcomeSuccess).Inc()
	s.logger.Info("Мутация выполнена",
		slog.String("action", action),
		slog.String("id", id),
	)
	if s.opts.notifier != nil {
		s.opts.notifier.Notify(Notification{
			Domain: s.domain, Action: action, ID: id,
			Success: true, Message: message,
		})
	}
}

// reconcile перечитывает коллекцию после успешной мутации, если включено
// WithRefetch. Ошибка перечитывания не отменяет мутацию.
func (s *Store[T]) reconcile(ctx context.Context) {
	if !s.opts.refetch {
		return
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Не удалось перечитать коллекцию после мутации",
			slog.String("error", err.Error()),
		)
	}
}
