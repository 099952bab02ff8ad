package collection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID        string
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (i item) GetID() string { return i.ID }

func (i item) WithID(id string) item {
	i.ID = id
	return i
}

func (i item) Touched(at time.Time) item {
	if i.CreatedAt.IsZero() {
		i.CreatedAt = at
	}
	i.UpdatedAt = at
	return i
}

func (i item) Normalized() item {
	if i.Status == "" {
		i.Status = "active"
	}
	return i
}

var clock = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

func seed() []item {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []item{
		{ID: "a", Name: "Alpha", Status: "active", CreatedAt: t0, UpdatedAt: t0},
		{ID: "b", Name: "Beta", Status: "active", CreatedAt: t0, UpdatedAt: t0},
		{ID: "c", Name: "Gamma", Status: "suspended", CreatedAt: t0, UpdatedAt: t0},
	}
}

// sequential скрывает групповые операции бэкенда.
type sequential struct {
	Backend[item]
}

// errorBody — ошибка с сообщением из тела ответа.
type errorBody struct{ msg string }

func (e errorBody) Error() string       { return "api: " + e.msg }
func (e errorBody) UserMessage() string { return e.msg }

func failOn(op string, id string, err error) SimOption {
	return SimFault(func(gotOp string, ids []string) error {
		if gotOp != op {
			return nil
		}
		for _, got := range ids {
			if got == id || id == "*" {
				return err
			}
		}
		return nil
	})
}

func newLoadedStore(t *testing.T, backend Backend[item], opts ...Option) *Store[item] {
	t.Helper()
	opts = append([]Option{WithClock(clock), WithIDPrefix("itm")}, opts...)
	s := NewStore[item]("items", backend, opts...)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestStore_Load(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed()))
	assert.Len(t, s.Items(), 3)

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, "Beta", got.Name)
}

func TestStore_CreateReplacesProvisionalID(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed()))

	saved, err := s.Create(context.Background(), item{Name: "Delta"})
	require.NoError(t, err)
	assert.False(t, IsProvisional(saved.ID), "идентификатор должен быть постоянным: %s", saved.ID)
	assert.Equal(t, "active", saved.Status, "запись нормализована")
	assert.Equal(t, clock(), saved.CreatedAt)

	items := s.Items()
	require.Len(t, items, 4)
	assert.Equal(t, saved.ID, items[3].ID)
}

func TestStore_CreateFailureRemovesOptimistic(t *testing.T) {
	backend := NewSimulatedBackend("itm", seed(), SimFault(func(op string, _ []string) error {
		if op == "create" {
			return errorBody{"Slug already exists"}
		}
		return nil
	}))
	s := newLoadedStore(t, backend)
	before := s.Items()

	_, err := s.Create(context.Background(), item{Name: "Delta"})
	require.Error(t, err)

	var merr *MutationError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Slug already exists", merr.Message)
	assert.Empty(t, cmp.Diff(before, s.Items()))
}

func TestStore_UpdateFailureIsAtomic(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed(), failOn("update", "b", ErrSimulatedFailure)))
	before := s.Items()

	_, err := s.Update(context.Background(), item{ID: "b", Name: "Changed"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSimulatedFailure)
	assert.Empty(t, cmp.Diff(before, s.Items()), "коллекция должна совпадать с исходной")
	assert.False(t, s.InFlight("b"))
}

func TestStore_PatchStampsUpdatedAt(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed()))

	got, err := s.Patch(context.Background(), "suspend", "a", func(i *item) { i.Status = "suspended" })
	require.NoError(t, err)
	assert.Equal(t, "suspended", got.Status)
	assert.Equal(t, clock(), got.UpdatedAt)
	assert.Equal(t, seed()[0].CreatedAt, got.CreatedAt)
}

func TestStore_PatchUnknownRecord(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed()))
	_, err := s.Patch(context.Background(), "suspend", "zzz", func(*item) {})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteFailureRestoresPosition(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed(), failOn("delete", "b", errors.New("boom"))))
	before := s.Items()

	_, err := s.Delete(context.Background(), "b")
	require.Error(t, err)
	assert.Equal(t, genericFailure, MessageOf(err))
	assert.Empty(t, cmp.Diff(before, s.Items()))
}

func TestStore_DeleteReturnsBackendMessage(t *testing.T) {
	backend := &messageBackend{SimulatedBackend: NewSimulatedBackend("itm", seed())}
	s := newLoadedStore(t, backend)

	msg, err := s.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Plan deactivated instead of deleted", msg)
	assert.Len(t, s.Items(), 2)
}

type messageBackend struct {
	*SimulatedBackend[item]
}

func (b *messageBackend) Delete(ctx context.Context, id string) (string, error) {
	if _, err := b.SimulatedBackend.Delete(ctx, id); err != nil {
		return "", err
	}
	return "Plan deactivated instead of deleted", nil
}

// gateBackend блокирует Update до закрытия gate.
type gateBackend struct {
	*SimulatedBackend[item]
	entered chan struct{}
	gate    chan struct{}
}

func (b *gateBackend) Update(ctx context.Context, i item) (item, error) {
	close(b.entered)
	<-b.gate
	return b.SimulatedBackend.Update(ctx, i)
}

func TestStore_InFlightGuard(t *testing.T) {
	backend := &gateBackend{
		SimulatedBackend: NewSimulatedBackend("itm", seed()),
		entered:          make(chan struct{}),
		gate:             make(chan struct{}),
	}
	s := newLoadedStore(t, sequential{backend})

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = s.Patch(context.Background(), "suspend", "a", func(i *item) { i.Status = "suspended" })
	}()

	<-backend.entered
	assert.True(t, s.InFlight("a"))

	_, err := s.Patch(context.Background(), "activate", "a", func(i *item) { i.Status = "active" })
	assert.ErrorIs(t, err, ErrInFlight)
	_, err = s.Delete(context.Background(), "a")
	assert.ErrorIs(t, err, ErrInFlight)

	// Другие записи не заблокированы.
	_, err = s.Delete(context.Background(), "c")
	assert.NoError(t, err)

	close(backend.gate)
	wg.Wait()
	require.NoError(t, firstErr)

	got, _ := s.Get("a")
	assert.Equal(t, "suspended", got.Status)
	assert.False(t, s.InFlight("a"))
}

// countingBackend считает вызовы List.
type countingBackend struct {
	*SimulatedBackend[item]
	mu    sync.Mutex
	lists int
}

func (b *countingBackend) List(ctx context.Context) ([]item, error) {
	b.mu.Lock()
	b.lists++
	b.mu.Unlock()
	return b.SimulatedBackend.List(ctx)
}

func TestStore_RefetchAfterMutation(t *testing.T) {
	backend := &countingBackend{SimulatedBackend: NewSimulatedBackend("itm", seed())}
	s := newLoadedStore(t, sequential{backend}, WithRefetch())
	require.Equal(t, 1, backend.lists)

	_, err := s.Patch(context.Background(), "suspend", "a", func(i *item) { i.Status = "suspended" })
	require.NoError(t, err)
	assert.Equal(t, 2, backend.lists)

	// Неудачная мутация не перечитывает коллекцию.
	_, err = s.Patch(context.Background(), "suspend", "zzz", func(*item) {})
	require.Error(t, err)
	assert.Equal(t, 2, backend.lists)
}

func TestStore_Notifier(t *testing.T) {
	var got []Notification
	n := NotifierFunc(func(n Notification) { got = append(got, n) })
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed(), failOn("delete", "c", ErrSimulatedFailure)), WithNotifier(n))

	_, err := s.Delete(context.Background(), "a")
	require.NoError(t, err)
	_, err = s.Delete(context.Background(), "c")
	require.Error(t, err)

	require.Len(t, got, 2)
	assert.True(t, got[0].Success)
	assert.Equal(t, "a", got[0].ID)
	assert.False(t, got[1].Success)
	assert.Equal(t, ActionDelete, got[1].Action)
}

func TestStore_BulkAggregateAllOrNothing(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed(), failOn("update_batch", "*", ErrSimulatedFailure)))
	before := s.Items()

	res := s.BulkPatch(context.Background(), "suspend", []string{"a", "b"}, func(i *item) { i.Status = "suspended" })
	assert.Equal(t, 0, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, "0 succeeded, 2 failed", res.Message())
	assert.Empty(t, cmp.Diff(before, s.Items()))
}

func TestStore_BulkAggregateSuccess(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed()))

	res := s.BulkPatch(context.Background(), "suspend", []string{"a", "b", "a"}, func(i *item) { i.Status = "suspended" })
	assert.True(t, res.OK())
	assert.Equal(t, "2 succeeded, 0 failed", res.Message())
	for _, it := range s.Items() {
		assert.Equal(t, "suspended", it.Status, it.ID)
	}

	del := s.BulkDelete(context.Background(), []string{"c", "a"})
	assert.Equal(t, 2, del.Succeeded)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "b", s.Items()[0].ID)
}

func TestStore_BulkDeleteAggregateRollback(t *testing.T) {
	s := newLoadedStore(t, NewSimulatedBackend("itm", seed(), failOn("delete_batch", "*", ErrSimulatedFailure)))
	before := s.Items()

	res := s.BulkDelete(context.Background(), []string{"c", "a"})
	assert.Equal(t, 2, res.Failed)
	assert.Empty(t, cmp.Diff(before, s.Items()), "позиции записей восстановлены")
}

func TestStore_BulkSequentialTally(t *testing.T) {
	backend := NewSimulatedBackend("itm", seed(), failOn("update", "b", errorBody{"Cannot suspend"}))
	s := newLoadedStore(t, sequential{backend})

	res := s.BulkPatch(context.Background(), "suspend", []string{"a", "b", "c"}, func(i *item) { i.Status = "suspended" })
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, "2 succeeded, 1 failed", res.Message())
	require.Contains(t, res.Failures, "b")
	assert.Equal(t, "Cannot suspend", MessageOf(res.Failures["b"]))

	got, _ := s.Get("b")
	assert.Equal(t, "active", got.Status, "неудачная запись не изменена")
	got, _ = s.Get("a")
	assert.Equal(t, "suspended", got.Status)
}

func TestStore_BulkSequentialDelete(t *testing.T) {
	backend := NewSimulatedBackend("itm", seed(), failOn("delete", "a", ErrSimulatedFailure))
	s := newLoadedStore(t, sequential{backend})

	res := s.BulkDelete(context.Background(), []string{"a", "b", "zzz"})
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 2, res.Failed)
	assert.ErrorIs(t, res.Failures["zzz"], ErrNotFound)
	assert.Equal(t, []string{"a", "c"}, []string{s.Items()[0].ID, s.Items()[1].ID})
}

func TestStore_RefreshError(t *testing.T) {
	backend := NewSimulatedBackend("itm", seed(), SimFault(func(op string, _ []string) error {
		if op == "list" {
			return errors.New("connection refused")
		}
		return nil
	}))
	s := NewStore[item]("items", backend)
	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items")
	assert.Empty(t, s.Items())
}

func TestSimulatedBackend_LatencyHonorsContext(t *testing.T) {
	backend := NewSimulatedBackend("itm", seed(), SimLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := backend.List(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "Request timed out", MessageOf(err))
}
