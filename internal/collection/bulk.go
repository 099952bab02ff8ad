package collection

import (
	"context"
	"slices"
)

// BulkPatch применяет mutate к каждой записи из ids.
//
// Если бэкенд поддерживает групповые операции (BatchBackend), выполняется
// один запрос «всё или ничего»: при ошибке откатываются все записи.
// Иначе записи обрабатываются последовательно в порядке ids, итог каждой
// учитывается независимо.
func (s *Store[T]) BulkPatch(ctx context.Context, action string, ids []string, mutate func(*T)) BulkResult {
	if batch, ok := s.backend.(BatchBackend[T]); ok {
		return s.batchPatch(ctx, batch, action, ids, mutate)
	}

	var res BulkResult
	for _, id := range ids {
		if _, err := s.Patch(ctx, action, id, mutate); err != nil {
			res.fail(id, err)
			continue
		}
		res.Succeeded++
	}
	return res
}

// BulkDelete удаляет записи из ids (стратегия — как у BulkPatch).
func (s *Store[T]) BulkDelete(ctx context.Context, ids []string) BulkResult {
	if batch, ok := s.backend.(BatchBackend[T]); ok {
		return s.batchDelete(ctx, batch, ids)
	}

	var res BulkResult
	for _, id := range ids {
		if _, err := s.Delete(ctx, id); err != nil {
			res.fail(id, err)
			continue
		}
		res.Succeeded++
	}
	return res
}

// positioned — запись и её позиция до оптимистичного изменения.
type positioned[T any] struct {
	idx  int
	item T
}

// reserve проверяет, что все записи есть в коллекции и свободны,
// и помечает их «в полёте». Вызывается под мьютексом.
func (s *Store[T]) reserve(ids []string) ([]positioned[T], error) {
	prev := make([]positioned[T], 0, len(ids))
	for _, id := range ids {
		idx := s.indexOf(id)
		if idx < 0 {
			return nil, ErrNotFound
		}
		if _, busy := s.inFlight[id]; busy {
			return nil, ErrInFlight
		}
		prev = append(prev, positioned[T]{idx: idx, item: s.items[idx]})
	}
	for _, id := range ids {
		s.inFlight[id] = struct{}{}
	}
	return prev, nil
}

func (s *Store[T]) release(ids []string) {
	for _, id := range ids {
		delete(s.inFlight, id)
	}
}

func (s *Store[T]) failAll(ids []string, action string, err error) BulkResult {
	var res BulkResult
	for _, id := range ids {
		res.fail(id, s.fail(action, id, err))
	}
	return res
}

func (s *Store[T]) batchPatch(ctx context.Context, batch BatchBackend[T], action string, ids []string, mutate func(*T)) BulkResult {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return BulkResult{}
	}
	now := s.opts.now().UTC()

	s.mu.Lock()
	prev, err := s.reserve(ids)
	if err != nil {
		s.mu.Unlock()
		return s.failAll(ids, action, err)
	}
	next := make([]T, len(prev))
	for i, p := range prev {
		item := p.item
		mutate(&item)
		next[i] = item.WithID(p.item.GetID()).Normalized().Touched(now)
		s.items[p.idx] = next[i]
	}
	s.mu.Unlock()

	saved, err := batch.UpdateBatch(ctx, next)

	s.mu.Lock()
	s.release(ids)
	if err != nil {
		for _, p := range prev {
			s.restore(p.idx, p.item)
		}
		s.mu.Unlock()
		return s.failAll(ids, action, err)
	}
	for _, item := range saved {
		if cur := s.indexOf(item.GetID()); cur >= 0 {
			s.items[cur] = item.Normalized()
		}
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.succeed(action, id, "")
	}
	s.reconcile(ctx)
	return BulkResult{Succeeded: len(ids)}
}

func (s *Store[T]) batchDelete(ctx context.Context, batch BatchBackend[T], ids []string) BulkResult {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return BulkResult{}
	}

	s.mu.Lock()
	prev, err := s.reserve(ids)
	if err != nil {
		s.mu.Unlock()
		return s.failAll(ids, ActionDelete, err)
	}
	s.items = slices.DeleteFunc(s.items, func(item T) bool {
		return slices.Contains(ids, item.GetID())
	})
	s.mu.Unlock()

	err = batch.DeleteBatch(ctx, ids)

	s.mu.Lock()
	s.release(ids)
	if err != nil {
		// Восстанавливаем по возрастанию исходных позиций.
		slices.SortFunc(prev, func(a, b positioned[T]) int { return a.idx - b.idx })
		for _, p := range prev {
			s.restore(p.idx, p.item)
		}
		s.mu.Unlock()
		return s.failAll(ids, ActionDelete, err)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.succeed(ActionDelete, id, "")
	}
	s.reconcile(ctx)
	return BulkResult{Succeeded: len(ids)}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
