// Пакет collection — слой мутаций исходной коллекции админ-страницы.
//
// Store владеет коллекцией домена: загружает её из бэкенда, применяет
// оптимистичные изменения (создание, обновление, удаление, групповые
// действия), откатывает запись при ошибке бэкенда и при необходимости
// перечитывает коллекцию после успешной мутации.
//
// Записи, по которым идёт запрос, помечаются как «в полёте»: повторная
// мутация той же записи до завершения первой отклоняется (ErrInFlight).
package collection

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Record — ограничение на тип записи коллекции.
// Методы работают по значению и возвращают изменённую копию.
type Record[T any] interface {
	// GetID возвращает идентификатор записи.
	GetID() string
	// WithID возвращает копию с новым идентификатором.
	WithID(id string) T
	// Touched проставляет UpdatedAt (и CreatedAt, если он пустой).
	Touched(at time.Time) T
	// Normalized приводит запись к контракту полей (nil-срезы, пробелы, UTC).
	Normalized() T
}

// Backend — удалённая сторона коллекции (REST API или симуляция).
type Backend[T any] interface {
	// List возвращает коллекцию целиком.
	List(ctx context.Context) ([]T, error)
	// Create сохраняет новую запись и возвращает подтверждённую версию.
	// Временный идентификатор может быть заменён постоянным.
	Create(ctx context.Context, item T) (T, error)
	// Update сохраняет запись целиком и возвращает подтверждённую версию.
	Update(ctx context.Context, item T) (T, error)
	// Delete удаляет запись. Непустое сообщение заменяет стандартное
	// сообщение об успехе.
	Delete(ctx context.Context, id string) (string, error)
}

// BatchBackend — бэкенд с групповыми операциями «всё или ничего».
// Если бэкенд его реализует, групповые действия выполняются одним запросом.
type BatchBackend[T any] interface {
	Backend[T]
	UpdateBatch(ctx context.Context, items []T) ([]T, error)
	DeleteBatch(ctx context.Context, ids []string) error
}

// Действия слоя мутаций (для уведомлений и метрик).
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var (
	// ErrInFlight — по записи уже выполняется мутация.
	ErrInFlight = errors.New("mutation already in progress")
	// ErrNotFound — записи нет в коллекции.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID — запись с таким идентификатором уже есть.
	ErrDuplicateID = errors.New("duplicate record id")
)

// Messenger — ошибка, несущая сообщение для пользователя
// (например, поле error из тела ответа API).
type Messenger interface {
	UserMessage() string
}

// genericFailure — сообщение, если ошибка бэкенда не несёт своего.
const genericFailure = "Something went wrong. Please try again."

// MutationError — ошибка мутации, доставляемая пользователю.
type MutationError struct {
	Domain  string
	Action  string
	ID      string
	Message string // человекочитаемое сообщение
	Err     error  // исходная ошибка бэкенда
}

func (e *MutationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %s", e.Domain, e.Action, e.ID, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Domain, e.Action, e.Message)
}

func (e *MutationError) Unwrap() error { return e.Err }

// UserMessage возвращает сообщение для пользователя.
func (e *MutationError) UserMessage() string { return e.Message }

// newMutationError оборачивает ошибку бэкенда.
func newMutationError(domain, action, id string, err error) *MutationError {
	return &MutationError{
		Domain:  domain,
		Action:  action,
		ID:      id,
		Message: MessageOf(err),
		Err:     err,
	}
}

// MessageOf извлекает сообщение для пользователя из цепочки ошибок.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var m Messenger
	if errors.As(err, &m) {
		if msg := m.UserMessage(); msg != "" {
			return msg
		}
	}
	if errors.Is(err, ErrInFlight) || errors.Is(err, ErrNotFound) {
		return err.Error()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out"
	}
	return genericFailure
}

// BulkResult — итог группового действия.
type BulkResult struct {
	Succeeded int
	Failed    int
	// Failures — ошибки по идентификаторам записей
	Failures map[string]error
}

// Message — итоговое сообщение «N succeeded, M failed».
func (r BulkResult) Message() string {
	return fmt.Sprintf("%d succeeded, %d failed", r.Succeeded, r.Failed)
}

// OK — все записи обработаны успешно.
func (r BulkResult) OK() bool { return r.Failed == 0 }

func (r *BulkResult) fail(id string, err error) {
	if r.Failures == nil {
		r.Failures = make(map[string]error)
	}
	r.Failed++
	r.Failures[id] = err
}

// Notification — уведомление об итоге мутации.
type Notification struct {
	Domain  string
	Action  string
	ID      string
	Success bool
	Message string
	Err     error
}

// Notifier получает уведомления об итогах мутаций.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc — адаптер функции к Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }
