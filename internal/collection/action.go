package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ActionState — состояние действия, требующего подтверждения.
type ActionState string

const (
	// StateIdle — действие не начато (или завершено)
	StateIdle ActionState = "idle"
	// StateConfirming — открыт диалог подтверждения
	StateConfirming ActionState = "confirming"
	// StateInFlight — подтверждено, идёт запрос
	StateInFlight ActionState = "in_flight"
)

// validActionTransitions — матрица допустимых переходов.
var validActionTransitions = map[ActionState]map[ActionState]bool{
	StateIdle:       {StateConfirming: true},
	StateConfirming: {StateIdle: true, StateInFlight: true},
	StateInFlight:   {StateIdle: true},
}

// ActionTransitionError — недопустимый переход состояния действия.
type ActionTransitionError struct {
	Code    string // INVALID_TRANSITION
	From    ActionState
	To      ActionState
	Message string
}

func (e *ActionTransitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Action — конечный автомат действия с подтверждением
// (удаление, блокировка, верификация, возврат…):
//
//	idle → confirming → {cancel → idle | confirm → inFlight → idle}
//
// Повторов нет: после ошибки действие возвращается в idle,
// повтор инициирует пользователь.
type Action struct {
	mu    sync.Mutex
	state ActionState
}

// NewAction создаёт действие в состоянии idle.
func NewAction() *Action {
	return &Action{state: StateIdle}
}

// State возвращает текущее состояние.
func (a *Action) State() ActionState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Begin открывает подтверждение (idle → confirming).
func (a *Action) Begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transition(StateConfirming)
}

// Cancel закрывает подтверждение без запроса (confirming → idle).
func (a *Action) Cancel() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateConfirming {
		return a.errorTo(StateIdle)
	}
	return a.transition(StateIdle)
}

// Confirm выполняет run (confirming → inFlight → idle).
// Состояние возвращается в idle при любом исходе run.
func (a *Action) Confirm(ctx context.Context, run func(ctx context.Context) error) error {
	a.mu.Lock()
	if a.state != StateConfirming {
		err := a.errorTo(StateInFlight)
		a.mu.Unlock()
		return err
	}
	a.state = StateInFlight
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.state = StateIdle
		a.mu.Unlock()
	}()
	return run(ctx)
}

// transition выполняет переход. Вызывается под мьютексом.
func (a *Action) transition(target ActionState) error {
	if !validActionTransitions[a.state][target] {
		return a.errorTo(target)
	}
	a.state = target
	return nil
}

func (a *Action) errorTo(target ActionState) error {
	return &ActionTransitionError{
		Code:    "INVALID_TRANSITION",
		From:    a.state,
		To:      target,
		Message: fmt.Sprintf("переход %s → %s недопустим", a.state, target),
	}
}

// PendingAction — действие, ожидающее подтверждения на странице.
type PendingAction struct {
	Token     string
	Domain    string
	Name      string   // имя действия (delete, suspend, refund…)
	IDs       []string // целевые записи
	CreatedAt time.Time

	action *Action
}

// State возвращает состояние действия.
func (p *PendingAction) State() ActionState { return p.action.State() }

// ErrUnknownToken — токен подтверждения не найден или истёк.
var ErrUnknownToken = errors.New("confirmation expired or unknown")

// ActionTracker хранит ожидающие подтверждения действия по токену.
// Неподтверждённые действия вытесняются по размеру и TTL.
type ActionTracker struct {
	pending *expirable.LRU[string, *PendingAction]
	now     func() time.Time
}

// NewActionTracker создаёт трекер на size действий с временем жизни ttl.
func NewActionTracker(size int, ttl time.Duration) *ActionTracker {
	return &ActionTracker{
		pending: expirable.NewLRU[string, *PendingAction](size, nil, ttl),
		now:     time.Now,
	}
}

// Begin открывает подтверждение действия name над ids и возвращает его.
func (t *ActionTracker) Begin(domain, name string, ids []string) (*PendingAction, error) {
	a := NewAction()
	if err := a.Begin(); err != nil {
		return nil, err
	}
	p := &PendingAction{
		Token:     uuid.NewString(),
		Domain:    domain,
		Name:      name,
		IDs:       append([]string(nil), ids...),
		CreatedAt: t.now().UTC(),
		action:    a,
	}
	t.pending.Add(p.Token, p)
	return p, nil
}

// Get возвращает ожидающее действие домена по токену.
func (t *ActionTracker) Get(domain, token string) (*PendingAction, bool) {
	p, ok := t.pending.Get(token)
	if !ok || p.Domain != domain {
		return nil, false
	}
	return p, true
}

// Cancel отменяет ожидающее действие. Запрос не выполняется.
func (t *ActionTracker) Cancel(domain, token string) error {
	p, ok := t.Get(domain, token)
	if !ok {
		return ErrUnknownToken
	}
	if err := p.action.Cancel(); err != nil {
		return err
	}
	t.pending.Remove(token)
	return nil
}

// Confirm подтверждает действие и выполняет run. Токен одноразовый.
func (t *ActionTracker) Confirm(ctx context.Context, domain, token string, run func(ctx context.Context, p *PendingAction) error) error {
	p, ok := t.Get(domain, token)
	if !ok {
		return ErrUnknownToken
	}
	return p.action.Confirm(ctx, func(ctx context.Context) error {
		t.pending.Remove(token)
		return run(ctx, p)
	})
}
