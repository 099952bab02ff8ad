package collection

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAction_ConfirmFlow(t *testing.T) {
	a := NewAction()
	if a.State() != StateIdle {
		t.Fatalf("начальное состояние: %s", a.State())
	}
	if err := a.Begin(); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	var during ActionState
	err := a.Confirm(context.Background(), func(context.Context) error {
		during = a.State()
		return errors.New("backend down")
	})
	if err == nil {
		t.Fatal("ожидалась ошибка run")
	}
	if during != StateInFlight {
		t.Errorf("состояние во время запроса: %s", during)
	}
	if a.State() != StateIdle {
		t.Errorf("после ошибки ожидалось idle, получено %s", a.State())
	}
}

func TestAction_InvalidTransitions(t *testing.T) {
	a := NewAction()

	var te *ActionTransitionError
	if err := a.Cancel(); !errors.As(err, &te) || te.Code != "INVALID_TRANSITION" {
		t.Errorf("Cancel из idle: ожидалась INVALID_TRANSITION, получено %v", err)
	}
	ran := false
	if err := a.Confirm(context.Background(), func(context.Context) error { ran = true; return nil }); err == nil {
		t.Error("Confirm из idle: ожидалась ошибка")
	}
	if ran {
		t.Error("запрос не должен выполняться без подтверждения")
	}

	_ = a.Begin()
	if err := a.Begin(); err == nil {
		t.Error("повторный Begin: ожидалась ошибка")
	}
	if err := a.Cancel(); err != nil {
		t.Errorf("Cancel: %v", err)
	}
	if a.State() != StateIdle {
		t.Errorf("после отмены ожидалось idle, получено %s", a.State())
	}
}

func TestActionTracker(t *testing.T) {
	tr := NewActionTracker(8, time.Minute)

	p, err := tr.Begin("stores", "delete", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if p.State() != StateConfirming {
		t.Errorf("ожидалось confirming, получено %s", p.State())
	}
	if _, ok := tr.Get("orders", p.Token); ok {
		t.Error("токен другого домена не должен находиться")
	}

	var got []string
	err = tr.Confirm(context.Background(), "stores", p.Token, func(_ context.Context, p *PendingAction) error {
		got = p.IDs
		return nil
	})
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(got) != 2 || got[0] != "a" {
		t.Errorf("IDs: %v", got)
	}

	// Токен одноразовый.
	err = tr.Confirm(context.Background(), "stores", p.Token, func(context.Context, *PendingAction) error { return nil })
	if !errors.Is(err, ErrUnknownToken) {
		t.Errorf("повторный Confirm: ожидалась ErrUnknownToken, получено %v", err)
	}
}

func TestActionTracker_Cancel(t *testing.T) {
	tr := NewActionTracker(8, time.Minute)
	p, _ := tr.Begin("plans", "deactivate", []string{"p1"})

	if err := tr.Cancel("plans", p.Token); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, ok := tr.Get("plans", p.Token); ok {
		t.Error("после отмены токен должен быть удалён")
	}
	if err := tr.Cancel("plans", p.Token); !errors.Is(err, ErrUnknownToken) {
		t.Errorf("ожидалась ErrUnknownToken, получено %v", err)
	}
}
