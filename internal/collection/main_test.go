package collection

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// Фоновая очистка expirable LRU живёт до конца процесса.
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("github.com/hashicorp/golang-lru/v2/expirable.NewLRU[...].func1"),
	)
}
