package collection

import (
	"fmt"
	"regexp"
	"sync"
	"time"
)

// provisionalPattern — формат временного идентификатора {prefix}_{ms}[_{n}].
var provisionalPattern = regexp.MustCompile(`^[a-z]+_\d{13}(_\d+)?$`)

// IsProvisional проверяет, что идентификатор выдан клиентом до
// подтверждения бэкендом.
func IsProvisional(id string) bool {
	return provisionalPattern.MatchString(id)
}

// IDGenerator выдаёт временные идентификаторы {prefix}_{unixMillis}.
// Повторная выдача в ту же миллисекунду получает суффикс _{n}.
type IDGenerator struct {
	prefix string
	now    func() time.Time

	mu     sync.Mutex
	lastMs int64
	seq    int
}

// NewIDGenerator создаёт генератор с префиксом (строчные латинские буквы).
func NewIDGenerator(prefix string, now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{prefix: prefix, now: now}
}

// Next возвращает новый временный идентификатор.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms == g.lastMs {
		g.seq++
		return fmt.Sprintf("%s_%d_%d", g.prefix, ms, g.seq)
	}
	g.lastMs = ms
	g.seq = 0
	return fmt.Sprintf("%s_%d", g.prefix, ms)
}
