// Пакет validation — синхронная проверка форм создания и редактирования.
// Результат — карта «поле → сообщение»; мутация не вызывается,
// пока карта не пуста. Сообщения берутся из каталога i18n.
package validation

import (
	"context"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/bigkaa/backoffice/internal/i18n"
)

// Errors — ошибки валидации по полям формы.
type Errors map[string]string

// Error перечисляет ошибки в порядке полей.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// OK — ошибок нет.
func (e Errors) OK() bool { return len(e) == 0 }

// Err возвращает e как error или nil, если ошибок нет.
func (e Errors) Err() error {
	if e.OK() {
		return nil
	}
	return e
}

// First возвращает сообщение первой по алфавиту ошибки.
func (e Errors) First() string {
	first := ""
	for f := range e {
		if first == "" || f < first {
			first = f
		}
	}
	return e[first]
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{6,19}$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)
)

// form — накопитель ошибок одной формы. Для каждого поля
// сохраняется первая ошибка.
type form struct {
	ctx  context.Context
	errs Errors
}

func newForm(ctx context.Context) *form {
	return &form{ctx: ctx, errs: Errors{}}
}

func (f *form) add(field, key string, args ...any) {
	if _, exists := f.errs[field]; exists {
		return
	}
	f.errs[field] = i18n.Tf(f.ctx, key, args...)
}

func (f *form) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		f.add(field, "validation.required")
		return false
	}
	return true
}

func (f *form) maxLen(field, value string, n int) {
	if len([]rune(strings.TrimSpace(value))) > n {
		f.add(field, "validation.too_long", n)
	}
}

func (f *form) email(field, value string) bool {
	if !f.required(field, value) {
		return false
	}
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		f.add(field, "validation.email_invalid")
		return false
	}
	return true
}

func (f *form) optionalPhone(field, value string) {
	if v := strings.TrimSpace(value); v != "" && !phonePattern.MatchString(v) {
		f.add(field, "validation.phone_invalid")
	}
}

func (f *form) url(field, value string, required bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		if required {
			f.add(field, "validation.required")
		}
		return
	}
	if !isHTTPURL(v) {
		f.add(field, "validation.url_invalid")
	}
}

func (f *form) oneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	f.add(field, "validation.invalid_choice")
}

func (f *form) rangeFloat(field string, v, lo, hi float64) {
	if !finite(v) {
		f.add(field, "validation.number_invalid")
		return
	}
	if v < lo || v > hi {
		f.add(field, "validation.out_of_range", lo, hi)
	}
}

func (f *form) nonNegative(field string, v int64) {
	if v < 0 {
		f.add(field, "validation.non_negative")
	}
}

// unique проверяет, что value не встречается (без учёта регистра)
// у других записей коллекции. Запись excludeID не учитывается.
func unique[T any](items []T, excludeID string, id, field func(T) string, value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	for _, item := range items {
		if excludeID != "" && id(item) == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(field(item))) == v {
			return false
		}
	}
	return true
}

// isHTTPURL принимает абсолютные http(s) адреса и голые домены (example.com).
func isHTTPURL(v string) bool {
	if !strings.Contains(v, "://") {
		v = "https://" + v
	}
	u, err := url.ParseRequestURI(v)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return strings.Contains(u.Host, ".") && !strings.ContainsAny(u.Host, " ")
}

// finite — число не NaN и не бесконечность.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
