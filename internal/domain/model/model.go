// Пакет model — доменные модели Back Office.
//
// Все записи — плоские значения (value semantics): коллекции хранят копии,
// изменение записи возможно только через слой мутаций (internal/collection).
// Каждая модель реализует методы GetID, WithID, Touched и Normalized,
// которыми пользуется обобщённое хранилище коллекции.
package model

import (
	"strings"
	"time"
)

// trimmed убирает пробелы по краям строки.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}

// nonNilStrings возвращает пустой срез вместо nil.
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// utc приводит время к UTC, нулевое время оставляет как есть.
func utc(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// utcPtr приводит опциональное время к UTC.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
