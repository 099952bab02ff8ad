// Пакет handlers — HTTP-обработчики админ-страниц.
// Каждая страница — Page[T] над таблицей домена Domain[T]: колонки,
// поля формы, действия и конвейер списка описываются данными.
package handlers

import (
	"context"

	"github.com/bigkaa/backoffice/internal/collection"
	"github.com/bigkaa/backoffice/internal/export"
	"github.com/bigkaa/backoffice/internal/listing"
	"github.com/bigkaa/backoffice/internal/validation"
)

// Column — колонка таблицы или поле быстрого просмотра.
type Column[T any] struct {
	// Label — ключ перевода подписи
	Label string
	// Sort — идентификатор компаратора ("" — колонка не сортируется)
	Sort  string
	Value func(T) string
}

// FormField — поле формы создания/редактирования.
type FormField[T any] struct {
	Name string
	// Label — ключ перевода подписи
	Label    string
	Type     string
	Options  []string
	Required bool
	Get      func(T) string
	// Set разбирает значение формы в запись. Ошибка — некорректный формат.
	Set func(*T, string) error
}

// Action — действие над записью или выделением.
type Action[T any] struct {
	Name string
	// Perm — право, проверяемое до открытия диалога и до запроса
	Perm string
	// Confirm — действие требует подтверждения
	Confirm     bool
	Bulk        bool
	Destructive bool
	// Delete — действие удаляет запись (Apply не используется)
	Delete bool
	// Allowed — применимо ли действие к записи (nil — всегда)
	Allowed func(T) bool
	Apply   func(*T)
}

// Domain — описание админ-страницы домена.
type Domain[T collection.Record[T]] struct {
	// Name — сегмент URL и имя файла выгрузки
	Name string
	// Title — ключ перевода заголовка
	Title string
	Spec  listing.Spec[T]
	// Tabs — фиксированные вкладки (nil — значения из коллекции)
	Tabs []string
	// ValuePrefix — префикс ключей перевода значений вкладок и колонок
	ValuePrefix string
	Table       []Column[T]
	Details     []Column[T]
	Form        []FormField[T]
	Export      []export.Column[T]
	Actions     []Action[T]
	// ManagePerm — право создания и редактирования
	ManagePerm string
	// RecordTitle — заголовок записи в просмотре и диалогах
	RecordTitle func(T) string
	Validate    func(ctx context.Context, item T, existing []T) validation.Errors
	// Prepare дополняет записи перед конвейером (снимки в заказах)
	Prepare func(ctx context.Context, items []T) []T
	// RefreshOnView — перечитывать коллекцию при открытии списка
	RefreshOnView bool
}

// action возвращает действие по имени.
func (d Domain[T]) action(name string) (Action[T], bool) {
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action[T]{}, false
}
