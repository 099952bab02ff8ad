package pages

import "net/url"

// Link — ссылка навигации, вкладки, фильтра или размера страницы.
type Link struct {
	Label  string
	URL    string
	Active bool
}

// Flash — уведомление об итоге действия.
type Flash struct {
	// Kind — success или error
	Kind    string
	Message string
}

// Layout — общий каркас страницы.
type Layout struct {
	Title    string
	Lang     string
	Nav      []Link
	Flash    Flash
	Operator string
	Role     string
	// Back — адрес возврата после переключения языка
	Back string
}

// Header — заголовок колонки таблицы.
type Header struct {
	Label   string
	SortURL string // "" — колонка не сортируется
	Sorted  bool
	Desc    bool
}

// Row — строка таблицы.
type Row struct {
	ID       string
	ViewURL  string
	Cells    []string
	Selected bool
	InFlight bool
}

// Option — значение выпадающего списка.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// ColumnFilter — фильтр колонки (множественный выбор).
type ColumnFilter struct {
	Field   string
	Label   string
	Options []Option
}

// ActionButton — кнопка действия над записью или выделением.
type ActionButton struct {
	Name        string
	Label       string
	URL         string
	Destructive bool
}

// ListView — модель страницы списка.
type ListView struct {
	Title   string
	BaseURL string

	Tabs         []Link
	QuickFilters []Link
	PageSizes    []Link
	Search       string
	From         string
	To           string
	// Keep — параметры, сохраняемые формой фильтра (tab, qf, sort, dir, size)
	Keep url.Values
	// Criteria — все активные критерии (передаются при выгрузке выделения)
	Criteria url.Values
	Columns []ColumnFilter

	Headers []Header
	Rows    []Row

	Page      int
	PageCount int
	Shown     int
	Filtered  int
	Total     int
	PrevURL   string
	NextURL   string

	BulkActions []ActionButton
	ExportURL   string
	CreateURL   string
	// ReturnURL — текущий адрес списка (возврат после действий)
	ReturnURL string
}

// Field — пара «подпись → значение» быстрого просмотра.
type Field struct {
	Label string
	Value string
}

// DetailView — модель быстрого просмотра записи.
type DetailView struct {
	Title     string
	BackURL   string
	EditURL   string
	InFlight  bool
	Fields    []Field
	Actions   []ActionButton
	ReturnURL string
}

// FormField — поле формы создания/редактирования.
type FormField struct {
	Name     string
	Label    string
	Type     string // text, email, url, tel, number, textarea, select, checkbox, lines
	Value    string
	Options  []Option
	Required bool
	Error    string
}

// FormView — модель формы.
type FormView struct {
	Title     string
	ActionURL string
	BackURL   string
	Error     string
	Fields    []FormField
}

// ConfirmView — модель диалога подтверждения.
type ConfirmView struct {
	Title       string
	Message     string
	ConfirmURL  string
	CancelURL   string
	ReturnURL   string
	Destructive bool
}
