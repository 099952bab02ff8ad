// Пакет i18n — переводы сообщений Back Office: ошибки валидации,
// уведомления о мутациях, подписи страниц.
// Функции T(ctx, key) и Tf(ctx, key, args...) берут язык из контекста запроса.
// Поддерживаемые языки: English (en, по умолчанию), Русский (ru).
package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLang — язык по умолчанию и язык fallback.
const DefaultLang = "en"

// SupportedLanguages — теги поддерживаемых языков (первый — по умолчанию).
var SupportedLanguages = []language.Tag{
	language.English,
	language.Russian,
}

var matcher = language.NewMatcher(SupportedLanguages)

type contextKey string

const contextKeyLang contextKey = "bo_lang"

// Bundle — каталоги переводов всех языков (lang → key → шаблон).
type Bundle struct {
	mu       sync.RWMutex
	catalogs map[string]map[string]string
	logger   *slog.Logger
}

// NewBundle создаёт пустой Bundle.
func NewBundle(logger *slog.Logger) *Bundle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bundle{
		catalogs: make(map[string]map[string]string),
		logger:   logger.With(slog.String("component", "i18n")),
	}
}

// LoadMessages загружает плоский JSON-каталог {"key": "шаблон"} языка lang.
func (b *Bundle) LoadMessages(lang string, data []byte) error {
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return fmt.Errorf("i18n: ошибка парсинга каталога %s: %w", lang, err)
	}

	b.mu.Lock()
	b.catalogs[lang] = messages
	b.mu.Unlock()

	b.logger.Debug("Каталог загружен",
		slog.String("lang", lang),
		slog.Int("keys", len(messages)),
	)
	return nil
}

// Translate возвращает шаблон по ключу: язык lang → en → сам ключ.
func (b *Bundle) Translate(lang, key string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if msg, ok := b.catalogs[lang][key]; ok {
		return msg
	}
	if msg, ok := b.catalogs[DefaultLang][key]; ok {
		return msg
	}
	return key
}

// Translatef — Translate с подстановкой аргументов.
func (b *Bundle) Translatef(lang, key string, args ...any) string {
	template := b.Translate(lang, key)
	if len(args) == 0 {
		return template
	}
	return sprintf(template, args...)
}

// Keys возвращает ключи каталога языка (для проверки полноты переводов).
func (b *Bundle) Keys(lang string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.catalogs[lang]))
	for k := range b.catalogs[lang] {
		keys = append(keys, k)
	}
	return keys
}

// --- Глобальный Bundle ---

var (
	globalMu     sync.RWMutex
	globalBundle *Bundle
)

// SetDefault устанавливает глобальный Bundle, используемый T и Tf.
func SetDefault(b *Bundle) {
	globalMu.Lock()
	globalBundle = b
	globalMu.Unlock()
}

// Default возвращает глобальный Bundle (nil, если не установлен).
func Default() *Bundle {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalBundle
}

// WithLang помещает язык в контекст.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKeyLang, lang)
}

// LangFromContext извлекает язык из контекста. По умолчанию — en.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKeyLang).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

// T возвращает перевод ключа на язык из контекста.
func T(ctx context.Context, key string) string {
	b := Default()
	if b == nil {
		return key
	}
	return b.Translate(LangFromContext(ctx), key)
}

// Tf возвращает перевод ключа с подстановкой аргументов.
func Tf(ctx context.Context, key string, args ...any) string {
	b := Default()
	if b == nil {
		if len(args) == 0 {
			return key
		}
		return sprintf(key, args...)
	}
	return b.Translatef(LangFromContext(ctx), key, args...)
}

// sprintf — fmt.Sprintf через переменную: шаблоны приходят из каталогов
// во время выполнения, printf-проверка go vet к ним неприменима.
var sprintf = fmt.Sprintf

// IsSupported проверяет, поддерживается ли язык.
func IsSupported(lang string) bool {
	for _, tag := range SupportedLanguages {
		if base, _ := tag.Base(); base.String() == lang {
			return true
		}
	}
	return false
}

// MatchLanguage выбирает поддерживаемый язык по заголовку Accept-Language.
func MatchLanguage(acceptLanguage string) string {
	_, idx := language.MatchStrings(matcher, acceptLanguage)
	base, _ := SupportedLanguages[idx].Base()
	return base.String()
}
