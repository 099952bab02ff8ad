package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCatalogsComplete — каталоги всех языков содержат одинаковые ключи.
func TestCatalogsComplete(t *testing.T) {
	b, err := Load(nil)
	require.NoError(t, err)

	en := b.Keys("en")
	slices.Sort(en)
	require.NotEmpty(t, en)
	for _, tag := range SupportedLanguages {
		lang := tag.String()
		keys := b.Keys(lang)
		slices.Sort(keys)
		assert.Equal(t, en, keys, "ключи каталога %s", lang)
	}
}

func TestTranslate_Fallback(t *testing.T) {
	b := NewBundle(nil)
	require.NoError(t, b.LoadMessages("en", []byte(`{"greet": "Hello, %s", "only.en": "English"}`)))
	require.NoError(t, b.LoadMessages("ru", []byte(`{"greet": "Привет, %s"}`)))

	assert.Equal(t, "Привет, Asha", b.Translatef("ru", "greet", "Asha"))
	assert.Equal(t, "English", b.Translate("ru", "only.en"))
	assert.Equal(t, "missing.key", b.Translate("ru", "missing.key"))
	assert.Error(t, b.LoadMessages("en", []byte(`["not", "a", "map"]`)))
}

func TestT_WithoutBundle(t *testing.T) {
	SetDefault(nil)
	t.Cleanup(func() { SetDefault(nil) })

	assert.Equal(t, "ui.save", T(context.Background(), "ui.save"))
	assert.Equal(t, "1 of 2", Tf(context.Background(), "%d of %d", 1, 2))
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{"по умолчанию", "", "", "en"},
		{"cookie", "ru", "en-US", "ru"},
		{"неизвестная cookie", "de", "ru-RU,ru;q=0.9", "ru"},
		{"Accept-Language", "", "ru-RU,ru;q=0.9,en;q=0.8", "ru"},
		{"неподдерживаемый язык", "", "fr-FR", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			assert.Equal(t, tt.want, DetectLanguage(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	var got string
	h := Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = LangFromContext(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "ru")
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "ru", got)
}
