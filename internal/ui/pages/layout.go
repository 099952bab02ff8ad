package pages

import "github.com/bigkaa/backoffice/internal/i18n"

// switchLanguages — кнопки переключателя языка в шапке.
var switchLanguages = []string{"en", "ru"}

func pageLang(lang string) string {
	if lang == "" {
		return i18n.DefaultLang
	}
	return lang
}

func linkClass(class string, active bool) string {
	if active {
		return class + " active"
	}
	return class
}
