package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

// localeFS — встроенные JSON-каталоги переводов (locales/<lang>.json).
//
//go:embed locales/*.json
var localeFS embed.FS

// Load создаёт Bundle из встроенных каталогов всех поддерживаемых языков.
func Load(logger *slog.Logger) (*Bundle, error) {
	b := NewBundle(logger)
	if err := LoadFS(b, localeFS); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFS загружает в bundle каталоги locales/*.json из fsys.
func LoadFS(b *Bundle, fsys fs.FS) error {
	files, err := fs.Glob(fsys, "locales/*.json")
	if err != nil {
		return fmt.Errorf("i18n: поиск каталогов: %w", err)
	}
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("i18n: не удалось прочитать %s: %w", file, err)
		}
		lang := strings.TrimSuffix(path.Base(file), ".json")
		if err := b.LoadMessages(lang, data); err != nil {
			return err
		}
	}
	b.logger.Info("i18n каталоги загружены", slog.Int("languages", len(files)))
	return nil
}
