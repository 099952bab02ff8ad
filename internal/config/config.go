// Пакет config — загрузка и валидация конфигурации Back Office
// из переменных окружения (префикс BO_).
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Back Office.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- PostgreSQL ---

	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- REST API для админ-страниц ---

	// Базовый URL /api/admin/* (по умолчанию — собственный порт)
	APIURL string
	// Bearer-токен, передаваемый страницами в API (опционально)
	APIToken string
	// PEM-файл CA для HTTPS-адреса API (опционально)
	APICACert string
	// Таймаут запроса к API (0 — без таймаута)
	APITimeout time.Duration
	// Проверка запросов к API по OpenAPI-документу
	OpenAPIValidation bool

	// --- JWT (аутентификация включается, если задан JWKS URL) ---

	JWTJWKSURL string
	JWTIssuer  string
	JWTLeeway  time.Duration

	// --- Маппинг групп → ролей ---

	RoleAdminGroups    []string
	RoleSupportGroups  []string
	RoleReadonlyGroups []string
	// Роль оператора страниц, если JWT-аутентификация выключена
	UIDefaultRole string

	// --- Образцы данных (магазины, внешние пользователи, заказы) ---

	// Имитируемая задержка запроса
	SampleLatency time.Duration
	// Доля запросов, завершающихся ошибкой (0–1)
	SampleFailureRate float64

	// --- Списки ---

	// Размер страницы по умолчанию (10, 25, 50, 100)
	PageSize int
	// Кэш снимков пользователей и тарифов в заказах
	SnapshotCacheSize int
	SnapshotCacheTTL  time.Duration
	// Время жизни подтверждения действия
	ConfirmTTL time.Duration

	// --- Мониторинг зависимостей ---

	DephealthGroup         string
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// BO_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("BO_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("BO_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("BO_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("BO_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("BO_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("BO_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("BO_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- PostgreSQL ---

	if cfg.DBHost, err = getEnvRequired("BO_DB_HOST"); err != nil {
		return nil, err
	}
	cfg.DBPort, err = getEnvInt("BO_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("BO_DB_PORT: %w", err)
	}
	if cfg.DBName, err = getEnvRequired("BO_DB_NAME"); err != nil {
		return nil, err
	}
	if cfg.DBUser, err = getEnvRequired("BO_DB_USER"); err != nil {
		return nil, err
	}
	if cfg.DBPassword, err = getEnvRequired("BO_DB_PASSWORD"); err != nil {
		return nil, err
	}
	cfg.DBSSLMode = getEnvDefault("BO_DB_SSL_MODE", "disable")
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, cfg.DBSSLMode) {
		return nil, fmt.Errorf("BO_DB_SSL_MODE: недопустимое значение %q, допустимые: %s",
			cfg.DBSSLMode, strings.Join(validSSLModes, ", "))
	}

	// --- REST API ---

	// BO_API_URL — по умолчанию собственный адрес сервиса
	cfg.APIURL = strings.TrimRight(
		getEnvDefault("BO_API_URL", fmt.Sprintf("http://127.0.0.1:%d", cfg.Port)), "/")
	if u, perr := url.Parse(cfg.APIURL); perr != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("BO_API_URL: некорректный URL %q", cfg.APIURL)
	}
	cfg.APIToken = os.Getenv("BO_API_TOKEN")
	cfg.APICACert = os.Getenv("BO_API_CA_CERT")

	// BO_API_TIMEOUT — 0 отключает таймаут
	cfg.APITimeout, err = getEnvDuration("BO_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BO_API_TIMEOUT: %w", err)
	}
	if cfg.APITimeout < 0 {
		return nil, fmt.Errorf("BO_API_TIMEOUT: отрицательное значение %v", cfg.APITimeout)
	}

	cfg.OpenAPIValidation, err = getEnvBool("BO_OPENAPI_VALIDATION", true)
	if err != nil {
		return nil, fmt.Errorf("BO_OPENAPI_VALIDATION: %w", err)
	}

	// --- JWT ---

	cfg.JWTJWKSURL = os.Getenv("BO_JWT_JWKS_URL")
	cfg.JWTIssuer = os.Getenv("BO_JWT_ISSUER")
	cfg.JWTLeeway, err = getEnvDuration("BO_JWT_LEEWAY", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BO_JWT_LEEWAY: %w", err)
	}

	// --- Маппинг групп → ролей ---

	cfg.RoleAdminGroups = parseCSV(getEnvDefault("BO_ROLE_ADMIN_GROUPS", "backoffice-admins"))
	cfg.RoleSupportGroups = parseCSV(getEnvDefault("BO_ROLE_SUPPORT_GROUPS", "backoffice-support"))
	cfg.RoleReadonlyGroups = parseCSV(getEnvDefault("BO_ROLE_READONLY_GROUPS", "backoffice-viewers"))

	cfg.UIDefaultRole = getEnvDefault("BO_UI_DEFAULT_ROLE", "admin")
	if !slices.Contains([]string{"admin", "support", "readonly"}, cfg.UIDefaultRole) {
		return nil, fmt.Errorf("BO_UI_DEFAULT_ROLE: недопустимое значение %q, допустимые: admin, support, readonly", cfg.UIDefaultRole)
	}

	// --- Образцы данных ---

	cfg.SampleLatency, err = getEnvDuration("BO_SAMPLE_LATENCY", 400*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("BO_SAMPLE_LATENCY: %w", err)
	}
	cfg.SampleFailureRate, err = getEnvFloat("BO_SAMPLE_FAILURE_RATE", 0)
	if err != nil {
		return nil, fmt.Errorf("BO_SAMPLE_FAILURE_RATE: %w", err)
	}
	if cfg.SampleFailureRate < 0 || cfg.SampleFailureRate > 1 {
		return nil, fmt.Errorf("BO_SAMPLE_FAILURE_RATE: значение %v вне диапазона 0-1", cfg.SampleFailureRate)
	}

	// --- Списки ---

	cfg.PageSize, err = getEnvInt("BO_PAGE_SIZE", 10)
	if err != nil {
		return nil, fmt.Errorf("BO_PAGE_SIZE: %w", err)
	}
	if !slices.Contains([]int{10, 25, 50, 100}, cfg.PageSize) {
		return nil, fmt.Errorf("BO_PAGE_SIZE: недопустимое значение %d, допустимые: 10, 25, 50, 100", cfg.PageSize)
	}

	cfg.SnapshotCacheSize, err = getEnvInt("BO_SNAPSHOT_CACHE_SIZE", 512)
	if err != nil {
		return nil, fmt.Errorf("BO_SNAPSHOT_CACHE_SIZE: %w", err)
	}
	if cfg.SnapshotCacheSize < 1 {
		return nil, fmt.Errorf("BO_SNAPSHOT_CACHE_SIZE: значение %d должно быть положительным", cfg.SnapshotCacheSize)
	}
	cfg.SnapshotCacheTTL, err = getEnvDuration("BO_SNAPSHOT_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("BO_SNAPSHOT_CACHE_TTL: %w", err)
	}
	cfg.ConfirmTTL, err = getEnvDuration("BO_CONFIRM_TTL", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("BO_CONFIRM_TTL: %w", err)
	}

	// --- Мониторинг зависимостей ---

	cfg.DephealthGroup = getEnvDefault("BO_DEPHEALTH_GROUP", "backoffice")
	cfg.DephealthCheckInterval, err = getEnvDuration("BO_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BO_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("BO_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("BO_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// AuthEnabled — JWT-аутентификация включена.
func (c *Config) AuthEnabled() bool {
	return c.JWTJWKSURL != ""
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL PostgreSQL в схеме scheme (postgres, pgx5).
func (c *Config) DatabaseURL(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + c.DBSSLMode,
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное число: %q", val)
	}
	return f, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное логическое значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
