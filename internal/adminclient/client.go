// Пакет adminclient — HTTP-клиент REST API /api/admin/* для админ-страниц.
// Страницы сотрудников, тарифов и поставщиков работают с коллекциями через
// этот клиент, как с удалённым бэкендом (collection.Backend).
// Язык оператора передаётся в Accept-Language, токен — в Authorization.
package adminclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bigkaa/backoffice/internal/i18n"
)

// TokenProvider — функция, возвращающая bearer-токен для запросов к API.
type TokenProvider func(ctx context.Context) (string, error)

// StaticToken возвращает TokenProvider с фиксированным токеном.
// Пустой токен — запросы без Authorization.
func StaticToken(token string) TokenProvider {
	return func(context.Context) (string, error) {
		return token, nil
	}
}

type contextKey string

const contextKeyToken contextKey = "bo_api_token"

// WithToken помещает в контекст токен оператора, который имеет приоритет
// над TokenProvider клиента.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, contextKeyToken, token)
}

// APIError — non-2xx ответ API ({"error": ..., "fields"?: {...}}).
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: статус %d", e.StatusCode)
	}
	return fmt.Sprintf("api: статус %d: %s", e.StatusCode, e.Message)
}

// UserMessage возвращает сообщение из поля error тела ответа.
func (e *APIError) UserMessage() string { return e.Message }

// StatusOf возвращает HTTP-статус APIError из цепочки ошибок (0, если его нет).
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Client — HTTP-клиент REST API Back Office.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	tokenProvider TokenProvider
	logger        *slog.Logger
}

// Option — опция клиента.
type Option func(*Client) error

// WithCACert добавляет CA-сертификат в пул доверия TLS.
func WithCACert(caCertPath string) Option {
	return func(c *Client) error {
		if caCertPath == "" {
			return nil
		}
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return fmt.Errorf("загрузка CA-сертификата API: %w", err)
		}
		c.httpClient.Transport = &http.Transport{TLSClientConfig: tlsConfig}
		c.logger.Info("CA-сертификат API добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
		return nil
	}
}

// WithHTTPClient заменяет HTTP-клиент (для тестов).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// New создаёт клиент API.
// timeout — таймаут запроса (0 — без таймаута).
// tokenProvider может быть nil.
func New(baseURL string, timeout time.Duration, tokenProvider TokenProvider, logger *slog.Logger, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:       normalizeURL(baseURL),
		httpClient:    &http.Client{Timeout: timeout},
		tokenProvider: tokenProvider,
		logger:        logger.With(slog.String("component", "admin_client")),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("в %s нет PEM-сертификатов", caCertPath)
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}

// do выполняет запрос к API. body сериализуется в JSON (nil — без тела),
// ответ 2xx декодируется в out (nil — тело игнорируется).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("сериализация запроса %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("создание запроса %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", i18n.LangFromContext(ctx))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.token(ctx)
	if err != nil {
		return fmt.Errorf("получение токена для API: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Запрос к API выполнен",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp, method, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("декодирование ответа %s %s: %w", method, path, err)
	}
	return nil
}

// decodeError читает тело non-2xx ответа в APIError.
func (c *Client) decodeError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = body.Error
		apiErr.Fields = body.Fields
	}

	c.logger.Warn("API вернул ошибку",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("error", apiErr.Message),
	)
	return apiErr
}

func (c *Client) token(ctx context.Context) (string, error) {
	if token, ok := ctx.Value(contextKeyToken).(string); ok && token != "" {
		return token, nil
	}
	if c.tokenProvider == nil {
		return "", nil
	}
	return c.tokenProvider(ctx)
}

// normalizeURL убирает trailing slash из URL.
func normalizeURL(rawURL string) string {
	return strings.TrimRight(rawURL, "/")
}
