package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bigkaa/backoffice/internal/domain/rbac"
)

// testKeyID — идентификатор ключа для тестов.
const testKeyID = "test-key-bo"

const testIssuer = "https://idp.test/realms/backoffice"

// generateTestKey генерирует RSA ключ для тестов.
func generateTestKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

// buildJWKSetJSON строит JWKS JSON из RSA публичного ключа.
func buildJWKSetJSON(pub *rsa.PublicKey, kid string) json.RawMessage {
	jwks := map[string]any{
		"keys": []map[string]any{
			{
				"kty": "RSA",
				"kid": kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			},
		},
	}

	data, _ := json.Marshal(jwks)
	return data
}

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestJWTAuth создаёт JWTAuth с mock JWKS.
func newTestJWTAuth(t *testing.T, key *rsa.PrivateKey) *JWTAuth {
	t.Helper()
	kf, err := keyfunc.NewJWKSetJSON(buildJWKSetJSON(&key.PublicKey, testKeyID))
	if err != nil {
		t.Fatalf("не удалось создать keyfunc: %v", err)
	}

	return NewJWTAuthWithKeyfunc(
		kf,
		testIssuer,
		rbac.GroupMapping{
			Admin:    []string{"backoffice-admins"},
			Support:  []string{"backoffice-support"},
			Readonly: []string{"backoffice-viewers"},
		},
		5*time.Second,
		testLogger(),
	)
}

type tokenOpts struct {
	sub     string
	groups  []string
	roles   []string
	issuer  string
	expired bool
}

// generateToken генерирует подписанный JWT оператора.
func generateToken(t *testing.T, key *rsa.PrivateKey, o tokenOpts) string {
	t.Helper()

	exp := time.Now().Add(time.Hour)
	if o.expired {
		exp = time.Now().Add(-time.Hour)
	}
	if o.issuer == "" {
		o.issuer = testIssuer
	}

	claims := jwt.MapClaims{
		"sub":                o.sub,
		"preferred_username": "kavya",
		"email":              "kavya.iyer@backoffice.in",
		"iss":                o.issuer,
		"exp":                jwt.NewNumericDate(exp),
		"nbf":                jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		"iat":                jwt.NewNumericDate(time.Now()),
	}
	if len(o.roles) > 0 {
		claims["realm_access"] = map[string]any{"roles": o.roles}
	}
	if len(o.groups) > 0 {
		claims["groups"] = o.groups
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = testKeyID
	tokenStr, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return tokenStr
}

// serve прогоняет запрос через middleware и возвращает ответ и claims.
func serve(t *testing.T, mw func(http.Handler) http.Handler, token string) (*httptest.ResponseRecorder, *AuthClaims) {
	t.Helper()
	var got *AuthClaims
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/plans", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, got
}

// --- Тесты JWT Middleware ---

func TestJWTAuth_RoleFromGroups(t *testing.T) {
	key := generateTestKey(t)
	auth := newTestJWTAuth(t, key)

	tests := []struct {
		name   string
		groups []string
		want   string
	}{
		{"admin", []string{"backoffice-admins"}, rbac.RoleAdmin},
		{"support", []string{"backoffice-support"}, rbac.RoleSupport},
		{"readonly", []string{"backoffice-viewers"}, rbac.RoleReadonly},
		{"максимальная из нескольких", []string{"backoffice-viewers", "backoffice-support"}, rbac.RoleSupport},
		{"нет совпадений", []string{"other"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := generateToken(t, key, tokenOpts{sub: "user-1", groups: tt.groups})
			rec, claims := serve(t, auth.Middleware(), token)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, ожидали 200", rec.Code)
			}
			if claims == nil {
				t.Fatal("claims не найдены в контексте")
			}
			if claims.Role != tt.want {
				t.Errorf("Role = %q, ожидали %q", claims.Role, tt.want)
			}
			if claims.Subject != "user-1" || claims.PreferredUsername != "kavya" {
				t.Errorf("claims = %+v", claims)
			}
		})
	}
}

func TestJWTAuth_RoleFromRealmRoles(t *testing.T) {
	key := generateTestKey(t)
	auth := newTestJWTAuth(t, key)

	token := generateToken(t, key, tokenOpts{sub: "user-2", roles: []string{"offline_access", "support"}})
	rec, claims := serve(t, auth.Middleware(), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if claims.Role != rbac.RoleSupport {
		t.Errorf("Role = %q, ожидали support", claims.Role)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	key := generateTestKey(t)
	other := generateTestKey(t)
	auth := newTestJWTAuth(t, key)

	tests := []struct {
		name  string
		token string
	}{
		{"без заголовка", ""},
		{"просроченный", generateToken(t, key, tokenOpts{sub: "u", expired: true})},
		{"чужой issuer", generateToken(t, key, tokenOpts{sub: "u", issuer: "https://evil.test"})},
		{"чужая подпись", generateToken(t, other, tokenOpts{sub: "u"})},
		{"без sub", generateToken(t, key, tokenOpts{})},
		{"мусор", "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(t, auth.Middleware(), tt.token)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, ожидали 401", rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("тело не JSON: %v", err)
			}
			if _, ok := body["error"].(string); !ok {
				t.Errorf("ожидали {\"error\": string}, получили %s", rec.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		role string
		perm string
		want int
	}{
		{rbac.RoleAdmin, rbac.PermPlansManage, http.StatusOK},
		{rbac.RoleSupport, rbac.PermPlansManage, http.StatusForbidden},
		{rbac.RoleSupport, rbac.PermSuppliersVerify, http.StatusOK},
		{rbac.RoleReadonly, rbac.PermInternalUsersManage, http.StatusForbidden},
		{"", rbac.PermExportCSV, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.perm, func(t *testing.T) {
			mw := func(next http.Handler) http.Handler {
				return StaticRole(tt.role)(RequirePermission(tt.perm)(next))
			}
			rec, _ := serve(t, mw, "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, ожидали %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRequirePermission_NoClaims(t *testing.T) {
	rec, _ := serve(t, RequirePermission(rbac.PermExportCSV), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, ожидали 401", rec.Code)
	}
}

func TestWithExclusions(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})
	}
	handler := WithExclusions(deny, "/health/", "/metrics")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for path, want := range map[string]int{
		"/health/live":       http.StatusOK,
		"/metrics":           http.StatusOK,
		"/api/admin/plans":   http.StatusTeapot,
		"/admin/suppliers/1": http.StatusTeapot,
	} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Errorf("%s: status = %d, ожидали %d", path, rec.Code, want)
		}
	}
}
