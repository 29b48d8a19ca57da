package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cirrusops/conversation-miner/pkg/config"
	"github.com/cirrusops/conversation-miner/pkg/jwt"
)

func runOrgAuth(t *testing.T, cfg *config.AuthConfig, manager *jwt.Manager, authHeader string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/meetings", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := OrgAuth(manager, cfg)(next)(c)
	return c, rec, err
}

func TestOrgAuthDisabledUsesDefaultOrg(t *testing.T) {
	cfg := &config.AuthConfig{Enabled: false, DefaultOrg: "acme"}

	c, _, err := runOrgAuth(t, cfg, nil, "")
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if got := GetOrgID(c); got != "acme" {
		t.Errorf("org = %q, want %q", got, "acme")
	}
}

func TestOrgAuthValidToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour)
	token, err := manager.GenerateToken("org-42", "ops@example.com")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	cfg := &config.AuthConfig{Enabled: true, DefaultOrg: "default"}

	c, _, err := runOrgAuth(t, cfg, manager, "Bearer "+token)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if got := GetOrgID(c); got != "org-42" {
		t.Errorf("org = %q, want %q", got, "org-42")
	}
}

func TestOrgAuthRejectsBadTokens(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour)
	cfg := &config.AuthConfig{Enabled: true, DefaultOrg: "default"}

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runOrgAuth(t, cfg, manager, tt.header)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %v", err)
			}
			if httpErr.Code != http.StatusUnauthorized {
				t.Errorf("code = %d, want %d", httpErr.Code, http.StatusUnauthorized)
			}
		})
	}
}

func TestOrgAuthRejectsWrongSecret(t *testing.T) {
	other := jwt.NewManager("other-secret", time.Hour)
	token, err := other.GenerateToken("org-42", "")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	manager := jwt.NewManager("test-secret", time.Hour)
	cfg := &config.AuthConfig{Enabled: true, DefaultOrg: "default"}

	_, _, authErr := runOrgAuth(t, cfg, manager, "Bearer "+token)
	httpErr, ok := authErr.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", authErr)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Errorf("code = %d, want %d", httpErr.Code, http.StatusUnauthorized)
	}
}
