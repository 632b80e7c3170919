package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecostudy/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service, mw func(h *Handler) gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil, Options{SeedKey: "seed-key"})
	r.GET("/secure", mw(h), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "userId": c.GetString(ctxUserID), "name": c.GetString(ctxUserName)})
	})
	return r
}

func userIdentityMW(h *Handler) gin.HandlerFunc { return h.userIdentity }
func wsIdentityMW(h *Handler) gin.HandlerFunc   { return h.wsIdentity }
func adminKeyMW(h *Handler) gin.HandlerFunc     { return h.adminKey }

func TestUserIdentity_Errors(t *testing.T) {
	type want struct {
		code   int
		errMsg string
	}
	cases := []struct {
		name     string
		header   string
		parseErr error
		want     want
	}{
		{
			name:   "missing header",
			header: "",
			want:   want{code: http.StatusUnauthorized, errMsg: errMissingAuth},
		},
		{
			name:   "invalid scheme",
			header: "Token abc",
			want:   want{code: http.StatusUnauthorized, errMsg: errBadAuthFormat},
		},
		{
			name:   "bearer without token",
			header: "Bearer",
			want:   want{code: http.StatusUnauthorized, errMsg: errBadAuthFormat},
		},
		{
			name:   "bearer with blank token",
			header: "Bearer   ",
			want:   want{code: http.StatusUnauthorized, errMsg: errBadAuthFormat},
		},
		{
			name:     "invalid token",
			header:   "Bearer forged",
			parseErr: service.ErrInvalidToken,
			want:     want{code: http.StatusForbidden, errMsg: errBadToken},
		},
		{
			name:     "expired token",
			header:   "Bearer expired",
			parseErr: service.ErrTokenExpired,
			want:     want{code: http.StatusForbidden, errMsg: errBadToken},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{parseErr: tc.parseErr}
			r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth}, userIdentityMW)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.want.code {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.want.code, w.Body.String())
			}

			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.want.errMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.want.errMsg)
			}
		})
	}
}

func TestUserIdentity_SuccessSetsIdentityAndProceeds(t *testing.T) {
	auth := validAuth()
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth}, userIdentityMW)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		OK     bool   `json:"ok"`
		UserID string `json:"userId"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.UserID != "u1" || resp.Name != "Ada" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, "good-token")
	}
}

func TestWSIdentity_QueryToken(t *testing.T) {
	cases := []struct {
		name      string
		url       string
		header    string
		parseErr  error
		wantCode  int
		wantToken string
	}{
		{name: "query token", url: "/secure?token=q-tok", wantCode: http.StatusOK, wantToken: "q-tok"},
		{name: "header wins", url: "/secure?token=q-tok", header: "Bearer h-tok", wantCode: http.StatusOK, wantToken: "h-tok"},
		{name: "missing both", url: "/secure", wantCode: http.StatusUnauthorized},
		{name: "bad query token", url: "/secure?token=forged", parseErr: service.ErrInvalidToken, wantCode: http.StatusForbidden, wantToken: "forged"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := validAuth()
			auth.parseErr = tc.parseErr
			r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth}, wsIdentityMW)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if auth.lastParseToken != tc.wantToken {
				t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, tc.wantToken)
			}
		})
	}
}

func TestAdminKey(t *testing.T) {
	cases := []struct {
		name     string
		key      string
		wantCode int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "nope", http.StatusForbidden},
		{"right", "seed-key", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newMiddlewareOnlyRouter(&service.Service{}, adminKeyMW)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.key != "" {
				req.Header.Set(adminKeyHeader, tc.key)
			}
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestAdminKey_OpenWhenUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{}, nil, Options{})
	r.GET("/secure", h.adminKey, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusNoContent)
	}
}

func TestCORS(t *testing.T) {
	t.Run("preflight answered for any origin by default", func(t *testing.T) {
		r := newTestRouter(&service.Service{Authorization: validAuth()})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("preflight status=%d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Fatalf("allow-origin=%q", got)
		}
	})

	t.Run("configured origins only", func(t *testing.T) {
		r := newTestRouterWith(&service.Service{}, Options{CORSOrigins: []string{"https://ecostudy.example"}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://ecostudy.example")
		r.ServeHTTP(w, req)
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://ecostudy.example" {
			t.Fatalf("allow-origin=%q", got)
		}

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://evil.example")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("foreign origin status=%d", w.Code)
		}
	})
}
