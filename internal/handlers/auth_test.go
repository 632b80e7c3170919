package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecostudy/internal/service"
)

func postJSON(t *testing.T, r http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return m
}

func TestAuthHandlers_SignUpAndLogin(t *testing.T) {
	auth := &mockAuth{loginResult: service.LoginResult{Token: "tok123", Name: "Ada"}}
	r := newTestRouter(&service.Service{Authorization: auth})

	// sign-up success
	w := postJSON(t, r, "/api/auth/signup", `{"name":"Ada","email":"ada@example.com","password":"p"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status=%d, body=%s", w.Code, w.Body.String())
	}
	if m := decodeMap(t, w); m["message"] != "User created" {
		t.Fatalf("unexpected signup body %v", m)
	}
	if auth.lastSignUpName != "Ada" || auth.lastSignUpEmail != "ada@example.com" || auth.lastSignUpPassword != "p" {
		t.Fatalf("service got wrong input: %+v", auth)
	}

	// login success
	w = postJSON(t, r, "/api/auth/login", `{"email":"ada@example.com","password":"p"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	m := decodeMap(t, w)
	if m["token"] != "tok123" || m["name"] != "Ada" {
		t.Fatalf("unexpected login body %v", m)
	}
}

func TestAuthHandlers_SignUpErrors(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{"bad json", `{"name":1}`, nil, http.StatusBadRequest, "invalid request body"},
		{"missing password", `{"name":"Ada","email":"ada@example.com"}`, nil, http.StatusBadRequest, "invalid request body"},
		{"duplicate", `{"name":"Ada","email":"ada@example.com","password":"p"}`, service.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered"},
		{"invalid input", `{"name":"Ada","email":"nope","password":"p"}`, fmt.Errorf("%w: email is malformed", service.ErrInvalidInput), http.StatusBadRequest, "validation failed: email is malformed"},
		{"store down", `{"name":"Ada","email":"ada@example.com","password":"p"}`, errors.New("db down"), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{signUpErr: tc.svcErr}})
			w := postJSON(t, r, "/api/auth/signup", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if m := decodeMap(t, w); m["error"] != tc.wantMsg {
				t.Fatalf("error=%v want %q", m["error"], tc.wantMsg)
			}
		})
	}
}

func TestAuthHandlers_LoginErrors(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		svcErr   error
		wantCode int
		wantMsg  string
	}{
		{"bad json", `{"email":`, nil, http.StatusBadRequest, "invalid request body"},
		{"wrong credentials", `{"email":"a@b.c","password":"x"}`, service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"store down", `{"email":"a@b.c","password":"x"}`, errors.New("db down"), http.StatusInternalServerError, "Server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: &mockAuth{loginErr: tc.svcErr}})
			w := postJSON(t, r, "/api/auth/login", tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if m := decodeMap(t, w); m["error"] != tc.wantMsg {
				t.Fatalf("error=%v want %q", m["error"], tc.wantMsg)
			}
		})
	}
}
