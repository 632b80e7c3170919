package handlers

import (
	"context"
	"net/http"
	"sync"

	"ecostudy/internal/models"
	"ecostudy/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpErr   error
	loginResult service.LoginResult
	loginErr    error
	parseID     service.Identity
	parseErr    error

	lastSignUpName     string
	lastSignUpEmail    string
	lastSignUpPassword string
	lastLoginEmail     string
	lastLoginPassword  string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, name, email, password string) error {
	m.lastSignUpName = name
	m.lastSignUpEmail = email
	m.lastSignUpPassword = password
	return m.signUpErr
}
func (m *mockAuth) Login(_ context.Context, email, password string) (service.LoginResult, error) {
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginResult, m.loginErr
}
func (m *mockAuth) ParseToken(token string) (service.Identity, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type askCall struct {
	userID   string
	question string
	kind     models.ChatKind
}

type mockChat struct {
	answer     string
	askErr     error
	history    []models.Chat
	historyErr error

	mu          sync.Mutex
	asks        []askCall
	lastUserID  string
	lastLimit   int
	historyHits int
}

func (m *mockChat) Ask(_ context.Context, userID, question string, kind models.ChatKind) (*models.Chat, error) {
	m.mu.Lock()
	m.asks = append(m.asks, askCall{userID: userID, question: question, kind: kind})
	askErr := m.askErr
	m.mu.Unlock()
	if askErr != nil {
		return nil, askErr
	}
	return &models.Chat{ID: "c1", UserID: userID, Question: question, Answer: m.answer, Kind: kind}, nil
}
func (m *mockChat) History(_ context.Context, userID string, limit int) ([]models.Chat, error) {
	m.lastUserID = userID
	m.lastLimit = limit
	m.historyHits++
	return m.history, m.historyErr
}

func (m *mockChat) setAskErr(err error) {
	m.mu.Lock()
	m.askErr = err
	m.mu.Unlock()
}

func (m *mockChat) calls() []askCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]askCall(nil), m.asks...)
}

type mockSources struct {
	list      []models.Source
	listErr   error
	seedErr   error
	seedCalls int
}

func (m *mockSources) ListSources(context.Context) ([]models.Source, error) {
	return m.list, m.listErr
}
func (m *mockSources) Seed(context.Context) error {
	m.seedCalls++
	return m.seedErr
}

// ---- Shared Test Helpers ----

// validAuth accepts every token as user u1.
func validAuth() *mockAuth {
	return &mockAuth{parseID: service.Identity{UserID: "u1", Name: "Ada"}}
}

func newTestRouter(s *service.Service) *gin.Engine {
	return newTestRouterWith(s, Options{})
}

func newTestRouterWith(s *service.Service, opts Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, opts)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
