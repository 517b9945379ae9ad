package handlers

import (
	"context"
	"net/http"
	"sync"

	"library_api/internal/models"
	"library_api/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	addUserResult *models.User
	addUserErr    error
	loginToken    string
	loginErr      error
	resolveUser   *models.User
	resolveErr    error
	users         []models.User

	lastNewUser       service.NewUser
	lastLoginUsername string
	lastLoginPassword string
	lastResolveToken  string
	resolveCalls      int
}

func (m *mockAuth) AddUser(_ context.Context, in service.NewUser) (*models.User, error) {
	m.lastNewUser = in
	return m.addUserResult, m.addUserErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (string, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginToken, m.loginErr
}

func (m *mockAuth) ResolveUser(_ context.Context, token string) (*models.User, error) {
	m.resolveCalls++
	m.lastResolveToken = token
	return m.resolveUser, m.resolveErr
}

func (m *mockAuth) ListUsers(context.Context) ([]models.User, error) {
	return m.users, nil
}

// mockMonitoring is read by the websocket goroutine while tests mutate it.
type mockMonitoring struct {
	mu    sync.Mutex
	stats models.LibraryStats
	err   error
	calls int
}

func (m *mockMonitoring) GetStats(context.Context) (models.LibraryStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats, m.err
}

func (m *mockMonitoring) set(st models.LibraryStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = st
}

type mockEventLog struct {
	resp []models.ActivityEvent
	err  error
}

func (m *mockEventLog) List(context.Context, service.LogFilter) ([]models.ActivityEvent, error) {
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

var testUser = &models.User{ID: "u-1", Username: "mluukkai", FavoriteGenre: "refactoring"}
