package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[email], nil
}

func (m *memUserRepo) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func newAuthApp(t *testing.T) *fiber.App {
	t.Helper()
	uc := auth.NewAuthUseCase(&memUserRepo{users: map[string]*entity.User{}},
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}, nil).
		WithCost(bcrypt.MinCost)
	created, err := uc.EnsureAdmin(context.Background(), "admin@ledger.io", "password123")
	require.NoError(t, err)
	require.True(t, created)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{AuthUC: uc, LedgerUC: &stubLedger{}, JWTSecret: testJWTSecret})
	return app
}

func TestAuthHandler_LoginAndUseToken(t *testing.T) {
	app := newAuthApp(t)

	resp, body := call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "admin@ledger.io", Password: "password123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, entity.RoleAdmin, out.User.Role)

	_, role, err := pkgjwt.Parse(testJWTSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, role)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	app := newAuthApp(t)

	resp, _ := call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "admin@ledger.io", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "nadie@ledger.io", Password: "password123"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "no-es-email", Password: "password123"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAuthHandler_RegisterRequiresAdmin(t *testing.T) {
	app := newAuthApp(t)
	in := dto.RegisterRequest{Email: "ana@ledger.io", Password: "password123", Role: entity.RoleAnalyst}

	resp, _ := call(t, app, http.MethodPost, "/api/auth/register", "", in)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/register", entity.RoleAnalyst, in)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := call(t, app, http.MethodPost, "/api/auth/register", entity.RoleAdmin, in)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var u dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &u))
	assert.Equal(t, entity.RoleAnalyst, u.Role)

	resp, _ = call(t, app, http.MethodPost, "/api/auth/register", entity.RoleAdmin, in)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	in.Role = "superuser"
	in.Email = "otro@ledger.io"
	resp, _ = call(t, app, http.MethodPost, "/api/auth/register", entity.RoleAdmin, in)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
