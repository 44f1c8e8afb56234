package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/session"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/infrastructure/fuelapi"
	pkgjwt "github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/jwt"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testSecret = "test-secret-key-for-unit-tests"

// loginAPI implementa ports.FuelAPI solo para Login.
type loginAPI struct {
	ports.FuelAPI
	token   string
	user    map[string]any
	err     error
	gate    chan struct{}
	started chan struct{}
}

func (a *loginAPI) Login(ctx context.Context, req ports.LoginRequest) (any, error) {
	if a.gate != nil {
		close(a.started)
		<-a.gate
	}
	if a.err != nil {
		return nil, a.err
	}
	resp := map[string]any{"Token": a.token}
	if a.user != nil {
		resp["User"] = a.user
	}
	return map[string]any{"data": resp}, nil
}

func tokenFor(t *testing.T, role string, company int64, units ...int64) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testSecret, pkgjwt.Subject{
		UserID: 7, Name: "Ana", Email: "ana@acme.com", Role: role, CompanyID: company, BusinessUnitIDs: units,
	}, "test", 60)
	require.NoError(t, err)
	return tok
}

type hookCall struct {
	tenant string
	user   entity.User
}

func newManager(api ports.FuelAPI, calls *[]hookCall) *session.Manager {
	hook := func(ctx context.Context, tenant string, u entity.User) {
		*calls = append(*calls, hookCall{tenant, u})
	}
	return session.NewManager(api, session.NewTokenDecoder(testSecret), nil, logger.Nop(), hook)
}

// ──────────────────────────────────────────────────────────────────────────────
// CheckAuth
// ──────────────────────────────────────────────────────────────────────────────

func TestCheckAuth_SinCredencialQuedaSinAutenticar(t *testing.T) {
	var calls []hookCall
	s := newManager(&loginAPI{}, &calls).New(entity.PortalTenant, "acme", &session.MemoryCredentials{})
	assert.Equal(t, session.StatusUnauthenticated, s.CheckAuth(context.Background()))
	assert.Nil(t, s.User())
}

func TestCheckAuth_ReconstruyeUsuario(t *testing.T) {
	var calls []hookCall
	creds := &session.MemoryCredentials{}
	creds.Save(tokenFor(t, "Supervisor", 3, 5, 7))
	s := newManager(&loginAPI{}, &calls).New(entity.PortalTenant, "acme", creds)

	require.Equal(t, session.StatusAuthenticated, s.CheckAuth(context.Background()))
	u := s.User()
	require.NotNil(t, u)
	assert.Equal(t, int64(7), u.ID)
	assert.Equal(t, entity.RoleSupervisor, u.Role)
	assert.Equal(t, int64(3), u.CompanyID)
	assert.Equal(t, []int64{5, 7}, u.BusinessUnitIDs)
}

func TestCheckAuth_SuperAdminEnPortalTenantSilencioso(t *testing.T) {
	var calls []hookCall
	creds := &session.MemoryCredentials{}
	tok := tokenFor(t, "SuperAdmin", 0)
	creds.Save(tok)
	s := newManager(&loginAPI{}, &calls).New(entity.PortalTenant, "acme", creds)

	assert.Equal(t, session.StatusUnauthenticated, s.CheckAuth(context.Background()))
	stored, ok := creds.Load()
	assert.True(t, ok, "la credencial de otro portal no se borra")
	assert.Equal(t, tok, stored)
}

func TestCheckAuth_TokenVencidoOBasura(t *testing.T) {
	var calls []hookCall
	expired, err := pkgjwt.Generate(testSecret, pkgjwt.Subject{UserID: 1, Role: "admin", CompanyID: 3}, "test", -5)
	require.NoError(t, err)

	for _, tok := range []string{expired, "basura"} {
		creds := &session.MemoryCredentials{}
		creds.Save(tok)
		s := newManager(&loginAPI{}, &calls).New(entity.PortalTenant, "acme", creds)
		assert.Equal(t, session.StatusUnauthenticated, s.CheckAuth(context.Background()))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Correcto(t *testing.T) {
	var calls []hookCall
	creds := &session.MemoryCredentials{}
	api := &loginAPI{token: tokenFor(t, "Admin", 3), user: map[string]any{"Name": "Ana Pérez"}}
	s := newManager(api, &calls).New(entity.PortalTenant, "acme", creds)

	u, err := s.Login(context.Background(), session.Credentials{Email: "ana@acme.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", u.Name)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Equal(t, session.StatusAuthenticated, s.Status())
	assert.Equal(t, 1, creds.Saves())
	assert.Equal(t, api.token, s.Token())
}

func TestLogin_UsuarioDeLaRespuestaNoPisaElToken(t *testing.T) {
	var calls []hookCall
	api := &loginAPI{
		token: tokenFor(t, "Admin", 3, 5),
		user: map[string]any{
			"Name":            "Ana Pérez",
			"Email":           "ana.perez@acme.com",
			"Role":            "SuperAdmin",
			"CompanyId":       4,
			"BusinessUnitIds": []any{9},
		},
	}
	s := newManager(api, &calls).New(entity.PortalTenant, "acme", &session.MemoryCredentials{})

	u, err := s.Login(context.Background(), session.Credentials{Email: "ana@acme.com", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", u.Name)
	assert.Equal(t, "ana.perez@acme.com", u.Email)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.Equal(t, int64(3), u.CompanyID)
	assert.Equal(t, []int64{5}, u.BusinessUnitIDs)
}

func TestLogin_SuperAdminEnPortalTenantRechazado(t *testing.T) {
	var calls []hookCall
	creds := &session.MemoryCredentials{}
	api := &loginAPI{token: tokenFor(t, "SuperAdmin", 0)}
	s := newManager(api, &calls).New(entity.PortalTenant, "acme", creds)

	_, err := s.Login(context.Background(), session.Credentials{Email: "root@x.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUseAdminPanel)
	assert.Equal(t, session.StatusUnauthenticated, s.Status())
	assert.Zero(t, creds.Saves(), "la credencial no se escribe")
}

func TestLogin_AdminEnPanelRechazado(t *testing.T) {
	var calls []hookCall
	api := &loginAPI{token: tokenFor(t, "Admin", 3)}
	s := newManager(api, &calls).New(entity.PortalAdmin, "acme", &session.MemoryCredentials{})

	_, err := s.Login(context.Background(), session.Credentials{Email: "a@x.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUseTenantPortal)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	var calls []hookCall
	api := &loginAPI{err: &fuelapi.APIError{Status: 401, Message: "usuario o clave incorrectos"}}
	s := newManager(api, &calls).New(entity.PortalTenant, "acme", &session.MemoryCredentials{})

	_, err := s.Login(context.Background(), session.Credentials{Email: "a@x.com", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), session.Credentials{Email: "", Password: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_FallaDeLaAPINoEsCredencialInvalida(t *testing.T) {
	var calls []hookCall
	api := &loginAPI{err: errors.New("connection refused")}
	s := newManager(api, &calls).New(entity.PortalTenant, "acme", &session.MemoryCredentials{})

	_, err := s.Login(context.Background(), session.Credentials{Email: "a@x.com", Password: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_ConcurrenteSeRechaza(t *testing.T) {
	var calls []hookCall
	api := &loginAPI{token: tokenFor(t, "Admin", 3), gate: make(chan struct{}), started: make(chan struct{})}
	m := newManager(api, &calls)
	first := m.New(entity.PortalTenant, "acme", &session.MemoryCredentials{})
	second := m.New(entity.PortalTenant, "acme", &session.MemoryCredentials{})
	creds := session.Credentials{Email: "Ana@acme.com", Password: "x"}

	done := make(chan error, 1)
	go func() {
		_, err := first.Login(context.Background(), creds)
		done <- err
	}()
	<-api.started

	_, err := second.Login(context.Background(), session.Credentials{Email: "ana@acme.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrLoginInProgress)

	close(api.gate)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("el primer login no terminó")
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Logout
// ──────────────────────────────────────────────────────────────────────────────

func TestLogout_LimpiaYEjecutaHooks(t *testing.T) {
	var calls []hookCall
	creds := &session.MemoryCredentials{}
	creds.Save(tokenFor(t, "Operator", 3, 9))
	s := newManager(&loginAPI{}, &calls).New(entity.PortalTenant, "acme", creds)
	require.Equal(t, session.StatusAuthenticated, s.CheckAuth(context.Background()))

	path := s.Logout(context.Background())
	assert.Equal(t, "/login", path)
	assert.Equal(t, session.StatusUnauthenticated, s.Status())
	assert.Nil(t, s.User())
	_, ok := creds.Load()
	assert.False(t, ok)

	require.Len(t, calls, 1)
	assert.Equal(t, "acme", calls[0].tenant)
	assert.Equal(t, int64(3), calls[0].user.CompanyID)
}

func TestLogout_PanelVuelveAlLoginDelPanel(t *testing.T) {
	var calls []hookCall
	s := newManager(&loginAPI{}, &calls).New(entity.PortalAdmin, "acme", &session.MemoryCredentials{})
	assert.Equal(t, "/admin/login", s.Logout(context.Background()))
	assert.Empty(t, calls, "sin usuario no hay hooks")
}
