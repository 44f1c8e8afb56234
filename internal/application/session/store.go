// Package session mantiene la identidad del usuario autenticado y su ciclo de vida:
// reconstrucción desde la credencial persistida, login y logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/normalize"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/ports"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/pkg/logger"
)

// Status estado de la sesión.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticating  Status = "authenticating"
	StatusAuthenticated   Status = "authenticated"
)

// Credentials datos de login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CredentialStore credencial persistida (cookie en HTTP, memoria en tests).
type CredentialStore interface {
	Load() (string, bool)
	Save(token string)
	Clear()
}

// TeardownHook se ejecuta al cerrar sesión con el usuario saliente.
type TeardownHook func(ctx context.Context, tenant string, u entity.User)

// Manager comparte dependencias entre las sesiones de cada request y serializa los
// logins concurrentes de una misma cuenta.
type Manager struct {
	api     ports.FuelAPI
	decoder *TokenDecoder
	hooks   []TeardownHook
	metrics ports.Metrics
	log     *logger.Logger

	mu       sync.Mutex
	inflight map[string]bool
}

// NewManager construye el manager.
func NewManager(api ports.FuelAPI, decoder *TokenDecoder, metrics ports.Metrics, log *logger.Logger, hooks ...TeardownHook) *Manager {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Manager{
		api:      api,
		decoder:  decoder,
		hooks:    hooks,
		metrics:  metrics,
		log:      log.Component("session"),
		inflight: make(map[string]bool),
	}
}

// Store sesión de un request dentro de un portal y tenant.
type Store struct {
	m      *Manager
	portal entity.Portal
	tenant string
	creds  CredentialStore

	mu     sync.Mutex
	status Status
	user   *entity.User
	token  string
}

// New crea el store de una sesión; arranca sin autenticar.
func (m *Manager) New(portal entity.Portal, tenant string, creds CredentialStore) *Store {
	return &Store{m: m, portal: portal, tenant: tenant, creds: creds, status: StatusUnauthenticated}
}

// Status estado actual.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// User usuario autenticado o nil.
func (s *Store) User() *entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token credencial vigente ("" sin sesión).
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Portal portal de la sesión.
func (s *Store) Portal() entity.Portal { return s.portal }

// Tenant tenant de la sesión.
func (s *Store) Tenant() string { return s.tenant }

// CheckAuth reconstruye el usuario desde la credencial persistida. Credencial ausente,
// ilegible, vencida o con un rol que este portal no admite deja la sesión sin
// autenticar sin devolver error; la credencial no se toca.
func (s *Store) CheckAuth(ctx context.Context) Status {
	token, ok := s.creds.Load()
	if !ok || token == "" {
		return s.Status()
	}
	user, err := s.m.decoder.Decode(token)
	if err != nil {
		s.m.log.Debug().Err(err).Str("tenant", s.tenant).Msg("credencial persistida inválida")
		return s.Status()
	}
	if !s.portal.Allows(user.Role) {
		s.m.log.Debug().Str("role", string(user.Role)).Str("portal", string(s.portal)).
			Msg("sesión de otro portal, se ignora")
		return s.Status()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.token = token
	s.status = StatusAuthenticated
	return s.status
}

// Login autentica contra la API. Un segundo login de la misma cuenta mientras el
// primero está en curso se rechaza con domain.ErrLoginInProgress. La credencial solo
// se escribe si el login termina bien.
func (s *Store) Login(ctx context.Context, c Credentials) (*entity.User, error) {
	flightKey := s.tenant + "|" + string(s.portal) + "|" + strings.ToLower(strings.TrimSpace(c.Email))
	if !s.m.begin(flightKey) {
		return nil, domain.ErrLoginInProgress
	}
	defer s.m.end(flightKey)

	s.mu.Lock()
	if s.status == StatusAuthenticating {
		s.mu.Unlock()
		return nil, domain.ErrLoginInProgress
	}
	s.status = StatusAuthenticating
	s.mu.Unlock()

	user, token, err := s.authenticate(ctx, c)
	if err != nil {
		s.mu.Lock()
		s.status = StatusUnauthenticated
		s.user = nil
		s.token = ""
		s.mu.Unlock()
		s.m.metrics.Login(loginOutcome(err))
		s.m.log.Info().Err(err).Str("tenant", s.tenant).Str("portal", string(s.portal)).Msg("login rechazado")
		return nil, err
	}

	s.creds.Save(token)
	s.mu.Lock()
	s.user = user
	s.token = token
	s.status = StatusAuthenticated
	s.mu.Unlock()
	s.m.metrics.Login("ok")
	s.m.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Str("tenant", s.tenant).Msg("login correcto")

	u := *user
	return &u, nil
}

func (s *Store) authenticate(ctx context.Context, c Credentials) (*entity.User, string, error) {
	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	raw, err := s.m.api.Login(ctx, ports.LoginRequest{Email: strings.TrimSpace(c.Email), Password: c.Password})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}

	resp := normalize.NormalizeObjectResponse(raw)
	token, _ := resp["token"].(string)
	if token == "" {
		token, _ = resp["accessToken"].(string)
	}
	if token == "" {
		return nil, "", fmt.Errorf("login: respuesta sin token: %w", domain.ErrUpstream)
	}

	user, err := s.m.decoder.Decode(token)
	if err != nil {
		return nil, "", fmt.Errorf("login: token ilegible: %w", domain.ErrUpstream)
	}
	if extra, ok := resp["user"].(map[string]any); ok {
		// El rol y el alcance salen solo del token firmado.
		var shown entity.User
		if err := normalize.Decode(extra, &shown); err != nil {
			s.m.log.Warn().Err(err).Msg("usuario de la respuesta de login no decodificable")
		}
		if shown.Name != "" {
			user.Name = shown.Name
		}
		if shown.Email != "" {
			user.Email = shown.Email
		}
	}

	switch {
	case !user.Role.Valid():
		return nil, "", domain.ErrForbidden
	case s.portal == entity.PortalTenant && user.Role == entity.RoleSuperAdmin:
		return nil, "", domain.ErrUseAdminPanel
	case s.portal == entity.PortalAdmin && user.Role != entity.RoleSuperAdmin:
		return nil, "", domain.ErrUseTenantPortal
	}
	return user, token, nil
}

// Logout limpia usuario y credencial, ejecuta los hooks de cierre y devuelve la
// pantalla de login del portal.
func (s *Store) Logout(ctx context.Context) string {
	s.mu.Lock()
	user := s.user
	s.user = nil
	s.token = ""
	s.status = StatusUnauthenticated
	s.mu.Unlock()

	s.creds.Clear()
	if user != nil {
		for _, h := range s.m.hooks {
			h(ctx, s.tenant, *user)
		}
		s.m.log.Info().Int64("user_id", user.ID).Str("tenant", s.tenant).Msg("logout")
	}
	return s.portal.LoginPath()
}

func (m *Manager) begin(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inflight[key] {
		return false
	}
	m.inflight[key] = true
	return true
}

func (m *Manager) end(key string) {
	m.mu.Lock()
	delete(m.inflight, key)
	m.mu.Unlock()
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrUseAdminPanel), errors.Is(err, domain.ErrUseTenantPortal):
		return "wrong_portal"
	case errors.Is(err, domain.ErrLoginInProgress):
		return "in_progress"
	default:
		return "error"
	}
}
