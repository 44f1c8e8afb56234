// Package guard decide qué hacer con una ruta protegida según el estado de la sesión.
// No modifica la sesión: solo la lee.
package guard

import (
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/session"
	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/domain/entity"
)

// State estado observado de la sesión. Loading mientras CheckAuth no resolvió.
type State string

const (
	StateLoading         State = "loading"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// FromStatus traduce el estado de la sesión. Una sesión autenticándose cuenta como
// cargando.
func FromStatus(checked bool, st session.Status) State {
	switch {
	case !checked || st == session.StatusAuthenticating:
		return StateLoading
	case st == session.StatusAuthenticated:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// Outcome resultado de la decisión.
type Outcome int

const (
	Loading Outcome = iota
	RedirectLogin
	RedirectUnauthorized
	Render
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decision resultado más el destino de la redirección, si corresponde.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// Decide es pura. Sin roles requeridos alcanza con que el portal admita el rol.
func Decide(state State, role entity.Role, portal entity.Portal, required ...entity.Role) Decision {
	switch state {
	case StateLoading:
		return Decision{Outcome: Loading}
	case StateAuthenticated:
	default:
		return Decision{Outcome: RedirectLogin, Redirect: portal.LoginPath()}
	}

	if !portal.Allows(role) || (len(required) > 0 && !hasRole(role, required)) {
		return Decision{Outcome: RedirectUnauthorized, Redirect: portal.UnauthorizedPath()}
	}
	return Decision{Outcome: Render}
}

func hasRole(role entity.Role, required []entity.Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
